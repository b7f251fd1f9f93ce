package draft

import "fmt"

// DefaultRecipient is the person the drafted messages are addressed to.
const DefaultRecipient = "Dinusara Nethmal"

// UserTurn is the fixed user message sent alongside the system instruction.
const UserTurn = "Please generate the message draft."

const systemTemplate = `You are a helpful assistant writing on behalf of a person (a potential client or recruiter) who wants to contact "%[1]s", a professional developer.
The user's core idea for the message is: "%[2]s".
Based on this idea, write a concise, professional, and friendly message draft (around 3-4 sentences) that the user can send in this contact form.
- Start with a polite greeting (e.g., "Hello %[3]s,").
- Clearly state the purpose of the message based on the user's idea.
- End with a professional closing (e.g., "Best regards," or "I look forward to hearing from you,").
- Do NOT use markdown or any special formatting. Just plain text.`

// Request is the generation request for one draft. Build it with BuildRequest.
type Request struct {
	SystemInstruction string
	UserMessage       string
}

// BuildRequest interpolates idea into the instruction template for recipient.
// An empty recipient falls back to DefaultRecipient.
func BuildRequest(idea, recipient string) Request {
	if recipient == "" {
		recipient = DefaultRecipient
	}
	return Request{
		SystemInstruction: fmt.Sprintf(systemTemplate, recipient, idea, firstName(recipient)),
		UserMessage:       UserTurn,
	}
}

func firstName(name string) string {
	for i, r := range name {
		if r == ' ' {
			return name[:i]
		}
	}
	return name
}
