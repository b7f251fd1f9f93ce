package draft

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildRequest(t *testing.T) {
	req := BuildRequest("Looking to hire a backend engineer", "")

	assert.Equal(t, UserTurn, req.UserMessage)
	assert.True(t, strings.HasPrefix(req.SystemInstruction, `You are a helpful assistant writing on behalf of a person`))
	assert.Contains(t, req.SystemInstruction, `contact "Dinusara Nethmal", a professional developer.`)
	assert.Contains(t, req.SystemInstruction, `The user's core idea for the message is: "Looking to hire a backend engineer".`)
	assert.Contains(t, req.SystemInstruction, "(around 3-4 sentences)")
	assert.Contains(t, req.SystemInstruction, `"Hello Dinusara,"`)
	assert.Contains(t, req.SystemInstruction, "Do NOT use markdown")
}

func TestBuildRequestIsFreshPerIdea(t *testing.T) {
	a := BuildRequest("idea one", "")
	b := BuildRequest("idea two", "")
	assert.NotEqual(t, a.SystemInstruction, b.SystemInstruction)
	assert.Equal(t, a.UserMessage, b.UserMessage)
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Ada", firstName("Ada Lovelace"))
	assert.Equal(t, "Cher", firstName("Cher"))
}

func TestCaptureRecordsCalls(t *testing.T) {
	c := &Capture{}
	assert.Empty(t, c.LastError())

	c.ShowBusy()
	assert.True(t, c.Busy)
	c.SetOutput("a")
	c.SetOutput("b")
	c.NotifyError("oops")
	c.HideBusy()

	assert.False(t, c.Busy)
	assert.Equal(t, "b", c.Output)
	assert.Equal(t, []string{"a", "b"}, c.Outputs)
	assert.Equal(t, "oops", c.LastError())
	assert.Equal(t, 1, c.ShowCount)
	assert.Equal(t, 1, c.HideCount)
}

func TestFuncAdapters(t *testing.T) {
	var out, msg string
	OutputFunc(func(s string) { out = s }).SetOutput("draft")
	NotifierFunc(func(s string) { msg = s }).NotifyError("err")
	NoopBusy{}.ShowBusy()
	NoopBusy{}.HideBusy()

	assert.Equal(t, "draft", out)
	assert.Equal(t, "err", msg)
	assert.Equal(t, "idea", StaticInput("idea").Idea())
}
