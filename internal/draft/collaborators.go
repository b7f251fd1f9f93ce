package draft

// InputSource provides the user's idea.
type InputSource interface {
	Idea() string
}

// OutputSink receives the placeholder, the generated draft, or "" on failure.
type OutputSink interface {
	SetOutput(text string)
}

// BusyIndicator shows progress while a draft is generated. ShowBusy hides the
// trigger label, shows a spinner and disables the trigger; HideBusy reverts all three.
type BusyIndicator interface {
	ShowBusy()
	HideBusy()
}

// Notifier displays an error message until the user dismisses it.
type Notifier interface {
	NotifyError(message string)
}

// UI bundles the collaborators an Orchestrator reports to.
// Input is optional; the others are required.
type UI struct {
	Input    InputSource
	Output   OutputSink
	Busy     BusyIndicator
	Notifier Notifier
}

// StaticInput is an InputSource with a fixed idea.
type StaticInput string

func (s StaticInput) Idea() string { return string(s) }

// OutputFunc adapts a function to OutputSink.
type OutputFunc func(text string)

func (f OutputFunc) SetOutput(text string) { f(text) }

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) NotifyError(message string) { f(message) }

// NoopBusy ignores busy transitions.
type NoopBusy struct{}

func (NoopBusy) ShowBusy() {}
func (NoopBusy) HideBusy() {}

// Capture records everything an Orchestrator reports. It serves as the UI for
// hosts that answer with a single value, such as the JSON API and MCP tool.
type Capture struct {
	Output    string
	Outputs   []string
	Errors    []string
	Busy      bool
	ShowCount int
	HideCount int
}

func (c *Capture) SetOutput(text string) {
	c.Output = text
	c.Outputs = append(c.Outputs, text)
}

func (c *Capture) ShowBusy() {
	c.Busy = true
	c.ShowCount++
}

func (c *Capture) HideBusy() {
	c.Busy = false
	c.HideCount++
}

func (c *Capture) NotifyError(message string) {
	c.Errors = append(c.Errors, message)
}

// LastError returns the most recent notification, or "".
func (c *Capture) LastError() string {
	if len(c.Errors) == 0 {
		return ""
	}
	return c.Errors[len(c.Errors)-1]
}

// UI returns a UI that reports everything to c.
func (c *Capture) UI() UI {
	return UI{Output: c, Busy: c, Notifier: c}
}
