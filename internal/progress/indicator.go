package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/ziadkadry99/contact-draft/internal/draft"
)

// spinnerTick is how often the terminal spinner advances.
const spinnerTick = 120 * time.Millisecond

var (
	_ draft.BusyIndicator = (*TerminalIndicator)(nil)
	_ draft.BusyIndicator = (*CIIndicator)(nil)
)

// NewIndicator returns a TerminalIndicator if running in an interactive
// terminal, or a CIIndicator if the CI environment variable is set.
func NewIndicator(w io.Writer) draft.BusyIndicator {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return NewCIIndicator(w)
	}
	return NewTerminalIndicator(w)
}

// TerminalIndicator shows a spinner while a draft is being generated.
type TerminalIndicator struct {
	w       io.Writer
	message string

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	stop chan struct{}
	done chan struct{}
}

// NewTerminalIndicator creates a spinner that writes to w.
func NewTerminalIndicator(w io.Writer) *TerminalIndicator {
	return &TerminalIndicator{w: w, message: draft.PlaceholderText}
}

func (r *TerminalIndicator) ShowBusy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		return
	}

	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(r.message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.spin(r.bar, r.stop, r.done)
}

func (r *TerminalIndicator) spin(bar *progressbar.ProgressBar, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(spinnerTick)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			_ = bar.Add(1)
		}
	}
}

func (r *TerminalIndicator) HideBusy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		return
	}

	close(r.stop)
	<-r.done
	_ = r.bar.Finish()
	r.bar = nil
}

// Active reports whether the spinner is currently shown.
func (r *TerminalIndicator) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bar != nil
}

// CIIndicator prints line-by-line status suitable for CI logs.
type CIIndicator struct {
	w       io.Writer
	message string
	now     func() time.Time

	mu      sync.Mutex
	started time.Time
	active  bool
}

// NewCIIndicator creates a line-based indicator that writes to w.
func NewCIIndicator(w io.Writer) *CIIndicator {
	return &CIIndicator{w: w, message: draft.PlaceholderText, now: time.Now}
}

func (r *CIIndicator) ShowBusy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active {
		return
	}
	r.active = true
	r.started = r.now()
	fmt.Fprintln(r.w, r.message)
}

func (r *CIIndicator) HideBusy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.active {
		return
	}
	r.active = false
	fmt.Fprintf(r.w, "Draft request finished in %s\n", r.now().Sub(r.started).Round(time.Millisecond))
}
