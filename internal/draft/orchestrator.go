// Package draft turns a short idea into a generated outreach message and
// drives the busy/success/error cycle of the UI that asked for it.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/contact-draft/internal/backoff"
	"github.com/ziadkadry99/contact-draft/internal/llm"
)

// Fetcher delivers a request with retry. *backoff.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, req backoff.Request) (*http.Response, error)
}

// Endpoint identifies the generation endpoint. APIKey is appended to the
// request URL and never logged.
type Endpoint struct {
	BaseURL string
	Model   string
	APIKey  string
}

// Orchestrator runs one draft request at a time. It is not safe for
// concurrent use; hosts must keep the trigger disabled while Loading.
type Orchestrator struct {
	fetcher   Fetcher
	url       string
	model     string
	ui        UI
	recipient string
	plainText bool
	timeout   time.Duration
	onStatus  func(Status)
	logger    *zap.Logger
	status    Status
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecipient sets who the drafts are addressed to.
func WithRecipient(name string) Option {
	return func(o *Orchestrator) { o.recipient = name }
}

// WithPlainText strips Markdown from generated drafts.
func WithPlainText(enabled bool) Option {
	return func(o *Orchestrator) { o.plainText = enabled }
}

// WithTimeout bounds a whole Generate call, retries included. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.timeout = d }
}

// WithStatusListener registers fn to observe every status transition.
func WithStatusListener(fn func(Status)) Option {
	return func(o *Orchestrator) { o.onStatus = fn }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an Orchestrator that sends requests through fetcher.
func New(fetcher Fetcher, endpoint Endpoint, ui UI, opts ...Option) (*Orchestrator, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if ui.Output == nil {
		return nil, fmt.Errorf("output sink is required")
	}
	if ui.Busy == nil {
		return nil, fmt.Errorf("busy indicator is required")
	}
	if ui.Notifier == nil {
		return nil, fmt.Errorf("notifier is required")
	}

	url, err := llm.GenerateContentURL(endpoint.BaseURL, endpoint.Model, endpoint.APIKey)
	if err != nil {
		return nil, err
	}

	o := &Orchestrator{
		fetcher:   fetcher,
		url:       url,
		model:     endpoint.Model,
		ui:        ui,
		recipient: DefaultRecipient,
		logger:    zap.NewNop(),
		status:    StatusIdle,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Status returns the current state.
func (o *Orchestrator) Status() Status { return o.status }

// GenerateFromInput reads the idea from the UI's InputSource and generates a draft.
func (o *Orchestrator) GenerateFromInput(ctx context.Context) error {
	if o.ui.Input == nil {
		return fmt.Errorf("no input source configured")
	}
	return o.Generate(ctx, o.ui.Input.Idea())
}

// Generate produces a draft for idea and reports the outcome to the UI.
// The returned error is ErrEmptyInput, ErrEmptyResult, a *backoff.TransportError
// or a decoding error; the UI has already been notified in every case.
func (o *Orchestrator) Generate(ctx context.Context, idea string) error {
	if strings.TrimSpace(idea) == "" {
		o.ui.Notifier.NotifyError(MsgEmptyInput)
		return ErrEmptyInput
	}

	o.setStatus(StatusLoading)
	o.ui.Busy.ShowBusy()
	defer o.ui.Busy.HideBusy()
	defer func() {
		if r := recover(); r != nil {
			o.ui.Output.SetOutput("")
			o.setStatus(StatusFailed)
			panic(r)
		}
	}()
	o.ui.Output.SetOutput(PlaceholderText)

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	text, err := o.request(ctx, BuildRequest(idea, o.recipient))
	if err != nil {
		o.logger.Error("generating draft", zap.Error(err))
		o.ui.Output.SetOutput("")
		o.setStatus(StatusFailed)
		o.ui.Notifier.NotifyError(FailureMessage(err))
		return err
	}

	if text == "" {
		o.logger.Warn("generation returned no draft text")
		o.ui.Output.SetOutput("")
		o.setStatus(StatusFailed)
		o.ui.Notifier.NotifyError(MsgEmptyResult)
		return ErrEmptyResult
	}

	o.ui.Output.SetOutput(text)
	o.setStatus(StatusSucceeded)
	return nil
}

func (o *Orchestrator) request(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(llm.NewGeminiRequest(req.SystemInstruction, req.UserMessage))
	if err != nil {
		return "", fmt.Errorf("failed to marshal gemini request: %w", err)
	}

	start := time.Now()
	resp, err := o.fetcher.Fetch(ctx, backoff.Request{
		Method: http.MethodPost,
		URL:    o.url,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   body,
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	result, err := llm.DecodeGeminiResponse(resp.Body)
	if err != nil {
		return "", err
	}

	text := result.Text()
	o.logUsage(result, req, text, time.Since(start))

	if o.plainText && text != "" {
		text = PlainText(text)
	}
	return text, nil
}

func (o *Orchestrator) logUsage(result *llm.GeminiResponse, req Request, text string, elapsed time.Duration) {
	in, out := result.Usage()
	if in == 0 && out == 0 {
		in = llm.EstimateTokens(req.SystemInstruction + req.UserMessage)
		out = llm.EstimateTokens(text)
	}
	o.logger.Debug("draft generated",
		zap.String("model", o.model),
		zap.Int("input_tokens", in),
		zap.Int("output_tokens", out),
		zap.Float64("estimated_cost_usd", llm.EstimateCost(o.model, in, out)),
		zap.Duration("elapsed", elapsed),
	)
}

func (o *Orchestrator) setStatus(s Status) {
	o.status = s
	if o.onStatus != nil {
		o.onStatus(s)
	}
}

// Factory builds Orchestrators that share a fetcher and endpoint. Hosts that
// serve several callers create one Orchestrator per request from it.
type Factory struct {
	Fetcher  Fetcher
	Endpoint Endpoint
	Options  []Option
}

// New creates an Orchestrator reporting to ui. opts are applied after the
// factory's own options.
func (f Factory) New(ui UI, opts ...Option) (*Orchestrator, error) {
	all := make([]Option, 0, len(f.Options)+len(opts))
	all = append(all, f.Options...)
	all = append(all, opts...)
	return New(f.Fetcher, f.Endpoint, ui, all...)
}
