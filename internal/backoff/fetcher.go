package backoff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// maxErrorBody caps how much of a failed response is kept for diagnostics.
const maxErrorBody = 4 << 10

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Sleeper suspends the caller for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Request describes an HTTP request that can be sent more than once.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Fetcher sends requests and retries transient failures.
// It is safe for concurrent use.
type Fetcher struct {
	client Doer
	policy Policy
	sleep  Sleeper
	logger *zap.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithPolicy sets the policy used by Fetch.
func WithPolicy(p Policy) Option {
	return func(f *Fetcher) { f.policy = p }
}

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithSleeper replaces the timer-based wait between attempts.
func WithSleeper(s Sleeper) Option {
	return func(f *Fetcher) {
		if s != nil {
			f.sleep = s
		}
	}
}

// New creates a Fetcher. A nil client falls back to http.DefaultClient.
func New(client Doer, opts ...Option) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &Fetcher{
		client: client,
		policy: DefaultPolicy(),
		sleep:  SleepWithContext,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Policy returns the policy used by Fetch.
func (f *Fetcher) Policy() Policy { return f.policy }

// Fetch sends req under the fetcher's policy.
func (f *Fetcher) Fetch(ctx context.Context, req Request) (*http.Response, error) {
	return f.FetchWithPolicy(ctx, req, f.policy)
}

// FetchWithPolicy sends req, retrying network errors and 5xx responses while
// the retry budget lasts. 4xx responses fail immediately. On success the
// caller owns the response body. On failure the error is a *TransportError.
func (f *Fetcher) FetchWithPolicy(ctx context.Context, req Request, p Policy) (*http.Response, error) {
	state := newRetryState(p)

	for attempt := 1; ; attempt++ {
		resp, terr := f.attempt(ctx, req)
		if terr == nil {
			if attempt > 1 {
				f.logger.Debug("request succeeded after retry",
					zap.String("url", redactURL(req.URL)),
					zap.Int("attempts", attempt),
				)
			}
			return resp, nil
		}
		terr.Attempts = attempt

		if !terr.Retryable() || state.AttemptsRemaining == 0 {
			return nil, terr
		}

		wait := p.wait(state)
		f.logger.Info("retrying request",
			zap.String("url", redactURL(req.URL)),
			zap.Int("attempts_left", state.AttemptsRemaining),
			zap.Duration("delay", wait),
			zap.String("kind", terr.Kind.String()),
			zap.Error(terr),
		)

		if err := f.sleep(ctx, wait); err != nil {
			return nil, &TransportError{Kind: KindCanceled, Attempts: attempt, Err: err}
		}
		state = state.next()
	}
}

// attempt performs one request. A nil error means resp is a non-error response.
func (f *Fetcher) attempt(ctx context.Context, req Request) (*http.Response, *TransportError) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		// A malformed request will not improve on retry.
		return nil, &TransportError{Kind: KindClient, Err: fmt.Errorf("building request: %w", err)}
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactURL(urlErr.URL)
		}
		if ctx.Err() != nil {
			return nil, &TransportError{Kind: KindCanceled, Err: err}
		}
		return nil, &TransportError{Kind: KindNetwork, Err: err}
	}

	kind, ok := classify(resp.StatusCode)
	if ok {
		return resp, nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	resp.Body.Close()

	return nil, &TransportError{
		Kind:       kind,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       snippet,
	}
}

// redactURL drops credentials carried in the query string before logging.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	q := u.Query()
	if q.Has("key") {
		q.Set("key", "REDACTED")
		u.RawQuery = q.Encode()
	}
	return u.String()
}
