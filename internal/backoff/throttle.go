package backoff

import (
	"net/http"
	"sync"
	"time"
)

// Throttle wraps a Doer with a token bucket that allows at most rpm requests
// per minute. Every retry attempt consumes a token.
type Throttle struct {
	next     Doer
	rpm      int
	mu       sync.Mutex
	tokens   int
	lastFill time.Time
}

// NewThrottle wraps next with a limiter. rpm <= 0 returns next unchanged.
func NewThrottle(next Doer, rpm int) Doer {
	if rpm <= 0 {
		return next
	}
	return &Throttle{
		next:     next,
		rpm:      rpm,
		tokens:   rpm,
		lastFill: time.Now(),
	}
}

func (t *Throttle) Do(req *http.Request) (*http.Response, error) {
	if err := t.wait(req); err != nil {
		return nil, err
	}
	return t.next.Do(req)
}

func (t *Throttle) wait(req *http.Request) error {
	ctx := req.Context()
	for {
		t.mu.Lock()
		now := time.Now()
		elapsed := now.Sub(t.lastFill)

		// Refill tokens based on elapsed time.
		refill := int(elapsed.Seconds() * float64(t.rpm) / 60.0)
		if refill > 0 {
			t.tokens += refill
			if t.tokens > t.rpm {
				t.tokens = t.rpm
			}
			t.lastFill = now
		}

		if t.tokens > 0 {
			t.tokens--
			t.mu.Unlock()
			return nil
		}
		t.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}
}
