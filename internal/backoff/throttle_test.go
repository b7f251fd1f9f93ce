package backoff

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottleDisabledReturnsNext(t *testing.T) {
	doer := &fakeDoer{}
	assert.Same(t, doer, NewThrottle(doer, 0))
}

func TestThrottlePassesThrough(t *testing.T) {
	doer := &fakeDoer{}
	th := NewThrottle(doer, 60)

	req, err := http.NewRequest(http.MethodGet, "https://example.test", nil)
	require.NoError(t, err)

	resp, err := th.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 1, doer.Calls())
}

func TestThrottleLimitsRequests(t *testing.T) {
	doer := &fakeDoer{}
	// Allow only 2 requests per minute.
	th := NewThrottle(doer, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://example.test", nil)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		resp, err := th.Do(req)
		require.NoError(t, err, "request %d", i)
		resp.Body.Close()
	}

	// Third should block and eventually fail due to context timeout.
	_, err = th.Do(req)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 2, doer.Calls())
}
