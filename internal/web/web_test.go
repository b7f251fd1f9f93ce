package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/contact-draft/internal/backoff"
	"github.com/ziadkadry99/contact-draft/internal/draft"
	"github.com/ziadkadry99/contact-draft/internal/llm"
)

const scenarioDraft = "Hello Dinusara, I'm reaching out..."

func noSleep(ctx context.Context, d time.Duration) error { return ctx.Err() }

func geminiReply(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	resp := llm.GeminiResponse{
		Candidates: []llm.GeminiCandidate{{
			Content: &llm.GeminiContent{Parts: []llm.GeminiPart{{Text: text}}},
		}},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// setupTest starts a fake generation endpoint served by h and returns a
// router with the draft routes mounted plus a counter of endpoint hits.
func setupTest(t *testing.T, h http.HandlerFunc, opts ...Option) (chi.Router, *atomic.Int32) {
	t.Helper()

	hits := &atomic.Int32{}
	gemini := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(gemini.Close)

	factory := draft.Factory{
		Fetcher:  backoff.New(gemini.Client(), backoff.WithSleeper(noSleep)),
		Endpoint: draft.Endpoint{BaseURL: gemini.URL, Model: "test-model", APIKey: "test-key"},
	}

	r := chi.NewRouter()
	New(factory, opts...).RegisterRoutes(r)
	return r, hits
}

func postDraft(t *testing.T, r http.Handler, body string) (*httptest.ResponseRecorder, draftResponse) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/drafts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp draftResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestCreateDraftSuccess(t *testing.T) {
	r, hits := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(w, scenarioDraft)
	})

	w, resp := postDraft(t, r, `{"idea":"Looking to hire a backend engineer"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, scenarioDraft, resp.Draft)
	assert.Equal(t, draft.StatusSucceeded, resp.Status)
	assert.Empty(t, resp.Error)
	_, err := uuid.Parse(resp.ID)
	assert.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())
}

func TestCreateDraftBlankIdea(t *testing.T) {
	r, hits := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(w, scenarioDraft)
	})

	w, resp := postDraft(t, r, `{"idea":"   "}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, draft.MsgEmptyInput, resp.Error)
	assert.Equal(t, draft.StatusIdle, resp.Status)
	assert.Zero(t, hits.Load())
}

func TestCreateDraftInvalidBody(t *testing.T) {
	r, hits := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(w, scenarioDraft)
	})

	w, resp := postDraft(t, r, `{"idea":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", resp.Error)
	assert.Zero(t, hits.Load())
}

func TestCreateDraftEmptyResult(t *testing.T) {
	r, _ := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	})

	w, resp := postDraft(t, r, `{"idea":"Ask about the conference"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, draft.MsgEmptyResult, resp.Error)
	assert.Equal(t, draft.StatusFailed, resp.Status)
	assert.Empty(t, resp.Draft)
}

func TestCreateDraftClientError(t *testing.T) {
	r, hits := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	w, resp := postDraft(t, r, `{"idea":"Ask about the conference"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, draft.StatusFailed, resp.Status)
	assert.True(t, strings.HasPrefix(resp.Error, "An error occurred: Client Error: 404"), resp.Error)
	assert.True(t, strings.HasSuffix(resp.Error, ". Please check your connection and try again."), resp.Error)
	assert.NotContains(t, resp.Error, "test-key")
	assert.EqualValues(t, 1, hits.Load())
}

func TestCreateDraftServerErrorRetries(t *testing.T) {
	r, hits := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})

	w, resp := postDraft(t, r, `{"idea":"Ask about the conference"}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, resp.Error, "Server Error: 503")
	assert.EqualValues(t, 4, hits.Load())
}

func TestCreateDraftTimeout(t *testing.T) {
	r, _ := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		geminiReply(w, scenarioDraft)
	}, WithAPITimeout(50*time.Millisecond))

	w, _ := postDraft(t, r, `{"idea":"Ask about the conference"}`)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

// dialSocket serves r over a real listener and connects to the draft socket.
func dialSocket(t *testing.T, r http.Handler) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/drafts"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

// dialWithOrigin connects to the draft socket presenting origin.
func dialWithOrigin(t *testing.T, r http.Handler, origin string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/drafts"
	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{origin}})
	if conn != nil {
		t.Cleanup(func() { conn.Close() })
	}
	return conn, resp, err
}

func readFrames(t *testing.T, conn *websocket.Conn, n int) []serverFrame {
	t.Helper()
	frames := make([]serverFrame, 0, n)
	for i := 0; i < n; i++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var f serverFrame
		require.NoError(t, conn.ReadJSON(&f))
		frames = append(frames, f)
	}
	return frames
}

// summarize flattens frames into "type:content" strings for comparison.
func summarize(frames []serverFrame) []string {
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		if f.Type == frameBusy {
			if f.Busy != nil && *f.Busy {
				out = append(out, "busy:true")
			} else {
				out = append(out, "busy:false")
			}
			continue
		}
		out = append(out, f.Type+":"+f.Content)
	}
	return out
}

func TestWebSocketGenerateSuccess(t *testing.T) {
	r, _ := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(w, scenarioDraft)
	})
	conn := dialSocket(t, r)

	require.NoError(t, conn.WriteJSON(clientFrame{Type: "generate", ID: "req-1", Content: "Looking to hire a backend engineer"}))
	frames := readFrames(t, conn, 6)

	assert.Equal(t, []string{
		"status:loading",
		"busy:true",
		"output:" + draft.PlaceholderText,
		"output:" + scenarioDraft,
		"status:succeeded",
		"busy:false",
	}, summarize(frames))
	for _, f := range frames {
		assert.Equal(t, "req-1", f.ID)
	}
}

func TestWebSocketGenerateFailure(t *testing.T) {
	r, _ := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})
	conn := dialSocket(t, r)

	require.NoError(t, conn.WriteJSON(clientFrame{Type: "generate", Content: "Ask about the conference"}))
	frames := readFrames(t, conn, 7)
	got := summarize(frames)

	assert.Equal(t, "status:loading", got[0])
	assert.Equal(t, "busy:true", got[1])
	assert.Equal(t, "output:"+draft.PlaceholderText, got[2])
	assert.Equal(t, "output:", got[3])
	assert.Equal(t, "status:failed", got[4])
	assert.True(t, strings.HasPrefix(got[5], "error:An error occurred: Client Error: 400"), got[5])
	assert.Equal(t, "busy:false", got[6])

	_, err := uuid.Parse(frames[0].ID)
	assert.NoError(t, err)
}

func TestWebSocketBlankIdea(t *testing.T) {
	r, hits := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(w, scenarioDraft)
	})
	conn := dialSocket(t, r)

	require.NoError(t, conn.WriteJSON(clientFrame{Type: "generate", ID: "blank", Content: "  "}))
	frames := readFrames(t, conn, 1)

	assert.Equal(t, []string{"error:" + draft.MsgEmptyInput}, summarize(frames))
	assert.Zero(t, hits.Load())
}

func TestWebSocketRejectsBadFrames(t *testing.T) {
	r, _ := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(w, scenarioDraft)
	})
	conn := dialSocket(t, r)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(clientFrame{Type: "chat", ID: "x", Content: "hi"}))
	frames := readFrames(t, conn, 2)

	assert.Equal(t, []string{
		"error:invalid message format",
		"error:unknown message type: chat",
	}, summarize(frames))
	assert.Equal(t, "x", frames[1].ID)
}

func TestWebSocketSequentialRequests(t *testing.T) {
	var n atomic.Int32
	r, _ := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		if n.Add(1) == 1 {
			geminiReply(w, "first")
			return
		}
		geminiReply(w, "second")
	})
	conn := dialSocket(t, r)

	require.NoError(t, conn.WriteJSON(clientFrame{Type: "generate", ID: "a", Content: "one"}))
	require.NoError(t, conn.WriteJSON(clientFrame{Type: "generate", ID: "b", Content: "two"}))
	got := summarize(readFrames(t, conn, 12))

	assert.Equal(t, "output:first", got[3])
	assert.Equal(t, "busy:false", got[5])
	assert.Equal(t, "status:loading", got[6])
	assert.Equal(t, "output:second", got[9])
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	r, hits := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(w, scenarioDraft)
	}, WithAllowedOrigins([]string{"http://localhost:*"}))

	_, resp, err := dialWithOrigin(t, r, "https://evil.example")
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, hits.Load())

	conn, _, err := dialWithOrigin(t, r, "http://localhost:3000")
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(clientFrame{Type: "generate", Content: "Coffee chat"}))
	frames := readFrames(t, conn, 6)
	assert.Equal(t, "output:"+scenarioDraft, summarize(frames)[3])
}

func TestWebSocketDefaultsToSameOrigin(t *testing.T) {
	r, _ := setupTest(t, func(w http.ResponseWriter, r *http.Request) {
		geminiReply(w, scenarioDraft)
	})

	_, resp, err := dialWithOrigin(t, r, "https://evil.example")
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestOriginChecker(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		origin   string
		want     bool
	}{
		{"no origin header", []string{"https://app.example"}, "", true},
		{"exact", []string{"https://app.example"}, "https://app.example", true},
		{"exact is case-insensitive", []string{"https://App.Example"}, "HTTPS://app.example", true},
		{"exact mismatch", []string{"https://app.example"}, "https://app.example.evil", false},
		{"port wildcard", []string{"http://localhost:*"}, "http://localhost:5173", true},
		{"port wildcard other host", []string{"http://localhost:*"}, "http://localhost.evil:80", false},
		{"subdomain wildcard", []string{"https://*.example.com"}, "https://api.example.com", true},
		{"subdomain wildcard bare domain", []string{"https://*.example.com"}, "https://example.com", false},
		{"allow all", []string{"https://app.example", "*"}, "https://anything.example", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ws/drafts", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originChecker(tt.patterns)(req))
		})
	}
}
