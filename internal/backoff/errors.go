package backoff

import (
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failed attempt.
type Kind int

const (
	// KindNetwork is a connection-level failure. Retryable.
	KindNetwork Kind = iota
	// KindServer is a 5xx response. Retryable.
	KindServer
	// KindClient is a 4xx response. Never retried.
	KindClient
	// KindCanceled means the caller's context ended. Never retried.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindClient:
		return "client"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// TransportError is returned by Fetch when no successful response could be
// obtained. Attempts counts every request that was sent.
type TransportError struct {
	Kind       Kind
	StatusCode int
	Status     string
	Attempts   int
	// Body holds the start of the error response, if any.
	Body []byte
	Err  error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		if e.Err != nil {
			return e.Err.Error()
		}
		return e.Kind.String() + " error"
	}
	if e.Kind == KindClient {
		return "Client Error: " + e.statusLine()
	}
	return "Server Error: " + e.statusLine()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Retryable reports whether another attempt may succeed.
func (e *TransportError) Retryable() bool {
	return e.Kind == KindNetwork || e.Kind == KindServer
}

// statusLine renders "503 Service Unavailable" whether Status came from a real
// response ("503 Service Unavailable") or is empty.
func (e *TransportError) statusLine() string {
	if e.Status != "" {
		if strings.HasPrefix(e.Status, fmt.Sprint(e.StatusCode)) {
			return e.Status
		}
		return fmt.Sprintf("%d %s", e.StatusCode, e.Status)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// classify maps a status code to an error kind. ok is true for statuses below 400.
func classify(status int) (kind Kind, ok bool) {
	switch {
	case status >= 500 && status < 600:
		return KindServer, false
	case status >= 400 && status < 500:
		return KindClient, false
	case status >= 600:
		// Outside the HTTP error ranges; treat like a server fault.
		return KindServer, false
	default:
		return 0, true
	}
}
