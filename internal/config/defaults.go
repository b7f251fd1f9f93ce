package config

import (
	"time"

	"github.com/ziadkadry99/contact-draft/internal/backoff"
	"github.com/ziadkadry99/contact-draft/internal/draft"
	"github.com/ziadkadry99/contact-draft/internal/llm"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = ".contactdraft.yml"

// DefaultModel is the Gemini model used for drafts.
const DefaultModel = "gemini-2.5-flash-preview-09-2025"

// DefaultAllowedOrigins are the CORS origins accepted by the server.
var DefaultAllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Model:             DefaultModel,
		BaseURL:           llm.DefaultGeminiBaseURL,
		Recipient:         draft.DefaultRecipient,
		PlainText:         false,
		RequestTimeout:    60 * time.Second,
		DraftTimeout:      0,
		RequestsPerMinute: 0,
		LogLevel:          "info",
		Retry: RetryConfig{
			MaxRetries:   backoff.DefaultMaxRetries,
			InitialDelay: backoff.DefaultInitialDelay,
		},
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: append([]string(nil), DefaultAllowedOrigins...),
		},
	}
}

// Policy converts the retry settings into a backoff policy.
func (r RetryConfig) Policy() backoff.Policy {
	return backoff.Policy{
		MaxRetries:   r.MaxRetries,
		InitialDelay: r.InitialDelay,
		MaxDelay:     r.MaxDelay,
		Jitter:       r.Jitter,
	}
}
