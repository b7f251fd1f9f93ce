package cmd

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ziadkadry99/contact-draft/internal/backoff"
	"github.com/ziadkadry99/contact-draft/internal/config"
	"github.com/ziadkadry99/contact-draft/internal/draft"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `contactdraft init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds a console logger on stderr. --verbose forces debug level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.LogLevel != "" {
		parsed, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("parsing log_level: %w", err)
		}
		level = parsed
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	return zc.Build()
}

// newFactory wires the HTTP client, throttle and retrying fetcher into a
// draft.Factory configured from cfg.
func newFactory(cfg *config.Config, logger *zap.Logger) (draft.Factory, error) {
	apiKey, err := config.APIKey()
	if err != nil {
		return draft.Factory{}, err
	}

	client := &http.Client{Timeout: cfg.RequestTimeout}
	fetcher := backoff.New(
		backoff.NewThrottle(client, cfg.RequestsPerMinute),
		backoff.WithPolicy(cfg.Retry.Policy()),
		backoff.WithLogger(logger),
	)

	return draft.Factory{
		Fetcher: fetcher,
		Endpoint: draft.Endpoint{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			APIKey:  apiKey,
		},
		Options: []draft.Option{
			draft.WithRecipient(cfg.Recipient),
			draft.WithPlainText(cfg.PlainText),
			draft.WithTimeout(cfg.DraftTimeout),
			draft.WithLogger(logger),
		},
	}, nil
}
