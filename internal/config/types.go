package config

import "time"

// Config is the top-level contactdraft configuration, corresponding to .contactdraft.yml.
type Config struct {
	Model             string        `yaml:"model" koanf:"model"`
	BaseURL           string        `yaml:"base_url" koanf:"base_url"`
	Recipient         string        `yaml:"recipient" koanf:"recipient"`
	PlainText         bool          `yaml:"plain_text" koanf:"plain_text"`
	RequestTimeout    time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
	DraftTimeout      time.Duration `yaml:"draft_timeout" koanf:"draft_timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute" koanf:"requests_per_minute"`
	LogLevel          string        `yaml:"log_level" koanf:"log_level"`
	Retry             RetryConfig   `yaml:"retry" koanf:"retry"`
	Server            ServerConfig  `yaml:"server" koanf:"server"`
}

// RetryConfig holds the backoff policy. A zero MaxDelay leaves delays uncapped.
type RetryConfig struct {
	MaxRetries   int           `yaml:"max_retries" koanf:"max_retries"`
	InitialDelay time.Duration `yaml:"initial_delay" koanf:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay" koanf:"max_delay"`
	Jitter       bool          `yaml:"jitter" koanf:"jitter"`
}

// ServerConfig holds settings for the HTTP host.
type ServerConfig struct {
	Port           int      `yaml:"port" koanf:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
}
