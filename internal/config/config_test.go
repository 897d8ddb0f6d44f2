package config

import (
	"strings"
	"testing"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := GetDefaults()
	if err := validateConfig(cfg); err != nil {
		t.Fatalf("Default configuration should validate: %v", err)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "InvalidPortZero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "InvalidPortTooHigh",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "InvalidMaxInputChars",
			mutate:  func(c *Config) { c.Analysis.MaxInputChars = 0 },
			wantErr: "invalid max input chars",
		},
		{
			name:    "InvalidMaxItemsPerTopic",
			mutate:  func(c *Config) { c.Analysis.MaxItemsPerTopic = -1 },
			wantErr: "invalid max items per topic",
		},
		{
			name: "SentenceLengthBoundsInverted",
			mutate: func(c *Config) {
				c.Analysis.MinSentenceLength = 300
				c.Analysis.MaxSentenceLength = 200
			},
			wantErr: "min sentence length",
		},
		{
			name: "SummarizerEnabledWithoutModels",
			mutate: func(c *Config) {
				c.Summarizer.Enabled = true
				c.Summarizer.Models = nil
			},
			wantErr: "no models configured",
		},
		{
			name: "SummarizerInvalidRetries",
			mutate: func(c *Config) {
				c.Summarizer.Enabled = true
				c.Summarizer.MaxRetries = 0
			},
			wantErr: "invalid summarizer max retries",
		},
		{
			name: "SummarizerInvalidTimeout",
			mutate: func(c *Config) {
				c.Summarizer.Enabled = true
				c.Summarizer.Timeout = 0
			},
			wantErr: "invalid summarizer timeout",
		},
		{
			name: "RateLimitEnabledWithZeroRate",
			mutate: func(c *Config) {
				c.Server.RateLimit.Enabled = true
				c.Server.RateLimit.RequestsPerMin = 0
			},
			wantErr: "invalid rate limit",
		},
		{
			name:    "InvalidLogLevel",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid log level",
		},
		{
			name:    "InvalidLogFormat",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaults()
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if err == nil {
				t.Fatal("Expected a validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %q", tt.wantErr, err.Error())
			}
		})
	}
}

func TestValidateConfigAllowsDisabledSummarizerBounds(t *testing.T) {
	cfg := GetDefaults()
	cfg.Summarizer.Enabled = false
	cfg.Summarizer.Models = nil
	cfg.Summarizer.MaxRetries = 0

	if err := validateConfig(cfg); err != nil {
		t.Errorf("Summarizer bounds should not be checked when disabled: %v", err)
	}
}
