package config

import "time"

// Config represents the main configuration structure
type Config struct {
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Analysis   AnalysisConfig   `yaml:"analysis" mapstructure:"analysis"`
	Summarizer SummarizerConfig `yaml:"summarizer" mapstructure:"summarizer"`
	Cache      CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Events     EventsConfig     `yaml:"events" mapstructure:"events"`
	Logging    LoggingConfig    `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	RateLimit    struct {
		Enabled        bool `yaml:"enabled" mapstructure:"enabled"`
		RequestsPerMin int  `yaml:"requests_per_min" mapstructure:"requests_per_min"`
		Burst          int  `yaml:"burst" mapstructure:"burst"`
	} `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// AnalysisConfig contains clause analysis configuration
type AnalysisConfig struct {
	MaxInputChars     int `yaml:"max_input_chars" mapstructure:"max_input_chars"`
	MaxItemsPerTopic  int `yaml:"max_items_per_topic" mapstructure:"max_items_per_topic"`
	MinSentenceLength int `yaml:"min_sentence_length" mapstructure:"min_sentence_length"`
	MaxSentenceLength int `yaml:"max_sentence_length" mapstructure:"max_sentence_length"`
	MinRequestWords   int `yaml:"min_request_words" mapstructure:"min_request_words"`
}

// SummarizerConfig contains the external summarization client configuration
type SummarizerConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	APIKey          string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL         string        `yaml:"base_url" mapstructure:"base_url"`
	Models          []string      `yaml:"models" mapstructure:"models"`
	Timeout         time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxRetries      int           `yaml:"max_retries" mapstructure:"max_retries"`
	ModelLoadWait   time.Duration `yaml:"model_load_wait" mapstructure:"model_load_wait"`
	MaxSummaryWords int           `yaml:"max_summary_words" mapstructure:"max_summary_words"`
}

// CacheConfig contains the optional Redis analysis cache configuration
type CacheConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	RedisURL       string        `yaml:"redis_url" mapstructure:"redis_url"`
	MaxConnections int           `yaml:"max_connections" mapstructure:"max_connections"`
	MinIdleConns   int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DefaultTTL     time.Duration `yaml:"default_ttl" mapstructure:"default_ttl"`
	KeyPrefix      string        `yaml:"key_prefix" mapstructure:"key_prefix"`
}

// EventsConfig contains WebSocket event hub configuration
type EventsConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	Path            string        `yaml:"path" mapstructure:"path"`
	ReadBufferSize  int           `yaml:"read_buffer_size" mapstructure:"read_buffer_size"`
	WriteBufferSize int           `yaml:"write_buffer_size" mapstructure:"write_buffer_size"`
	PingInterval    time.Duration `yaml:"ping_interval" mapstructure:"ping_interval"`
	PongTimeout     time.Duration `yaml:"pong_timeout" mapstructure:"pong_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	MaxMessageSize  int64         `yaml:"max_message_size" mapstructure:"max_message_size"`
	AllowedOrigins  []string      `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	Broadcast       struct {
		Analyses    bool `yaml:"analyses" mapstructure:"analyses"`
		Requests    bool `yaml:"requests" mapstructure:"requests"`
		Connections bool `yaml:"connections" mapstructure:"connections"`
	} `yaml:"broadcast" mapstructure:"broadcast"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
	File   struct {
		Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
		Path     string `yaml:"path" mapstructure:"path"`
		MaxSize  int    `yaml:"max_size" mapstructure:"max_size"`
		MaxAge   int    `yaml:"max_age" mapstructure:"max_age"`
		Compress bool   `yaml:"compress" mapstructure:"compress"`
	} `yaml:"file" mapstructure:"file"`
}

// GetDefaults returns a configuration with sensible defaults
func GetDefaults() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Analysis: AnalysisConfig{
			MaxInputChars:     12000,
			MaxItemsPerTopic:  5,
			MinSentenceLength: 30,
			MaxSentenceLength: 200,
			MinRequestWords:   20,
		},
		Summarizer: SummarizerConfig{
			Enabled: true,
			BaseURL: "https://api-inference.huggingface.co/models",
			Models: []string{
				"facebook/bart-large-cnn",
				"sshleifer/distilbart-cnn-12-6",
				"t5-small",
			},
			Timeout:         30 * time.Second,
			MaxRetries:      2,
			ModelLoadWait:   5 * time.Second,
			MaxSummaryWords: 150,
		},
		Cache: CacheConfig{
			Enabled:        false,
			RedisURL:       "redis://localhost:6379/0",
			MaxConnections: 10,
			MinIdleConns:   2,
			DefaultTTL:     time.Hour,
			KeyPrefix:      "clearterms",
		},
		Events: EventsConfig{
			Enabled:         true,
			Path:            "/ws",
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			PingInterval:    54 * time.Second,
			PongTimeout:     60 * time.Second,
			WriteTimeout:    10 * time.Second,
			MaxMessageSize:  512,
			AllowedOrigins:  []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	cfg.Server.RateLimit.Enabled = true
	cfg.Server.RateLimit.RequestsPerMin = 120
	cfg.Server.RateLimit.Burst = 20

	cfg.Events.Broadcast.Analyses = true
	cfg.Events.Broadcast.Requests = true
	cfg.Events.Broadcast.Connections = true

	cfg.Logging.File.Path = "logs/clearterms.log"
	cfg.Logging.File.MaxSize = 100 // MB
	cfg.Logging.File.MaxAge = 30   // days
	cfg.Logging.File.Compress = true

	return cfg
}
