package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Set defaults
	config := GetDefaults()

	// Configure viper
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("/etc/clearterms/")
	viper.AddConfigPath("$HOME/.clearterms/")

	// Environment variable overrides
	viper.SetEnvPrefix("CLEARTERMS")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Use specific config file if provided
	if configPath != "" {
		viper.SetConfigFile(configPath)
	}

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found is not an error - we'll use defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// validateConfig validates the loaded configuration
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Analysis.MaxInputChars <= 0 {
		return fmt.Errorf("invalid max input chars: %d", config.Analysis.MaxInputChars)
	}

	if config.Analysis.MaxItemsPerTopic <= 0 {
		return fmt.Errorf("invalid max items per topic: %d", config.Analysis.MaxItemsPerTopic)
	}

	if config.Analysis.MinSentenceLength >= config.Analysis.MaxSentenceLength {
		return fmt.Errorf("min sentence length %d must be below max sentence length %d",
			config.Analysis.MinSentenceLength, config.Analysis.MaxSentenceLength)
	}

	if config.Summarizer.Enabled {
		if len(config.Summarizer.Models) == 0 {
			return fmt.Errorf("summarizer enabled but no models configured")
		}
		if config.Summarizer.MaxRetries < 1 {
			return fmt.Errorf("invalid summarizer max retries: %d", config.Summarizer.MaxRetries)
		}
		if config.Summarizer.Timeout <= 0 {
			return fmt.Errorf("invalid summarizer timeout: %s", config.Summarizer.Timeout)
		}
	}

	if config.Server.RateLimit.Enabled && config.Server.RateLimit.RequestsPerMin <= 0 {
		return fmt.Errorf("invalid rate limit: %d requests/min", config.Server.RateLimit.RequestsPerMin)
	}

	if config.Logging.Level != "debug" && config.Logging.Level != "info" && config.Logging.Level != "warn" && config.Logging.Level != "error" {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", config.Logging.Level)
	}

	if config.Logging.Format != "json" && config.Logging.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", config.Logging.Format)
	}

	return nil
}

// Watch starts watching the configuration file for changes
func Watch(config *Config, callback func(*Config)) error {
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		newConfig := &Config{}
		if err := viper.Unmarshal(newConfig); err != nil {
			// Log error but don't crash
			return
		}

		if err := validateConfig(newConfig); err != nil {
			// Log error but don't crash
			return
		}

		callback(newConfig)
	})

	return nil
}
