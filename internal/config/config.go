package config

import "time"

// ClientConfig is the root configuration for the plv chat client.
type ClientConfig struct {
	API     APIConfig     `yaml:"api"`
	Gateway GatewayConfig `yaml:"gateway"`
	Auth    AuthConfig    `yaml:"auth"`
	Typing  TypingConfig  `yaml:"typing"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig holds REST API settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"`
	RetryBackoff time.Duration `yaml:"retry_backoff"`
}

// GatewayConfig holds realtime chat gateway settings.
type GatewayConfig struct {
	URL               string        `yaml:"url"`
	HandshakeTimeout  time.Duration `yaml:"handshake_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	PingInterval      time.Duration `yaml:"ping_interval"`
	ReconnectAttempts int           `yaml:"reconnect_attempts"`
	ReconnectDelay    time.Duration `yaml:"reconnect_delay"`
}

// AuthConfig holds token store settings.
type AuthConfig struct {
	TokenPath       string        `yaml:"token_path"`
	TokenRetries    int           `yaml:"token_retries"`
	TokenRetryDelay time.Duration `yaml:"token_retry_delay"`
}

// TypingConfig holds typing-indicator settings.
type TypingConfig struct {
	Expiry time.Duration `yaml:"expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}
