package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultAPIBaseURL        = "https://api.plv.app/api/v1"
	DefaultGatewayURL        = "wss://api.plv.app/chat"
	DefaultAPITimeout        = 30 * time.Second
	DefaultAPIMaxRetries     = 3
	DefaultAPIRetryBackoff   = 1 * time.Second
	DefaultHandshakeTimeout  = 10 * time.Second
	DefaultWriteTimeout      = 5 * time.Second
	DefaultPingInterval      = 25 * time.Second
	DefaultReconnectAttempts = 5
	DefaultReconnectDelay    = 3 * time.Second
	DefaultTokenRetries      = 3
	DefaultTokenRetryDelay   = 1 * time.Second
	DefaultTypingExpiry      = 3 * time.Second
	DefaultLogLevel          = "info"
)

func (c *ClientConfig) applyDefaults() {
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultAPIBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultAPIMaxRetries
	}
	if c.API.RetryBackoff == 0 {
		c.API.RetryBackoff = DefaultAPIRetryBackoff
	}

	if c.Gateway.URL == "" {
		c.Gateway.URL = DefaultGatewayURL
	}
	if c.Gateway.HandshakeTimeout == 0 {
		c.Gateway.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Gateway.WriteTimeout == 0 {
		c.Gateway.WriteTimeout = DefaultWriteTimeout
	}
	if c.Gateway.PingInterval == 0 {
		c.Gateway.PingInterval = DefaultPingInterval
	}
	if c.Gateway.ReconnectAttempts == 0 {
		c.Gateway.ReconnectAttempts = DefaultReconnectAttempts
	}
	if c.Gateway.ReconnectDelay == 0 {
		c.Gateway.ReconnectDelay = DefaultReconnectDelay
	}

	if c.Auth.TokenRetries == 0 {
		c.Auth.TokenRetries = DefaultTokenRetries
	}
	if c.Auth.TokenRetryDelay == 0 {
		c.Auth.TokenRetryDelay = DefaultTokenRetryDelay
	}

	if c.Typing.Expiry == 0 {
		c.Typing.Expiry = DefaultTypingExpiry
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}
