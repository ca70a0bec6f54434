package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *ClientConfig) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}

	if c.Gateway.URL == "" {
		return errors.New("gateway.url is required")
	}
	if !strings.HasPrefix(c.Gateway.URL, "ws://") && !strings.HasPrefix(c.Gateway.URL, "wss://") {
		return fmt.Errorf("gateway.url must be a ws:// or wss:// URL, got %q", c.Gateway.URL)
	}
	if c.Gateway.ReconnectAttempts < 1 {
		return errors.New("gateway.reconnect_attempts must be >= 1")
	}
	if c.Gateway.ReconnectDelay <= 0 {
		return errors.New("gateway.reconnect_delay must be > 0")
	}

	if c.Auth.TokenPath == "" {
		return errors.New("auth.token_path is required")
	}
	if c.Auth.TokenRetries < 1 {
		return errors.New("auth.token_retries must be >= 1")
	}

	if c.Typing.Expiry <= 0 {
		return errors.New("typing.expiry must be > 0")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}

	return nil
}
