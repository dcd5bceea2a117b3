// Package posclient is the terminal-side HTTP adapter for the backend
// POS API. It implements the catalog fetch and order submission ports a
// terminal session depends on.
package posclient

import (
	"errors"
	"strings"
)

// Errors for client configuration
var (
	ErrConfigMissingBaseURL  = errors.New("posclient: base URL is required")
	ErrConfigMissingTerminal = errors.New("posclient: terminal identifier is required")
)

// Config holds configuration for the backend API client
type Config struct {
	// BaseURL is the backend API root, e.g. "http://pos-backend:8080"
	BaseURL string
	// Terminal identifies the till this client runs on. It is sent with
	// every request so backend logs can attribute traffic to a terminal
	Terminal string
	// APIKey is an optional bearer token for deployments that front the
	// backend with an authenticating proxy
	APIKey string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// NewConfig creates a client configuration with defaults
func NewConfig(baseURL, terminal string) *Config {
	return &Config{
		BaseURL:        baseURL,
		Terminal:       terminal,
		TimeoutSeconds: 30,
	}
}

// Validate validates the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	if c.Terminal == "" {
		return ErrConfigMissingTerminal
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}
