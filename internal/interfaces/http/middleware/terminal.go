package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Keys used to store terminal information in gin.Context
const (
	TerminalKey       = "terminal"
	TerminalHeaderKey = "X-Terminal-ID"

	// MaxTerminalLength matches the terminal column width in pos_sessions.
	MaxTerminalLength = 100
)

// TerminalValidator defines the interface for validating a terminal identifier
// against a registry (e.g., checking that the terminal is known and active).
type TerminalValidator interface {
	ValidateTerminal(terminal string) error
}

// TerminalMiddlewareConfig holds configuration for terminal middleware
type TerminalMiddlewareConfig struct {
	// SkipPaths are paths that don't need terminal context (e.g., health check)
	SkipPaths []string
	// Required determines if terminal identification is mandatory
	Required bool
	// Validator is an optional validator to check if the terminal is registered
	Validator TerminalValidator
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultTerminalConfig returns default terminal middleware configuration.
// Terminal identification is optional by default: the header feeds logging,
// tracing and metrics labels, while the session itself carries the
// authoritative terminal for order flows.
func DefaultTerminalConfig() TerminalMiddlewareConfig {
	return TerminalMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/metrics", "/api/v1/health"},
		Required:  false,
		Validator: nil,
		Logger:    nil,
	}
}

// TerminalMiddleware extracts the terminal identifier from the X-Terminal-ID header
func TerminalMiddleware() gin.HandlerFunc {
	return TerminalMiddlewareWithConfig(DefaultTerminalConfig())
}

// TerminalMiddlewareWithConfig returns terminal middleware with custom configuration
func TerminalMiddlewareWithConfig(cfg TerminalMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check if path should be skipped
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		terminal := c.GetHeader(TerminalHeaderKey)

		// Validate terminal format if present
		if terminal != "" && !isValidTerminalFormat(terminal) {
			respondInvalidTerminal(c, "Invalid terminal identifier format")
			return
		}

		// Check if terminal is required
		if terminal == "" && cfg.Required {
			respondInvalidTerminal(c, "Terminal identification required")
			return
		}

		// Optional: Validate terminal is registered and active
		if terminal != "" && cfg.Validator != nil {
			if err := cfg.Validator.ValidateTerminal(terminal); err != nil {
				log := cfg.Logger
				if log == nil {
					log = logger.FromContext(c.Request.Context())
				}
				log.Warn("Terminal validation failed",
					zap.String("terminal", terminal),
					zap.Error(err),
				)
				respondInvalidTerminal(c, "Unknown or inactive terminal")
				return
			}
		}

		// Set terminal information in context
		if terminal != "" {
			// Set in gin context for easy access in handlers
			c.Set(TerminalKey, terminal)

			// Set in request context for service layer access
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithTerminal(ctx, log, terminal)
			c.Request = c.Request.WithContext(ctx)

			if cfg.Logger != nil {
				cfg.Logger.Debug("Terminal identified",
					zap.String("terminal", terminal),
				)
			}
		}

		c.Next()
	}
}

// isValidTerminalFormat validates the terminal identifier.
// Terminals are short operator-assigned names like "till-01" or "front-desk.2":
// leading alphanumeric, then alphanumerics, dots, underscores and dashes.
func isValidTerminalFormat(terminal string) bool {
	if terminal == "" || len(terminal) > MaxTerminalLength {
		return false
	}
	for i := 0; i < len(terminal); i++ {
		ch := terminal[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			continue
		case ch == '.' || ch == '_' || ch == '-':
			if i == 0 {
				return false
			}
			continue
		default:
			return false
		}
	}
	return true
}

// respondInvalidTerminal sends a bad request response
func respondInvalidTerminal(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INVALID_TERMINAL",
			"message": message,
		},
	})
}

// GetTerminal retrieves the terminal identifier from gin.Context
func GetTerminal(c *gin.Context) string {
	if terminal, exists := c.Get(TerminalKey); exists {
		if t, ok := terminal.(string); ok {
			return t
		}
	}
	return ""
}

// RequireTerminalMiddleware creates middleware that rejects requests
// without a terminal identifier
func RequireTerminalMiddleware() gin.HandlerFunc {
	cfg := DefaultTerminalConfig()
	cfg.Required = true
	return TerminalMiddlewareWithConfig(cfg)
}
