package printing

import "context"

// Renderer is the contract a physical receipt backend implements. The
// formatter produces documents; how they reach paper, PDF, or a display
// is outside this context. Implementations must render every section
// and line they receive; suppression already happened in the formatter
type Renderer interface {
	// Render emits one document to the backing output
	Render(ctx context.Context, doc *RenderDocument) error

	// Close releases any resources held by the renderer
	Close() error
}

// RenderError represents an error during receipt rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout = "RENDER_TIMEOUT"
	ErrCodeRenderFailed  = "RENDER_FAILED"
	ErrCodeDeviceOffline = "DEVICE_OFFLINE"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
