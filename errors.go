package chat

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a configuration or transcript failed validation.
	ErrValidation = errors.New("validation error")

	// ErrMissingCredential indicates the provider API key was not supplied.
	ErrMissingCredential = errors.New("missing credential")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)

// Error codes shared by all providers. Providers map their native errors to
// one of these codes.
const (
	ErrCodeAuthentication = "authentication_error"
	ErrCodeRateLimit      = "rate_limit_exceeded"
	ErrCodeInvalidRequest = "invalid_request"
	ErrCodeServerError    = "server_error"
	ErrCodeTransport      = "transport_error"
	ErrCodeCancelled      = "cancelled"
)

// ProviderError is a typed error returned by a Provider.
type ProviderError struct {
	Code    string // One of the ErrCode* constants.
	Message string // Human-readable description.
	Err     error  // Underlying error (may be nil).
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a typed provider error.
func NewProviderError(code, message string, err error) *ProviderError {
	return &ProviderError{Code: code, Message: message, Err: err}
}

// ProviderErrorCode returns the code of the first ProviderError in err's
// chain, or "" if there is none.
func ProviderErrorCode(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
