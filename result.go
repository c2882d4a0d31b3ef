package chat

// ErrorMarker prefixes the text of every failed completion so it stays
// recognisable in the console and in saved logs.
const ErrorMarker = "[EXCEPTION]"

// Result is a sealed interface representing the outcome of one completion.
// The unexported marker method prevents external implementations.
type Result interface {
	result()
}

// TextResult carries a whole, non-streamed assistant reply.
type TextResult struct {
	Text string
}

func (TextResult) result() {}

// StreamResult carries a reply that must be drained fragment by fragment.
// The consumer owns the Stream and must close it.
type StreamResult struct {
	Stream Stream
}

func (StreamResult) result() {}

// ErrorResult reports a failed completion.
type ErrorResult struct {
	Kind    ErrorKind
	Message string
}

func (ErrorResult) result() {}

// Text returns the user-visible form of the failure.
func (r ErrorResult) Text() string {
	return ErrorMarker + " An error occurred: " + r.Message
}

// ErrorKind classifies a failed completion.
type ErrorKind string

const (
	ErrorTransport      ErrorKind = "transport"
	ErrorAuthentication ErrorKind = "authentication"
	ErrorRateLimit      ErrorKind = "rate_limit"
	ErrorInvalidRequest ErrorKind = "invalid_request"
	ErrorServer         ErrorKind = "server"
	ErrorCancelled      ErrorKind = "cancelled"
	ErrorUnknown        ErrorKind = "unknown"
)

// Interface compliance checks.
var (
	_ Result = TextResult{}
	_ Result = StreamResult{}
	_ Result = ErrorResult{}
)
