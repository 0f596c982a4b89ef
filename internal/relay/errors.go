package relay

import "net/http"

// Kind classifies a failed invocation by who is at fault.
type Kind int

const (
	// KindInvalidPayload is a caller fault: the body is not a usable incident.
	KindInvalidPayload Kind = iota + 1
	// KindConfiguration is an operator fault: no destination is configured.
	KindConfiguration
	// KindDelivery is a downstream fault: the destination was unreachable or said no.
	KindDelivery
)

func (k Kind) String() string {
	switch k {
	case KindInvalidPayload:
		return "invalid_payload"
	case KindConfiguration:
		return "configuration"
	case KindDelivery:
		return "delivery"
	}
	return "unknown"
}

// Status is the HTTP status reported to the caller for this kind.
func (k Kind) Status() int {
	switch k {
	case KindInvalidPayload:
		return http.StatusBadRequest
	case KindDelivery:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Error is a failed invocation. Msg is safe to return to the caller;
// Err carries the detail that only goes to the log.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }
