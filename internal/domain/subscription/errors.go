package subscription

import "fmt"

// Kind classifies why a lifecycle or pricing operation was rejected.
type Kind string

const (
	KindInvalidConfiguration   Kind = "invalid_configuration"
	KindInvalidDateRange       Kind = "invalid_date_range"
	KindOverlappingPause       Kind = "overlapping_pause"
	KindInvalidStateTransition Kind = "invalid_state_transition"
)

// Error is a rejection raised before any field of the subscription is touched.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is matches on Kind so callers can test against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidConfiguration   = &Error{Kind: KindInvalidConfiguration}
	ErrInvalidDateRange       = &Error{Kind: KindInvalidDateRange}
	ErrOverlappingPause       = &Error{Kind: KindOverlappingPause}
	ErrInvalidStateTransition = &Error{Kind: KindInvalidStateTransition}
)

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
