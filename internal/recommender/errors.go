package recommender

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why an event was not delivered.
type Kind int

const (
	KindNone Kind = iota
	KindConfiguration
	KindPrecondition
	KindSerialization
	KindTransport
	KindRemote
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConfiguration:
		return "configuration"
	case KindPrecondition:
		return "precondition"
	case KindSerialization:
		return "serialization"
	case KindTransport:
		return "transport"
	case KindRemote:
		return "remote"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrMissingCredentials = errors.New("shop id and api key are required")
	ErrMissingBaseURL     = errors.New("api url is required")
	ErrUnauthenticated    = errors.New("user is not logged in")
	ErrUnknownEventType   = errors.New("no endpoint matches event type")
)

type Error struct {
	Kind Kind
	Tag  Tag

	// StatusCode is the HTTP status of the response, zero when none was received.
	StatusCode int

	Err error
}

func (e *Error) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("%s error sending %q event: %v", e.Kind, e.Tag, e.Err)
	}
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, tag Tag, err error) *Error {
	return &Error{Kind: kind, Tag: tag, Err: err}
}

// KindOf reports the Kind carried by err, KindNone for nil and KindTransport for
// errors that did not come from this package.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransport
}
