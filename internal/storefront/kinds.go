package storefront

import (
	"github.com/pkg/errors"
)

var ErrUnknownKind = errors.New("unknown storefront event kind")

// NewEvent returns an empty event for the route kind, ready to be decoded into.
func NewEvent(kind string) (Event, error) {
	switch kind {
	case "search":
		return &SearchEvent{}, nil
	case "cart", "add":
		return &CartEvent{}, nil
	case "view":
		return &ViewEvent{}, nil
	case "purchase":
		return &PurchaseEvent{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
}
