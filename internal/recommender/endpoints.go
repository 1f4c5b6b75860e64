package recommender

import (
	"github.com/pkg/errors"
)

// Tag names the kind of storefront event being reported.
type Tag string

const (
	TagAdd      Tag = "add"
	TagPurchase Tag = "purchase"
	TagView     Tag = "view"
	TagSearch   Tag = "search"
)

var endpoints = map[Tag]string{
	TagAdd:      "/send_add_to_cart",
	TagPurchase: "/send_purchase",
	TagView:     "/send_view",
	TagSearch:   "/send_search",
}

// Endpoints returns a copy of the tag to path suffix table.
func Endpoints() map[Tag]string {
	out := make(map[Tag]string, len(endpoints))
	for tag, suffix := range endpoints {
		out[tag] = suffix
	}
	return out
}

func (t Tag) Valid() bool {
	_, ok := endpoints[t]
	return ok
}

func (t Tag) suffix() (string, error) {
	suffix, ok := endpoints[t]
	if !ok {
		return "", errors.Wrapf(ErrUnknownEventType, "%q", string(t))
	}
	return suffix, nil
}

// Credentials identify the shop to the recommendation API.
type Credentials struct {
	ShopID string
	APIKey string
}

func (c Credentials) Validate() error {
	if c.ShopID == "" || c.APIKey == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Payload is the opaque body of one event.
type Payload map[string]interface{}
