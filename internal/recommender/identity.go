package recommender

import (
	"context"
	"strings"
)

type userKey struct{}

// WithUser attaches the acting storefront user to ctx.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, strings.TrimSpace(userID))
}

// UserFromContext returns the acting user. Anonymous sessions, including the host's
// user id 0, report false.
func UserFromContext(ctx context.Context) (string, bool) {
	userID, _ := ctx.Value(userKey{}).(string)
	if userID == "" || userID == "0" {
		return "", false
	}
	return userID, true
}
