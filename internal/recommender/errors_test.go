package recommender

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindTransport, KindOf(errors.New("dial tcp: refused")))
	assert.Equal(t, KindRemote, KindOf(&Error{Kind: KindRemote, Err: errors.New("invalid shop id")}))
	assert.Equal(t, "serialization", KindSerialization.String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestError_Message(t *testing.T) {
	err := &Error{Kind: KindPrecondition, Tag: "refund", Err: ErrUnknownEventType}
	assert.Equal(t, `precondition error sending "refund" event: no endpoint matches event type`, err.Error())
	assert.ErrorIs(t, err, ErrUnknownEventType)

	err = &Error{Kind: KindConfiguration, Err: ErrMissingCredentials}
	assert.Equal(t, "configuration error: shop id and api key are required", err.Error())
}

func TestUserFromContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserFromContext(WithUser(context.Background(), " 0 "))
	assert.False(t, ok)

	user, ok := UserFromContext(WithUser(context.Background(), " 42 "))
	assert.True(t, ok)
	assert.Equal(t, "42", user)
}
