package processors

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recommender/internal/config"
	"recommender/internal/logger"
	"recommender/internal/recommender"
)

type fakeSender struct {
	calls   int
	user    string
	tag     recommender.Tag
	payload recommender.Payload
	timeout time.Duration
	err     error
}

func (s *fakeSender) Deliver(ctx context.Context, payload recommender.Payload, tag recommender.Tag, timeout time.Duration) error {
	s.calls++
	s.user, _ = recommender.UserFromContext(ctx)
	s.tag = tag
	s.payload = payload
	s.timeout = timeout
	return s.err
}

func newTestProcessor(sender recommender.EventSender) *EventProcessor {
	return NewEventProcessor(&config.Config{SendTimeout: 750 * time.Millisecond}, logger.NewNop(), sender)
}

func TestProcess_ForwardsEnvelope(t *testing.T) {
	sender := &fakeSender{}
	ep := newTestProcessor(sender)

	raw := []byte(`{"id":"e-1","type":"view","user_id":"42","payload":{"item_id":15},"timestamp":"2024-05-01T10:00:00Z"}`)
	require.NoError(t, ep.Process(context.Background(), raw))

	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "42", sender.user)
	assert.Equal(t, recommender.TagView, sender.tag)
	assert.Equal(t, float64(15), sender.payload["item_id"])
	assert.Equal(t, 750*time.Millisecond, sender.timeout)
}

func TestProcess_PropagatesDeliveryFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("remote down")}
	ep := newTestProcessor(sender)

	err := ep.Process(context.Background(), []byte(`{"id":"e-1","type":"add","user_id":"1","payload":{}}`))
	assert.EqualError(t, err, "remote down")
	assert.Equal(t, 1, sender.calls)
}

func TestProcess_RejectsMalformedMessages(t *testing.T) {
	sender := &fakeSender{}
	ep := newTestProcessor(sender)

	for _, raw := range []string{
		`not json`,
		`{"type":"add","user_id":"1","payload":{}}`,
		`{"id":"e-1","type":"refund","user_id":"1","payload":{}}`,
		`{"id":"e-1","type":"add","user_id":"1"}`,
	} {
		err := ep.Process(context.Background(), []byte(raw))
		assert.ErrorIs(t, err, ErrMalformedMessage, raw)
	}
	assert.Zero(t, sender.calls)
}
