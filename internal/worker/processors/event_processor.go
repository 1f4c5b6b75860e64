package processors

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"recommender/internal/config"
	"recommender/internal/logger"
	"recommender/internal/models"
	"recommender/internal/recommender"
	"recommender/internal/worker/processors/validation"
)

var ErrMalformedMessage = errors.New("malformed message")

type EventProcessor struct {
	logger    *logger.Logger
	validator *validation.Validator
	sender    recommender.EventSender
	timeout   time.Duration
}

func NewEventProcessor(cfg *config.Config, logger *logger.Logger, sender recommender.EventSender) *EventProcessor {
	return &EventProcessor{
		logger:    logger,
		validator: validation.New(logger),
		sender:    sender,
		timeout:   cfg.SendTimeout,
	}
}

// Process decodes one queued envelope and forwards it. Failed deliveries are returned
// but never retried.
func (ep *EventProcessor) Process(ctx context.Context, raw []byte) error {
	// numbers stay json.Number so large ids are forwarded exactly
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var envelope models.Envelope
	if err := decoder.Decode(&envelope); err != nil {
		return errors.Wrap(ErrMalformedMessage, err.Error())
	}

	if err := ep.validator.ValidateEnvelope(&envelope); err != nil {
		return errors.Wrap(ErrMalformedMessage, err.Error())
	}

	ep.logger.Debug("Processing %s event %s", envelope.Type, envelope.ID)

	ctx = recommender.WithUser(ctx, envelope.UserID)
	return ep.sender.Deliver(ctx, envelope.Payload, recommender.Tag(envelope.Type), ep.timeout)
}
