package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"recommender/internal/config"
	"recommender/internal/logger"
	"recommender/internal/models"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher queues storefront events for the worker.
type Publisher struct {
	writer MessageWriter
	logger *logger.Logger
}

func NewPublisher(cfg *config.Config, logger *logger.Logger) (*Publisher, error) {
	transport, err := newTransport(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to configure kafka transport")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers()...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		Transport:    transport,
	}

	return NewPublisherWithWriter(writer, logger), nil
}

func NewPublisherWithWriter(writer MessageWriter, logger *logger.Logger) *Publisher {
	return &Publisher{
		writer: writer,
		logger: logger,
	}
}

// Publish fills in a missing id and timestamp and writes the envelope keyed by user,
// so one shopper's events stay on one partition.
func (p *Publisher) Publish(ctx context.Context, envelope *models.Envelope) error {
	if envelope.ID == "" {
		envelope.ID = uuid.New().String()
	}
	if envelope.Timestamp.IsZero() {
		envelope.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal envelope %s", envelope.ID)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(envelope.UserID),
		Value: data,
	}); err != nil {
		return errors.Wrapf(err, "failed to publish envelope %s", envelope.ID)
	}

	p.logger.Debug("Published %s event %s", envelope.Type, envelope.ID)
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
