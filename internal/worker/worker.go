package worker

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"recommender/internal/config"
	"recommender/internal/logger"
	"recommender/internal/recommender"
	"recommender/internal/worker/processors"
)

const readTimeout = 10 * time.Second

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Worker struct {
	logger    *logger.Logger
	reader    MessageReader
	processor *processors.EventProcessor
}

func New(cfg *config.Config, logger *logger.Logger, sender recommender.EventSender) (*Worker, error) {
	dialer, err := newDialer(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to configure kafka dialer")
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers(),
		GroupID:        cfg.KafkaGroupID,
		Topic:          cfg.KafkaTopic,
		Dialer:         dialer,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
	})

	return NewWithReader(reader, processors.NewEventProcessor(cfg, logger, sender), logger), nil
}

func NewWithReader(reader MessageReader, processor *processors.EventProcessor, logger *logger.Logger) *Worker {
	return &Worker{
		logger:    logger,
		reader:    reader,
		processor: processor,
	}
}

// Start consumes until ctx is done or the reader is closed.
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Worker started, listening for events...")

	for {
		if ctx.Err() != nil {
			return
		}

		readCtx, cancel := context.WithTimeout(ctx, readTimeout)
		message, err := w.reader.ReadMessage(readCtx)
		cancel()

		if err != nil {
			switch {
			case errors.Is(err, io.EOF), errors.Is(err, io.ErrClosedPipe):
				w.logger.Info("Reader closed, worker exiting")
				return
			case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
				continue
			}
			w.logger.Error("Failed to read message: %v", err)
			continue
		}

		w.logger.Debug("Received message at offset %d", message.Offset)

		if err := w.processor.Process(ctx, message.Value); err != nil {
			w.logger.Error("Failed to process message at offset %d: %v", message.Offset, err)
			continue
		}

		w.logger.Debug("Event forwarded successfully")
	}
}

func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.reader.Close()
}
