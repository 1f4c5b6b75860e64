package recommender

import (
	"context"
	"time"

	"recommender/internal/logger"
)

// Outcome describes one Deliver call after it finished.
type Outcome struct {
	ID         string
	Tag        Tag
	URL        string
	Kind       Kind
	StatusCode int
	Duration   time.Duration
	Err        error
}

func (o Outcome) Delivered() bool {
	return o.Kind == KindNone
}

// Observer receives every outcome. Implementations must not block for long and must
// be safe for concurrent use.
type Observer interface {
	Observe(ctx context.Context, outcome Outcome)
}

type ObserverFunc func(ctx context.Context, outcome Outcome)

func (f ObserverFunc) Observe(ctx context.Context, outcome Outcome) {
	f(ctx, outcome)
}

type NopObserver struct{}

func (NopObserver) Observe(context.Context, Outcome) {}

// Observers fans an outcome out to each observer in order.
type Observers []Observer

func (obs Observers) Observe(ctx context.Context, outcome Outcome) {
	for _, o := range obs {
		if o != nil {
			o.Observe(ctx, outcome)
		}
	}
}

type LogObserver struct {
	logger *logger.Logger
}

func NewLogObserver(logger *logger.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) Observe(_ context.Context, outcome Outcome) {
	log := o.logger.With(
		"delivery_id", outcome.ID,
		"event_type", string(outcome.Tag),
		"status_code", outcome.StatusCode,
		"duration", outcome.Duration,
	)

	switch outcome.Kind {
	case KindNone:
		log.Debug("event delivered to %s", outcome.URL)
	case KindPrecondition:
		log.Debug("event dropped: %v", outcome.Err)
	default:
		log.Error("event delivery failed (%s): %v", outcome.Kind, outcome.Err)
	}
}
