package database

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"recommender/internal/logger"
	"recommender/internal/models"
	"recommender/internal/recommender"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500

	observeQueueSize = 256
	writeTimeout     = 2 * time.Second
)

// DeliveryStore keeps a log of forwarded events. It doubles as a recommender.Observer:
// observed outcomes are written by a background goroutine until Close is called.
type DeliveryStore struct {
	db     *gorm.DB
	logger *logger.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan *models.Delivery
	done   chan struct{}
}

func NewDeliveryStore(db *gorm.DB, logger *logger.Logger) *DeliveryStore {
	s := &DeliveryStore{
		db:     db,
		logger: logger,
		queue:  make(chan *models.Delivery, observeQueueSize),
		done:   make(chan struct{}),
	}
	go s.drain()
	return s
}

func (s *DeliveryStore) Record(ctx context.Context, delivery *models.Delivery) error {
	if err := s.db.WithContext(ctx).Create(delivery).Error; err != nil {
		return errors.Wrap(err, "failed to record delivery")
	}
	return nil
}

// Observe queues outcome for storage and returns immediately. Outcomes are dropped
// with a warning when the queue is full or the store is closed.
func (s *DeliveryStore) Observe(_ context.Context, outcome recommender.Outcome) {
	delivery := FromOutcome(outcome)
	delivery.CreatedAt = time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		s.logger.Warn("Delivery store closed, dropping delivery %s", outcome.ID)
		return
	}

	select {
	case s.queue <- delivery:
	default:
		s.logger.Warn("Delivery queue full, dropping delivery %s", outcome.ID)
	}
}

func (s *DeliveryStore) drain() {
	defer close(s.done)
	for delivery := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := s.Record(ctx, delivery); err != nil {
			s.logger.Error("Failed to store delivery %s: %v", delivery.ID, err)
		}
		cancel()
	}
}

// Close stops accepting outcomes and waits until the queued ones are written.
func (s *DeliveryStore) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.queue)
	}
	s.mu.Unlock()

	<-s.done
	return nil
}

// List returns the newest deliveries first, optionally filtered by event type.
func (s *DeliveryStore) List(ctx context.Context, limit int, eventType string) ([]models.Delivery, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	var deliveries []models.Delivery
	if err := query.Find(&deliveries).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list deliveries")
	}
	return deliveries, nil
}

func (s *DeliveryStore) Get(ctx context.Context, id string) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := s.db.WithContext(ctx).First(&delivery, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &delivery, nil
}

func FromOutcome(outcome recommender.Outcome) *models.Delivery {
	delivery := &models.Delivery{
		ID:         outcome.ID,
		EventType:  string(outcome.Tag),
		URL:        outcome.URL,
		Outcome:    outcomeName(outcome.Kind),
		StatusCode: outcome.StatusCode,
		DurationMS: outcome.Duration.Milliseconds(),
	}
	if outcome.Err != nil {
		msg := outcome.Err.Error()
		delivery.Error = &msg
	}
	return delivery
}

func outcomeName(kind recommender.Kind) models.DeliveryOutcome {
	if kind == recommender.KindNone {
		return models.DeliveryOutcomeDelivered
	}
	return models.DeliveryOutcome(kind.String())
}
