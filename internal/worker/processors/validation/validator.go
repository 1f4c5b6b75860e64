package validation

import (
	"fmt"

	"recommender/internal/logger"
	"recommender/internal/models"
	"recommender/internal/recommender"
)

type Validator struct {
	logger *logger.Logger
}

func New(logger *logger.Logger) *Validator {
	return &Validator{
		logger: logger,
	}
}

// ValidateEnvelope rejects messages the forwarder could never deliver. Anonymous
// users are left to the forwarder, which drops them itself.
func (v *Validator) ValidateEnvelope(envelope *models.Envelope) error {
	v.logger.Debug("Validating envelope %s (%s)", envelope.ID, envelope.Type)

	if envelope.ID == "" {
		return fmt.Errorf("envelope id is required")
	}
	if !recommender.Tag(envelope.Type).Valid() {
		return fmt.Errorf("unsupported event type %q", envelope.Type)
	}
	if envelope.Payload == nil {
		return fmt.Errorf("envelope %s has no payload", envelope.ID)
	}

	return nil
}
