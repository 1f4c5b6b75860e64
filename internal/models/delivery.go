package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Delivery struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	EventType  string          `json:"event_type" gorm:"not null;index"`
	URL        string          `json:"url"`
	Outcome    DeliveryOutcome `json:"outcome" gorm:"not null"`
	StatusCode int             `json:"status_code"`
	Error      *string         `json:"error"`
	DurationMS int64           `json:"duration_ms"`
	CreatedAt  time.Time       `json:"created_at"`
}

// DeliveryOutcome mirrors recommender.Kind names, with "delivered" for success.
type DeliveryOutcome string

const (
	DeliveryOutcomeDelivered     DeliveryOutcome = "delivered"
	DeliveryOutcomeConfiguration DeliveryOutcome = "configuration"
	DeliveryOutcomePrecondition  DeliveryOutcome = "precondition"
	DeliveryOutcomeSerialization DeliveryOutcome = "serialization"
	DeliveryOutcomeTransport     DeliveryOutcome = "transport"
	DeliveryOutcomeRemote        DeliveryOutcome = "remote"
)

func (Delivery) TableName() string {
	return "deliveries"
}

func (d *Delivery) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}
