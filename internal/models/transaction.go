package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Transaction struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	BookingID  string `gorm:"size:36;index" json:"booking_id"`
	CustomerID string `gorm:"size:36" json:"customer_id"`
	ProviderID string `gorm:"size:36" json:"provider_id"`

	Amount           float64 `json:"amount"`
	PlatformFee      float64 `json:"platform_fee"`
	ProviderEarnings float64 `json:"provider_earnings"`

	PaymentReference string `gorm:"size:100;uniqueIndex" json:"payment_reference"`
	PaymentStatus    string `gorm:"size:20;default:'pending'" json:"payment_status"`

	CreatedAt time.Time `json:"created_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
