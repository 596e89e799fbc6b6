package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Booking struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	CustomerID string `gorm:"size:36;index" json:"customer_id"`
	Customer   User   `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ProviderID string `gorm:"size:36;index" json:"provider_id"`
	Provider   User   `gorm:"foreignKey:ProviderID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	ServiceID string  `gorm:"size:36;index" json:"service_id"`
	Service   Service `gorm:"foreignKey:ServiceID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Status        string `gorm:"size:30;default:'pending'" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'pending'" json:"payment_status"`

	TotalAmount     float64  `json:"total_amount"`
	AgreedPrice     *float64 `json:"agreed_price"`
	PriceNegotiated bool     `gorm:"default:false" json:"price_negotiated"`

	PreferredDate   string `gorm:"size:20" json:"preferred_date"`
	PreferredTime   string `gorm:"size:10" json:"preferred_time"`
	ServiceLocation string `gorm:"size:255" json:"service_location"`
	Notes           string `gorm:"size:500" json:"notes"`

	CompletedAt *time.Time `json:"completed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// IsParty diz se o usuário participa da reserva.
func (b *Booking) IsParty(userID string) bool {
	return b.CustomerID == userID || b.ProviderID == userID
}

// Counterpart retorna a outra parte da reserva.
func (b *Booking) Counterpart(userID string) string {
	if b.CustomerID == userID {
		return b.ProviderID
	}
	return b.CustomerID
}
