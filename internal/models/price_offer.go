package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceOffer struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	BookingID string  `gorm:"size:36;index" json:"booking_id"`
	Booking   Booking `gorm:"foreignKey:BookingID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	OfferedBy    string  `gorm:"size:36;index" json:"offered_by"`
	OfferedPrice float64 `json:"offered_price"`
	Message      string  `gorm:"size:300" json:"message"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	// Preenchido no sucessor de uma contraproposta, apontando para a
	// oferta original.
	ParentOfferID *string `gorm:"size:36" json:"parent_offer_id"`

	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at"`
}

func (o *PriceOffer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
