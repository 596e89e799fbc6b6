package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	UserID    string `gorm:"size:36;index" json:"user_id"`
	Type      string `gorm:"size:50" json:"type"`
	Message   string `gorm:"size:255" json:"message"`
	BookingID string `gorm:"size:36" json:"booking_id"`
	IsRead    bool   `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
