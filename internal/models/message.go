package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mensagem de chat; imutável depois de gravada.
type Message struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	BookingID string `gorm:"size:36;index" json:"booking_id"`

	SenderID   string `gorm:"size:36" json:"sender_id"`
	SenderName string `gorm:"size:100" json:"sender_name"`
	Text       string `gorm:"size:1000" json:"text"`

	CreatedAt time.Time `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
