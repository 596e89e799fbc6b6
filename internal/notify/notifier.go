package notify

import (
	"gorm.io/gorm"

	"github.com/quickone/marketplace-api/internal/models"
)

type Notifier struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Notifier {
	return &Notifier{db: db}
}

var _ Sink = (*Notifier)(nil)

func (n *Notifier) Save(userID, kind, message, bookingID string) error {
	notification := models.Notification{
		UserID:    userID,
		Type:      kind,
		Message:   message,
		BookingID: bookingID,
	}

	return n.db.Create(&notification).Error
}
