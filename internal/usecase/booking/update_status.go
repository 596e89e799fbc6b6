package booking

import (
	"context"
	"time"

	domain "github.com/quickone/marketplace-api/internal/domain/booking"
	"github.com/quickone/marketplace-api/internal/models"
	"github.com/quickone/marketplace-api/internal/notify"
)

type UpdateBookingStatus struct {
	repo   domain.Repository
	notify *notify.Dispatcher
}

func NewUpdateBookingStatus(
	repo domain.Repository,
	notify *notify.Dispatcher,
) *UpdateBookingStatus {
	return &UpdateBookingStatus{
		repo:   repo,
		notify: notify,
	}
}

// Execute aplica a transição dentro da transação do repositório, sobre
// a linha relida com lock, e devolve o estado gravado — nunca um
// snapshot otimista local. Duas transições correndo se serializam: a
// segunda roda o guard sobre o que a primeira deixou.
func (uc *UpdateBookingStatus) Execute(
	ctx context.Context,
	actorID string,
	bookingID string,
	target string,
) (*models.Booking, error) {

	now := time.Now()
	b, err := uc.repo.TransitionBooking(ctx, bookingID, func(b *models.Booking) error {
		return domain.Transition(b, domain.Status(target), actorID, now)
	})
	if err != nil {
		return nil, err
	}

	uc.notify.Dispatch(notify.Event{
		UserID:    b.Counterpart(actorID),
		Type:      "booking_" + target,
		Message:   "Sua reserva mudou de status: " + target,
		BookingID: b.ID,
	})

	return b, nil
}
