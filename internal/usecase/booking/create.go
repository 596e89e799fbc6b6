package booking

import (
	"context"

	domain "github.com/quickone/marketplace-api/internal/domain/booking"
	"github.com/quickone/marketplace-api/internal/httperr"
	"github.com/quickone/marketplace-api/internal/models"
	"github.com/quickone/marketplace-api/internal/notify"
)

type CreateBookingInput struct {
	ServiceID       string
	PreferredDate   string
	PreferredTime   string
	ServiceLocation string
	Notes           string
}

type CreateBooking struct {
	repo   domain.Repository
	notify *notify.Dispatcher
}

func NewCreateBooking(
	repo domain.Repository,
	notify *notify.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:   repo,
		notify: notify,
	}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	customerID string,
	in CreateBookingInput,
) (*models.Booking, error) {

	service, err := uc.repo.GetServiceByID(ctx, in.ServiceID)
	if err != nil {
		return nil, httperr.ErrValidation("service_not_found")
	}

	b := &models.Booking{
		CustomerID: customerID,
		ProviderID: service.ProviderID,
		ServiceID:  service.ID,

		Status:        string(domain.InitialStatus()),
		PaymentStatus: string(domain.PaymentPending),
		TotalAmount:   service.Price,

		PreferredDate:   in.PreferredDate,
		PreferredTime:   in.PreferredTime,
		ServiceLocation: in.ServiceLocation,
		Notes:           in.Notes,
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.notify.Dispatch(notify.Event{
		UserID:    b.ProviderID,
		Type:      "new_booking",
		Message:   "Você recebeu uma nova solicitação de serviço",
		BookingID: b.ID,
	})

	return b, nil
}
