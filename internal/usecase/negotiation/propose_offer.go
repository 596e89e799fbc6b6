package negotiation

import (
	"context"

	domain "github.com/quickone/marketplace-api/internal/domain/booking"
	"github.com/quickone/marketplace-api/internal/domain/negotiation"
	"github.com/quickone/marketplace-api/internal/models"
	"github.com/quickone/marketplace-api/internal/notify"
)

type ProposeOffer struct {
	repo   domain.Repository
	notify *notify.Dispatcher
}

func NewProposeOffer(
	repo domain.Repository,
	notify *notify.Dispatcher,
) *ProposeOffer {
	return &ProposeOffer{
		repo:   repo,
		notify: notify,
	}
}

// Execute cria uma nova proposta pendente. Nada impede as duas partes
// de terem propostas pendentes ao mesmo tempo; a aceitação resolve.
func (uc *ProposeOffer) Execute(
	ctx context.Context,
	proposerID string,
	bookingID string,
	price float64,
	message string,
) (*models.PriceOffer, error) {

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	offer, err := negotiation.NewOffer(b, proposerID, price, message)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.CreateOffer(ctx, offer); err != nil {
		return nil, err
	}

	uc.notify.Dispatch(notify.Event{
		UserID:    b.Counterpart(proposerID),
		Type:      "price_offer",
		Message:   "Você recebeu uma proposta de preço",
		BookingID: b.ID,
	})

	return offer, nil
}
