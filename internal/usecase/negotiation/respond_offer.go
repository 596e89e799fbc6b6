package negotiation

import (
	"context"
	"time"

	domain "github.com/quickone/marketplace-api/internal/domain/booking"
	"github.com/quickone/marketplace-api/internal/domain/negotiation"
	"github.com/quickone/marketplace-api/internal/httperr"
	"github.com/quickone/marketplace-api/internal/models"
	"github.com/quickone/marketplace-api/internal/notify"
)

const (
	ActionAccept  = "accept"
	ActionReject  = "reject"
	ActionCounter = "counter"
)

// RespondResult é o estado autoritativo relido depois da mutação.
type RespondResult struct {
	Offer     *models.PriceOffer `json:"offer"`
	Successor *models.PriceOffer `json:"successor,omitempty"`
	Booking   *models.Booking    `json:"booking"`
}

type RespondOffer struct {
	repo   domain.Repository
	notify *notify.Dispatcher
}

func NewRespondOffer(
	repo domain.Repository,
	notify *notify.Dispatcher,
) *RespondOffer {
	return &RespondOffer{
		repo:   repo,
		notify: notify,
	}
}

func (uc *RespondOffer) Execute(
	ctx context.Context,
	responderID string,
	offerID string,
	action string,
	counterPrice float64,
	message string,
) (*RespondResult, error) {

	offer, err := uc.repo.GetOfferByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	b, err := uc.repo.GetBookingByID(ctx, offer.BookingID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var successor *models.PriceOffer

	switch action {
	case ActionAccept:
		if err := negotiation.Accept(offer, b, responderID, now); err != nil {
			return nil, err
		}
		if err := uc.repo.AcceptOffer(ctx, offer); err != nil {
			return nil, err
		}

	case ActionReject:
		if err := negotiation.Reject(offer, b, responderID, now); err != nil {
			return nil, err
		}
		if err := uc.repo.ResolveOffer(ctx, offer); err != nil {
			return nil, err
		}

	case ActionCounter:
		successor, err = negotiation.Counter(offer, b, responderID, counterPrice, message, now)
		if err != nil {
			return nil, err
		}
		if err := uc.repo.CounterOffer(ctx, offer, successor); err != nil {
			return nil, err
		}

	default:
		return nil, httperr.ErrValidation("invalid_action")
	}

	uc.notify.Dispatch(notify.Event{
		UserID:    b.Counterpart(responderID),
		Type:      "offer_" + action,
		Message:   "Sua proposta de preço foi respondida",
		BookingID: b.ID,
	})

	return uc.reread(ctx, offer.ID, b.ID, successor)
}

// reread recarrega oferta e reserva do banco: o chamador nunca deve
// confiar na escrita otimista local.
func (uc *RespondOffer) reread(
	ctx context.Context,
	offerID string,
	bookingID string,
	successor *models.PriceOffer,
) (*RespondResult, error) {

	offer, err := uc.repo.GetOfferByID(ctx, offerID)
	if err != nil {
		return nil, err
	}

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	res := &RespondResult{Offer: offer, Booking: b}

	if successor != nil {
		s, err := uc.repo.GetOfferByID(ctx, successor.ID)
		if err != nil {
			return nil, err
		}
		res.Successor = s
	}

	return res, nil
}
