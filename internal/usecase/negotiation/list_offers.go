package negotiation

import (
	"context"

	domain "github.com/quickone/marketplace-api/internal/domain/booking"
	"github.com/quickone/marketplace-api/internal/httperr"
	"github.com/quickone/marketplace-api/internal/models"
)

type ListOffers struct {
	repo domain.Repository
}

func NewListOffers(repo domain.Repository) *ListOffers {
	return &ListOffers{repo: repo}
}

func (uc *ListOffers) Execute(
	ctx context.Context,
	actorID string,
	bookingID string,
) ([]models.PriceOffer, error) {

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !b.IsParty(actorID) {
		return nil, httperr.ErrNotAuthorized("not_a_party")
	}

	return uc.repo.ListOffersByBooking(ctx, bookingID)
}
