package negotiation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/quickone/marketplace-api/internal/domain/booking"
	dneg "github.com/quickone/marketplace-api/internal/domain/negotiation"
	"github.com/quickone/marketplace-api/internal/httperr"
	"github.com/quickone/marketplace-api/internal/models"
	"github.com/quickone/marketplace-api/internal/notify"
)

type noopSink struct{}

func (noopSink) Save(userID, kind, message, bookingID string) error { return nil }

func newDispatcher() *notify.Dispatcher {
	return notify.NewDispatcher(noopSink{})
}

func seedBooking(repo *fakeRepo) *models.Booking {
	b := &models.Booking{
		ID:            "b1",
		CustomerID:    "cust-1",
		ProviderID:    "prov-1",
		Status:        "pending",
		PaymentStatus: "pending",
		TotalAmount:   100,
	}
	repo.bookings[b.ID] = b
	return b
}

func seedOffer(repo *fakeRepo, id, offeredBy string, price float64) *models.PriceOffer {
	o := &models.PriceOffer{
		ID:           id,
		BookingID:    "b1",
		OfferedBy:    offeredBy,
		OfferedPrice: price,
		Status:       string(dneg.OfferPending),
	}
	repo.offers[o.ID] = o
	return o
}

func TestAcceptSupersedesPendingSiblings(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo)

	// as duas partes têm propostas pendentes ao mesmo tempo
	fromCustomer := seedOffer(repo, "o-cust", b.CustomerID, 70)
	fromProvider := seedOffer(repo, "o-prov", b.ProviderID, 90)

	uc := NewRespondOffer(repo, newDispatcher())

	// o cliente aceita a proposta do prestador
	res, err := uc.Execute(context.Background(), b.CustomerID, fromProvider.ID, ActionAccept, 0, "")
	require.NoError(t, err)

	assert.Equal(t, string(dneg.OfferAccepted), res.Offer.Status)
	require.NotNil(t, res.Offer.RespondedAt)

	// a proposta pendente do cliente foi substituída na mesma resolução
	other, err := repo.GetOfferByID(context.Background(), fromCustomer.ID)
	require.NoError(t, err)
	assert.Equal(t, string(dneg.OfferSuperseded), other.Status)
	require.NotNil(t, other.RespondedAt)

	// o preço aceito passa a valer na reserva
	require.NotNil(t, res.Booking.AgreedPrice)
	assert.Equal(t, 90.0, *res.Booking.AgreedPrice)
	assert.Equal(t, 90.0, res.Booking.TotalAmount)
	assert.True(t, res.Booking.PriceNegotiated)
}

func TestRejectLeavesSiblingsAlone(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo)

	fromCustomer := seedOffer(repo, "o-cust", b.CustomerID, 70)
	fromProvider := seedOffer(repo, "o-prov", b.ProviderID, 90)

	uc := NewRespondOffer(repo, newDispatcher())

	res, err := uc.Execute(context.Background(), b.ProviderID, fromCustomer.ID, ActionReject, 0, "")
	require.NoError(t, err)

	assert.Equal(t, string(dneg.OfferRejected), res.Offer.Status)
	assert.False(t, res.Booking.PriceNegotiated)

	// rejeitar não mexe na outra proposta pendente
	other, err := repo.GetOfferByID(context.Background(), fromProvider.ID)
	require.NoError(t, err)
	assert.Equal(t, string(dneg.OfferPending), other.Status)
}

func TestCounterCreatesPendingSuccessor(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo)
	original := seedOffer(repo, "o-cust", b.CustomerID, 70)

	uc := NewRespondOffer(repo, newDispatcher())

	res, err := uc.Execute(context.Background(), b.ProviderID, original.ID, ActionCounter, 85, "fecho por 85")
	require.NoError(t, err)

	assert.Equal(t, string(dneg.OfferCountered), res.Offer.Status)

	require.NotNil(t, res.Successor)
	assert.Equal(t, string(dneg.OfferPending), res.Successor.Status)
	assert.Equal(t, b.ProviderID, res.Successor.OfferedBy)
	assert.Equal(t, 85.0, res.Successor.OfferedPrice)
	require.NotNil(t, res.Successor.ParentOfferID)
	assert.Equal(t, original.ID, *res.Successor.ParentOfferID)

	// negociação segue aberta até alguém aceitar
	assert.False(t, res.Booking.PriceNegotiated)
}

func TestRespondResolvedOfferConflicts(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo)

	fromCustomer := seedOffer(repo, "o-cust", b.CustomerID, 70)
	fromProvider := seedOffer(repo, "o-prov", b.ProviderID, 90)

	uc := NewRespondOffer(repo, newDispatcher())

	_, err := uc.Execute(context.Background(), b.CustomerID, fromProvider.ID, ActionAccept, 0, "")
	require.NoError(t, err)

	// o prestador tenta rejeitar a proposta que acabou de ser substituída
	_, err = uc.Execute(context.Background(), b.ProviderID, fromCustomer.ID, ActionReject, 0, "")
	assert.True(t, httperr.IsKind(err, httperr.KindAlreadyResolved))

	// repetir a aceitação também conflita
	_, err = uc.Execute(context.Background(), b.CustomerID, fromProvider.ID, ActionAccept, 0, "")
	assert.True(t, httperr.IsKind(err, httperr.KindAlreadyResolved))
}

func TestCounterThenAcceptFixesCounterPrice(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo)

	propose := NewProposeOffer(repo, newDispatcher())
	respond := NewRespondOffer(repo, newDispatcher())

	// o prestador propõe 5000
	original, err := propose.Execute(context.Background(), b.ProviderID, b.ID, 5000, "")
	require.NoError(t, err)

	// o cliente contrapropõe 4000
	countered, err := respond.Execute(context.Background(), b.CustomerID, original.ID, ActionCounter, 4000, "")
	require.NoError(t, err)
	require.NotNil(t, countered.Successor)

	// o prestador aceita a contraproposta
	final, err := respond.Execute(context.Background(), b.ProviderID, countered.Successor.ID, ActionAccept, 0, "")
	require.NoError(t, err)

	assert.Equal(t, string(dneg.OfferAccepted), final.Offer.Status)
	require.NotNil(t, final.Booking.AgreedPrice)
	assert.Equal(t, 4000.0, *final.Booking.AgreedPrice)
	assert.Equal(t, 4000.0, final.Booking.TotalAmount)
	assert.True(t, final.Booking.PriceNegotiated)

	// a original segue countered: a varredura de aceitação só toca
	// ofertas ainda pendentes
	first, err := repo.GetOfferByID(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, string(dneg.OfferCountered), first.Status)
}

func TestAcceptAfterCancellationKeepsCancelled(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo)
	offer := seedOffer(repo, "o-prov", b.ProviderID, 90)

	// o cliente carrega os snapshots antes de responder
	snapshot, err := repo.GetBookingByID(context.Background(), b.ID)
	require.NoError(t, err)
	stale, err := repo.GetOfferByID(context.Background(), offer.ID)
	require.NoError(t, err)

	// o prestador cancela no meio do caminho
	_, err = repo.TransitionBooking(context.Background(), b.ID, func(fresh *models.Booking) error {
		return domain.Transition(fresh, domain.StatusCancelled, b.ProviderID, time.Now())
	})
	require.NoError(t, err)

	// a aceitação passa no guard local sobre o snapshot velho...
	require.NoError(t, dneg.Accept(stale, snapshot, b.CustomerID, time.Now()))

	// ...mas o repositório recusa sobre a linha fresca
	err = repo.AcceptOffer(context.Background(), stale)
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))

	// o cancelamento terminal sobrevive à aceitação atrasada
	stored, err := repo.GetBookingByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), stored.Status)
	assert.False(t, stored.PriceNegotiated)
	assert.Nil(t, stored.AgreedPrice)
}

func TestRespondOnCancelledBooking(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo)
	o := seedOffer(repo, "o-prov", b.ProviderID, 90)

	_, err := repo.TransitionBooking(context.Background(), b.ID, func(fresh *models.Booking) error {
		return domain.Transition(fresh, domain.StatusCancelled, b.CustomerID, time.Now())
	})
	require.NoError(t, err)

	uc := NewRespondOffer(repo, newDispatcher())

	_, err = uc.Execute(context.Background(), b.CustomerID, o.ID, ActionAccept, 0, "")
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))
}

func TestRespondOwnOffer(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo)
	o := seedOffer(repo, "o-cust", b.CustomerID, 70)

	uc := NewRespondOffer(repo, newDispatcher())

	_, err := uc.Execute(context.Background(), b.CustomerID, o.ID, ActionAccept, 0, "")
	assert.True(t, httperr.IsKind(err, httperr.KindNotAuthorized))

	stored, _ := repo.GetOfferByID(context.Background(), o.ID)
	assert.Equal(t, string(dneg.OfferPending), stored.Status)
}

func TestRespondInvalidAction(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo)
	o := seedOffer(repo, "o-cust", b.CustomerID, 70)

	uc := NewRespondOffer(repo, newDispatcher())

	_, err := uc.Execute(context.Background(), b.ProviderID, o.ID, "renegotiate", 0, "")
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}

func TestProposeOffer(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo)

	uc := NewProposeOffer(repo, newDispatcher())

	o, err := uc.Execute(context.Background(), b.CustomerID, b.ID, 75, "faz por 75?")
	require.NoError(t, err)
	assert.Equal(t, string(dneg.OfferPending), o.Status)

	// as duas partes podem ter propostas pendentes ao mesmo tempo
	_, err = uc.Execute(context.Background(), b.ProviderID, b.ID, 95, "")
	require.NoError(t, err)

	offers, err := repo.ListOffersByBooking(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Len(t, offers, 2)
}

func TestProposeAfterPriceFixed(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo)
	b.PriceNegotiated = true

	uc := NewProposeOffer(repo, newDispatcher())

	_, err := uc.Execute(context.Background(), b.CustomerID, b.ID, 60, "")
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))
}

func TestProposeNonParty(t *testing.T) {
	repo := newFakeRepo()
	b := seedBooking(repo)

	uc := NewProposeOffer(repo, newDispatcher())

	_, err := uc.Execute(context.Background(), "intruso", b.ID, 60, "")
	assert.True(t, httperr.IsKind(err, httperr.KindNotAuthorized))
}
