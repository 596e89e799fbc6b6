package negotiation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/quickone/marketplace-api/internal/domain/booking"
	dneg "github.com/quickone/marketplace-api/internal/domain/negotiation"
	"github.com/quickone/marketplace-api/internal/httperr"
	"github.com/quickone/marketplace-api/internal/models"
)

// fakeRepo imita o repositório gorm em memória, inclusive os guards
// transacionais de resolução de oferta e a releitura por cópia.
type fakeRepo struct {
	users    map[string]*models.User
	services map[string]*models.Service
	bookings map[string]*models.Booking
	offers   map[string]*models.PriceOffer
	messages map[string][]models.Message
	txs      []models.Transaction
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:    make(map[string]*models.User),
		services: make(map[string]*models.Service),
		bookings: make(map[string]*models.Booking),
		offers:   make(map[string]*models.PriceOffer),
		messages: make(map[string][]models.Message),
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	if err := domain.ValidateState(domain.Status(b.Status), domain.PaymentStatus(b.PaymentStatus)); err != nil {
		return err
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeRepo) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) ListBookingsForUser(ctx context.Context, userID, role string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if (role == models.RoleProvider && b.ProviderID == userID) ||
			(role != models.RoleProvider && b.CustomerID == userID) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeRepo) TransitionBooking(ctx context.Context, bookingID string, mutate func(*models.Booking) error) (*models.Booking, error) {
	stored, ok := r.bookings[bookingID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}

	fresh := *stored
	if err := mutate(&fresh); err != nil {
		return nil, err
	}
	if err := domain.ValidateState(domain.Status(fresh.Status), domain.PaymentStatus(fresh.PaymentStatus)); err != nil {
		return nil, err
	}

	r.bookings[bookingID] = &fresh
	cp := fresh
	return &cp, nil
}

func (r *fakeRepo) CreateOffer(ctx context.Context, o *models.PriceOffer) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	cp := *o
	r.offers[o.ID] = &cp
	return nil
}

func (r *fakeRepo) GetOfferByID(ctx context.Context, id string) (*models.PriceOffer, error) {
	o, ok := r.offers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeRepo) ListOffersByBooking(ctx context.Context, bookingID string) ([]models.PriceOffer, error) {
	var out []models.PriceOffer
	for _, o := range r.offers {
		if o.BookingID == bookingID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (r *fakeRepo) ResolveOffer(ctx context.Context, o *models.PriceOffer) error {
	stored, ok := r.offers[o.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if dneg.OfferStatus(stored.Status) != dneg.OfferPending {
		return httperr.ErrAlreadyResolved("offer_already_resolved")
	}
	cp := *o
	r.offers[o.ID] = &cp
	return nil
}

func (r *fakeRepo) AcceptOffer(ctx context.Context, o *models.PriceOffer) error {
	stored, ok := r.offers[o.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if dneg.OfferStatus(stored.Status) != dneg.OfferPending {
		return httperr.ErrAlreadyResolved("offer_already_resolved")
	}

	booking, ok := r.bookings[o.BookingID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if booking.Status == string(domain.StatusCancelled) {
		return httperr.ErrInvalidTransition("booking_cancelled")
	}

	cp := *o
	r.offers[o.ID] = &cp

	now := time.Now()
	for _, sibling := range r.offers {
		if sibling.BookingID == o.BookingID && sibling.ID != o.ID &&
			dneg.OfferStatus(sibling.Status) == dneg.OfferPending {
			sibling.Status = string(dneg.OfferSuperseded)
			sibling.RespondedAt = &now
		}
	}

	fresh := *booking
	dneg.ApplyAgreedPrice(&fresh, o.OfferedPrice)
	if err := domain.ValidateState(domain.Status(fresh.Status), domain.PaymentStatus(fresh.PaymentStatus)); err != nil {
		return err
	}
	r.bookings[fresh.ID] = &fresh
	return nil
}

func (r *fakeRepo) CounterOffer(ctx context.Context, original, successor *models.PriceOffer) error {
	stored, ok := r.offers[original.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if dneg.OfferStatus(stored.Status) != dneg.OfferPending {
		return httperr.ErrAlreadyResolved("offer_already_resolved")
	}

	cp := *original
	r.offers[original.ID] = &cp

	return r.CreateOffer(ctx, successor)
}

func (r *fakeRepo) CreateMessage(ctx context.Context, m *models.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	r.messages[m.BookingID] = append(r.messages[m.BookingID], *m)
	return nil
}

func (r *fakeRepo) ListMessagesByBooking(ctx context.Context, bookingID string) ([]models.Message, error) {
	return r.messages[bookingID], nil
}

func (r *fakeRepo) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	r.txs = append(r.txs, *t)
	return nil
}
