package booking

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	domain "github.com/quickone/marketplace-api/internal/domain/booking"
	"github.com/quickone/marketplace-api/internal/httperr"
	"github.com/quickone/marketplace-api/internal/models"
	"github.com/quickone/marketplace-api/internal/notify"
)

type noopSink struct{}

func (noopSink) Save(userID, kind, message, bookingID string) error { return nil }

func newDispatcher() *notify.Dispatcher {
	return notify.NewDispatcher(noopSink{})
}

// fakeRepo cobre só o que os casos de uso de reserva tocam; as
// operações de oferta não são exercitadas aqui.
type fakeRepo struct {
	services map[string]*models.Service
	bookings map[string]*models.Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		services: make(map[string]*models.Service),
		bookings: make(map[string]*models.Booking),
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (r *fakeRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
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

func (r *fakeRepo) CreateOffer(ctx context.Context, o *models.PriceOffer) error { return nil }
func (r *fakeRepo) GetOfferByID(ctx context.Context, id string) (*models.PriceOffer, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeRepo) ListOffersByBooking(ctx context.Context, bookingID string) ([]models.PriceOffer, error) {
	return nil, nil
}
func (r *fakeRepo) ResolveOffer(ctx context.Context, o *models.PriceOffer) error { return nil }
func (r *fakeRepo) AcceptOffer(ctx context.Context, o *models.PriceOffer) error  { return nil }
func (r *fakeRepo) CounterOffer(ctx context.Context, original, successor *models.PriceOffer) error {
	return nil
}
func (r *fakeRepo) CreateMessage(ctx context.Context, m *models.Message) error { return nil }
func (r *fakeRepo) ListMessagesByBooking(ctx context.Context, bookingID string) ([]models.Message, error) {
	return nil, nil
}
func (r *fakeRepo) CreateTransaction(ctx context.Context, t *models.Transaction) error { return nil }

func seedService(repo *fakeRepo) *models.Service {
	s := &models.Service{
		ID:         "svc-1",
		ProviderID: "prov-1",
		Title:      "Limpeza residencial",
		Price:      100,
	}
	repo.services[s.ID] = s
	return s
}

func TestCreateBooking(t *testing.T) {
	repo := newFakeRepo()
	svc := seedService(repo)

	uc := NewCreateBooking(repo, newDispatcher())

	b, err := uc.Execute(context.Background(), "cust-1", CreateBookingInput{
		ServiceID:     svc.ID,
		PreferredDate: "2026-09-10",
		PreferredTime: "14:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "cust-1", b.CustomerID)
	assert.Equal(t, svc.ProviderID, b.ProviderID)
	assert.Equal(t, "pending", b.Status)
	assert.Equal(t, "pending", b.PaymentStatus)
	assert.Equal(t, svc.Price, b.TotalAmount)
	assert.NotEmpty(t, b.ID)
}

func TestCreateBookingUnknownService(t *testing.T) {
	repo := newFakeRepo()

	uc := NewCreateBooking(repo, newDispatcher())

	_, err := uc.Execute(context.Background(), "cust-1", CreateBookingInput{ServiceID: "nope"})
	assert.True(t, httperr.IsKind(err, httperr.KindValidation))
}

func TestUpdateStatusLifecycle(t *testing.T) {
	repo := newFakeRepo()
	svc := seedService(repo)

	create := NewCreateBooking(repo, newDispatcher())
	update := NewUpdateBookingStatus(repo, newDispatcher())

	b, err := create.Execute(context.Background(), "cust-1", CreateBookingInput{ServiceID: svc.ID})
	require.NoError(t, err)

	// pending → accepted → completed (prestador)
	b, err = update.Execute(context.Background(), "prov-1", b.ID, "accepted")
	require.NoError(t, err)
	assert.Equal(t, "accepted", b.Status)

	b, err = update.Execute(context.Background(), "prov-1", b.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, "completed", b.Status)
	assert.NotNil(t, b.CompletedAt)

	// completed → customer_confirmed (cliente)
	b, err = update.Execute(context.Background(), "cust-1", b.ID, "customer_confirmed")
	require.NoError(t, err)
	assert.Equal(t, "customer_confirmed", b.Status)

	// o retorno é o estado relido do repositório
	stored, err := repo.GetBookingByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Status, b.Status)
}

func TestUpdateStatusWrongRole(t *testing.T) {
	repo := newFakeRepo()
	svc := seedService(repo)

	create := NewCreateBooking(repo, newDispatcher())
	update := NewUpdateBookingStatus(repo, newDispatcher())

	b, err := create.Execute(context.Background(), "cust-1", CreateBookingInput{ServiceID: svc.ID})
	require.NoError(t, err)

	_, err = update.Execute(context.Background(), "cust-1", b.ID, "accepted")
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))

	// estado intacto no repositório
	stored, _ := repo.GetBookingByID(context.Background(), b.ID)
	assert.Equal(t, "pending", stored.Status)
}

func TestUpdateStatusNonParty(t *testing.T) {
	repo := newFakeRepo()
	svc := seedService(repo)

	create := NewCreateBooking(repo, newDispatcher())
	update := NewUpdateBookingStatus(repo, newDispatcher())

	b, err := create.Execute(context.Background(), "cust-1", CreateBookingInput{ServiceID: svc.ID})
	require.NoError(t, err)

	_, err = update.Execute(context.Background(), "intruso", b.ID, "cancelled")
	assert.True(t, httperr.IsKind(err, httperr.KindNotAuthorized))
}

func TestCancelAppliesToBothParties(t *testing.T) {
	repo := newFakeRepo()
	svc := seedService(repo)

	create := NewCreateBooking(repo, newDispatcher())
	update := NewUpdateBookingStatus(repo, newDispatcher())

	b, err := create.Execute(context.Background(), "cust-1", CreateBookingInput{ServiceID: svc.ID})
	require.NoError(t, err)

	b, err = update.Execute(context.Background(), "prov-1", b.ID, "cancelled")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", b.Status)
	assert.NotNil(t, b.CancelledAt)

	// cancelada é terminal
	_, err = update.Execute(context.Background(), "prov-1", b.ID, "accepted")
	assert.True(t, httperr.IsKind(err, httperr.KindInvalidTransition))
}

func TestGetBookingPartyCheck(t *testing.T) {
	repo := newFakeRepo()
	svc := seedService(repo)

	create := NewCreateBooking(repo, newDispatcher())
	get := NewGetBooking(repo)

	b, err := create.Execute(context.Background(), "cust-1", CreateBookingInput{ServiceID: svc.ID})
	require.NoError(t, err)

	got, err := get.Execute(context.Background(), "cust-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = get.Execute(context.Background(), "intruso", b.ID)
	assert.True(t, httperr.IsKind(err, httperr.KindNotAuthorized))
}

func TestListBookingsByRole(t *testing.T) {
	repo := newFakeRepo()
	svc := seedService(repo)

	create := NewCreateBooking(repo, newDispatcher())
	list := NewListBookings(repo)

	_, err := create.Execute(context.Background(), "cust-1", CreateBookingInput{ServiceID: svc.ID})
	require.NoError(t, err)
	_, err = create.Execute(context.Background(), "cust-2", CreateBookingInput{ServiceID: svc.ID})
	require.NoError(t, err)

	asProvider, err := list.Execute(context.Background(), "prov-1", models.RoleProvider)
	require.NoError(t, err)
	assert.Len(t, asProvider, 2)

	asCustomer, err := list.Execute(context.Background(), "cust-1", models.RoleCustomer)
	require.NoError(t, err)
	assert.Len(t, asCustomer, 1)
}
