package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/quickone/marketplace-api/internal/domain/booking"
	"github.com/quickone/marketplace-api/internal/domain/negotiation"
	"github.com/quickone/marketplace-api/internal/httperr"
	"github.com/quickone/marketplace-api/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Users / Services
// --------------------------------------------------

func (r *BookingGormRepository) GetUserByID(
	ctx context.Context,
	id string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *BookingGormRepository) GetServiceByID(
	ctx context.Context,
	id string,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {

	if err := domain.ValidateState(
		domain.Status(b.Status),
		domain.PaymentStatus(b.PaymentStatus),
	); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingGormRepository) GetBookingByID(
	ctx context.Context,
	id string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) ListBookingsForUser(
	ctx context.Context,
	userID string,
	role string,
) ([]models.Booking, error) {

	column := "customer_id"
	if role == models.RoleProvider {
		column = "provider_id"
	}

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Where(column+" = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// TransitionBooking relê a reserva com lock FOR UPDATE, aplica mutate
// sobre a linha fresca e valida o par (status, payment_status) antes de
// gravar. Duas transições correndo se serializam aqui: a segunda roda
// o guard sobre o estado que a primeira deixou e falha se ele não vale
// mais — nunca sobrescreve.
func (r *BookingGormRepository) TransitionBooking(
	ctx context.Context,
	bookingID string,
	mutate func(*models.Booking) error,
) (*models.Booking, error) {

	var b models.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", bookingID).
			First(&b).Error; err != nil {
			return err
		}

		if err := mutate(&b); err != nil {
			return err
		}

		if err := domain.ValidateState(
			domain.Status(b.Status),
			domain.PaymentStatus(b.PaymentStatus),
		); err != nil {
			return err
		}

		return tx.Save(&b).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// --------------------------------------------------
// Price Offers
// --------------------------------------------------

func (r *BookingGormRepository) CreateOffer(
	ctx context.Context,
	o *models.PriceOffer,
) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *BookingGormRepository) GetOfferByID(
	ctx context.Context,
	id string,
) (*models.PriceOffer, error) {

	var o models.PriceOffer
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *BookingGormRepository) ListOffersByBooking(
	ctx context.Context,
	bookingID string,
) ([]models.PriceOffer, error) {

	var offers []models.PriceOffer
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&offers).Error; err != nil {
		return nil, err
	}
	return offers, nil
}

// ResolveOffer protege contra duas respostas correndo para a mesma
// oferta: a segunda encontra status != pending e falha.
func (r *BookingGormRepository) ResolveOffer(
	ctx context.Context,
	o *models.PriceOffer,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var current models.PriceOffer
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", o.ID).
			First(&current).Error; err != nil {
			return err
		}

		if current.Status != string(negotiation.OfferPending) {
			return httperr.ErrAlreadyResolved("offer_already_resolved")
		}

		return tx.Save(o).Error
	})
}

// AcceptOffer resolve a aceitação em uma transação: confere que a
// oferta ainda está pendente (duas respostas correndo), marca as irmãs
// pendentes como superseded e fixa o preço na reserva relida com lock.
// A reserva nunca é gravada a partir do snapshot do chamador: um
// cancelamento que entrou no meio do caminho faz a aceitação falhar em
// vez de ser sobrescrito.
func (r *BookingGormRepository) AcceptOffer(
	ctx context.Context,
	o *models.PriceOffer,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var current models.PriceOffer
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", o.ID).
			First(&current).Error; err != nil {
			return err
		}

		if current.Status != string(negotiation.OfferPending) {
			return httperr.ErrAlreadyResolved("offer_already_resolved")
		}

		var b models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", o.BookingID).
			First(&b).Error; err != nil {
			return err
		}

		if b.Status == string(domain.StatusCancelled) {
			return httperr.ErrInvalidTransition("booking_cancelled")
		}

		if err := tx.Save(o).Error; err != nil {
			return err
		}

		now := time.Now()
		if err := tx.Model(&models.PriceOffer{}).
			Where(
				"booking_id = ? AND status = ? AND id <> ?",
				o.BookingID, string(negotiation.OfferPending), o.ID,
			).
			Updates(map[string]any{
				"status":       string(negotiation.OfferSuperseded),
				"responded_at": now,
			}).Error; err != nil {
			return err
		}

		negotiation.ApplyAgreedPrice(&b, o.OfferedPrice)

		if err := domain.ValidateState(
			domain.Status(b.Status),
			domain.PaymentStatus(b.PaymentStatus),
		); err != nil {
			return err
		}

		return tx.Save(&b).Error
	})
}

// CounterOffer grava a resolução da original e cria a sucessora juntas.
func (r *BookingGormRepository) CounterOffer(
	ctx context.Context,
	original *models.PriceOffer,
	successor *models.PriceOffer,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var current models.PriceOffer
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", original.ID).
			First(&current).Error; err != nil {
			return err
		}

		if current.Status != string(negotiation.OfferPending) {
			return httperr.ErrAlreadyResolved("offer_already_resolved")
		}

		if err := tx.Save(original).Error; err != nil {
			return err
		}

		return tx.Create(successor).Error
	})
}

// --------------------------------------------------
// Messages
// --------------------------------------------------

func (r *BookingGormRepository) CreateMessage(
	ctx context.Context,
	m *models.Message,
) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *BookingGormRepository) ListMessagesByBooking(
	ctx context.Context,
	bookingID string,
) ([]models.Message, error) {

	var msgs []models.Message
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

// --------------------------------------------------
// Transactions
// --------------------------------------------------

func (r *BookingGormRepository) CreateTransaction(
	ctx context.Context,
	t *models.Transaction,
) error {
	return r.db.WithContext(ctx).Create(t).Error
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
