package booking

import (
	"context"

	"github.com/quickone/marketplace-api/internal/models"
)

type Repository interface {
	// -------- Users / Services --------
	GetUserByID(
		ctx context.Context,
		id string,
	) (*models.User, error)

	GetServiceByID(
		ctx context.Context,
		id string,
	) (*models.Service, error)

	// -------- Booking --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	GetBookingByID(
		ctx context.Context,
		id string,
	) (*models.Booking, error)

	ListBookingsForUser(
		ctx context.Context,
		userID string,
		role string,
	) ([]models.Booking, error)

	// TransitionBooking aplica mutate sobre a linha relida com lock
	// dentro da transação e devolve o estado gravado. Toda escrita de
	// reserva passa por aqui: snapshot de fora nunca vai para o banco.
	TransitionBooking(
		ctx context.Context,
		bookingID string,
		mutate func(*models.Booking) error,
	) (*models.Booking, error)

	// -------- Price Offers --------
	CreateOffer(
		ctx context.Context,
		o *models.PriceOffer,
	) error

	GetOfferByID(
		ctx context.Context,
		id string,
	) (*models.PriceOffer, error)

	ListOffersByBooking(
		ctx context.Context,
		bookingID string,
	) ([]models.PriceOffer, error)

	// ResolveOffer grava uma resolução simples (reject) conferindo na
	// transação que a oferta ainda estava pendente.
	ResolveOffer(
		ctx context.Context,
		o *models.PriceOffer,
	) error

	// AcceptOffer resolve a aceitação em uma única transação: oferta
	// aceita, irmãs pendentes substituídas e o preço fixado na reserva
	// relida com lock (cancelamento concorrente faz a aceitação falhar).
	AcceptOffer(
		ctx context.Context,
		o *models.PriceOffer,
	) error

	// CounterOffer grava a resolução da original e cria a sucessora
	// na mesma transação.
	CounterOffer(
		ctx context.Context,
		original *models.PriceOffer,
		successor *models.PriceOffer,
	) error

	// -------- Messages --------
	CreateMessage(
		ctx context.Context,
		m *models.Message,
	) error

	ListMessagesByBooking(
		ctx context.Context,
		bookingID string,
	) ([]models.Message, error)

	// -------- Transactions --------
	CreateTransaction(
		ctx context.Context,
		t *models.Transaction,
	) error
}
