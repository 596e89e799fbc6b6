package booking

import (
	"time"

	"github.com/quickone/marketplace-api/internal/httperr"
	"github.com/quickone/marketplace-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// roleOf resolve o papel do ator em relação à reserva.
func roleOf(b *models.Booking, actorID string) (string, error) {
	switch actorID {
	case b.ProviderID:
		return "provider", nil
	case b.CustomerID:
		return "customer", nil
	}
	return "", httperr.ErrNotAuthorized("not_a_party")
}

// Transition aplica uma transição de status com os efeitos colaterais
// da tabela. A reserva só é mutada se a transição inteira for válida.
func Transition(b *models.Booking, to Status, actorID string, now time.Time) error {
	role, err := roleOf(b, actorID)
	if err != nil {
		return err
	}

	from := Status(b.Status)
	payment := PaymentStatus(b.PaymentStatus)

	if err := CanTransition(from, to, payment, role); err != nil {
		return err
	}

	b.Status = string(to)

	switch to {
	case StatusAccepted:
		// preço negociado passa a valer na aceitação
		if b.PriceNegotiated && b.AgreedPrice != nil {
			b.TotalAmount = *b.AgreedPrice
		}
	case StatusCompleted:
		b.CompletedAt = &now
	case StatusCancelled:
		b.CancelledAt = &now
	}

	return ValidateState(Status(b.Status), PaymentStatus(b.PaymentStatus))
}

// MarkPaid move o eixo de pagamento pending→paid. Só o colaborador de
// pagamento chama isso, e só depois de customer_confirmed.
func MarkPaid(b *models.Booking) error {
	if Status(b.Status) != StatusCustomerConfirmed {
		return httperr.ErrInvalidTransition("booking_not_confirmed")
	}
	if PaymentStatus(b.PaymentStatus) != PaymentPending {
		return httperr.ErrAlreadyResolved("payment_already_settled")
	}

	b.PaymentStatus = string(PaymentPaid)
	return ValidateState(Status(b.Status), PaymentStatus(b.PaymentStatus))
}

// MarkPaymentFailed move o eixo de pagamento pending→failed.
func MarkPaymentFailed(b *models.Booking) error {
	if PaymentStatus(b.PaymentStatus) != PaymentPending {
		return httperr.ErrAlreadyResolved("payment_already_settled")
	}

	b.PaymentStatus = string(PaymentFailed)
	return ValidateState(Status(b.Status), PaymentStatus(b.PaymentStatus))
}
