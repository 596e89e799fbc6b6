package booking

import "github.com/quickone/marketplace-api/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending           Status = "pending"
	StatusAccepted          Status = "accepted"
	StatusCompleted         Status = "completed"
	StatusCustomerConfirmed Status = "customer_confirmed"
	StatusCancelled         Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Estado composto
// ===============================

// validStates é a lista fechada de pares (status, payment_status)
// aceitos em qualquer gravação de reserva. O eixo de pagamento só sai
// de pending depois de customer_confirmed.
var validStates = map[Status][]PaymentStatus{
	StatusPending:           {PaymentPending},
	StatusAccepted:          {PaymentPending},
	StatusCompleted:         {PaymentPending},
	StatusCustomerConfirmed: {PaymentPending, PaymentPaid, PaymentFailed},
	StatusCancelled:         {PaymentPending, PaymentFailed},
}

func ValidateState(status Status, payment PaymentStatus) error {
	allowed, ok := validStates[status]
	if !ok {
		return httperr.ErrInvalidTransition("invalid_state")
	}
	for _, p := range allowed {
		if p == payment {
			return nil
		}
	}
	return httperr.ErrInvalidTransition("invalid_state")
}

// IsTerminal: cancelada, ou confirmada e paga.
func IsTerminal(status Status, payment PaymentStatus) bool {
	if status == StatusCancelled {
		return true
	}
	return status == StatusCustomerConfirmed && payment == PaymentPaid
}

// ===============================
// Tabela de transições
// ===============================

// CanTransition valida a transição de status pelo papel do ator.
// Cancelamento vale para ambas as partes a partir de qualquer estado
// não terminal; o resto segue a tabela.
func CanTransition(from, to Status, payment PaymentStatus, role string) error {
	if to == StatusCancelled {
		if IsTerminal(from, payment) {
			return httperr.ErrInvalidTransition("invalid_state")
		}
		return nil
	}

	switch {
	case from == StatusPending && to == StatusAccepted:
		if role != "provider" {
			return httperr.ErrInvalidTransition("provider_only")
		}
	case from == StatusAccepted && to == StatusCompleted:
		if role != "provider" {
			return httperr.ErrInvalidTransition("provider_only")
		}
	case from == StatusCompleted && to == StatusCustomerConfirmed:
		if role != "customer" {
			return httperr.ErrInvalidTransition("customer_only")
		}
	default:
		return httperr.ErrInvalidTransition("invalid_state")
	}

	return nil
}
