package payment

import (
	"context"

	"github.com/quickone/marketplace-api/internal/models"
)

// Taxa da plataforma descontada do repasse ao prestador.
const PlatformFeeRate = 0.10

const (
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusPending  = "pending"
)

// Checkout é o handle de autorização devolvido na inicialização.
type Checkout struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

// Result é o veredito da verificação de uma referência.
type Result struct {
	Status string  `json:"status"`
	Amount float64 `json:"amount"`
}

// Gateway é o colaborador de pagamento. Ele só é chamado depois de
// customer_confirmed; o eixo payment_status nunca muda por outra via.
type Gateway interface {
	Initialize(
		ctx context.Context,
		b *models.Booking,
		payerEmail string,
	) (*Checkout, error)

	Verify(
		ctx context.Context,
		reference string,
	) (*Result, error)
}
