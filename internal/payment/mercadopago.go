package payment

import (
	"context"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/quickone/marketplace-api/internal/models"
)

// MercadoPagoGateway implementa Gateway via Checkout Pro: a
// inicialização cria uma preference (init point = URL de autorização,
// external reference = referência da reserva) e a verificação busca o
// pagamento pela referência.
type MercadoPagoGateway struct {
	pref    preference.Client
	pay     mppayment.Client
	baseURL string
}

func NewMercadoPago(accessToken, publicBaseURL string) (*MercadoPagoGateway, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPagoGateway{
		pref:    preference.NewClient(cfg),
		pay:     mppayment.NewClient(cfg),
		baseURL: publicBaseURL,
	}, nil
}

func Reference(bookingID string) string {
	return "ref_" + bookingID
}

func (g *MercadoPagoGateway) Initialize(
	ctx context.Context,
	b *models.Booking,
	payerEmail string,
) (*Checkout, error) {

	reference := Reference(b.ID)

	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				ID:        b.ServiceID,
				Title:     "Serviço QuickOne",
				Quantity:  1,
				UnitPrice: b.TotalAmount,
			},
		},
		ExternalReference: reference,
		BackURLs: &preference.BackURLsRequest{
			Success: g.baseURL + "/payment/callback",
			Pending: g.baseURL + "/payment/callback",
			Failure: g.baseURL + "/payment/callback",
		},
	}

	resource, err := g.pref.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("mercadopago preference: %w", err)
	}

	return &Checkout{
		AuthorizationURL: resource.InitPoint,
		Reference:        reference,
	}, nil
}

func (g *MercadoPagoGateway) Verify(
	ctx context.Context,
	reference string,
) (*Result, error) {

	search, err := g.pay.Search(ctx, mppayment.SearchRequest{
		Filters: map[string]string{
			"external_reference": reference,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mercadopago search: %w", err)
	}

	// um checkout pode acumular tentativas; basta uma aprovada
	result := &Result{Status: StatusPending}
	for _, p := range search.Results {
		switch p.Status {
		case "approved":
			return &Result{Status: StatusApproved, Amount: p.TransactionAmount}, nil
		case "rejected", "cancelled":
			result = &Result{Status: StatusRejected, Amount: p.TransactionAmount}
		}
	}

	return result, nil
}

// Compile-time check
var _ Gateway = (*MercadoPagoGateway)(nil)
