package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/quickone/marketplace-api/internal/domain/booking"
	"github.com/quickone/marketplace-api/internal/httperr"
	"github.com/quickone/marketplace-api/internal/httpresp"
	"github.com/quickone/marketplace-api/internal/middleware"
	"github.com/quickone/marketplace-api/internal/models"
	"github.com/quickone/marketplace-api/internal/notify"
	"github.com/quickone/marketplace-api/internal/payment"
)

type PaymentHandler struct {
	repo    domain.Repository
	gateway payment.Gateway
	notify  *notify.Dispatcher
}

func NewPaymentHandler(
	repo domain.Repository,
	gateway payment.Gateway,
	notify *notify.Dispatcher,
) *PaymentHandler {
	return &PaymentHandler{
		repo:    repo,
		gateway: gateway,
		notify:  notify,
	}
}

// Initialize abre o checkout de uma reserva já confirmada pelo
// cliente. Só o cliente da reserva pode pagar.
func (h *PaymentHandler) Initialize(c *gin.Context) {
	bookingID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)

	b, err := h.repo.GetBookingByID(c.Request.Context(), bookingID)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	if b.CustomerID != userID {
		httperr.Forbidden(c, "customer_only", "Apenas o cliente da reserva pode pagar.")
		return
	}

	if b.Status != string(domain.StatusCustomerConfirmed) {
		httperr.Conflict(c, "booking_not_confirmed", "A reserva ainda não foi confirmada pelo cliente.")
		return
	}
	if b.PaymentStatus != string(domain.PaymentPending) {
		httperr.Conflict(c, "payment_already_settled", "O pagamento desta reserva já foi resolvido.")
		return
	}

	payer, err := h.repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	checkout, err := h.gateway.Initialize(c.Request.Context(), b, payer.Email)
	if err != nil {
		httperr.Internal(c, "payment_init_failed", "Não foi possível iniciar o pagamento.")
		return
	}

	httpresp.OK(c, checkout)
}

// Verify consulta o gateway pela referência e assenta o eixo de
// pagamento. Idempotente: pagamento já resolvido vira 409.
func (h *PaymentHandler) Verify(c *gin.Context) {
	reference := c.Param("reference")
	userID := c.MustGet(middleware.ContextUserID).(string)

	bookingID := strings.TrimPrefix(reference, "ref_")

	b, err := h.repo.GetBookingByID(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "booking_not_found", "Reserva não encontrada.")
			return
		}
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	if !b.IsParty(userID) {
		httperr.Forbidden(c, "not_a_party", "Você não participa desta reserva.")
		return
	}

	result, err := h.gateway.Verify(c.Request.Context(), reference)
	if err != nil {
		httperr.Internal(c, "payment_verify_failed", "Não foi possível verificar o pagamento.")
		return
	}

	switch result.Status {
	case payment.StatusApproved:
		b, err = h.repo.TransitionBooking(c.Request.Context(), b.ID, func(fresh *models.Booking) error {
			return domain.MarkPaid(fresh)
		})
		if err != nil {
			writeBookingError(c, err)
			return
		}

		fee := b.TotalAmount * payment.PlatformFeeRate
		tx := &models.Transaction{
			BookingID:        b.ID,
			CustomerID:       b.CustomerID,
			ProviderID:       b.ProviderID,
			Amount:           b.TotalAmount,
			PlatformFee:      fee,
			ProviderEarnings: b.TotalAmount - fee,
			PaymentReference: reference,
			PaymentStatus:    payment.StatusApproved,
		}
		if err := h.repo.CreateTransaction(c.Request.Context(), tx); err != nil {
			httperr.Internal(c, "internal_error", "Erro interno.")
			return
		}

		h.notify.Dispatch(notify.Event{
			UserID:    b.ProviderID,
			Type:      "payment_received",
			Message:   "O pagamento da sua reserva foi confirmado",
			BookingID: b.ID,
		})

	case payment.StatusRejected:
		b, err = h.repo.TransitionBooking(c.Request.Context(), b.ID, func(fresh *models.Booking) error {
			return domain.MarkPaymentFailed(fresh)
		})
		if err != nil {
			writeBookingError(c, err)
			return
		}
	}

	httpresp.OK(c, gin.H{
		"result":  result,
		"booking": b,
	})
}
