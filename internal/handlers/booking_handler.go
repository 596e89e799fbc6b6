package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quickone/marketplace-api/internal/httperr"
	"github.com/quickone/marketplace-api/internal/httpresp"
	"github.com/quickone/marketplace-api/internal/middleware"
	"github.com/quickone/marketplace-api/internal/models"
	usecase "github.com/quickone/marketplace-api/internal/usecase/booking"
)

type BookingHandler struct {
	create       *usecase.CreateBooking
	updateStatus *usecase.UpdateBookingStatus
	get          *usecase.GetBooking
	list         *usecase.ListBookings
}

func NewBookingHandler(
	create *usecase.CreateBooking,
	updateStatus *usecase.UpdateBookingStatus,
	get *usecase.GetBooking,
	list *usecase.ListBookings,
) *BookingHandler {
	return &BookingHandler{
		create:       create,
		updateStatus: updateStatus,
		get:          get,
		list:         list,
	}
}

type CreateBookingRequest struct {
	ServiceID       string `json:"service_id" binding:"required"`
	PreferredDate   string `json:"preferred_date" binding:"required"`
	PreferredTime   string `json:"preferred_time"`
	ServiceLocation string `json:"service_location" binding:"max=255"`
	Notes           string `json:"notes" binding:"max=500"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	role := c.MustGet(middleware.ContextUserRole).(string)
	if role != models.RoleCustomer {
		httperr.Forbidden(c, "customer_only", "Apenas clientes podem solicitar serviços.")
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.create.Execute(c.Request.Context(),
		c.MustGet(middleware.ContextUserID).(string),
		usecase.CreateBookingInput{
			ServiceID:       req.ServiceID,
			PreferredDate:   req.PreferredDate,
			PreferredTime:   req.PreferredTime,
			ServiceLocation: req.ServiceLocation,
			Notes:           req.Notes,
		})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.Created(c, b)
}

func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.list.Execute(c.Request.Context(),
		c.MustGet(middleware.ContextUserID).(string),
		c.MustGet(middleware.ContextUserRole).(string),
	)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Não foi possível listar as reservas.")
		return
	}

	httpresp.List(c, bookings)
}

func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.get.Execute(c.Request.Context(),
		c.MustGet(middleware.ContextUserID).(string),
		c.Param("id"),
	)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.OK(c, b)
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	b, err := h.updateStatus.Execute(c.Request.Context(),
		c.MustGet(middleware.ContextUserID).(string),
		c.Param("id"),
		req.Status,
	)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.OK(c, b)
}

// writeBookingError cobre os desfechos comuns do agregado de reservas:
// erros de negócio viram 400/403/409, registro ausente vira 404 e o
// resto vira 500.
func writeBookingError(c *gin.Context, err error) {
	if httperr.WriteBusiness(c, err, "Operação não permitida no estado atual da reserva.") {
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "booking_not_found", "Reserva não encontrada.")
		return
	}
	httperr.Internal(c, "internal_error", "Erro interno ao processar a reserva.")
}
