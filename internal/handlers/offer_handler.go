package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/quickone/marketplace-api/internal/httperr"
	"github.com/quickone/marketplace-api/internal/httpresp"
	"github.com/quickone/marketplace-api/internal/middleware"
	usecase "github.com/quickone/marketplace-api/internal/usecase/negotiation"
)

type OfferHandler struct {
	propose *usecase.ProposeOffer
	respond *usecase.RespondOffer
	list    *usecase.ListOffers
}

func NewOfferHandler(
	propose *usecase.ProposeOffer,
	respond *usecase.RespondOffer,
	list *usecase.ListOffers,
) *OfferHandler {
	return &OfferHandler{
		propose: propose,
		respond: respond,
		list:    list,
	}
}

type ProposeOfferRequest struct {
	Price   float64 `json:"price" binding:"required"`
	Message string  `json:"message" binding:"max=300"`
}

type RespondOfferRequest struct {
	Action  string  `json:"action" binding:"required,oneof=accept reject counter"`
	Price   float64 `json:"price"`
	Message string  `json:"message" binding:"max=300"`
}

func (h *OfferHandler) Propose(c *gin.Context) {
	var req ProposeOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	offer, err := h.propose.Execute(c.Request.Context(),
		c.MustGet(middleware.ContextUserID).(string),
		c.Param("id"),
		req.Price,
		req.Message,
	)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.Created(c, offer)
}

func (h *OfferHandler) List(c *gin.Context) {
	offers, err := h.list.Execute(c.Request.Context(),
		c.MustGet(middleware.ContextUserID).(string),
		c.Param("id"),
	)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.List(c, offers)
}

func (h *OfferHandler) Respond(c *gin.Context) {
	var req RespondOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	result, err := h.respond.Execute(c.Request.Context(),
		c.MustGet(middleware.ContextUserID).(string),
		c.Param("offerId"),
		req.Action,
		req.Price,
		req.Message,
	)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.OK(c, result)
}
