package negotiation

import (
	"time"

	"github.com/quickone/marketplace-api/internal/httperr"
	"github.com/quickone/marketplace-api/internal/models"
)

// ===============================
// Offer Status
// ===============================

type OfferStatus string

const (
	OfferPending    OfferStatus = "pending"
	OfferAccepted   OfferStatus = "accepted"
	OfferRejected   OfferStatus = "rejected"
	OfferCountered  OfferStatus = "countered"
	OfferSuperseded OfferStatus = "superseded"
)

// ===============================
// Guards
// ===============================

// CanPropose valida uma nova proposta de preço. A negociação trava de
// vez quando qualquer oferta da reserva já foi aceita.
func CanPropose(b *models.Booking, proposerID string, price float64) error {
	if !b.IsParty(proposerID) {
		return httperr.ErrNotAuthorized("not_a_party")
	}
	if b.Status == "cancelled" {
		return httperr.ErrInvalidTransition("booking_cancelled")
	}
	if b.PriceNegotiated {
		return httperr.ErrInvalidTransition("price_already_negotiated")
	}
	if price <= 0 {
		return httperr.ErrValidation("invalid_price")
	}
	return nil
}

// CanRespond valida quem responde: tem que ser parte da reserva, não
// pode ser quem propôs e a reserva tem que estar viva.
func CanRespond(o *models.PriceOffer, b *models.Booking, responderID string) error {
	if !b.IsParty(responderID) {
		return httperr.ErrNotAuthorized("not_a_party")
	}
	if o.OfferedBy == responderID {
		return httperr.ErrNotAuthorized("cannot_respond_own_offer")
	}
	if b.Status == "cancelled" {
		return httperr.ErrInvalidTransition("booking_cancelled")
	}
	if OfferStatus(o.Status) != OfferPending {
		return httperr.ErrAlreadyResolved("offer_already_resolved")
	}
	return nil
}

// ===============================
// Domain Actions
// ===============================

func NewOffer(b *models.Booking, proposerID string, price float64, message string) (*models.PriceOffer, error) {
	if err := CanPropose(b, proposerID, price); err != nil {
		return nil, err
	}

	return &models.PriceOffer{
		BookingID:    b.ID,
		OfferedBy:    proposerID,
		OfferedPrice: price,
		Message:      message,
		Status:       string(OfferPending),
	}, nil
}

// ApplyAgreedPrice fixa o preço aceito na reserva. O repositório chama
// isso de novo sobre a linha relida dentro da transação — nunca grava
// o snapshot de fora.
func ApplyAgreedPrice(b *models.Booking, price float64) {
	b.AgreedPrice = &price
	b.TotalAmount = price
	b.PriceNegotiated = true
}

// Accept fixa o preço acordado na reserva. A varredura das ofertas
// irmãs pendentes (→ superseded) acontece na transação do repositório.
func Accept(o *models.PriceOffer, b *models.Booking, responderID string, now time.Time) error {
	if err := CanRespond(o, b, responderID); err != nil {
		return err
	}

	o.Status = string(OfferAccepted)
	o.RespondedAt = &now

	ApplyAgreedPrice(b, o.OfferedPrice)
	return nil
}

func Reject(o *models.PriceOffer, b *models.Booking, responderID string, now time.Time) error {
	if err := CanRespond(o, b, responderID); err != nil {
		return err
	}

	o.Status = string(OfferRejected)
	o.RespondedAt = &now
	return nil
}

// Counter encerra a oferta original e devolve a sucessora, proposta
// por quem respondeu. Quem propôs a original vira o respondente dela.
func Counter(o *models.PriceOffer, b *models.Booking, responderID string, counterPrice float64, message string, now time.Time) (*models.PriceOffer, error) {
	if err := CanRespond(o, b, responderID); err != nil {
		return nil, err
	}
	if counterPrice <= 0 {
		return nil, httperr.ErrValidation("invalid_counter_price")
	}

	o.Status = string(OfferCountered)
	o.RespondedAt = &now

	successor := &models.PriceOffer{
		BookingID:     b.ID,
		OfferedBy:     responderID,
		OfferedPrice:  counterPrice,
		Message:       message,
		Status:        string(OfferPending),
		ParentOfferID: &o.ID,
	}

	return successor, nil
}
