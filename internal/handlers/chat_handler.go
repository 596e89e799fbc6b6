package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/quickone/marketplace-api/internal/chat"
	domain "github.com/quickone/marketplace-api/internal/domain/booking"
	"github.com/quickone/marketplace-api/internal/httperr"
	"github.com/quickone/marketplace-api/internal/httpresp"
	"github.com/quickone/marketplace-api/internal/middleware"
	"github.com/quickone/marketplace-api/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// origem já foi liberada no CORS; o handshake carrega o JWT
	CheckOrigin: func(r *http.Request) bool { return true },
}

type ChatHandler struct {
	repo domain.Repository
	hub  *chat.Hub
}

func NewChatHandler(repo domain.Repository, hub *chat.Hub) *ChatHandler {
	return &ChatHandler{repo: repo, hub: hub}
}

// History devolve o histórico completo da conversa, em ordem de
// criação. É o backfill de reconexão: o cliente recupera o que perdeu
// comparando com o que já tem.
func (h *ChatHandler) History(c *gin.Context) {
	bookingID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)

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
		httperr.Forbidden(c, "not_a_party", "Você não participa desta conversa.")
		return
	}

	messages, err := h.repo.ListMessagesByBooking(c.Request.Context(), bookingID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_messages", "Não foi possível carregar o histórico.")
		return
	}

	httpresp.List(c, messages)
}

// Websocket abre o canal realtime da reserva. Toda mensagem recebida é
// persistida antes do broadcast; a entrega aos conectados é melhor
// esforço.
func (h *ChatHandler) Websocket(c *gin.Context) {
	bookingID := c.Param("id")
	userID := c.MustGet(middleware.ContextUserID).(string)

	b, err := h.repo.GetBookingByID(c.Request.Context(), bookingID)
	if err != nil {
		httperr.NotFound(c, "booking_not_found", "Reserva não encontrada.")
		return
	}

	if !b.IsParty(userID) {
		httperr.Forbidden(c, "not_a_party", "Você não participa desta conversa.")
		return
	}

	sender, err := h.repo.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "internal_error", "Erro interno.")
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// o upgrader já respondeu ao cliente
		log.Println("chat upgrade error:", err)
		return
	}

	conn := chat.NewConn(ws)
	h.hub.Register(bookingID, conn)

	go conn.WritePump()

	defer func() {
		h.hub.Unregister(bookingID, conn)
		conn.Close()
	}()

	for {
		var in chat.Inbound
		if err := conn.ReadJSON(&in); err != nil {
			return
		}

		text := strings.TrimSpace(in.Text)
		if text == "" {
			continue
		}

		m := &models.Message{
			BookingID:  bookingID,
			SenderID:   userID,
			SenderName: sender.FullName,
			Text:       text,
		}

		if err := h.repo.CreateMessage(c.Request.Context(), m); err != nil {
			log.Println("chat persist error:", err)
			continue
		}

		h.hub.Broadcast(c.Request.Context(), m)
	}
}
