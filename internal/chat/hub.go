package chat

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/go-redis/redis/v8"

	"github.com/quickone/marketplace-api/internal/models"
)

const channelPrefix = "chat:"

// Inbound é o frame que o participante envia pelo canal.
type Inbound struct {
	SenderID string `json:"sender_id"`
	Text     string `json:"text"`
}

// Hub mantém o registro de conexões por reserva e faz o broadcast.
// Com Redis configurado, o broadcast passa por pub/sub para que todas
// as instâncias da API convirjam; sem Redis, fica local. Entrega é
// at-most-once: sem ack, sem replay, conexão lenta perde frame.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Conn]bool

	rdb *redis.Client
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Conn]bool),
		rdb:   rdb,
	}
}

func (h *Hub) Register(bookingID string, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[bookingID] == nil {
		h.rooms[bookingID] = make(map[*Conn]bool)
	}
	h.rooms[bookingID][c] = true
}

func (h *Hub) Unregister(bookingID string, c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.rooms[bookingID]; ok {
		if conns[c] {
			delete(conns, c)
			c.CloseSend()
		}
		if len(conns) == 0 {
			delete(h.rooms, bookingID)
		}
	}
}

// Broadcast entrega a mensagem (já persistida) aos participantes
// conectados da reserva.
func (h *Hub) Broadcast(ctx context.Context, m *models.Message) {
	payload, err := json.Marshal(m)
	if err != nil {
		log.Println("chat marshal error:", err)
		return
	}

	if h.rdb != nil {
		if err := h.rdb.Publish(ctx, channelPrefix+m.BookingID, payload).Err(); err != nil {
			log.Println("chat publish error:", err)
			// Redis fora do ar → degrada para broadcast local
			h.deliverLocal(m.BookingID, payload)
		}
		return
	}

	h.deliverLocal(m.BookingID, payload)
}

func (h *Hub) deliverLocal(bookingID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.rooms[bookingID] {
		c.Send(payload)
	}
}

// Run consome o pub/sub do Redis e replica para as conexões locais.
// Sem Redis configurado não há nada a fazer.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		return
	}

	pubsub := h.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			bookingID := strings.TrimPrefix(msg.Channel, channelPrefix)
			h.deliverLocal(bookingID, []byte(msg.Payload))
		}
	}
}
