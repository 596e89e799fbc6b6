package chatclient

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/quickone/marketplace-api/internal/models"
)

// DefaultReconnectDelay é o atraso fixo entre tentativas de reconexão.
const DefaultReconnectDelay = 3 * time.Second

type EventKind string

const (
	EventOpen    EventKind = "open"
	EventMessage EventKind = "message"
	EventError   EventKind = "error"
	EventClose   EventKind = "close"
)

type Event struct {
	Kind    EventKind
	Message *models.Message
	Err     error
}

// History é o colaborador de persistência usado no backfill. Mensagem
// perdida durante uma desconexão só volta por aqui, nunca pelo canal.
type History interface {
	ListMessagesByBooking(ctx context.Context, bookingID string) ([]models.Message, error)
}

// Client é o lado consumidor do canal de uma reserva: um websocket,
// eventos de ciclo de vida num channel e reconexão com atraso fixo,
// amarrada ao contexto da tela que o abriu.
type Client struct {
	url       string
	bookingID string
	senderID  string
	history   History

	dialer *websocket.Dialer
	delay  time.Duration

	mu sync.Mutex
	ws *websocket.Conn

	events chan Event
}

func New(url, bookingID, senderID string, history History) *Client {
	return &Client{
		url:       url,
		bookingID: bookingID,
		senderID:  senderID,
		history:   history,

		dialer: websocket.DefaultDialer,
		delay:  DefaultReconnectDelay,

		events: make(chan Event, 32),
	}
}

// SetReconnectDelay troca o atraso fixo (útil em teste).
func (c *Client) SetReconnectDelay(d time.Duration) {
	c.delay = d
}

func (c *Client) Events() <-chan Event {
	return c.events
}

// Backfill recarrega o histórico completo da conversa.
func (c *Client) Backfill(ctx context.Context) ([]models.Message, error) {
	return c.history.ListMessagesByBooking(ctx, c.bookingID)
}

// Send transmite {sender_id, text}. Sem conexão ativa, falha com
// TransportError; quem chama decide se tenta de novo.
func (c *Client) Send(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ws == nil {
		return &TransportError{Op: "send", Err: ErrNotConnected}
	}

	payload := map[string]string{
		"sender_id": c.senderID,
		"text":      text,
	}
	if err := c.ws.WriteJSON(payload); err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	return nil
}

// Run mantém o canal vivo enquanto o contexto viver: conecta, consome,
// reconecta após o atraso fixo, indefinidamente. Cancelar o contexto
// fecha a conexão e encerra o loop — nenhum timer sobrevive à tela.
// O channel de eventos é fechado na saída.
func (c *Client) Run(ctx context.Context) {
	defer close(c.events)

	for {
		ws, _, err := c.dialer.DialContext(ctx, c.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.emit(ctx, Event{Kind: EventError, Err: &TransportError{Op: "dial", Err: err}})
			if !c.sleep(ctx) {
				return
			}
			continue
		}

		c.setConn(ws)
		c.emit(ctx, Event{Kind: EventOpen})

		c.readLoop(ctx, ws)

		c.setConn(nil)
		ws.Close()
		c.emit(ctx, Event{Kind: EventClose})

		if ctx.Err() != nil {
			return
		}
		if !c.sleep(ctx) {
			return
		}
	}
}

func (c *Client) readLoop(ctx context.Context, ws *websocket.Conn) {
	// fecha a conexão se o contexto morrer no meio de um Read
	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			ws.Close()
		case <-done:
		}
	}()

	for {
		var m models.Message
		if err := ws.ReadJSON(&m); err != nil {
			if ctx.Err() == nil {
				c.emit(ctx, Event{Kind: EventError, Err: &TransportError{Op: "read", Err: err}})
			}
			return
		}
		c.emit(ctx, Event{Kind: EventMessage, Message: &m})
	}
}

func (c *Client) setConn(ws *websocket.Conn) {
	c.mu.Lock()
	c.ws = ws
	c.mu.Unlock()
}

// sleep espera o atraso fixo; retorna false se o contexto morreu antes.
func (c *Client) sleep(ctx context.Context) bool {
	t := time.NewTimer(c.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Client) emit(ctx context.Context, ev Event) {
	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}
