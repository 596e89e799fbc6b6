package chat

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Conn embrulha a conexão websocket com uma fila de saída própria:
// um writer por conexão, frame descartado se a fila encher.
type Conn struct {
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ws:   ws,
		send: make(chan []byte, 16),
	}
}

func (c *Conn) Send(payload []byte) {
	select {
	case c.send <- payload:
	default:
		// fila cheia → descarta (at-most-once)
	}
}

// WritePump escoa a fila de saída; retorna quando a fila fecha ou a
// escrita falha.
func (c *Conn) WritePump() {
	for payload := range c.send {
		if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func (c *Conn) ReadJSON(v any) error {
	return c.ws.ReadJSON(v)
}

func (c *Conn) CloseSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

func (c *Conn) Close() error {
	return c.ws.Close()
}
