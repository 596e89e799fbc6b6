package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type memSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *memSink) Save(userID, kind, message, bookingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{
		UserID:    userID,
		Type:      kind,
		Message:   message,
		BookingID: bookingID,
	})
	return nil
}

func (s *memSink) snapshot() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}

func TestCloseDrainsQueue(t *testing.T) {
	sink := &memSink{}
	d := NewDispatcher(sink)

	for i := 0; i < 10; i++ {
		d.Dispatch(Event{UserID: "u1", Type: "booking_accepted", BookingID: "b1"})
	}

	d.Close()

	assert.Len(t, sink.snapshot(), 10, "tudo que entrou na fila é gravado antes do encerramento")
}

func TestCloseIsIdempotent(t *testing.T) {
	d := NewDispatcher(&memSink{})

	d.Close()
	d.Close()
}
