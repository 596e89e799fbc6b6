package notify

import (
	"log"
	"sync"
)

type Event struct {
	UserID    string
	Type      string
	Message   string
	BookingID string
}

// Sink é quem grava a notificação de fato (o Notifier em produção).
type Sink interface {
	Save(userID, kind, message, bookingID string) error
}

type Dispatcher struct {
	sink  Sink
	queue chan Event
	done  chan struct{}

	closeOnce sync.Once
}

func NewDispatcher(sink Sink) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100), // buffer seguro
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.sink.Save(
			ev.UserID,
			ev.Type,
			ev.Message,
			ev.BookingID,
		); err != nil {
			log.Println("notify error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos a notificação (nunca quebrar API)
		log.Println("notify queue full, dropping event")
	}
}

// Close drena a fila e encerra o worker. Não despache depois de Close;
// é chamado no shutdown, depois do servidor HTTP parar.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}
