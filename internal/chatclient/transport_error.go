package chatclient

import (
	"errors"
	"fmt"
)

var ErrNotConnected = errors.New("channel not connected")

// TransportError marca falha de rede/canal. No canal ela dispara a
// reconexão automática; numa mutação ela é devolvida ao usuário e
// nunca repetida automaticamente.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("chat transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
