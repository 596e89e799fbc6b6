package httperr

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Kind classifica o desfecho de negócio. Todos são terminais para a
// chamada: o cliente deve recarregar o estado e decidir o próximo passo,
// nunca repetir automaticamente.
type Kind string

const (
	KindValidation        Kind = "validation_error"
	KindNotAuthorized     Kind = "not_authorized"
	KindInvalidTransition Kind = "invalid_transition"
	KindAlreadyResolved   Kind = "already_resolved"
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrValidation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrNotAuthorized(code string) error {
	return BusinessError{Kind: KindNotAuthorized, Code: code}
}

func ErrInvalidTransition(code string) error {
	return BusinessError{Kind: KindInvalidTransition, Code: code}
}

func ErrAlreadyResolved(code string) error {
	return BusinessError{Kind: KindAlreadyResolved, Code: code}
}

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// WriteBusiness traduz um BusinessError para a resposta HTTP adequada.
// Retorna false se o erro não for de negócio (o handler decide o fallback).
func WriteBusiness(c *gin.Context, err error, message string) bool {
	var be BusinessError
	if !errors.As(err, &be) {
		return false
	}

	switch be.Kind {
	case KindValidation:
		BadRequest(c, be.Code, message)
	case KindNotAuthorized:
		Forbidden(c, be.Code, message)
	case KindInvalidTransition, KindAlreadyResolved:
		Conflict(c, be.Code, message)
	default:
		BadRequest(c, be.Code, message)
	}
	return true
}
