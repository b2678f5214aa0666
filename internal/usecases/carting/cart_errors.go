package carting

import (
	"errors"
	"fmt"
)

// Erros específicos para o contexto de carrinho
var (
	ErrCartIDRequired = errors.New("cart ID is required")
	ErrLoadCart       = errors.New("error loading cart")
	ErrPersistCart    = errors.New("error persisting cart")
	ErrSessionID      = errors.New("error generating session ID")
	ErrStoreClosed    = errors.New("cart store is closed")
)

// CartError carrega o código da API junto com o carrinho envolvido
type CartError struct {
	Err    error
	Code   string
	CartID string
}

func (e *CartError) Error() string {
	if e.CartID != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.CartID)
	}
	return e.Err.Error()
}

func (e *CartError) Unwrap() error {
	return e.Err
}

func NewCartError(err error, code string, cartID string) *CartError {
	return &CartError{
		Err:    err,
		Code:   code,
		CartID: cartID,
	}
}
