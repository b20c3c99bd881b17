package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrAlreadyConfirmed    = errors.New("el documento ya está confirmado")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintentar")
)

// Problem describe un fallo de validación. Line = 0 indica la cabecera del documento.
type Problem struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError agrupa todos los problemas detectados en un documento.
// Nunca se reintenta: el llamador debe corregir la entrada.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrInvalidInput.Error()
	}
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		if p.Line > 0 {
			parts = append(parts, fmt.Sprintf("línea %d: %s %s", p.Line, p.Field, p.Message))
		} else {
			parts = append(parts, fmt.Sprintf("%s %s", p.Field, p.Message))
		}
	}
	return ErrInvalidInput.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Add registra un problema.
func (e *ValidationError) Add(line int, field, message string) {
	e.Problems = append(e.Problems, Problem{Line: line, Field: field, Message: message})
}

// OrNil devuelve nil si no hay problemas (evita el nil tipado en interfaces error).
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Problems) == 0 {
		return nil
	}
	return e
}

// NotFoundError indica un documento, producto, almacén o cliente inexistente.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// AlreadyConfirmedError se devuelve al confirmar o eliminar un documento ya confirmado.
type AlreadyConfirmedError struct {
	DocumentID string
}

func (e *AlreadyConfirmedError) Error() string {
	return fmt.Sprintf("documento %q: %s", e.DocumentID, ErrAlreadyConfirmed.Error())
}

func (e *AlreadyConfirmedError) Unwrap() error { return ErrAlreadyConfirmed }

// NegativeStockError se devuelve con NegativePolicy=reject cuando un delta dejaría la existencia bajo cero.
type NegativeStockError struct {
	WarehouseID string
	ProductID   string
	Available   decimal.Decimal
	Requested   decimal.Decimal // cantidad a descontar (positiva)
	Line        int
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("stock insuficiente en almacén %s para producto %s (línea %d): disponible %s, solicitado %s",
		e.WarehouseID, e.ProductID, e.Line, e.Available.String(), e.Requested.String())
}

func (e *NegativeStockError) Unwrap() error { return ErrInsufficientStock }

// Shortfall cantidad que falta para cubrir la salida.
func (e *NegativeStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

// ConcurrencyConflictError se devuelve cuando se agotan los reintentos por contención.
// Es seguro reintentar ConfirmDocument completo.
type ConcurrencyConflictError struct {
	DocumentID string
	Attempts   int
	Err        error
}

func (e *ConcurrencyConflictError) Error() string {
	msg := fmt.Sprintf("documento %q: %s tras %d intentos", e.DocumentID, ErrConcurrencyConflict.Error(), e.Attempts)
	if e.Err != nil && !errors.Is(e.Err, ErrConcurrencyConflict) {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConcurrencyConflictError) Unwrap() error { return ErrConcurrencyConflict }
