package service

import (
	"errors"
	"fmt"
)

// Error kinds returned by the services. Handlers map them to HTTP status codes
// with errors.Is; the messages are the ones shown to bakery staff.
var (
	ErrInvalidAmount      = errors.New("El monto no puede ser vacío o cero")
	ErrNotFound           = errors.New("registro no encontrado")
	ErrOverpayment        = errors.New("Monto a Pagar no puede superar el Monto Faltante")
	ErrAlreadyOpen        = errors.New("Ya existe una caja abierta para la fecha")
	ErrTillClosed         = errors.New("No hay caja abierta para el día de hoy")
	ErrDuplicateStock     = errors.New("Ya existe un registro de stock para este elemento")
	ErrInsufficientStock  = errors.New("Stock insuficiente")
	ErrInvalidQuantity    = errors.New("La cantidad no es válida")
	ErrInvalidCredentials = errors.New("credenciales invalidas")
	ErrValidation         = errors.New("datos inválidos")
	// ErrStorage means the operation did not apply; callers must re-check
	// state before retrying.
	ErrStorage = errors.New("error de almacenamiento")
)

// storageErr wraps a repository failure so callers can match ErrStorage while
// the cause stays available for logs.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStorage, op, err)
}

// notFound wraps ErrNotFound with the entity name.
func notFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

func isStorage(err error) bool {
	return errors.Is(err, ErrStorage)
}
