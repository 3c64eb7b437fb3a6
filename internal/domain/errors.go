package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas). Los constructores de abajo
// los envuelven con %w para que los adaptadores los clasifiquen con errors.Is.
var (
	ErrNotFound                  = errors.New("recurso no encontrado")
	ErrUserNotFound              = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists        = errors.New("el email ya está registrado")
	ErrInvalidInput              = errors.New("entrada inválida")
	ErrDuplicate                 = errors.New("recurso duplicado")
	ErrUnauthorized              = errors.New("no autorizado")
	ErrForbidden                 = errors.New("acceso denegado")
	ErrConflict                  = errors.New("conflicto con el estado actual")
	ErrInvalidState              = errors.New("transición de estado no permitida")
	ErrInsufficientStock         = errors.New("stock insuficiente")
	ErrNoBatchAvailable          = errors.New("no hay lotes disponibles")
	ErrInsufficientBatchQuantity = errors.New("cantidad insuficiente en el lote")
	ErrInsufficientProductStock  = errors.New("stock del producto insuficiente")
)

// NotFound indica que resource con field=value no existe.
func NotFound(resource, field, value string) error {
	return fmt.Errorf("%w: %s con %s %s", ErrNotFound, resource, field, value)
}

// Duplicate indica que ya existe un registro con field=value.
func Duplicate(field, value string) error {
	return fmt.Errorf("%w: ya existe un registro con %s %s", ErrDuplicate, field, value)
}

// InvalidState indica que entity en estado status no admite action.
func InvalidState(entity, status, action string) error {
	return fmt.Errorf("%w: %s en estado %s no se puede %s", ErrInvalidState, entity, status, action)
}

// InsufficientStock indica que la salida pedida supera lo disponible.
func InsufficientStock(product string, available, requested int) error {
	return fmt.Errorf("%w para el producto %s: disponible %d, solicitado %d", ErrInsufficientStock, product, available, requested)
}

// NoBatchAvailable indica que el producto tiene stock registrado pero ningún lote con saldo.
func NoBatchAvailable(product string) error {
	return fmt.Errorf("%w para el producto %s", ErrNoBatchAvailable, product)
}

// Invalid indica una entrada inválida con un detalle legible.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
