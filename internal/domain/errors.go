package domain

import "errors"

// Errores de dominio (sin dependencias externas). Cada uno corresponde a un ErrorKind del motor.
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrInvalidQuantity        = errors.New("cantidad inválida: debe ser mayor que cero")
	ErrInvalidPrice           = errors.New("precio inválido: no puede ser negativo")
	ErrInvalidValue           = errors.New("valor inválido: no puede ser negativo")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrNoOp                   = errors.New("la operación no produce cambios")
	ErrConcurrentModification = errors.New("el registro fue modificado concurrentemente")
	ErrStorageUnavailable     = errors.New("almacenamiento no disponible")
	ErrSuperseded             = errors.New("movimiento anterior al último ajuste administrativo")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
)

// Kind clasifica un error del motor de inventario para la capa de presentación.
type Kind string

const (
	KindUnknown                Kind = "UNKNOWN"
	KindNotFound               Kind = "NOT_FOUND"
	KindInvalidInput           Kind = "INVALID_INPUT"
	KindInvalidQuantity        Kind = "INVALID_QUANTITY"
	KindInvalidPrice           Kind = "INVALID_PRICE"
	KindInvalidValue           Kind = "INVALID_VALUE"
	KindInsufficientStock      Kind = "INSUFFICIENT_STOCK"
	KindNoOp                   Kind = "NO_OP"
	KindConcurrentModification Kind = "CONCURRENT_MODIFICATION"
	KindStorageUnavailable     Kind = "STORAGE_UNAVAILABLE"
	KindSuperseded             Kind = "SUPERSEDED"
	KindDuplicate              Kind = "DUPLICATE"
	KindUnauthorized           Kind = "UNAUTHORIZED"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrNotFound, KindNotFound},
	{ErrInvalidInput, KindInvalidInput},
	{ErrInvalidQuantity, KindInvalidQuantity},
	{ErrInvalidPrice, KindInvalidPrice},
	{ErrInvalidValue, KindInvalidValue},
	{ErrInsufficientStock, KindInsufficientStock},
	{ErrNoOp, KindNoOp},
	{ErrConcurrentModification, KindConcurrentModification},
	{ErrStorageUnavailable, KindStorageUnavailable},
	{ErrSuperseded, KindSuperseded},
	{ErrDuplicate, KindDuplicate},
	{ErrUnauthorized, KindUnauthorized},
}

// KindOf devuelve el Kind del primer error de dominio encontrado en la cadena de err.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindUnknown
}

// IsRetryable indica si el error debe reintentarse dentro del presupuesto de reintentos.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification) || errors.Is(err, ErrStorageUnavailable)
}
