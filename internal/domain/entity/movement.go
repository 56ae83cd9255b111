package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del almacén.
type MovementType string

// Tipos de movimiento: entrada (приход) y salida (расход).
const (
	MovementIn  MovementType = "in"
	MovementOut MovementType = "out"
)

// Valid indica si el tipo es uno de los soportados.
func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// MovementEntry registro inmutable de un movimiento con la foto completa antes/después.
type MovementEntry struct {
	ID          string
	Seq         int64 // orden total dentro del almacén; desempata timestamps iguales
	ProductID   string
	Type        MovementType
	Quantity    int64 // siempre positivo
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	Timestamp   time.Time
	WarehouseID string
	Supplier    string
	Description string

	PreviousQuantity    int64
	NewQuantity         int64
	PreviousAverageCost decimal.Decimal
	NewAverageCost      decimal.Decimal

	CreatedBy     string
	CreatedByName string
}

// Delta devuelve el cambio de cantidad con signo (+ entrada, - salida).
func (m *MovementEntry) Delta() int64 {
	if m.Type == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}
