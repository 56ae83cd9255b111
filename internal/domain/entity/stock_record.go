package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockRecord representa el estado actual de un producto del almacén (cantidad y costo promedio).
// Solo se modifica a través del motor de inventario (ledger) o de un ajuste administrativo.
type StockRecord struct {
	ID          string
	Name        string
	Unit        string // шт, м², м³, кг...
	Quantity    int64
	MinQuantity int64
	AverageCost decimal.Decimal // costo promedio ponderado por unidad
	TotalCost   decimal.Decimal // Quantity * AverageCost redondeado a centavos (tiyn)
	WarehouseID string
	FolderID    *string // nil = sin carpeta
	Version     int64   // token de concurrencia optimista

	// Checkpoint desde el que se reconstruye el estado reproduciendo movimientos.
	// Se fija al crear el producto y se rebasa en cada ajuste administrativo.
	CheckpointQuantity    int64
	CheckpointAverageCost decimal.Decimal
	CheckpointSeq         int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLowStock indica si la cantidad está en o por debajo del mínimo configurado.
func (r *StockRecord) IsLowStock() bool {
	return r.Quantity <= r.MinQuantity
}

// Clone devuelve una copia independiente (FolderID incluido).
func (r *StockRecord) Clone() *StockRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.FolderID != nil {
		f := *r.FolderID
		c.FolderID = &f
	}
	return &c
}
