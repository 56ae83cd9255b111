package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de cambio publicados en tiempo real.
const (
	ChangeCreated  = "created"
	ChangeMovement = "movement"
	ChangeReversal = "reversal"
	ChangeAdjusted = "adjusted"
	ChangeMoved    = "moved"
	ChangeRefiled  = "refiled"
	ChangeDeleted  = "deleted"
)

// StockChange aviso de que un StockRecord cambió; lo consumen las pantallas suscritas.
type StockChange struct {
	Kind        string          `json:"kind"`
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    int64           `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Version     int64           `json:"version"`
	MovementID  string          `json:"movement_id,omitempty"`
	At          time.Time       `json:"at"`
}

// ChangeOf construye el aviso a partir del registro resultante.
func ChangeOf(kind string, r *StockRecord, movementID string) StockChange {
	return StockChange{
		Kind:        kind,
		ProductID:   r.ID,
		WarehouseID: r.WarehouseID,
		Quantity:    r.Quantity,
		AverageCost: r.AverageCost,
		TotalCost:   r.TotalCost,
		Version:     r.Version,
		MovementID:  movementID,
		At:          r.UpdatedAt,
	}
}
