package dto

import "github.com/shopspring/decimal"

// WarehouseResponse almacén con el resumen de su stock.
type WarehouseResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Products   int             `json:"products"`
	LowStock   int             `json:"low_stock"`
	TotalValue decimal.Decimal `json:"total_value"`
}
