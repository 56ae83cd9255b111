package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Unit        string          `json:"unit" validate:"max=20"`
	Quantity    int64           `json:"quantity" validate:"min=0"`
	MinQuantity int64           `json:"min_quantity" validate:"min=0"`
	AverageCost decimal.Decimal `json:"average_cost"`
	WarehouseID string          `json:"warehouse_id" validate:"required,oneof=main secondary production"`
	FolderID    *string         `json:"folder_id,omitempty" validate:"omitempty,min=1"`
}

// UpdateProductRequest body para PATCH /api/products/:id (ajuste administrativo).
// Los campos ausentes no se tocan.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Unit        *string          `json:"unit,omitempty" validate:"omitempty,max=20"`
	Quantity    *int64           `json:"quantity,omitempty" validate:"omitempty,min=0"`
	MinQuantity *int64           `json:"min_quantity,omitempty" validate:"omitempty,min=0"`
	AverageCost *decimal.Decimal `json:"average_cost,omitempty"`
	WarehouseID *string          `json:"warehouse_id,omitempty" validate:"omitempty,oneof=main secondary production"`
}

// StockEventRequest body para POST /api/products/:id/movements.
type StockEventRequest struct {
	Type        string           `json:"type" validate:"required,oneof=in out"`
	Quantity    int64            `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	WarehouseID string           `json:"warehouse_id,omitempty"`
	Supplier    string           `json:"supplier,omitempty" validate:"max=200"`
	Description string           `json:"description,omitempty" validate:"max=500"`
}

// MoveWarehouseRequest body para PUT /api/products/:id/warehouse.
type MoveWarehouseRequest struct {
	WarehouseID string `json:"warehouse_id" validate:"required"`
}

// TransferFolderRequest body para PUT /api/products/:id/folder; folder_id null = sin carpeta.
type TransferFolderRequest struct {
	FolderID *string `json:"folder_id"`
}

// ProductResponse salida de un producto con su estado de stock.
type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	Quantity      int64           `json:"quantity"`
	MinQuantity   int64           `json:"min_quantity"`
	AverageCost   decimal.Decimal `json:"average_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	WarehouseID   string          `json:"warehouse_id"`
	WarehouseName string          `json:"warehouse_name"`
	FolderID      *string         `json:"folder_id"`
	LowStock      bool            `json:"low_stock"`
	Version       int64           `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID                  string          `json:"id"`
	Seq                 int64           `json:"seq"`
	ProductID           string          `json:"product_id"`
	Type                string          `json:"type"`
	Quantity            int64           `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	WarehouseID         string          `json:"warehouse_id"`
	Supplier            string          `json:"supplier,omitempty"`
	Description         string          `json:"description,omitempty"`
	PreviousQuantity    int64           `json:"previous_quantity"`
	NewQuantity         int64           `json:"new_quantity"`
	PreviousAverageCost decimal.Decimal `json:"previous_average_cost"`
	NewAverageCost      decimal.Decimal `json:"new_average_cost"`
	CreatedBy           string          `json:"created_by"`
	CreatedByName       string          `json:"created_by_name"`
	Timestamp           time.Time       `json:"timestamp"`
}

// MovementListResponse lista paginada de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockEventResponse resultado de registrar un movimiento.
type StockEventResponse struct {
	Product  ProductResponse  `json:"product"`
	Movement MovementResponse `json:"movement"`
}

// ToProductResponse convierte un StockRecord a su salida HTTP.
func ToProductResponse(r *entity.StockRecord) ProductResponse {
	return ProductResponse{
		ID:            r.ID,
		Name:          r.Name,
		Unit:          r.Unit,
		Quantity:      r.Quantity,
		MinQuantity:   r.MinQuantity,
		AverageCost:   r.AverageCost,
		TotalCost:     r.TotalCost,
		WarehouseID:   r.WarehouseID,
		WarehouseName: entity.WarehouseName(r.WarehouseID),
		FolderID:      r.FolderID,
		LowStock:      r.IsLowStock(),
		Version:       r.Version,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

// ToMovementResponse convierte un MovementEntry a su salida HTTP.
func ToMovementResponse(m *entity.MovementEntry) MovementResponse {
	return MovementResponse{
		ID:                  m.ID,
		Seq:                 m.Seq,
		ProductID:           m.ProductID,
		Type:                string(m.Type),
		Quantity:            m.Quantity,
		UnitPrice:           m.UnitPrice,
		TotalPrice:          m.TotalPrice,
		WarehouseID:         m.WarehouseID,
		Supplier:            m.Supplier,
		Description:         m.Description,
		PreviousQuantity:    m.PreviousQuantity,
		NewQuantity:         m.NewQuantity,
		PreviousAverageCost: m.PreviousAverageCost,
		NewAverageCost:      m.NewAverageCost,
		CreatedBy:           m.CreatedBy,
		CreatedByName:       m.CreatedByName,
		Timestamp:           m.Timestamp,
	}
}
