package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/hotwellkz/warehouse-api/internal/application/dto"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

// WarehouseUseCase resume el stock de cada almacén del conjunto fijo.
type WarehouseUseCase struct {
	records repository.StockRecordRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(records repository.StockRecordRepository) *WarehouseUseCase {
	return &WarehouseUseCase{records: records}
}

// List devuelve los almacenes con número de productos, productos bajo mínimo y valor total.
func (uc *WarehouseUseCase) List(ctx context.Context) ([]dto.WarehouseResponse, error) {
	out := make([]dto.WarehouseResponse, 0, 3)
	for _, w := range entity.Warehouses() {
		recs, err := uc.records.List(ctx, repository.StockRecordFilter{WarehouseID: w.ID})
		if err != nil {
			return nil, err
		}
		resp := dto.WarehouseResponse{ID: w.ID, Name: w.Name, TotalValue: decimal.Zero}
		for _, r := range recs {
			resp.Products++
			if r.IsLowStock() {
				resp.LowStock++
			}
			resp.TotalValue = resp.TotalValue.Add(r.TotalCost)
		}
		out = append(out, resp)
	}
	return out, nil
}
