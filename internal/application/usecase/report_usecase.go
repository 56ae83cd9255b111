package usecase

import (
	"context"
	"time"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

// StockReport datos del reporte de existencias. WarehouseID vacío = todos los almacenes.
type StockReport struct {
	GeneratedAt time.Time
	WarehouseID string
	Items       []*entity.StockRecord
}

// StockReportGenerator puerto de salida: genera el PDF del reporte.
type StockReportGenerator interface {
	GenerateStockReport(ctx context.Context, report StockReport) ([]byte, error)
}

// ReportUseCase arma el reporte de existencias.
type ReportUseCase struct {
	records   repository.StockRecordRepository
	generator StockReportGenerator
	now       func() time.Time
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(records repository.StockRecordRepository, generator StockReportGenerator) *ReportUseCase {
	return &ReportUseCase{records: records, generator: generator, now: func() time.Time { return time.Now().UTC() }}
}

// StockPDF genera el PDF de existencias, opcionalmente filtrado por almacén.
func (uc *ReportUseCase) StockPDF(ctx context.Context, warehouseID string) ([]byte, error) {
	if warehouseID != "" && !entity.IsValidWarehouse(warehouseID) {
		return nil, domain.ErrInvalidValue
	}
	items, err := uc.records.List(ctx, repository.StockRecordFilter{WarehouseID: warehouseID})
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateStockReport(ctx, StockReport{
		GeneratedAt: uc.now(),
		WarehouseID: warehouseID,
		Items:       items,
	})
}
