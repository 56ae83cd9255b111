package repository

import (
	"context"

	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
)

// StockRecordFilter filtros para listar productos del almacén.
type StockRecordFilter struct {
	WarehouseID  string
	FolderID     *string // nil = cualquiera
	Unfiled      bool    // solo productos sin carpeta
	LowStockOnly bool    // quantity <= min_quantity
	Limit        int
	Offset       int
}

// StockRecordRepository define el puerto de persistencia para StockRecord (DIP).
// UpdateVersioned es un compare-and-swap sobre Version: si la versión guardada ya no es
// expectedVersion devuelve domain.ErrConcurrentModification y no escribe nada. record.Version
// trae la versión nueva.
type StockRecordRepository interface {
	Create(ctx context.Context, record *entity.StockRecord) error
	GetByID(ctx context.Context, id string) (*entity.StockRecord, error)
	UpdateVersioned(ctx context.Context, record *entity.StockRecord, expectedVersion int64) error
	List(ctx context.Context, filter StockRecordFilter) ([]*entity.StockRecord, error)
	ClearFolder(ctx context.Context, folderID string) (int64, error)
	Delete(ctx context.Context, id string) error
}
