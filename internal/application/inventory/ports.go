package inventory

import (
	"context"

	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/ledger"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza que movimiento y registro se escriban juntos o no se escriba nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ctx context.Context,
		movRepo repository.MovementRepository,
		stockRepo repository.StockRecordRepository,
	) error) error
}

// LowStockNotifier recibe la señal de cruce del mínimo. Se invoca tras el commit y su error
// no afecta a la operación que la originó.
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, signal ledger.LowStock) error
}

// ChangePublisher difunde los cambios confirmados a las pantallas suscritas.
type ChangePublisher interface {
	PublishChange(ctx context.Context, change entity.StockChange) error
}

type nopNotifier struct{}

func (nopNotifier) NotifyLowStock(context.Context, ledger.LowStock) error { return nil }

type nopPublisher struct{}

func (nopPublisher) PublishChange(context.Context, entity.StockChange) error { return nil }
