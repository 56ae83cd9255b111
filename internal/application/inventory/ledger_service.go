package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/ledger"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
	"github.com/hotwellkz/warehouse-api/pkg/metrics"
)

// Nombres de operación usados en logs y métricas.
const (
	opCreate     = "create_product"
	opApply      = "apply_event"
	opReverse    = "reverse_movement"
	opAdjust     = "adjust_record"
	opMove       = "move_warehouse"
	opRefile     = "transfer_folder"
	opDelete     = "delete_product"
	notifyBudget = 5 * time.Second
)

// Config presupuesto de reintentos ante ErrConcurrentModification o ErrStorageUnavailable.
type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
}

// DefaultConfig 3 intentos empezando en 50ms.
func DefaultConfig() Config {
	return Config{MaxAttempts: 3, InitialBackoff: 50 * time.Millisecond}
}

// LedgerService orquesta el motor de inventario: lee el registro, calcula el siguiente estado
// con el paquete ledger y lo persiste de forma atómica con control de versión.
// Las señales de stock bajo y los avisos de cambio se emiten después del commit.
type LedgerService struct {
	tx        TxRunner
	records   repository.StockRecordRepository
	movements repository.MovementRepository
	folders   repository.FolderRepository
	notifier  LowStockNotifier
	publisher ChangePublisher
	metrics   *metrics.Ledger
	log       *logger.Logger
	cfg       Config
	now       func() time.Time
}

// Option personaliza el servicio.
type Option func(*LedgerService)

// WithNotifier fija el destino de las señales de stock bajo.
func WithNotifier(n LowStockNotifier) Option {
	return func(s *LedgerService) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithPublisher fija el difusor de cambios.
func WithPublisher(p ChangePublisher) Option {
	return func(s *LedgerService) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithMetrics fija los contadores Prometheus.
func WithMetrics(m *metrics.Ledger) Option {
	return func(s *LedgerService) { s.metrics = m }
}

// WithConfig fija el presupuesto de reintentos.
func WithConfig(cfg Config) Option {
	return func(s *LedgerService) {
		if cfg.MaxAttempts < 1 {
			cfg.MaxAttempts = 1
		}
		s.cfg = cfg
	}
}

// WithClock reemplaza el reloj.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

// NewLedgerService construye el servicio.
func NewLedgerService(
	tx TxRunner,
	records repository.StockRecordRepository,
	movements repository.MovementRepository,
	folders repository.FolderRepository,
	log *logger.Logger,
	opts ...Option,
) *LedgerService {
	s := &LedgerService{
		tx:        tx,
		records:   records,
		movements: movements,
		folders:   folders,
		notifier:  nopNotifier{},
		publisher: nopPublisher{},
		log:       log.Component("ledger"),
		cfg:       DefaultConfig(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateProductInput datos de alta.
type CreateProductInput struct {
	Name        string
	Unit        string
	Quantity    int64
	MinQuantity int64
	AverageCost decimal.Decimal
	WarehouseID string
	FolderID    *string
}

// CreateProduct da de alta un producto. La cantidad inicial queda en el checkpoint,
// no se registra como movimiento.
func (s *LedgerService) CreateProduct(ctx context.Context, in CreateProductInput, actor entity.Actor) (*entity.StockRecord, error) {
	if err := s.checkFolder(ctx, in.FolderID); err != nil {
		s.metrics.Event(opCreate, metrics.ResultRejected)
		return nil, err
	}
	rec, err := ledger.NewRecord(ledger.NewProduct{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Unit:        in.Unit,
		Quantity:    in.Quantity,
		MinQuantity: in.MinQuantity,
		AverageCost: in.AverageCost,
		WarehouseID: in.WarehouseID,
		FolderID:    in.FolderID,
	}, s.now())
	if err != nil {
		s.metrics.Event(opCreate, metrics.ResultRejected)
		return nil, err
	}
	err = s.withRetry(ctx, opCreate, func() error {
		return s.tx.Run(ctx, func(ctx context.Context, _ repository.MovementRepository, stockRepo repository.StockRecordRepository) error {
			return stockRepo.Create(ctx, rec)
		})
	})
	if err != nil {
		return nil, s.fail(opCreate, err)
	}
	s.metrics.Event(opCreate, metrics.ResultOK)
	s.log.ForActor(actor.ID, actor.Name).Info().Str("product_id", rec.ID).Msg("producto creado")
	s.publish(ctx, entity.ChangeOf(entity.ChangeCreated, rec, ""))
	return rec, nil
}

// ApplyResult estado confirmado tras un evento.
type ApplyResult struct {
	Record   *entity.StockRecord
	Movement *entity.MovementEntry
}

// ApplyEvent registra una entrada o salida. Si la versión del registro cambió entre lectura y
// escritura se reintenta desde la lectura, dentro del presupuesto configurado.
func (s *LedgerService) ApplyEvent(ctx context.Context, productID string, ev ledger.StockEvent, actor entity.Actor) (*ApplyResult, error) {
	ev.ProductID = productID
	if err := ledger.ValidateEvent(ev); err != nil {
		s.metrics.Event(opApply, metrics.ResultRejected)
		return nil, err
	}

	var res ledger.Result
	err := s.withRetry(ctx, opApply, func() error {
		return s.tx.Run(ctx, func(ctx context.Context, movRepo repository.MovementRepository, stockRepo repository.StockRecordRepository) error {
			rec, err := loadRecord(ctx, stockRepo, productID)
			if err != nil {
				return err
			}
			r, err := ledger.ApplyEvent(rec, ev, actor, s.now())
			if err != nil {
				return err
			}
			if err := movRepo.Create(ctx, r.Movement); err != nil {
				return err
			}
			r.Record.Version = rec.Version + 1
			if err := stockRepo.UpdateVersioned(ctx, r.Record, rec.Version); err != nil {
				return err
			}
			res = r
			return nil
		})
	})
	if err != nil {
		return nil, s.fail(opApply, err)
	}

	s.metrics.Event(opApply, metrics.ResultOK)
	s.log.ForActor(actor.ID, actor.Name).Info().
		Str("product_id", productID).
		Str("movement_id", res.Movement.ID).
		Str("type", string(res.Movement.Type)).
		Int64("quantity", res.Movement.Quantity).
		Int64("new_quantity", res.Record.Quantity).
		Msg("movimiento registrado")
	s.publish(ctx, entity.ChangeOf(entity.ChangeMovement, res.Record, res.Movement.ID))
	if res.LowStock != nil {
		s.signalLowStock(ctx, *res.LowStock)
	}
	return &ApplyResult{Record: res.Record, Movement: res.Movement}, nil
}

// ReverseMovement elimina un movimiento y recalcula el registro reproduciendo el resto de la
// historia desde el checkpoint. Movimiento y registro se escriben en la misma transacción.
func (s *LedgerService) ReverseMovement(ctx context.Context, movementID string, actor entity.Actor) (*entity.StockRecord, error) {
	var next *entity.StockRecord
	err := s.withRetry(ctx, opReverse, func() error {
		return s.tx.Run(ctx, func(ctx context.Context, movRepo repository.MovementRepository, stockRepo repository.StockRecordRepository) error {
			mov, err := movRepo.GetByID(ctx, movementID)
			if err != nil {
				return err
			}
			if mov == nil {
				return domain.ErrNotFound
			}
			rec, err := loadRecord(ctx, stockRepo, mov.ProductID)
			if err != nil {
				return err
			}
			history, err := movRepo.ListSince(ctx, rec.ID, rec.CheckpointSeq)
			if err != nil {
				return err
			}
			n, err := ledger.Reverse(rec, history, mov, s.now())
			if err != nil {
				return err
			}
			if err := movRepo.Delete(ctx, mov.ID); err != nil {
				return err
			}
			n.Version = rec.Version + 1
			if err := stockRepo.UpdateVersioned(ctx, n, rec.Version); err != nil {
				return err
			}
			next = n
			return nil
		})
	})
	if err != nil {
		s.metrics.Reversal(resultOf(err))
		return nil, s.fail(opReverse, err)
	}

	s.metrics.Reversal(metrics.ResultOK)
	s.metrics.Event(opReverse, metrics.ResultOK)
	s.log.ForActor(actor.ID, actor.Name).Info().
		Str("product_id", next.ID).
		Str("movement_id", movementID).
		Int64("new_quantity", next.Quantity).
		Msg("movimiento revertido")
	s.publish(ctx, entity.ChangeOf(entity.ChangeReversal, next, movementID))
	return next, nil
}

// AdjustRecord aplica un ajuste administrativo sin generar movimiento. Si cambia cantidad o
// costo, el registro toma un nuevo checkpoint en el último Seq del producto.
func (s *LedgerService) AdjustRecord(ctx context.Context, productID string, patch ledger.Patch, actor entity.Actor) (*entity.StockRecord, error) {
	if patch.IsEmpty() {
		s.metrics.Event(opAdjust, metrics.ResultRejected)
		return nil, domain.ErrInvalidInput
	}
	var next *entity.StockRecord
	err := s.withRetry(ctx, opAdjust, func() error {
		return s.tx.Run(ctx, func(ctx context.Context, movRepo repository.MovementRepository, stockRepo repository.StockRecordRepository) error {
			rec, err := loadRecord(ctx, stockRepo, productID)
			if err != nil {
				return err
			}
			lastSeq, err := movRepo.LastSeq(ctx, productID)
			if err != nil {
				return err
			}
			n, err := ledger.Adjust(rec, patch, lastSeq, s.now())
			if err != nil {
				return err
			}
			n.Version = rec.Version + 1
			if err := stockRepo.UpdateVersioned(ctx, n, rec.Version); err != nil {
				return err
			}
			next = n
			return nil
		})
	})
	if err != nil {
		return nil, s.fail(opAdjust, err)
	}
	s.metrics.Event(opAdjust, metrics.ResultOK)
	s.log.ForActor(actor.ID, actor.Name).Info().
		Str("product_id", productID).
		Int64("quantity", next.Quantity).
		Str("average_cost", next.AverageCost.String()).
		Msg("registro ajustado")
	s.publish(ctx, entity.ChangeOf(entity.ChangeAdjusted, next, ""))
	return next, nil
}

// MoveWarehouse cambia el almacén del producto; cantidad y costo no cambian.
func (s *LedgerService) MoveWarehouse(ctx context.Context, productID, warehouseID string, actor entity.Actor) (*entity.StockRecord, error) {
	if !entity.IsValidWarehouse(warehouseID) {
		s.metrics.Event(opMove, metrics.ResultRejected)
		return nil, domain.ErrInvalidValue
	}
	next, err := s.updateRecord(ctx, opMove, productID, func(rec *entity.StockRecord) (*entity.StockRecord, error) {
		return ledger.MoveWarehouse(rec, warehouseID, s.now())
	})
	if err != nil {
		return nil, err
	}
	s.log.ForActor(actor.ID, actor.Name).Info().Str("product_id", productID).Str("warehouse_id", warehouseID).Msg("producto movido de almacén")
	s.publish(ctx, entity.ChangeOf(entity.ChangeMoved, next, ""))
	return next, nil
}

// TransferFolder asigna el producto a folderID; nil lo deja sin carpeta.
func (s *LedgerService) TransferFolder(ctx context.Context, productID string, folderID *string, actor entity.Actor) (*entity.StockRecord, error) {
	if err := s.checkFolder(ctx, folderID); err != nil {
		s.metrics.Event(opRefile, metrics.ResultRejected)
		return nil, err
	}
	next, err := s.updateRecord(ctx, opRefile, productID, func(rec *entity.StockRecord) (*entity.StockRecord, error) {
		if sameFolder(rec.FolderID, folderID) {
			return nil, domain.ErrNoOp
		}
		n := rec.Clone()
		n.FolderID = folderID
		n.UpdatedAt = s.now()
		return n, nil
	})
	if err != nil {
		return nil, err
	}
	s.log.ForActor(actor.ID, actor.Name).Info().Str("product_id", productID).Msg("producto cambiado de carpeta")
	s.publish(ctx, entity.ChangeOf(entity.ChangeRefiled, next, ""))
	return next, nil
}

// DeleteProduct elimina el producto y todos sus movimientos.
func (s *LedgerService) DeleteProduct(ctx context.Context, productID string, actor entity.Actor) error {
	var (
		rec     *entity.StockRecord
		removed int64
	)
	err := s.withRetry(ctx, opDelete, func() error {
		return s.tx.Run(ctx, func(ctx context.Context, movRepo repository.MovementRepository, stockRepo repository.StockRecordRepository) error {
			r, err := loadRecord(ctx, stockRepo, productID)
			if err != nil {
				return err
			}
			n, err := movRepo.DeleteByProduct(ctx, productID)
			if err != nil {
				return err
			}
			if err := stockRepo.Delete(ctx, productID); err != nil {
				return err
			}
			rec, removed = r, n
			return nil
		})
	})
	if err != nil {
		return s.fail(opDelete, err)
	}
	s.metrics.Event(opDelete, metrics.ResultOK)
	s.log.ForActor(actor.ID, actor.Name).Info().Str("product_id", productID).Int64("movements", removed).Msg("producto eliminado")
	change := entity.ChangeOf(entity.ChangeDeleted, rec, "")
	change.At = s.now()
	s.publish(ctx, change)
	return nil
}

// GetRecord devuelve el registro o ErrNotFound.
func (s *LedgerService) GetRecord(ctx context.Context, productID string) (*entity.StockRecord, error) {
	return loadRecord(ctx, s.records, productID)
}

// ListRecords lista registros según el filtro.
func (s *LedgerService) ListRecords(ctx context.Context, filter repository.StockRecordFilter) ([]*entity.StockRecord, error) {
	if filter.WarehouseID != "" && !entity.IsValidWarehouse(filter.WarehouseID) {
		return nil, domain.ErrInvalidValue
	}
	return s.records.List(ctx, filter)
}

// ListLowStock devuelve los productos en o por debajo de su mínimo.
func (s *LedgerService) ListLowStock(ctx context.Context, warehouseID string) ([]*entity.StockRecord, error) {
	return s.ListRecords(ctx, repository.StockRecordFilter{WarehouseID: warehouseID, LowStockOnly: true})
}

// ListMovements devuelve la historia del producto, más recientes primero.
func (s *LedgerService) ListMovements(ctx context.Context, productID string, limit, offset int) ([]*entity.MovementEntry, error) {
	if _, err := loadRecord(ctx, s.records, productID); err != nil {
		return nil, err
	}
	return s.movements.ListByProduct(ctx, productID, limit, offset)
}

// Verification compara el registro guardado con la reproducción de su historia.
type Verification struct {
	ProductID           string          `json:"product_id"`
	StoredQuantity      int64           `json:"stored_quantity"`
	StoredAverageCost   decimal.Decimal `json:"stored_average_cost"`
	ReplayedQuantity    int64           `json:"replayed_quantity"`
	ReplayedAverageCost decimal.Decimal `json:"replayed_average_cost"`
	Movements           int             `json:"movements"`
	Consistent          bool            `json:"consistent"`
}

// Verify reproduce los movimientos posteriores al checkpoint y compara con el registro.
func (s *LedgerService) Verify(ctx context.Context, productID string) (*Verification, error) {
	rec, err := loadRecord(ctx, s.records, productID)
	if err != nil {
		return nil, err
	}
	history, err := s.movements.ListSince(ctx, productID, rec.CheckpointSeq)
	if err != nil {
		return nil, err
	}
	qty, avg, err := ledger.Replay(ledger.CheckpointOf(rec), history)
	if err != nil {
		return nil, err
	}
	v := &Verification{
		ProductID:           rec.ID,
		StoredQuantity:      rec.Quantity,
		StoredAverageCost:   rec.AverageCost,
		ReplayedQuantity:    qty,
		ReplayedAverageCost: avg,
		Movements:           len(history),
		Consistent:          qty == rec.Quantity && avg.Equal(rec.AverageCost),
	}
	if !v.Consistent {
		s.log.Warn().Str("product_id", rec.ID).Int64("stored", rec.Quantity).Int64("replayed", qty).Msg("registro divergente de su historia")
	}
	return v, nil
}

// updateRecord lectura, cálculo y escritura versionada de un registro sin movimiento asociado.
func (s *LedgerService) updateRecord(ctx context.Context, op, productID string, mutate func(*entity.StockRecord) (*entity.StockRecord, error)) (*entity.StockRecord, error) {
	var next *entity.StockRecord
	err := s.withRetry(ctx, op, func() error {
		return s.tx.Run(ctx, func(ctx context.Context, _ repository.MovementRepository, stockRepo repository.StockRecordRepository) error {
			rec, err := loadRecord(ctx, stockRepo, productID)
			if err != nil {
				return err
			}
			n, err := mutate(rec)
			if err != nil {
				return err
			}
			n.Version = rec.Version + 1
			if err := stockRepo.UpdateVersioned(ctx, n, rec.Version); err != nil {
				return err
			}
			next = n
			return nil
		})
	})
	if err != nil {
		return nil, s.fail(op, err)
	}
	s.metrics.Event(op, metrics.ResultOK)
	return next, nil
}

// withRetry reintenta fn solo ante errores reintentables, con backoff exponencial.
func (s *LedgerService) withRetry(ctx context.Context, op string, fn func() error) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.cfg.InitialBackoff
	eb.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(s.cfg.MaxAttempts-1)), ctx)

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		err := fn()
		if err == nil {
			return nil
		}
		if !domain.IsRetryable(err) {
			return backoff.Permanent(err)
		}
		if attempt < s.cfg.MaxAttempts {
			s.metrics.Retry(op)
			s.log.Debug().Str("op", op).Int("attempt", attempt).Err(err).Msg("reintentando")
		}
		return err
	}, b)
}

// fail registra el resultado de una operación fallida y devuelve err sin tocar.
func (s *LedgerService) fail(op string, err error) error {
	result := resultOf(err)
	s.metrics.Event(op, result)
	ev := s.log.Warn()
	if result == metrics.ResultFailed {
		ev = s.log.Error()
	}
	ev.Str("op", op).Str("kind", string(domain.KindOf(err))).Err(err).Msg("operación no aplicada")
	return err
}

// signalLowStock entrega la señal sin esperar acuse: un fallo del notificador solo se registra.
func (s *LedgerService) signalLowStock(ctx context.Context, signal ledger.LowStock) {
	s.metrics.LowStock()
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyBudget)
	defer cancel()
	if err := s.notifier.NotifyLowStock(nctx, signal); err != nil {
		s.log.Error().Err(err).Str("product_id", signal.ProductID).Msg("no se pudo entregar la señal de stock bajo")
	}
}

func (s *LedgerService) publish(ctx context.Context, change entity.StockChange) {
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyBudget)
	defer cancel()
	if err := s.publisher.PublishChange(nctx, change); err != nil {
		s.log.Warn().Err(err).Str("product_id", change.ProductID).Msg("no se pudo publicar el cambio")
	}
}

func (s *LedgerService) checkFolder(ctx context.Context, folderID *string) error {
	if folderID == nil {
		return nil
	}
	f, err := s.folders.GetByID(ctx, *folderID)
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("carpeta %s: %w", *folderID, domain.ErrNotFound)
	}
	return nil
}

func loadRecord(ctx context.Context, repo repository.StockRecordRepository, productID string) (*entity.StockRecord, error) {
	rec, err := repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case domain.IsRetryable(err), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.ResultFailed
	case domain.KindOf(err) == domain.KindUnknown:
		return metrics.ResultFailed
	default:
		return metrics.ResultRejected
	}
}

func sameFolder(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
