// Package bootstrap arma las dependencias compartidas por los binarios según la configuración.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/hotwellkz/warehouse-api/internal/application/inventory"
	"github.com/hotwellkz/warehouse-api/internal/application/usecase"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
	"github.com/hotwellkz/warehouse-api/internal/infrastructure/memory"
	"github.com/hotwellkz/warehouse-api/internal/infrastructure/postgres"
	"github.com/hotwellkz/warehouse-api/pkg/config"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
	"github.com/hotwellkz/warehouse-api/pkg/metrics"
)

// TxRunner transacciones del motor y del catálogo de carpetas.
type TxRunner interface {
	inventory.TxRunner
	usecase.CatalogTxRunner
}

// Stores repositorios y transacciones del driver elegido.
type Stores struct {
	Driver        string
	Tx            TxRunner
	Records       repository.StockRecordRepository
	Movements     repository.MovementRepository
	Folders       repository.FolderRepository
	Notifications repository.NotificationRepository
	close         func()
}

// Close libera las conexiones del driver.
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStores abre el almacenamiento según STORE_DRIVER. Con postgres aplica las migraciones pendientes.
func OpenStores(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Stores, error) {
	switch cfg.App.StoreDriver {
	case config.StoreMemory:
		store := memory.NewStore()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &Stores{
			Driver:        config.StoreMemory,
			Tx:            memory.NewTxRunner(store),
			Records:       store.Records(),
			Movements:     store.Movements(),
			Folders:       store.Folders(),
			Notifications: store.Notifications(),
		}, nil
	case config.StorePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB, cfg.App.Name)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("migraciones: %w", err)
		}
		if len(applied) > 0 {
			log.Info().Strs("migrations", applied).Msg("migraciones aplicadas")
		}
		return &Stores{
			Driver:        config.StorePostgres,
			Tx:            postgres.NewTxRunner(pool),
			Records:       postgres.NewStockRecordRepository(pool),
			Movements:     postgres.NewMovementRepository(pool),
			Folders:       postgres.NewFolderRepository(pool),
			Notifications: postgres.NewNotificationRepository(pool),
			close:         pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido %q", cfg.App.StoreDriver)
	}
}

// NewLedger construye el LedgerService con el presupuesto de reintentos de la configuración.
func NewLedger(cfg *config.Config, s *Stores, log *logger.Logger, opts ...inventory.Option) *inventory.LedgerService {
	opts = append([]inventory.Option{
		inventory.WithConfig(inventory.Config{
			MaxAttempts:    cfg.Ledger.MaxAttempts,
			InitialBackoff: cfg.Ledger.InitialBackoff,
		}),
		inventory.WithMetrics(metrics.NewLedger(nil)),
	}, opts...)
	return inventory.NewLedgerService(s.Tx, s.Records, s.Movements, s.Folders, log, opts...)
}

// RedisClientOpt opciones de asynq para la configuración de Redis.
func RedisClientOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}
}

// NewRedis abre el cliente go-redis y comprueba la conexión.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}
