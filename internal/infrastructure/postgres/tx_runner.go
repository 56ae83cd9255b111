package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hotwellkz/warehouse-api/internal/application/inventory"
	"github.com/hotwellkz/warehouse-api/internal/application/usecase"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and usecase.CatalogTxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ usecase.CatalogTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ctx context.Context,
	movRepo repository.MovementRepository,
	stockRepo repository.StockRecordRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, NewMovementRepository(tx), &StockRecordRepo{q: tx, lock: true})
	})
}

// RunCatalog inicia una transacción con repos de carpetas y registros (borrado de carpetas).
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	ctx context.Context,
	folderRepo repository.FolderRepository,
	stockRepo repository.StockRecordRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, NewFolderRepository(tx), &StockRecordRepo{q: tx, lock: true})
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrap("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", wrap("commit", err))
	}
	return nil
}
