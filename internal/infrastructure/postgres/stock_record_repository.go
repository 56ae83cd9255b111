package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

var _ repository.StockRecordRepository = (*StockRecordRepo)(nil)

// StockRecordRepo implementación de StockRecordRepository sobre PostgreSQL (usable con pool o tx).
// Dentro de una transacción GetByID bloquea la fila (SELECT FOR UPDATE); el compare-and-swap de
// UpdateVersioned sigue protegiendo las escrituras hechas fuera de ella.
type StockRecordRepo struct {
	q    Querier
	lock bool
}

// NewStockRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockRecordRepository(q Querier) *StockRecordRepo {
	return &StockRecordRepo{q: q}
}

const recordColumns = `id, name, unit, quantity, min_quantity, average_cost, total_cost, warehouse_id, folder_id,
	version, checkpoint_quantity, checkpoint_average_cost, checkpoint_seq, created_at, updated_at`

func scanRecord(row pgx.Row) (*entity.StockRecord, error) {
	var r entity.StockRecord
	err := row.Scan(
		&r.ID, &r.Name, &r.Unit, &r.Quantity, &r.MinQuantity, &r.AverageCost, &r.TotalCost,
		&r.WarehouseID, &r.FolderID, &r.Version, &r.CheckpointQuantity, &r.CheckpointAverageCost,
		&r.CheckpointSeq, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create persiste un registro nuevo.
func (r *StockRecordRepo) Create(ctx context.Context, rec *entity.StockRecord) error {
	query := `INSERT INTO stock_records (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.Name, rec.Unit, rec.Quantity, rec.MinQuantity, rec.AverageCost, rec.TotalCost,
		rec.WarehouseID, rec.FolderID, rec.Version, rec.CheckpointQuantity, rec.CheckpointAverageCost,
		rec.CheckpointSeq, rec.CreatedAt, rec.UpdatedAt,
	)
	return wrap("create stock record", err)
}

// GetByID obtiene el registro o nil si no existe.
func (r *StockRecordRepo) GetByID(ctx context.Context, id string) (*entity.StockRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM stock_records WHERE id = $1`
	if r.lock {
		query += ` FOR UPDATE`
	}
	rec, err := scanRecord(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get stock record", err)
	}
	return rec, nil
}

// UpdateVersioned escribe el registro solo si la versión guardada es expectedVersion.
func (r *StockRecordRepo) UpdateVersioned(ctx context.Context, rec *entity.StockRecord, expectedVersion int64) error {
	query := `
		UPDATE stock_records SET
			name = $2, unit = $3, quantity = $4, min_quantity = $5, average_cost = $6, total_cost = $7,
			warehouse_id = $8, folder_id = $9, version = $10, checkpoint_quantity = $11,
			checkpoint_average_cost = $12, checkpoint_seq = $13, updated_at = $14
		WHERE id = $1 AND version = $15`
	tag, err := r.q.Exec(ctx, query,
		rec.ID, rec.Name, rec.Unit, rec.Quantity, rec.MinQuantity, rec.AverageCost, rec.TotalCost,
		rec.WarehouseID, rec.FolderID, rec.Version, rec.CheckpointQuantity, rec.CheckpointAverageCost,
		rec.CheckpointSeq, rec.UpdatedAt, expectedVersion,
	)
	if err != nil {
		return wrap("update stock record", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stock_records WHERE id = $1)`, rec.ID).Scan(&exists); err != nil {
		return wrap("update stock record", err)
	}
	return casMiss(exists)
}

// casMiss clasifica un UPDATE versionado que no tocó filas: registro borrado o versión vieja.
func casMiss(exists bool) error {
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrConcurrentModification
}

// List lista registros según el filtro, ordenados por nombre.
func (r *StockRecordRepo) List(ctx context.Context, f repository.StockRecordFilter) ([]*entity.StockRecord, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.FolderID != nil {
		add("folder_id = $%d", *f.FolderID)
	}
	if f.Unfiled {
		conds = append(conds, "folder_id IS NULL")
	}
	if f.LowStockOnly {
		conds = append(conds, "quantity <= min_quantity")
	}

	query := `SELECT ` + recordColumns + ` FROM stock_records`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY name, id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(` OFFSET $%d`, len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list stock records", err)
	}
	defer rows.Close()
	list := []*entity.StockRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, wrap("scan stock record", err)
		}
		list = append(list, rec)
	}
	return list, wrap("list stock records", rows.Err())
}

// ClearFolder deja sin carpeta los productos de folderID; sube su versión.
func (r *StockRecordRepo) ClearFolder(ctx context.Context, folderID string) (int64, error) {
	tag, err := r.q.Exec(ctx,
		`UPDATE stock_records SET folder_id = NULL, version = version + 1, updated_at = now() WHERE folder_id = $1`,
		folderID)
	if err != nil {
		return 0, wrap("clear folder", err)
	}
	return tag.RowsAffected(), nil
}

// Delete elimina el registro; sus movimientos caen por ON DELETE CASCADE.
func (r *StockRecordRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_records WHERE id = $1`, id)
	if err != nil {
		return wrap("delete stock record", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
