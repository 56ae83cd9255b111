package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, seq, product_id, type, quantity, unit_price, total_price, warehouse_id, supplier,
	description, previous_quantity, new_quantity, previous_average_cost, new_average_cost,
	created_by, created_by_name, created_at`

func scanMovement(row pgx.Row) (*entity.MovementEntry, error) {
	var m entity.MovementEntry
	err := row.Scan(
		&m.ID, &m.Seq, &m.ProductID, &m.Type, &m.Quantity, &m.UnitPrice, &m.TotalPrice, &m.WarehouseID,
		&m.Supplier, &m.Description, &m.PreviousQuantity, &m.NewQuantity, &m.PreviousAverageCost,
		&m.NewAverageCost, &m.CreatedBy, &m.CreatedByName, &m.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste el movimiento; la base asigna Seq.
func (r *MovementRepo) Create(ctx context.Context, m *entity.MovementEntry) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, unit_price, total_price, warehouse_id,
			supplier, description, previous_quantity, new_quantity, previous_average_cost, new_average_cost,
			created_by, created_by_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING seq`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.ProductID, m.Type, m.Quantity, m.UnitPrice, m.TotalPrice, m.WarehouseID,
		m.Supplier, m.Description, m.PreviousQuantity, m.NewQuantity, m.PreviousAverageCost, m.NewAverageCost,
		m.CreatedBy, m.CreatedByName, m.Timestamp,
	).Scan(&m.Seq)
	return wrap("create movement", err)
}

// GetByID obtiene un movimiento o nil.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.MovementEntry, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM stock_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrap("get movement", err)
	}
	return m, nil
}

// ListByProduct lista la historia del producto, más recientes primero.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.MovementEntry, error) {
	if limit <= 0 {
		limit = 1000
	}
	return r.list(ctx, `SELECT `+movementColumns+` FROM stock_movements
		WHERE product_id = $1 ORDER BY seq DESC LIMIT $2 OFFSET $3`, productID, limit, offset)
}

// ListSince lista los movimientos con seq > afterSeq en orden ascendente.
func (r *MovementRepo) ListSince(ctx context.Context, productID string, afterSeq int64) ([]*entity.MovementEntry, error) {
	return r.list(ctx, `SELECT `+movementColumns+` FROM stock_movements
		WHERE product_id = $1 AND seq > $2 ORDER BY seq`, productID, afterSeq)
}

func (r *MovementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.MovementEntry, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list movements", err)
	}
	defer rows.Close()
	list := []*entity.MovementEntry{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, wrap("scan movement", err)
		}
		list = append(list, m)
	}
	return list, wrap("list movements", rows.Err())
}

// LastSeq devuelve el mayor seq del producto, 0 si no tiene movimientos.
func (r *MovementRepo) LastSeq(ctx context.Context, productID string) (int64, error) {
	var seq int64
	err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(seq), 0) FROM stock_movements WHERE product_id = $1`, productID).Scan(&seq)
	return seq, wrap("last seq", err)
}

// Delete elimina un movimiento (solo reversión).
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return wrap("delete movement", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByProduct elimina la historia del producto.
func (r *MovementRepo) DeleteByProduct(ctx context.Context, productID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE product_id = $1`, productID)
	if err != nil {
		return 0, wrap("delete movements", err)
	}
	return tag.RowsAffected(), nil
}
