package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/pkg/config"
)

// Con DATABASE_URL definido corre contra una base real; sin él se omite.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 4}, "warehouse-api-test")
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = Migrate(ctx, pool)
	require.NoError(t, err)
	return pool
}

func seedRecord(t *testing.T, pool *pgxpool.Pool) *entity.StockRecord {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	rec := &entity.StockRecord{
		ID: uuid.NewString(), Name: "Цемент М500", Unit: "мешок", Quantity: 5,
		AverageCost: decimal.NewFromInt(10), TotalCost: decimal.NewFromInt(50),
		WarehouseID: entity.WarehouseMain, Version: 1,
		CheckpointQuantity: 5, CheckpointAverageCost: decimal.NewFromInt(10),
		CreatedAt: now, UpdatedAt: now,
	}
	repo := NewStockRecordRepository(pool)
	require.NoError(t, repo.Create(context.Background(), rec))
	t.Cleanup(func() { _ = repo.Delete(context.Background(), rec.ID) })
	return rec
}

func TestPostgres_UpdateVersionedCAS(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	repo := NewStockRecordRepository(pool)
	rec := seedRecord(t, pool)

	next := rec.Clone()
	next.Quantity = 7
	next.TotalCost = decimal.NewFromInt(70)
	next.Version = 2
	require.NoError(t, repo.UpdateVersioned(ctx, next, 1))

	stale := rec.Clone()
	stale.Version = 2
	assert.ErrorIs(t, repo.UpdateVersioned(ctx, stale, 1), domain.ErrConcurrentModification)

	ghost := rec.Clone()
	ghost.ID = uuid.NewString()
	assert.ErrorIs(t, repo.UpdateVersioned(ctx, ghost, 1), domain.ErrNotFound)

	missing := "no-such-folder"
	filed := next.Clone()
	filed.FolderID = &missing
	filed.Version = 3
	assert.ErrorIs(t, repo.UpdateVersioned(ctx, filed, 2), domain.ErrNotFound)
}

func TestPostgres_ListSinceOrdenYEscalaDePrecio(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	rec := seedRecord(t, pool)
	movs := NewMovementRepository(pool)

	var seqs []int64
	for i := 0; i < 3; i++ {
		m := &entity.MovementEntry{
			ProductID: rec.ID, Type: entity.MovementIn, Quantity: int64(i + 1),
			UnitPrice: decimal.RequireFromString("1.00005"), TotalPrice: decimal.NewFromInt(1),
			WarehouseID: rec.WarehouseID, PreviousAverageCost: decimal.Zero, NewAverageCost: decimal.Zero,
			CreatedBy: "u1", Timestamp: time.Now().UTC(),
		}
		require.NoError(t, movs.Create(ctx, m))
		seqs = append(seqs, m.Seq)
	}

	all, err := movs.ListSince(ctx, rec.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	for i := range all {
		assert.Equal(t, seqs[i], all[i].Seq)
	}
	// la columna guarda CostPlaces decimales
	assert.True(t, all[0].UnitPrice.Equal(decimal.RequireFromString("1.0001")), "unit_price = %s", all[0].UnitPrice)

	tail, err := movs.ListSince(ctx, rec.ID, seqs[0])
	require.NoError(t, err)
	require.Len(t, tail, 2)
	assert.Equal(t, seqs[1], tail[0].Seq)

	last, err := movs.LastSeq(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, seqs[2], last)
}
