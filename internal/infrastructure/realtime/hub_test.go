package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

func change(id string, qty int64) entity.StockChange {
	return entity.StockChange{
		Kind: entity.ChangeMovement, ProductID: id, WarehouseID: entity.WarehouseMain,
		Quantity: qty, AverageCost: decimal.NewFromInt(15), Version: 2,
		At: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
}

func receive(t *testing.T, ch <-chan entity.StockChange) entity.StockChange {
	t.Helper()
	select {
	case c, ok := <-ch:
		require.True(t, ok, "canal cerrado")
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("sin cambios")
	}
	return entity.StockChange{}
}

func TestRedisHub_PublicaYRecibe(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	hub := NewRedisHub(rdb, "", logger.Nop())

	ch, cancel, err := hub.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel()

	require.NoError(t, hub.PublishChange(context.Background(), change("p1", 7)))

	got := receive(t, ch)
	assert.Equal(t, "p1", got.ProductID)
	assert.Equal(t, int64(7), got.Quantity)
	assert.True(t, got.AverageCost.Equal(decimal.NewFromInt(15)))
}

func TestLocalHub_RepartePorSuscriptor(t *testing.T) {
	hub := NewLocalHub()
	a, cancelA, err := hub.Subscribe(context.Background())
	require.NoError(t, err)
	b, cancelB, err := hub.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancelB()

	require.NoError(t, hub.PublishChange(context.Background(), change("p2", 1)))
	assert.Equal(t, "p2", receive(t, a).ProductID)
	assert.Equal(t, "p2", receive(t, b).ProductID)

	cancelA()
	_, ok := <-a
	assert.False(t, ok)
	assert.NotPanics(t, func() {
		_ = hub.PublishChange(context.Background(), change("p3", 2))
	})
}

func TestLocalHub_ContextoCierraSuscripcion(t *testing.T) {
	hub := NewLocalHub()
	ctx, cancel := context.WithCancel(context.Background())
	ch, _, err := hub.Subscribe(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("la suscripción no se cerró")
	}
}
