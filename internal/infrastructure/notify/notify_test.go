package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotwellkz/warehouse-api/internal/application/inventory"
	"github.com/hotwellkz/warehouse-api/internal/application/usecase"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/ledger"
	"github.com/hotwellkz/warehouse-api/internal/infrastructure/memory"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

var signal = ledger.LowStock{
	ProductID: "p1", ProductName: "Саморез 4.2x75", Quantity: 90, MinQuantity: 100,
	Unit: "шт", WarehouseID: entity.WarehouseSecondary,
}

func TestAsynqNotifier_EncolaEnRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	n := NewAsynqNotifier(asynq.RedisClientOpt{Addr: mr.Addr()})
	t.Cleanup(func() { _ = n.Close() })

	require.NoError(t, n.NotifyLowStock(context.Background(), signal))

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	pending, err := rdb.LLen(context.Background(), "asynq:{"+QueueDefault+"}:pending").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)
}

func TestLowStockHandler_RegistraNotificacion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	notes := usecase.NewNotificationUseCase(store.Notifications())
	h := NewLowStockHandler(notes, logger.Nop())

	task, err := NewLowStockTask(signal)
	require.NoError(t, err)
	require.NoError(t, h.Handle(ctx, task))

	list, err := notes.List(ctx, true, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Contains(t, list[0].Message, "Саморез 4.2x75")
	assert.Contains(t, list[0].Message, "Склад 2")
}

func TestLowStockHandler_CargaIlegibleNoSeReintenta(t *testing.T) {
	h := NewLowStockHandler(usecase.NewNotificationUseCase(memory.NewStore().Notifications()), logger.Nop())
	err := h.Handle(context.Background(), asynq.NewTask(TaskLowStock, []byte("{not json")))
	assert.True(t, errors.Is(err, asynq.SkipRetry))
}

func TestDirectNotifier(t *testing.T) {
	ctx := context.Background()
	notes := usecase.NewNotificationUseCase(memory.NewStore().Notifications())
	require.NoError(t, NewDirectNotifier(notes).NotifyLowStock(ctx, signal))

	list, err := notes.List(ctx, false, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestVerifyHandler_DetectaDivergencia(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := inventory.NewLedgerService(memory.NewTxRunner(store), store.Records(), store.Movements(), store.Folders(), logger.Nop())
	actor := entity.Actor{ID: "u1", Name: "Тест"}

	ok, err := svc.CreateProduct(ctx, inventory.CreateProductInput{Name: "OK", WarehouseID: entity.WarehouseMain}, actor)
	require.NoError(t, err)
	price := decimal.NewFromInt(10)
	_, err = svc.ApplyEvent(ctx, ok.ID, ledger.StockEvent{Type: entity.MovementIn, Quantity: 3, UnitPrice: &price}, actor)
	require.NoError(t, err)

	bad, err := svc.CreateProduct(ctx, inventory.CreateProductInput{Name: "Bad", WarehouseID: entity.WarehouseMain}, actor)
	require.NoError(t, err)
	// escritura directa que salta el motor
	tampered := bad.Clone()
	tampered.Quantity = 99
	tampered.Version = bad.Version + 1
	require.NoError(t, store.Records().UpdateVersioned(ctx, tampered, bad.Version))

	drifted, err := NewVerifyHandler(svc, logger.Nop()).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{bad.ID}, drifted)
}
