package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotwellkz/warehouse-api/internal/application/usecase"
	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/ledger"
	"github.com/hotwellkz/warehouse-api/internal/infrastructure/memory"
)

func TestNotificationUseCase_RecordLowStock(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewNotificationUseCase(memory.NewStore().Notifications())

	n, err := uc.RecordLowStock(ctx, ledger.LowStock{
		ProductID: "p1", ProductName: "Пеноплекс", Quantity: 4, MinQuantity: 5,
		Unit: "уп", WarehouseID: entity.WarehouseMain,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.NotificationLowStock, n.Category)
	assert.Equal(t, "Товар «Пеноплекс» (Основной склад): осталось 4 уп при минимуме 5 уп", n.Message)

	unread, err := uc.List(ctx, true, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)

	require.NoError(t, uc.MarkRead(ctx, n.ID))
	unread, _ = uc.List(ctx, true, 0)
	assert.Empty(t, unread)
	all, _ := uc.List(ctx, false, 10)
	require.Len(t, all, 1)
	assert.True(t, all[0].Read)

	assert.ErrorIs(t, uc.MarkRead(ctx, "nope"), domain.ErrNotFound)
}
