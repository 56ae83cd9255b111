package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotwellkz/warehouse-api/internal/application/usecase"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/infrastructure/memory"
)

func TestWarehouseUseCase_ListResumePorAlmacen(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	mk := func(id, wh string, qty, min int64, total string) {
		require.NoError(t, store.Records().Create(ctx, &entity.StockRecord{
			ID: id, Name: id, Quantity: qty, MinQuantity: min,
			TotalCost: decimal.RequireFromString(total), WarehouseID: wh, Version: 1,
		}))
	}
	mk("a", entity.WarehouseMain, 10, 2, "100.50")
	mk("b", entity.WarehouseMain, 1, 2, "9.50")
	mk("c", entity.WarehouseProduction, 5, 0, "40")

	list, err := usecase.NewWarehouseUseCase(store.Records()).List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, entity.WarehouseMain, list[0].ID)
	assert.Equal(t, "Основной склад", list[0].Name)
	assert.Equal(t, 2, list[0].Products)
	assert.Equal(t, 1, list[0].LowStock)
	assert.True(t, list[0].TotalValue.Equal(decimal.NewFromInt(110)))

	assert.Equal(t, 0, list[1].Products)
	assert.True(t, list[1].TotalValue.IsZero())
	assert.Equal(t, 1, list[2].Products)
}
