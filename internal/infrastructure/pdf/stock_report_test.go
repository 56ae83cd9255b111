package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotwellkz/warehouse-api/internal/application/usecase"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
)

func TestGenerateStockReport_ProducePDF(t *testing.T) {
	items := []*entity.StockRecord{
		{ID: "a", Name: "Cement", Unit: "bag", Quantity: 1200, MinQuantity: 100,
			AverageCost: decimal.RequireFromString("2500.5"), TotalCost: decimal.RequireFromString("3000600"),
			WarehouseID: entity.WarehouseMain},
		{ID: "b", Name: "Screws", Unit: "pcs", Quantity: 3, MinQuantity: 50,
			AverageCost: decimal.NewFromInt(12), TotalCost: decimal.NewFromInt(36),
			WarehouseID: entity.WarehouseProduction},
	}
	out, err := NewMarotoStockReport("").GenerateStockReport(context.Background(), usecase.StockReport{
		GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Items:       items,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateStockReport_SinProductos(t *testing.T) {
	out, err := NewMarotoStockReport("").GenerateStockReport(context.Background(), usecase.StockReport{
		GeneratedAt: time.Now(), WarehouseID: entity.WarehouseSecondary,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestGenerateStockReport_FuenteInexistente(t *testing.T) {
	_, err := NewMarotoStockReport("/no/such/font.ttf").GenerateStockReport(context.Background(), usecase.StockReport{GeneratedAt: time.Now()})
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1 234 567,80", formatAmount(decimal.RequireFromString("1234567.8")))
	assert.Equal(t, "0,00", formatAmount(decimal.Zero))
	assert.Equal(t, "-1 000,50", formatAmount(decimal.RequireFromString("-1000.5")))
	assert.Equal(t, "12 000", formatInt(12000))
	assert.Equal(t, "-7", formatInt(-7))
}

func TestGroupByWarehouse_OrdenFijo(t *testing.T) {
	groups := groupByWarehouse([]*entity.StockRecord{
		{ID: "p", WarehouseID: entity.WarehouseProduction},
		{ID: "m", WarehouseID: entity.WarehouseMain},
	})
	require.Len(t, groups, 2)
	assert.Equal(t, entity.WarehouseMain, groups[0].warehouseID)
	assert.Equal(t, entity.WarehouseProduction, groups[1].warehouseID)
}
