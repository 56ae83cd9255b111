package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotwellkz/warehouse-api/internal/application/inventory"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/pkg/config"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	v.Set("STORE_DRIVER", "memory")
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestOpenStores_Memoria(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig(t)
	stores, err := OpenStores(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer stores.Close()

	svc := NewLedger(cfg, stores, logger.Nop())
	rec, err := svc.CreateProduct(ctx, inventory.CreateProductInput{
		Name: "Брус 100x100", Quantity: 2, AverageCost: decimal.NewFromInt(5000), WarehouseID: entity.WarehouseMain,
	}, entity.Actor{ID: "u-1"})
	require.NoError(t, err)

	got, err := stores.Records.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Quantity)
	assert.Equal(t, config.StoreMemory, stores.Driver)
}

func TestOpenStores_DriverDesconocido(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.App.StoreDriver = "mongo"
	_, err := OpenStores(context.Background(), cfg, logger.Nop())
	assert.Error(t, err)
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	rdb, err := NewRedis(context.Background(), config.RedisConfig{Addr: addr})
	require.NoError(t, err)
	defer rdb.Close()

	mr.Close()
	_, err = NewRedis(context.Background(), config.RedisConfig{Addr: addr})
	assert.Error(t, err)
}
