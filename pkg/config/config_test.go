package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StorePostgres, cfg.App.StoreDriver)
	assert.Equal(t, 3, cfg.Ledger.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.Ledger.InitialBackoff)
	assert.Equal(t, "stock.changed", cfg.Redis.Channel)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Sobrescribe(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "MEMORY")
	v.Set("LEDGER_MAX_ATTEMPTS", "5")
	v.Set("LEDGER_BACKOFF_MS", 10)
	v.Set("HTTP_PORT", "9090")
	v.Set("DB_PORT", "not-a-number")

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, cfg.App.StoreDriver)
	assert.Equal(t, 5, cfg.Ledger.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, cfg.Ledger.InitialBackoff)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 5432, cfg.DB.Port, "valor ilegible cae al defecto")
}

func TestFromViper_RechazaConfiguracionInvalida(t *testing.T) {
	v := viper.New()
	v.Set("STORE_DRIVER", "mongo")
	_, err := FromViper(v)
	assert.Error(t, err)

	v = viper.New()
	v.Set("LEDGER_MAX_ATTEMPTS", 0)
	_, err = FromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "warehouse", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/warehouse?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://u@h/d"
	assert.Equal(t, "postgres://u@h/d", c.ConnectionString())
}
