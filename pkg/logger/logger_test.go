package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProduccionEscribeJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Output: &buf})

	l.Component("ledger").Info().Str("product_id", "p1").Msg("evento aplicado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ledger", entry["component"])
	assert.Equal(t, "p1", entry["product_id"])
	assert.Equal(t, "evento aplicado", entry["message"])
}

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("no sale")
	assert.Zero(t, buf.Len())

	l.Warn().Msg("sale")
	assert.NotZero(t, buf.Len())
}

func TestParseLevel_DesconocidoEsInfo(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, parseLevel("verbose"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
}

func TestForActor_AgregaServicioYAutor(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Service: "warehouse-api", Output: &buf})

	l.Component("ledger").ForActor("u1", "Айгуль").Info().Msg("movimiento registrado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warehouse-api", entry["service"])
	assert.Equal(t, "u1", entry["actor_id"])
	assert.Equal(t, "Айгуль", entry["actor_name"])
	assert.Equal(t, "ledger", entry["component"])
}

func TestNop_ForActorNoEscribe(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().ForActor("u1", "").Info().Msg("x")
	})
}
