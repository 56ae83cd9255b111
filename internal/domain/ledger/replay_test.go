package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/ledger"
)

// applyAll aplica los eventos en orden asignando Seq creciente, como lo haría el almacén.
func applyAll(t *testing.T, rec *entity.StockRecord, events ...ledger.StockEvent) (*entity.StockRecord, []*entity.MovementEntry) {
	t.Helper()
	var movs []*entity.MovementEntry
	for i, ev := range events {
		res, err := ledger.ApplyEvent(rec, ev, testActor, testNow)
		require.NoError(t, err, "evento %d", i)
		res.Movement.ID = string(rune('a' + i))
		res.Movement.Seq = int64(i + 1)
		rec = res.Record
		movs = append(movs, res.Movement)
	}
	return rec, movs
}

func TestReplay_CoincideConEstadoActual(t *testing.T) {
	rec := newRecord(t, 10, 0, 100)
	rec, movs := applyAll(t, rec, inEvent(10, 200), outEvent(5), inEvent(3, 90))

	qty, avg, err := ledger.Replay(ledger.CheckpointOf(rec), movs)
	require.NoError(t, err)
	assert.Equal(t, rec.Quantity, qty)
	assert.True(t, rec.AverageCost.Equal(avg), "replay %s vs actual %s", avg, rec.AverageCost)
}

func TestReverse_MasRecienteRestauraEstadoPrevio(t *testing.T) {
	start := newRecord(t, 10, 0, 100)
	rec, movs := applyAll(t, start, inEvent(10, 200))

	restored, err := ledger.Reverse(rec, movs, movs[0], testNow)
	require.NoError(t, err)

	assert.Equal(t, start.Quantity, restored.Quantity)
	assert.True(t, start.AverageCost.Equal(restored.AverageCost))
	assert.True(t, start.TotalCost.Equal(restored.TotalCost))
}

// Revertir un movimiento antiguo no restaura su foto: reproduce los posteriores.
func TestReverse_MovimientoAntiguoReproduceHistoria(t *testing.T) {
	rec := newRecord(t, 0, 0, 0)
	rec, movs := applyAll(t, rec, inEvent(10, 100), inEvent(10, 200), outEvent(4))
	require.Equal(t, int64(16), rec.Quantity)

	restored, err := ledger.Reverse(rec, movs, movs[0], testNow)
	require.NoError(t, err)

	// Sin la primera entrada: 10 @ 200, salida de 4 -> 6 @ 200.
	assert.Equal(t, int64(6), restored.Quantity)
	assert.True(t, restored.AverageCost.Equal(decimal.NewFromInt(200)), "avg = %s", restored.AverageCost)
	assert.True(t, restored.TotalCost.Equal(decimal.NewFromInt(1200)))

	// La restauración ingenua de la foto daría 0 unidades: el replay lo evita.
	assert.NotEqual(t, movs[0].PreviousQuantity, restored.Quantity)
}

func TestReverse_ReplayNegativoSeRechaza(t *testing.T) {
	rec := newRecord(t, 0, 0, 0)
	rec, movs := applyAll(t, rec, inEvent(5, 100), outEvent(5))

	_, err := ledger.Reverse(rec, movs, movs[0], testNow)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock, "quitar la entrada dejaría la salida sin stock")
}

func TestReverse_AnteriorAlCheckpoint(t *testing.T) {
	rec := newRecord(t, 0, 0, 0)
	rec, movs := applyAll(t, rec, inEvent(5, 100))

	qty := int64(3)
	adjusted, err := ledger.Adjust(rec, ledger.Patch{Quantity: &qty}, movs[0].Seq, testNow)
	require.NoError(t, err)

	_, err = ledger.Reverse(adjusted, movs, movs[0], testNow)
	assert.ErrorIs(t, err, domain.ErrSuperseded)
}

func TestReverse_TrasCheckpointParteDelAjuste(t *testing.T) {
	rec := newRecord(t, 0, 0, 0)
	rec, movs := applyAll(t, rec, inEvent(5, 100))

	qty := int64(3)
	rec, err := ledger.Adjust(rec, ledger.Patch{Quantity: &qty}, movs[0].Seq, testNow)
	require.NoError(t, err)

	res, err := ledger.ApplyEvent(rec, inEvent(1, 300), testActor, testNow)
	require.NoError(t, err)
	res.Movement.ID = "z"
	res.Movement.Seq = 2
	movs = append(movs, res.Movement)
	require.Equal(t, int64(4), res.Record.Quantity)

	restored, err := ledger.Reverse(res.Record, movs, res.Movement, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(3), restored.Quantity)
	assert.True(t, restored.AverageCost.Equal(decimal.NewFromInt(100)))
}
