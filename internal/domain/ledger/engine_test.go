package ledger_test

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/ledger"
)

var (
	testNow   = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	testActor = entity.Actor{ID: "u-1", Name: "Кладовщик"}
)

func price(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func newRecord(t *testing.T, qty, minQty, avg int64) *entity.StockRecord {
	t.Helper()
	rec, err := ledger.NewRecord(ledger.NewProduct{
		ID:          "p-1",
		Name:        "Газоблок D500",
		Unit:        "шт",
		Quantity:    qty,
		MinQuantity: minQty,
		AverageCost: decimal.NewFromInt(avg),
		WarehouseID: entity.WarehouseMain,
	}, testNow)
	require.NoError(t, err)
	return rec
}

func inEvent(qty, unitPrice int64) ledger.StockEvent {
	return ledger.StockEvent{ProductID: "p-1", Type: entity.MovementIn, Quantity: qty, UnitPrice: price(unitPrice)}
}

func outEvent(qty int64) ledger.StockEvent {
	return ledger.StockEvent{ProductID: "p-1", Type: entity.MovementOut, Quantity: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Costo promedio ponderado
// ──────────────────────────────────────────────────────────────────────────────

func TestWeightedAverage_StockCeroUsaPrecioEntrada(t *testing.T) {
	got := ledger.WeightedAverage(0, decimal.NewFromInt(999), 7, decimal.NewFromInt(120))
	assert.True(t, got.Equal(decimal.NewFromInt(120)), "con stock previo 0 el costo es el de la entrada, got %s", got)
}

func TestApplyEvent_EntradaPromedia(t *testing.T) {
	rec := newRecord(t, 10, 0, 100)

	res, err := ledger.ApplyEvent(rec, inEvent(10, 200), testActor, testNow)
	require.NoError(t, err)

	assert.Equal(t, int64(20), res.Record.Quantity)
	assert.True(t, res.Record.AverageCost.Equal(decimal.NewFromInt(150)), "avg = %s", res.Record.AverageCost)
	assert.True(t, res.Record.TotalCost.Equal(decimal.NewFromInt(3000)), "total = %s", res.Record.TotalCost)

	mov := res.Movement
	require.NotNil(t, mov)
	assert.Equal(t, entity.MovementIn, mov.Type)
	assert.Equal(t, int64(10), mov.PreviousQuantity)
	assert.Equal(t, int64(20), mov.NewQuantity)
	assert.True(t, mov.PreviousAverageCost.Equal(decimal.NewFromInt(100)))
	assert.True(t, mov.NewAverageCost.Equal(decimal.NewFromInt(150)))
	assert.True(t, mov.TotalPrice.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, testActor.ID, mov.CreatedBy)
	assert.Equal(t, testNow, mov.Timestamp)

	// El registro original no se toca.
	assert.Equal(t, int64(10), rec.Quantity)
}

func TestApplyEvent_SalidaNoCambiaCosto(t *testing.T) {
	rec := newRecord(t, 20, 0, 150)

	res, err := ledger.ApplyEvent(rec, outEvent(5), testActor, testNow)
	require.NoError(t, err)

	assert.Equal(t, int64(15), res.Record.Quantity)
	assert.True(t, res.Record.AverageCost.Equal(decimal.NewFromInt(150)))
	assert.True(t, res.Record.TotalCost.Equal(decimal.NewFromInt(2250)))
	assert.True(t, res.Movement.UnitPrice.Equal(decimal.NewFromInt(150)), "la salida se valora al costo promedio")
}

func TestApplyEvent_RedondeoDeCosto(t *testing.T) {
	rec := newRecord(t, 10, 0, 100)

	res, err := ledger.ApplyEvent(rec, inEvent(5, 120), testActor, testNow)
	require.NoError(t, err)

	assert.Equal(t, "106.6667", res.Record.AverageCost.StringFixed(4))
	assert.True(t, res.Record.TotalCost.Equal(decimal.RequireFromString("1600.00")), "total = %s", res.Record.TotalCost)
	require.NoError(t, ledger.CheckInvariants(res.Record))
}

// ──────────────────────────────────────────────────────────────────────────────
// Validaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyEvent_CantidadInvalida(t *testing.T) {
	rec := newRecord(t, 10, 0, 100)
	for _, q := range []int64{0, -1, -100} {
		for _, ev := range []ledger.StockEvent{inEvent(q, 10), outEvent(q)} {
			_, err := ledger.ApplyEvent(rec, ev, testActor, testNow)
			assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
		}
	}
	assert.Equal(t, int64(10), rec.Quantity)
}

func TestApplyEvent_PrecioInvalido(t *testing.T) {
	rec := newRecord(t, 10, 0, 100)

	_, err := ledger.ApplyEvent(rec, inEvent(1, -5), testActor, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	noPrice := inEvent(1, 0)
	noPrice.UnitPrice = nil
	_, err = ledger.ApplyEvent(rec, noPrice, testActor, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice, "la entrada sin precio se rechaza")
}

func TestApplyEvent_StockInsuficiente(t *testing.T) {
	rec := newRecord(t, 3, 0, 100)

	_, err := ledger.ApplyEvent(rec, outEvent(4), testActor, testNow)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), rec.Quantity)

	res, err := ledger.ApplyEvent(rec, outEvent(3), testActor, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Record.Quantity)
	assert.True(t, res.Record.TotalCost.IsZero())
}

func TestApplyEvent_AlmacenDistinto(t *testing.T) {
	rec := newRecord(t, 3, 0, 100)
	ev := outEvent(1)
	ev.WarehouseID = entity.WarehouseProduction

	_, err := ledger.ApplyEvent(rec, ev, testActor, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Conservación
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyEvent_Conservacion(t *testing.T) {
	rec := newRecord(t, 4, 0, 50)
	events := []ledger.StockEvent{
		inEvent(10, 60), outEvent(3), inEvent(2, 70), outEvent(13), inEvent(1, 1), outEvent(1),
	}
	var movs []*entity.MovementEntry
	var sumIn, sumOut int64
	for i, ev := range events {
		res, err := ledger.ApplyEvent(rec, ev, testActor, testNow)
		require.NoError(t, err, "evento %d", i)
		rec = res.Record
		movs = append(movs, res.Movement)
		if ev.Type == entity.MovementIn {
			sumIn += ev.Quantity
		} else {
			sumOut += ev.Quantity
		}
		require.NoError(t, ledger.CheckInvariants(rec))
	}
	assert.Equal(t, 4+sumIn-sumOut, rec.Quantity)
	assert.Equal(t, rec.Quantity-4, ledger.SumDeltas(movs))
}

// ──────────────────────────────────────────────────────────────────────────────
// Señal de stock bajo: solo en el cruce descendente
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyEvent_StockBajoSoloAlCruzar(t *testing.T) {
	rec := newRecord(t, 6, 5, 100)

	res, err := ledger.ApplyEvent(rec, outEvent(1), testActor, testNow)
	require.NoError(t, err)
	require.NotNil(t, res.LowStock, "6 -> 5 con mínimo 5 cruza el umbral")
	assert.Equal(t, int64(5), res.LowStock.Quantity)
	assert.Equal(t, "Газоблок D500", res.LowStock.ProductName)
	assert.Equal(t, "шт", res.LowStock.Unit)
	rec = res.Record

	_, err = ledger.ApplyEvent(rec, outEvent(0), testActor, testNow)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	res, err = ledger.ApplyEvent(rec, outEvent(1), testActor, testNow)
	require.NoError(t, err)
	assert.Nil(t, res.LowStock, "ya estaba por debajo: no se repite la señal")
	rec = res.Record

	res, err = ledger.ApplyEvent(rec, inEvent(10, 100), testActor, testNow)
	require.NoError(t, err)
	assert.Nil(t, res.LowStock, "una entrada nunca señala stock bajo")
	rec = res.Record

	res, err = ledger.ApplyEvent(rec, outEvent(9), testActor, testNow)
	require.NoError(t, err)
	assert.NotNil(t, res.LowStock, "tras reponer, un nuevo cruce vuelve a señalar")
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajuste administrativo y cambio de almacén
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_ValoresNegativos(t *testing.T) {
	rec := newRecord(t, 5, 1, 100)
	neg := int64(-1)
	negCost := decimal.NewFromInt(-1)

	for _, p := range []ledger.Patch{{Quantity: &neg}, {MinQuantity: &neg}, {AverageCost: &negCost}} {
		_, err := ledger.Adjust(rec, p, 0, testNow)
		assert.ErrorIs(t, err, domain.ErrInvalidValue)
	}
	_, err := ledger.Adjust(rec, ledger.Patch{}, 0, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjust_RecalculaTotalYRebasaCheckpoint(t *testing.T) {
	rec := newRecord(t, 5, 1, 100)
	qty := int64(8)
	cost := decimal.RequireFromString("12.5")

	next, err := ledger.Adjust(rec, ledger.Patch{Quantity: &qty, AverageCost: &cost}, 42, testNow)
	require.NoError(t, err)

	assert.Equal(t, int64(8), next.Quantity)
	assert.True(t, next.TotalCost.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(8), next.CheckpointQuantity)
	assert.True(t, next.CheckpointAverageCost.Equal(cost))
	assert.Equal(t, int64(42), next.CheckpointSeq)
	require.NoError(t, ledger.CheckInvariants(next))
}

func TestAdjust_SoloMinimoNoRebasa(t *testing.T) {
	rec := newRecord(t, 5, 1, 100)
	minQty := int64(3)

	next, err := ledger.Adjust(rec, ledger.Patch{MinQuantity: &minQty}, 42, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(3), next.MinQuantity)
	assert.Equal(t, int64(0), next.CheckpointSeq)
}

func TestMoveWarehouse(t *testing.T) {
	rec := newRecord(t, 5, 1, 100)

	_, err := ledger.MoveWarehouse(rec, entity.WarehouseMain, testNow)
	assert.ErrorIs(t, err, domain.ErrNoOp)

	_, err = ledger.MoveWarehouse(rec, "desconocido", testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)

	next, err := ledger.MoveWarehouse(rec, entity.WarehouseSecondary, testNow)
	require.NoError(t, err)
	assert.Equal(t, entity.WarehouseSecondary, next.WarehouseID)
	assert.Equal(t, rec.Quantity, next.Quantity)
	assert.True(t, rec.TotalCost.Equal(next.TotalCost))
}

func TestNewRecord_Validaciones(t *testing.T) {
	_, err := ledger.NewRecord(ledger.NewProduct{ID: "x", Name: " ", WarehouseID: entity.WarehouseMain}, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ledger.NewRecord(ledger.NewProduct{ID: "x", Name: "Цемент", Quantity: -1, WarehouseID: entity.WarehouseMain}, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)

	_, err = ledger.NewRecord(ledger.NewProduct{ID: "x", Name: "Цемент", WarehouseID: "otro"}, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

// ──────────────────────────────────────────────────────────────────────────────
// Límites numéricos
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyEvent_EntradaQueDesbordaSeRechaza(t *testing.T) {
	rec := newRecord(t, 10, 0, 100)

	_, err := ledger.ApplyEvent(rec, inEvent(math.MaxInt64, 1), testActor, testNow)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, int64(10), rec.Quantity, "el registro no se toca")

	// justo en el límite sí entra
	res, err := ledger.ApplyEvent(rec, inEvent(math.MaxInt64-10, 1), testActor, testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), res.Record.Quantity)
	assert.NoError(t, ledger.CheckInvariants(res.Record))
}

func TestReplay_EntradaQueDesbordaSeRechaza(t *testing.T) {
	cp := ledger.Checkpoint{Quantity: 10, AverageCost: decimal.NewFromInt(100)}
	movs := []*entity.MovementEntry{{
		ID: "m1", Seq: 1, Type: entity.MovementIn, Quantity: math.MaxInt64, UnitPrice: decimal.NewFromInt(1),
	}}

	_, _, err := ledger.Replay(cp, movs)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// El precio de la entrada se normaliza a la escala con la que se guarda el movimiento,
// de modo que la reproducción de la historia da el mismo promedio que la aplicación.
func TestApplyEvent_PrecioNormalizadoCoincideConReplay(t *testing.T) {
	rec := newRecord(t, 1, 0, 1)
	p := decimal.RequireFromString("1.00005")

	res, err := ledger.ApplyEvent(rec, ledger.StockEvent{
		ProductID: "p-1", Type: entity.MovementIn, Quantity: 1, UnitPrice: &p,
	}, testActor, testNow)
	require.NoError(t, err)
	assert.True(t, res.Movement.UnitPrice.Equal(decimal.RequireFromString("1.0001")), "precio = %s", res.Movement.UnitPrice)

	stored := *res.Movement
	stored.Seq = 1
	stored.UnitPrice = stored.UnitPrice.Round(ledger.CostPlaces)
	qty, avg, err := ledger.Replay(ledger.CheckpointOf(rec), []*entity.MovementEntry{&stored})
	require.NoError(t, err)
	assert.Equal(t, res.Record.Quantity, qty)
	assert.True(t, res.Record.AverageCost.Equal(avg), "aplicado %s vs replay %s", res.Record.AverageCost, avg)
}

func TestApplyEvent_SalidaConPrecioExplicitoSeNormaliza(t *testing.T) {
	rec := newRecord(t, 5, 0, 100)
	p := decimal.RequireFromString("12.345678")
	ev := outEvent(1)
	ev.UnitPrice = &p

	res, err := ledger.ApplyEvent(rec, ev, testActor, testNow)
	require.NoError(t, err)
	assert.True(t, res.Movement.UnitPrice.Equal(decimal.RequireFromString("12.3457")))
	assert.True(t, res.Movement.TotalPrice.Equal(decimal.RequireFromString("12.35")))
}
