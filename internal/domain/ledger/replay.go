package ledger

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
)

// Checkpoint estado conocido del producto a partir del cual se reproducen los movimientos con Seq mayor.
type Checkpoint struct {
	Quantity    int64
	AverageCost decimal.Decimal
	Seq         int64
}

// CheckpointOf extrae el checkpoint guardado en el registro.
func CheckpointOf(record *entity.StockRecord) Checkpoint {
	return Checkpoint{
		Quantity:    record.CheckpointQuantity,
		AverageCost: record.CheckpointAverageCost,
		Seq:         record.CheckpointSeq,
	}
}

// Replay pliega los movimientos posteriores al checkpoint y devuelve cantidad y costo resultantes.
// Los movimientos con Seq <= cp.Seq se ignoran. Una salida que deje la cantidad negativa
// devuelve ErrInsufficientStock; una entrada que desborde int64, ErrInvalidQuantity.
func Replay(cp Checkpoint, movements []*entity.MovementEntry) (int64, decimal.Decimal, error) {
	ordered := make([]*entity.MovementEntry, 0, len(movements))
	for _, m := range movements {
		if m.Seq > cp.Seq {
			ordered = append(ordered, m)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Seq < ordered[j].Seq })

	qty, avg := cp.Quantity, cp.AverageCost
	for _, m := range ordered {
		switch m.Type {
		case entity.MovementIn:
			if m.Quantity > math.MaxInt64-qty {
				return 0, decimal.Zero, domain.ErrInvalidQuantity
			}
			avg = WeightedAverage(qty, avg, m.Quantity, m.UnitPrice)
			qty += m.Quantity
		case entity.MovementOut:
			if m.Quantity > qty {
				return 0, decimal.Zero, domain.ErrInsufficientStock
			}
			qty -= m.Quantity
		default:
			return 0, decimal.Zero, domain.ErrInvalidInput
		}
	}
	return qty, avg, nil
}

// Reverse calcula el registro resultante de eliminar target de la historia del producto,
// reproduciendo desde el checkpoint todos los movimientos restantes (no restaura la foto
// del movimiento a ciegas). movements debe contener la historia del producto posterior al checkpoint.
func Reverse(record *entity.StockRecord, movements []*entity.MovementEntry, target *entity.MovementEntry, now time.Time) (*entity.StockRecord, error) {
	if record == nil || target == nil {
		return nil, domain.ErrNotFound
	}
	if target.ProductID != record.ID {
		return nil, domain.ErrInvalidInput
	}
	if target.Seq <= record.CheckpointSeq {
		return nil, domain.ErrSuperseded
	}
	remaining := make([]*entity.MovementEntry, 0, len(movements))
	for _, m := range movements {
		if m.ID != target.ID {
			remaining = append(remaining, m)
		}
	}
	qty, avg, err := Replay(CheckpointOf(record), remaining)
	if err != nil {
		return nil, err
	}
	next := record.Clone()
	next.Quantity = qty
	next.AverageCost = avg
	next.TotalCost = TotalCost(qty, avg)
	next.UpdatedAt = now
	return next, nil
}

// SumDeltas suma los cambios de cantidad con signo de los movimientos.
func SumDeltas(movements []*entity.MovementEntry) int64 {
	var total int64
	for _, m := range movements {
		total += m.Delta()
	}
	return total
}
