// Package ledger contiene el motor de inventario: funciones puras que calculan el siguiente
// estado de un StockRecord a partir de un evento, validan los invariantes y producen la
// compensación de una reversión. No realiza I/O; la persistencia atómica es del llamador.
package ledger

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
)

// StockEvent solicitud de entrada o salida para un producto.
// UnitPrice es obligatorio en entradas; en salidas, si falta, se usa el costo promedio.
type StockEvent struct {
	ProductID   string
	Type        entity.MovementType
	Quantity    int64
	UnitPrice   *decimal.Decimal
	WarehouseID string // vacío = almacén del producto
	Supplier    string
	Description string
}

// LowStock señal de cruce descendente del mínimo, para el notificador.
type LowStock struct {
	ProductID   string
	ProductName string
	Quantity    int64
	MinQuantity int64
	Unit        string
	WarehouseID string
}

// Result estado resultante de aplicar un evento.
type Result struct {
	Record   *entity.StockRecord
	Movement *entity.MovementEntry
	LowStock *LowStock // nil si no hubo cruce
}

// ValidateEvent comprueba el evento sin mirar el estado del producto.
func ValidateEvent(ev StockEvent) error {
	if ev.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if ev.UnitPrice != nil && ev.UnitPrice.IsNegative() {
		return domain.ErrInvalidPrice
	}
	if !ev.Type.Valid() {
		return domain.ErrInvalidInput
	}
	if ev.Type == entity.MovementIn && ev.UnitPrice == nil {
		return domain.ErrInvalidPrice
	}
	if ev.WarehouseID != "" && !entity.IsValidWarehouse(ev.WarehouseID) {
		return domain.ErrInvalidValue
	}
	return nil
}

// ApplyEvent calcula el nuevo StockRecord y el MovementEntry para el evento.
// No modifica record; ante cualquier error no hay efecto alguno.
func ApplyEvent(record *entity.StockRecord, ev StockEvent, actor entity.Actor, now time.Time) (Result, error) {
	if record == nil {
		return Result{}, domain.ErrNotFound
	}
	if err := ValidateEvent(ev); err != nil {
		return Result{}, err
	}
	if ev.WarehouseID != "" && ev.WarehouseID != record.WarehouseID {
		return Result{}, domain.ErrInvalidInput
	}

	next := record.Clone()
	var unitPrice decimal.Decimal
	switch ev.Type {
	case entity.MovementIn:
		if ev.Quantity > math.MaxInt64-record.Quantity {
			return Result{}, domain.ErrInvalidQuantity
		}
		// El precio se guarda con CostPlaces decimales; el promedio usa el mismo valor que
		// luego reproduce Replay.
		unitPrice = ev.UnitPrice.Round(CostPlaces)
		next.AverageCost = WeightedAverage(record.Quantity, record.AverageCost, ev.Quantity, unitPrice)
		next.Quantity = record.Quantity + ev.Quantity
	case entity.MovementOut:
		if ev.Quantity > record.Quantity {
			return Result{}, domain.ErrInsufficientStock
		}
		unitPrice = record.AverageCost
		if ev.UnitPrice != nil {
			unitPrice = ev.UnitPrice.Round(CostPlaces)
		}
		next.Quantity = record.Quantity - ev.Quantity
	}
	next.TotalCost = TotalCost(next.Quantity, next.AverageCost)
	next.UpdatedAt = now

	mov := &entity.MovementEntry{
		ProductID:           record.ID,
		Type:                ev.Type,
		Quantity:            ev.Quantity,
		UnitPrice:           unitPrice,
		TotalPrice:          decimal.NewFromInt(ev.Quantity).Mul(unitPrice).Round(CurrencyPlaces),
		Timestamp:           now,
		WarehouseID:         record.WarehouseID,
		Supplier:            strings.TrimSpace(ev.Supplier),
		Description:         strings.TrimSpace(ev.Description),
		PreviousQuantity:    record.Quantity,
		NewQuantity:         next.Quantity,
		PreviousAverageCost: record.AverageCost,
		NewAverageCost:      next.AverageCost,
		CreatedBy:           actor.ID,
		CreatedByName:       actor.Name,
	}

	return Result{Record: next, Movement: mov, LowStock: lowStockCrossing(record, next)}, nil
}

// lowStockCrossing solo señala la transición de "por encima" a "en o por debajo" del mínimo.
func lowStockCrossing(prev, next *entity.StockRecord) *LowStock {
	if !(prev.Quantity > prev.MinQuantity && next.Quantity <= next.MinQuantity) {
		return nil
	}
	return &LowStock{
		ProductID:   next.ID,
		ProductName: next.Name,
		Quantity:    next.Quantity,
		MinQuantity: next.MinQuantity,
		Unit:        next.Unit,
		WarehouseID: next.WarehouseID,
	}
}

// NewProduct datos de alta de un producto.
type NewProduct struct {
	ID          string
	Name        string
	Unit        string
	Quantity    int64
	MinQuantity int64
	AverageCost decimal.Decimal
	WarehouseID string
	FolderID    *string
}

// NewRecord construye el StockRecord inicial; el checkpoint queda en el estado de alta.
func NewRecord(in NewProduct, now time.Time) (*entity.StockRecord, error) {
	name := strings.TrimSpace(in.Name)
	if in.ID == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity < 0 || in.MinQuantity < 0 || in.AverageCost.IsNegative() {
		return nil, domain.ErrInvalidValue
	}
	if !entity.IsValidWarehouse(in.WarehouseID) {
		return nil, domain.ErrInvalidValue
	}
	avg := in.AverageCost.Round(CostPlaces)
	rec := &entity.StockRecord{
		ID:                    in.ID,
		Name:                  name,
		Unit:                  strings.TrimSpace(in.Unit),
		Quantity:              in.Quantity,
		MinQuantity:           in.MinQuantity,
		AverageCost:           avg,
		TotalCost:             TotalCost(in.Quantity, avg),
		WarehouseID:           in.WarehouseID,
		FolderID:              in.FolderID,
		Version:               1,
		CheckpointQuantity:    in.Quantity,
		CheckpointAverageCost: avg,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if rec.Unit == "" {
		rec.Unit = "шт"
	}
	return rec, nil
}

// Patch ajuste administrativo; los campos nil no se tocan.
type Patch struct {
	Name        *string
	Unit        *string
	Quantity    *int64
	MinQuantity *int64
	AverageCost *decimal.Decimal
	WarehouseID *string
}

// IsEmpty indica si el patch no trae ningún campo.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Unit == nil && p.Quantity == nil &&
		p.MinQuantity == nil && p.AverageCost == nil && p.WarehouseID == nil
}

// Adjust aplica un ajuste administrativo sin generar movimiento.
// Si cambian cantidad o costo, el checkpoint se rebasa al nuevo estado con lastSeq
// (último seq de movimiento del producto), de modo que la reproducción parta de aquí.
func Adjust(record *entity.StockRecord, p Patch, lastSeq int64, now time.Time) (*entity.StockRecord, error) {
	if record == nil {
		return nil, domain.ErrNotFound
	}
	if p.IsEmpty() {
		return nil, domain.ErrInvalidInput
	}
	if (p.Quantity != nil && *p.Quantity < 0) ||
		(p.MinQuantity != nil && *p.MinQuantity < 0) ||
		(p.AverageCost != nil && p.AverageCost.IsNegative()) {
		return nil, domain.ErrInvalidValue
	}
	if p.WarehouseID != nil && !entity.IsValidWarehouse(*p.WarehouseID) {
		return nil, domain.ErrInvalidValue
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, domain.ErrInvalidValue
	}

	next := record.Clone()
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Unit != nil {
		next.Unit = strings.TrimSpace(*p.Unit)
	}
	if p.MinQuantity != nil {
		next.MinQuantity = *p.MinQuantity
	}
	if p.WarehouseID != nil {
		next.WarehouseID = *p.WarehouseID
	}
	rebase := false
	if p.Quantity != nil && *p.Quantity != record.Quantity {
		next.Quantity = *p.Quantity
		rebase = true
	}
	if p.AverageCost != nil && !p.AverageCost.Round(CostPlaces).Equal(record.AverageCost) {
		next.AverageCost = p.AverageCost.Round(CostPlaces)
		rebase = true
	}
	if rebase {
		next.CheckpointQuantity = next.Quantity
		next.CheckpointAverageCost = next.AverageCost
		next.CheckpointSeq = lastSeq
	}
	next.TotalCost = TotalCost(next.Quantity, next.AverageCost)
	next.UpdatedAt = now
	return next, nil
}

// MoveWarehouse cambia el almacén sin efecto en cantidad ni costo.
func MoveWarehouse(record *entity.StockRecord, warehouseID string, now time.Time) (*entity.StockRecord, error) {
	if record == nil {
		return nil, domain.ErrNotFound
	}
	if !entity.IsValidWarehouse(warehouseID) {
		return nil, domain.ErrInvalidValue
	}
	if warehouseID == record.WarehouseID {
		return nil, domain.ErrNoOp
	}
	next := record.Clone()
	next.WarehouseID = warehouseID
	next.UpdatedAt = now
	return next, nil
}

// CheckInvariants valida no negatividad y coherencia del costo total de un registro.
func CheckInvariants(record *entity.StockRecord) error {
	if record.Quantity < 0 || record.MinQuantity < 0 || record.AverageCost.IsNegative() {
		return domain.ErrInvalidValue
	}
	if !record.TotalCost.Equal(TotalCost(record.Quantity, record.AverageCost)) {
		return domain.ErrInvalidValue
	}
	return nil
}
