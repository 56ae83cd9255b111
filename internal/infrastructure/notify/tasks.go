// Package notify entrega las señales de stock bajo: las encola en Redis con asynq para que
// el worker las convierta en notificaciones, o las registra en el acto sin cola.
package notify

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/hotwellkz/warehouse-api/internal/domain/ledger"
)

const (
	// QueueDefault cola de las tareas del almacén.
	QueueDefault = "default"
	// TaskLowStock tarea que registra un cruce del stock mínimo.
	TaskLowStock = "stock:low"
	// TaskVerifyLedger tarea periódica que compara cada registro con su historia.
	TaskVerifyLedger = "ledger:verify"
)

// LowStockPayload carga de TaskLowStock.
type LowStockPayload struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	MinQuantity int64  `json:"min_quantity"`
	Unit        string `json:"unit"`
	WarehouseID string `json:"warehouse_id"`
}

func payloadOf(s ledger.LowStock) LowStockPayload {
	return LowStockPayload{
		ProductID:   s.ProductID,
		ProductName: s.ProductName,
		Quantity:    s.Quantity,
		MinQuantity: s.MinQuantity,
		Unit:        s.Unit,
		WarehouseID: s.WarehouseID,
	}
}

// Signal reconstruye la señal del motor.
func (p LowStockPayload) Signal() ledger.LowStock {
	return ledger.LowStock{
		ProductID:   p.ProductID,
		ProductName: p.ProductName,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
		Unit:        p.Unit,
		WarehouseID: p.WarehouseID,
	}
}

// NewLowStockTask construye la tarea asynq para una señal.
func NewLowStockTask(s ledger.LowStock) (*asynq.Task, error) {
	data, err := json.Marshal(payloadOf(s))
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStock, data), nil
}

// NewVerifyLedgerTask construye la tarea de verificación.
func NewVerifyLedgerTask() *asynq.Task {
	return asynq.NewTask(TaskVerifyLedger, nil)
}
