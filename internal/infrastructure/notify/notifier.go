package notify

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/ledger"
)

// LowStockRecorder persiste la notificación de un cruce del mínimo.
type LowStockRecorder interface {
	RecordLowStock(ctx context.Context, s ledger.LowStock) (*entity.Notification, error)
}

// AsynqNotifier encola las señales en Redis; el worker las procesa.
type AsynqNotifier struct {
	client   *asynq.Client
	maxRetry int
}

// NewAsynqNotifier construye el notificador sobre redisOpt.
func NewAsynqNotifier(redisOpt asynq.RedisClientOpt) *AsynqNotifier {
	return &AsynqNotifier{client: asynq.NewClient(redisOpt), maxRetry: 5}
}

// NotifyLowStock encola la señal.
func (n *AsynqNotifier) NotifyLowStock(ctx context.Context, s ledger.LowStock) error {
	task, err := NewLowStockTask(s)
	if err != nil {
		return err
	}
	if _, err := n.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault), asynq.MaxRetry(n.maxRetry)); err != nil {
		return fmt.Errorf("enqueue low stock: %w", err)
	}
	return nil
}

// Close libera la conexión con Redis.
func (n *AsynqNotifier) Close() error {
	return n.client.Close()
}

// DirectNotifier registra la notificación sin pasar por la cola (STORE_DRIVER=memory o sin Redis).
type DirectNotifier struct {
	rec LowStockRecorder
}

// NewDirectNotifier construye el notificador.
func NewDirectNotifier(rec LowStockRecorder) *DirectNotifier {
	return &DirectNotifier{rec: rec}
}

// NotifyLowStock registra la notificación.
func (n *DirectNotifier) NotifyLowStock(ctx context.Context, s ledger.LowStock) error {
	_, err := n.rec.RecordLowStock(ctx, s)
	return err
}
