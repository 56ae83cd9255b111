package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/hotwellkz/warehouse-api/internal/application/inventory"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

// LowStockHandler procesa TaskLowStock.
type LowStockHandler struct {
	rec LowStockRecorder
	log *logger.Logger
}

// NewLowStockHandler construye el handler.
func NewLowStockHandler(rec LowStockRecorder, log *logger.Logger) *LowStockHandler {
	return &LowStockHandler{rec: rec, log: log.Component("notify")}
}

// Handle registra la notificación; una carga ilegible no se reintenta.
func (h *LowStockHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var p LowStockPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		h.log.Error().Err(err).Msg("carga de stock bajo ilegible")
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	n, err := h.rec.RecordLowStock(ctx, p.Signal())
	if err != nil {
		return err
	}
	h.log.Info().Str("product_id", p.ProductID).Str("notification_id", n.ID).Msg("notificación de stock bajo registrada")
	return nil
}

// LedgerVerifier lo que VerifyHandler necesita del servicio de inventario.
type LedgerVerifier interface {
	ListRecords(ctx context.Context, filter repository.StockRecordFilter) ([]*entity.StockRecord, error)
	Verify(ctx context.Context, productID string) (*inventory.Verification, error)
}

// VerifyHandler procesa TaskVerifyLedger recorriendo todos los productos.
type VerifyHandler struct {
	ledger LedgerVerifier
	log    *logger.Logger
}

// NewVerifyHandler construye el handler.
func NewVerifyHandler(l LedgerVerifier, log *logger.Logger) *VerifyHandler {
	return &VerifyHandler{ledger: l, log: log.Component("verify")}
}

// Handle devuelve el número de registros divergentes vía log; solo falla si no puede leer.
func (h *VerifyHandler) Handle(ctx context.Context, _ *asynq.Task) error {
	_, err := h.Run(ctx)
	return err
}

// Run verifica todos los productos y devuelve los IDs divergentes.
func (h *VerifyHandler) Run(ctx context.Context) ([]string, error) {
	recs, err := h.ledger.ListRecords(ctx, repository.StockRecordFilter{})
	if err != nil {
		return nil, err
	}
	var drifted []string
	for _, r := range recs {
		v, err := h.ledger.Verify(ctx, r.ID)
		if err != nil {
			h.log.Warn().Err(err).Str("product_id", r.ID).Msg("no se pudo verificar")
			drifted = append(drifted, r.ID)
			continue
		}
		if !v.Consistent {
			drifted = append(drifted, r.ID)
		}
	}
	h.log.Info().Int("products", len(recs)).Int("drifted", len(drifted)).Msg("verificación del libro terminada")
	return drifted, nil
}
