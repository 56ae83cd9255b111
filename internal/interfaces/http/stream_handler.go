package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/valyala/fasthttp"

	"github.com/hotwellkz/warehouse-api/internal/domain"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

// changeSubscriber contrato mínimo del hub de cambios; lo implementan realtime.RedisHub y LocalHub.
type changeSubscriber interface {
	Subscribe(ctx context.Context) (<-chan entity.StockChange, func(), error)
}

// StreamHandler empuja los cambios de stock como Server-Sent Events.
type StreamHandler struct {
	hub       changeSubscriber
	keepAlive time.Duration
	log       *logger.Logger
}

// NewStreamHandler construye el handler; keepAlive <= 0 usa 25s.
func NewStreamHandler(hub changeSubscriber, keepAlive time.Duration, log *logger.Logger) *StreamHandler {
	if keepAlive <= 0 {
		keepAlive = 25 * time.Second
	}
	return &StreamHandler{hub: hub, keepAlive: keepAlive, log: log}
}

// Stock godoc
// @Summary      Suscripción a cambios de stock (SSE)
// @Tags         realtime
// @Security     Bearer
// @Produce      text/event-stream
// @Param        product_id  query  string  false  "Solo cambios de este producto"
// @Param        access_token  query  string  false  "JWT para EventSource (en lugar del header)"
// @Success      200  {object}  entity.StockChange
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/stream/stock [get]
func (h *StreamHandler) Stock(c *fiber.Ctx) error {
	productID := utils.CopyString(c.Query("product_id"))
	// El stream sobrevive al handler: su vida la marca la conexión, no c.UserContext().
	ctx, cancel := context.WithCancel(context.Background())
	changes, stop, err := h.hub.Subscribe(ctx)
	if err != nil {
		cancel()
		return writeError(c, h.log, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err))
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer stop()
		ticker := time.NewTicker(h.keepAlive)
		defer ticker.Stop()

		if _, err := w.WriteString(": connected\n\n"); err != nil || w.Flush() != nil {
			return
		}
		for {
			select {
			case change, ok := <-changes:
				if !ok {
					return
				}
				if productID != "" && change.ProductID != productID {
					continue
				}
				data, err := json.Marshal(change)
				if err != nil {
					h.log.Warn().Err(err).Msg("cambio no serializable")
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", change.Kind, data)
				if err := w.Flush(); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil || w.Flush() != nil {
					return
				}
			}
		}
	}))
	return nil
}
