package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/hotwellkz/warehouse-api/internal/application/dto"
	"github.com/hotwellkz/warehouse-api/internal/application/inventory"
	"github.com/hotwellkz/warehouse-api/internal/domain/entity"
	"github.com/hotwellkz/warehouse-api/internal/domain/ledger"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP de movimientos (protegido).
type InventoryHandler struct {
	svc      *inventory.LedgerService
	validate *validator.Validate
	log      *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(svc *inventory.LedgerService, v *validator.Validate, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, validate: v, log: log}
}

// RegisterMovement godoc
// @Summary      Registrar entrada o salida
// @Description  Entrada (in) exige unit_price y recalcula el costo promedio ponderado.
// @Description  Salida (out) no cambia el costo promedio y se rechaza si deja stock negativo.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del producto"
// @Param        body  body  dto.StockEventRequest  true  "type, quantity, unit_price (entradas)"
// @Success      201   {object}  dto.StockEventResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.StockEventRequest
	if err := bindBody(c, h.validate, &in); err != nil {
		return writeError(c, h.log, err)
	}
	productID := c.Params("id")
	res, err := h.svc.ApplyEvent(c.UserContext(), productID, ledger.StockEvent{
		ProductID:   productID,
		Type:        entity.MovementType(in.Type),
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		WarehouseID: in.WarehouseID,
		Supplier:    in.Supplier,
		Description: in.Description,
	}, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.StockEventResponse{
		Product:  dto.ToProductResponse(res.Record),
		Movement: dto.ToMovementResponse(res.Movement),
	})
}

// ListMovements godoc
// @Summary      Historial de movimientos del producto (más reciente primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        limit   query  int     false  "Límite (máx 100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	page := pageOf(c)
	list, err := h.svc.ListMovements(c.UserContext(), c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.ToMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)}})
}

// ReverseMovement godoc
// @Summary      Revertir un movimiento
// @Description  Elimina el movimiento y recalcula el producto reproduciendo el resto del historial.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *InventoryHandler) ReverseMovement(c *fiber.Ctx) error {
	rec, err := h.svc.ReverseMovement(c.UserContext(), c.Params("id"), GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToProductResponse(rec))
}
