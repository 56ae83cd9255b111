package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/hotwellkz/warehouse-api/internal/application/dto"
	"github.com/hotwellkz/warehouse-api/internal/application/inventory"
	"github.com/hotwellkz/warehouse-api/internal/domain/ledger"
	"github.com/hotwellkz/warehouse-api/internal/domain/repository"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

// ProductHandler maneja las peticiones HTTP de productos y su stock (protegido).
type ProductHandler struct {
	svc      *inventory.LedgerService
	validate *validator.Validate
	log      *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(svc *inventory.LedgerService, v *validator.Validate, log *logger.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, validate: v, log: log}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindBody(c, h.validate, &in); err != nil {
		return writeError(c, h.log, err)
	}
	rec, err := h.svc.CreateProduct(c.UserContext(), inventory.CreateProductInput{
		Name:        in.Name,
		Unit:        in.Unit,
		Quantity:    in.Quantity,
		MinQuantity: in.MinQuantity,
		AverageCost: in.AverageCost,
		WarehouseID: in.WarehouseID,
		FolderID:    in.FolderID,
	}, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductResponse(rec))
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Almacén (main, secondary, production)"
// @Param        folder_id     query  string  false  "Carpeta; 'none' = sin carpeta"
// @Param        low_stock     query  bool    false  "Solo productos en o bajo el mínimo"
// @Param        limit         query  int     false  "Límite (máx 100)"
// @Param        offset        query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page := pageOf(c)
	filter := repository.StockRecordFilter{
		WarehouseID:  c.Query("warehouse_id"),
		LowStockOnly: c.QueryBool("low_stock", false),
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
	switch folder := c.Query("folder_id"); folder {
	case "":
	case "none":
		filter.Unfiled = true
	default:
		filter.FolderID = &folder
	}
	list, err := h.svc.ListRecords(c.UserContext(), filter)
	if err != nil {
		return writeError(c, h.log, err)
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, r := range list {
		items = append(items, dto.ToProductResponse(r))
	}
	return c.JSON(dto.ProductListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(items)}})
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	rec, err := h.svc.GetRecord(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToProductResponse(rec))
}

// Update godoc
// @Summary      Ajuste administrativo del producto
// @Description  Fija campos directamente sin registrar movimiento. Si cambian cantidad o costo,
// @Description  las reversiones de movimientos anteriores quedan bloqueadas.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a ajustar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [patch]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProductRequest
	if err := bindBody(c, h.validate, &in); err != nil {
		return writeError(c, h.log, err)
	}
	rec, err := h.svc.AdjustRecord(c.UserContext(), c.Params("id"), ledger.Patch{
		Name:        in.Name,
		Unit:        in.Unit,
		Quantity:    in.Quantity,
		MinQuantity: in.MinQuantity,
		AverageCost: in.AverageCost,
		WarehouseID: in.WarehouseID,
	}, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToProductResponse(rec))
}

// Delete godoc
// @Summary      Eliminar producto y su historial de movimientos
// @Tags         products
// @Security     Bearer
// @Param        id   path  string  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.svc.DeleteProduct(c.UserContext(), c.Params("id"), GetActor(c)); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MoveWarehouse godoc
// @Summary      Mover producto a otro almacén
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del producto"
// @Param        body  body  dto.MoveWarehouseRequest  true  "Almacén destino"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/warehouse [put]
func (h *ProductHandler) MoveWarehouse(c *fiber.Ctx) error {
	var in dto.MoveWarehouseRequest
	if err := bindBody(c, h.validate, &in); err != nil {
		return writeError(c, h.log, err)
	}
	rec, err := h.svc.MoveWarehouse(c.UserContext(), c.Params("id"), in.WarehouseID, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToProductResponse(rec))
}

// TransferFolder godoc
// @Summary      Cambiar la carpeta del producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del producto"
// @Param        body  body  dto.TransferFolderRequest  true  "folder_id (null = sin carpeta)"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/folder [put]
func (h *ProductHandler) TransferFolder(c *fiber.Ctx) error {
	var in dto.TransferFolderRequest
	if err := bindBody(c, h.validate, &in); err != nil {
		return writeError(c, h.log, err)
	}
	rec, err := h.svc.TransferFolder(c.UserContext(), c.Params("id"), in.FolderID, GetActor(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToProductResponse(rec))
}

// Verify godoc
// @Summary      Verificar el registro contra su historial
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  inventory.Verification
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/verify [get]
func (h *ProductHandler) Verify(c *fiber.Ctx) error {
	v, err := h.svc.Verify(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(v)
}
