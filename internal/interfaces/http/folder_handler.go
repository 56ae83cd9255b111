package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/hotwellkz/warehouse-api/internal/application/dto"
	"github.com/hotwellkz/warehouse-api/internal/application/usecase"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

// FolderHandler maneja las peticiones HTTP de carpetas (protegido).
type FolderHandler struct {
	uc       *usecase.FolderUseCase
	validate *validator.Validate
	log      *logger.Logger
}

// NewFolderHandler construye el handler.
func NewFolderHandler(uc *usecase.FolderUseCase, v *validator.Validate, log *logger.Logger) *FolderHandler {
	return &FolderHandler{uc: uc, validate: v, log: log}
}

// Create godoc
// @Summary      Crear carpeta
// @Tags         folders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateFolderRequest  true  "name, parent_id"
// @Success      201   {object}  dto.FolderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/folders [post]
func (h *FolderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateFolderRequest
	if err := bindBody(c, h.validate, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar carpetas
// @Tags         folders
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.FolderResponse
// @Router       /api/folders [get]
func (h *FolderHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(list)
}

// Update godoc
// @Summary      Renombrar o mover carpeta
// @Tags         folders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la carpeta"
// @Param        body  body  dto.UpdateFolderRequest  true  "name, parent_id, move_to_root"
// @Success      200   {object}  dto.FolderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/folders/{id} [put]
func (h *FolderHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateFolderRequest
	if err := bindBody(c, h.validate, &in); err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar carpeta
// @Description  Los productos de la carpeta quedan sin carpeta; las subcarpetas pasan al padre.
// @Tags         folders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la carpeta"
// @Success      200  {object}  dto.FolderDeleteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/folders/{id} [delete]
func (h *FolderHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
