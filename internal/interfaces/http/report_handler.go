package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hotwellkz/warehouse-api/internal/application/usecase"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

// ReportHandler reportes descargables (protegido).
type ReportHandler struct {
	uc  *usecase.ReportUseCase
	log *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// StockPDF godoc
// @Summary      Reporte PDF de saldos de stock
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        warehouse_id  query  string  false  "Almacén; vacío = todos"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/stock.pdf [get]
func (h *ReportHandler) StockPDF(c *fiber.Ctx) error {
	pdf, err := h.uc.StockPDF(c.UserContext(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="stock-%s.pdf"`, time.Now().Format("2006-01-02")))
	return c.Send(pdf)
}
