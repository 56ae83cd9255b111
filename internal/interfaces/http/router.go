package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hotwellkz/warehouse-api/internal/application/inventory"
	"github.com/hotwellkz/warehouse-api/internal/application/usecase"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger         *inventory.LedgerService
	FolderUC       *usecase.FolderUseCase
	WarehouseUC    *usecase.WarehouseUseCase
	NotificationUC *usecase.NotificationUseCase
	ReportUC       *usecase.ReportUseCase
	Changes        changeSubscriber
	Gatherer       prometheus.Gatherer // nil = registro por defecto
	JWTSecret      string
	ServiceName    string
	StoreDriver    string
	Log            *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	v := newValidator()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName, "store": deps.StoreDriver})
	})
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	productHandler := NewProductHandler(deps.Ledger, v, log)
	inventoryHandler := NewInventoryHandler(deps.Ledger, v, log)
	products := api.Group("/products")
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Patch("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Put("/:id/warehouse", productHandler.MoveWarehouse)
	products.Put("/:id/folder", productHandler.TransferFolder)
	products.Get("/:id/verify", productHandler.Verify)
	products.Post("/:id/movements", inventoryHandler.RegisterMovement)
	products.Get("/:id/movements", inventoryHandler.ListMovements)
	api.Delete("/movements/:id", inventoryHandler.ReverseMovement)

	folderHandler := NewFolderHandler(deps.FolderUC, v, log)
	folders := api.Group("/folders")
	folders.Post("/", folderHandler.Create)
	folders.Get("/", folderHandler.List)
	folders.Put("/:id", folderHandler.Update)
	folders.Delete("/:id", folderHandler.Delete)

	api.Get("/warehouses", NewWarehouseHandler(deps.WarehouseUC, log).List)

	notificationHandler := NewNotificationHandler(deps.NotificationUC, log)
	api.Get("/notifications", notificationHandler.List)
	api.Post("/notifications/:id/read", notificationHandler.MarkRead)

	if deps.ReportUC != nil {
		api.Get("/reports/stock.pdf", NewReportHandler(deps.ReportUC, log).StockPDF)
	}
	if deps.Changes != nil {
		api.Get("/stream/stock", NewStreamHandler(deps.Changes, 25*time.Second, log).Stock)
	}
}
