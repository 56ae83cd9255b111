package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hotwellkz/warehouse-api/docs"
	"github.com/hotwellkz/warehouse-api/internal/application/inventory"
	"github.com/hotwellkz/warehouse-api/internal/application/usecase"
	"github.com/hotwellkz/warehouse-api/internal/bootstrap"
	"github.com/hotwellkz/warehouse-api/internal/infrastructure/notify"
	infrapdf "github.com/hotwellkz/warehouse-api/internal/infrastructure/pdf"
	"github.com/hotwellkz/warehouse-api/internal/infrastructure/realtime"
	httpRouter "github.com/hotwellkz/warehouse-api/internal/interfaces/http"
	"github.com/hotwellkz/warehouse-api/pkg/config"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	stores, err := bootstrap.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer stores.Close()

	notificationUC := usecase.NewNotificationUseCase(stores.Notifications)

	// Con Redis: señales de stock bajo por asynq y cambios por pub/sub entre instancias.
	// Sin Redis: notificación directa y difusión dentro del proceso.
	var (
		notifier inventory.LowStockNotifier = notify.NewDirectNotifier(notificationUC)
		hub      realtime.Hub               = realtime.NewLocalHub()
	)
	if cfg.Redis.Addr != "" {
		rdb, err := bootstrap.NewRedis(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		asynqNotifier := notify.NewAsynqNotifier(bootstrap.RedisClientOpt(cfg.Redis))
		defer asynqNotifier.Close()
		notifier = asynqNotifier
		hub = realtime.NewRedisHub(rdb, cfg.Redis.Channel, log)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: notificaciones directas y tiempo real local")
	}

	ledgerSvc := bootstrap.NewLedger(cfg, stores, log,
		inventory.WithNotifier(notifier),
		inventory.WithPublisher(hub),
	)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Warehouse API",
	}))
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.Send(docs.JSON())
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Ledger:         ledgerSvc,
		FolderUC:       usecase.NewFolderUseCase(stores.Tx, stores.Folders),
		WarehouseUC:    usecase.NewWarehouseUseCase(stores.Records),
		NotificationUC: notificationUC,
		ReportUC:       usecase.NewReportUseCase(stores.Records, infrapdf.NewMarotoStockReport(cfg.Report.FontPath)),
		Changes:        hub,
		JWTSecret:      cfg.JWT.Secret,
		ServiceName:    cfg.App.Name,
		StoreDriver:    stores.Driver,
		Log:            log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
