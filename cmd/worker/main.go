// worker procesa las señales de stock bajo encoladas en Redis y ejecuta la verificación
// periódica del libro de movimientos.
//
// Uso: go run ./cmd/worker            (servidor asynq)
//
//	go run ./cmd/worker -verify-now (verifica una vez y termina)
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hotwellkz/warehouse-api/internal/application/usecase"
	"github.com/hotwellkz/warehouse-api/internal/bootstrap"
	"github.com/hotwellkz/warehouse-api/internal/infrastructure/notify"
	"github.com/hotwellkz/warehouse-api/pkg/config"
	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

func main() {
	verifyNow := flag.Bool("verify-now", false, "verificar todos los productos una vez y salir")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer stores.Close()

	ledgerSvc := bootstrap.NewLedger(cfg, stores, log)
	verify := notify.NewVerifyHandler(ledgerSvc, log)

	if *verifyNow {
		drifted, err := verify.Run(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("verificación")
		}
		for _, id := range drifted {
			fmt.Println(id)
		}
		if len(drifted) > 0 {
			os.Exit(2)
		}
		return
	}

	if cfg.Redis.Addr == "" {
		log.Fatal().Msg("REDIS_ADDR requerido para el worker")
	}
	if stores.Driver == config.StoreMemory {
		log.Warn().Msg("worker con almacenamiento en memoria: las notificaciones no son visibles desde la API")
	}

	worker, err := notify.NewWorker(notify.WorkerConfig{
		RedisOpt:    bootstrap.RedisClientOpt(cfg.Redis),
		Concurrency: cfg.Worker.Concurrency,
		LowStock:    notify.NewLowStockHandler(usecase.NewNotificationUseCase(stores.Notifications), log),
		Verify:      verify,
		VerifyCron:  cfg.Worker.VerifyCron,
		Logger:      log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar worker")
	}
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("worker finalizado")
	}
	log.Info().Msg("worker detenido")
}
