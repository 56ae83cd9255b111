package notify

import (
	"context"
	"errors"
	"time"

	"github.com/hibiken/asynq"

	"github.com/hotwellkz/warehouse-api/pkg/logger"
)

// Worker servidor asynq con el planificador de la verificación periódica.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	log       *logger.Logger
}

// WorkerConfig dependencias del worker. VerifyCron vacío desactiva la verificación periódica.
type WorkerConfig struct {
	RedisOpt    asynq.RedisClientOpt
	Concurrency int
	LowStock    *LowStockHandler
	Verify      *VerifyHandler
	VerifyCron  string
	Logger      *logger.Logger
}

// NewWorker construye el worker.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}
	srv := asynq.NewServer(cfg.RedisOpt, asynq.Config{
		Concurrency: cfg.Concurrency,
		Queues:      map[string]int{QueueDefault: 1},
	})
	mux := asynq.NewServeMux()
	if cfg.LowStock != nil {
		mux.HandleFunc(TaskLowStock, cfg.LowStock.Handle)
	}
	if cfg.Verify != nil {
		mux.HandleFunc(TaskVerifyLedger, cfg.Verify.Handle)
	}

	var scheduler *asynq.Scheduler
	if cfg.VerifyCron != "" && cfg.Verify != nil {
		scheduler = asynq.NewScheduler(cfg.RedisOpt, &asynq.SchedulerOpts{Location: time.UTC})
		if _, err := scheduler.Register(cfg.VerifyCron, NewVerifyLedgerTask(), asynq.MaxRetry(1), asynq.Queue(QueueDefault)); err != nil {
			return nil, err
		}
	}
	return &Worker{server: srv, mux: mux, scheduler: scheduler, log: cfg.Logger.Component("worker")}, nil
}

// Run procesa tareas hasta que ctx se cancela.
func (w *Worker) Run(ctx context.Context) error {
	if w == nil {
		return errors.New("worker: not configured")
	}
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return err
		}
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	w.log.Info().Msg("worker iniciado")
	select {
	case <-ctx.Done():
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		if w.scheduler != nil {
			w.scheduler.Shutdown()
		}
		return err
	}
}
