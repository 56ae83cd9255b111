package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hotwellkz/warehouse-api/pkg/config"
)

// connectWait tiempo máximo esperando a que la base acepte conexiones al arrancar.
const connectWait = 30 * time.Second

// NewPool crea el pool del libro de inventario. Con DATABASE_URL se usa tal cual; si no, el DSN
// se arma con DB_HOST, DB_PORT, etc. appName identifica las sesiones en pg_stat_activity.
// Si la base no responde dentro de connectWait devuelve domain.ErrStorageUnavailable.
func NewPool(ctx context.Context, cfg config.DBConfig, appName string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	if poolConfig.MaxConns <= 0 {
		poolConfig.MaxConns = 25
	}
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute
	if appName != "" {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = appName
	}
	poolConfig.ConnConfig.RuntimeParams["idle_in_transaction_session_timeout"] = "60000"

	// NUMERIC -> shopspring/decimal en todas las conexiones del pool.
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrap("crear pool", err)
	}

	wait := backoff.NewExponentialBackOff()
	wait.MaxElapsedTime = connectWait
	if err := backoff.Retry(func() error {
		return pool.Ping(ctx)
	}, backoff.WithContext(wait, ctx)); err != nil {
		pool.Close()
		return nil, wrap("ping DB", err)
	}
	return pool, nil
}
