package postgres

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shipping/internal/pkg/config"
	"shipping/pkg/logger"
	"shipping/pkg/retrier"
	"shipping/pkg/retrier/backoff_adapter"
)

const (
	maxConns          = 10
	minConns          = 2
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = 30 * time.Second
)

// на старте база может подниматься дольше сервиса, ждем ее с экспоненциальной паузой
var connectRetry = retrier.Config{
	InitialInterval: time.Second,
	MaxInterval:     15 * time.Second,
	MaxElapsedTime:  2 * time.Minute,
	Randomization:   0.5,
	Multiplier:      2,
}

func NewConnPool(ctx context.Context, log logger.Logger, cfg *config.Database) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.MaxConns = maxConns
	poolCfg.MinConns = minConns
	poolCfg.MaxConnLifetime = maxConnLifetime
	poolCfg.MaxConnIdleTime = maxConnIdleTime
	poolCfg.HealthCheckPeriod = healthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connection pool: %w", err)
	}

	dbLog := log.With(
		logger.NewField("host", cfg.Host),
		logger.NewField("port", cfg.Port),
		logger.NewField("db", cfg.DBName),
	)
	if err := waitForDatabase(ctx, dbLog, pool); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// DSN собирает URL подключения, экранируя логин и пароль.
func DSN(cfg *config.Database) string {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
		Path:   "/" + cfg.DBName,
	}
	query := dsn.Query()
	query.Set("sslmode", cfg.SSLMode)
	dsn.RawQuery = query.Encode()
	return dsn.String()
}

func waitForDatabase(ctx context.Context, log logger.Logger, pool *pgxpool.Pool) error {
	retryCfg := connectRetry
	retryCfg.OnRetry = func(err error, wait time.Duration) {
		log.Warn("database is not reachable yet",
			logger.NewField("error", err),
			logger.NewField("retry_in", wait),
		)
	}

	err := backoff_adapter.New(retryCfg).ExecuteWithContext(ctx, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	if err != nil {
		log.Error("database connection failed", logger.NewField("error", err))
		return fmt.Errorf("ping database: %w", err)
	}

	log.Info("database connection established")
	return nil
}
