package tx

import (
	"context"
	"errors"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/avito-tech/go-transaction-manager/trm/manager"
	"github.com/avito-tech/go-transaction-manager/trm/settings"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	retrierconfig "shipping/pkg/retrier"
	"shipping/pkg/retrier/backoff_adapter"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlockDetected     = "40P01"
)

const (
	initialInterval = 20 * time.Millisecond
	maxInterval     = 200 * time.Millisecond
	maxElapsedTime  = time.Second
	randomization   = 0.5
	multiplier      = 2
	maxRetries      = 5
)

// Manager инкапсулирует логику управления транзакциями.
type Manager struct {
	internal *manager.Manager
	retrier  retrierconfig.Retrier
}

// New создаёт новый менеджер транзакций.
func New(db pgxv5.Transactional) *Manager {
	return &Manager{
		internal: manager.Must(pgxv5.NewDefaultFactory(db)),
		retrier: backoff_adapter.New(retrierconfig.Config{
			InitialInterval: initialInterval,
			MaxInterval:     maxInterval,
			MaxElapsedTime:  maxElapsedTime,
			Randomization:   randomization,
			Multiplier:      multiplier,
			MaxRetries:      maxRetries,
			ShouldRetry:     IsSerializationFailure,
		}),
	}
}

func (m *Manager) execWithIsoLevel(
	ctx context.Context,
	level pgx.TxIsoLevel,
	fn func(ctx context.Context) error,
) error {
	txSettings := pgxv5.MustSettings(
		settings.Must(),
		pgxv5.WithTxOptions(pgx.TxOptions{IsoLevel: level}),
	)
	return m.internal.DoWithSettings(ctx, txSettings, fn)
}

// Do выполняет fn в serializable транзакции. Конфликты сериализации
// повторяются целиком: fn заново читает состояние внутри новой транзакции.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	// вложенный вызов присоединяется к внешней транзакции, повторять его отдельно нельзя
	if inTransaction(ctx) {
		return m.execWithIsoLevel(ctx, pgx.Serializable, fn)
	}
	return m.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		return m.execWithIsoLevel(ctx, pgx.Serializable, fn)
	})
}

func inTransaction(ctx context.Context) bool {
	return pgxv5.DefaultCtxGetter.DefaultTrOrDB(ctx, nil) != nil
}

func IsSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrSerializationFailure || pgErr.Code == pgErrDeadlockDetected
	}
	return false
}
