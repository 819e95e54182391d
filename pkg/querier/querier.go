package querier

import (
	"context"
	"strings"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shipping/pkg/logger"
)

// Querier выполняет запросы в транзакции из контекста, а без нее прямо на пуле.
type Querier struct {
	pool   *pgxpool.Pool
	getter *pgxv5.CtxGetter

	slowLog       logger.Logger
	slowThreshold time.Duration
}

type Option func(*Querier)

// WithSlowQueryLog пишет в Warn запросы дольше threshold.
func WithSlowQueryLog(log logger.Logger, threshold time.Duration) Option {
	return func(q *Querier) {
		q.slowLog = log
		q.slowThreshold = threshold
	}
}

func New(pool *pgxpool.Pool, getter *pgxv5.CtxGetter, opts ...Option) *Querier {
	q := &Querier{
		pool:   pool,
		getter: getter,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *Querier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	defer q.observe(sql, time.Now())
	return q.get(ctx).Exec(ctx, sql, args...)
}

// Query замеряет только отправку запроса, чтение строк остается на вызывающем.
func (q *Querier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	defer q.observe(sql, time.Now())
	return q.get(ctx).Query(ctx, sql, args...)
}

func (q *Querier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	defer q.observe(sql, time.Now())
	return q.get(ctx).QueryRow(ctx, sql, args...)
}

func (q *Querier) get(ctx context.Context) pgxv5.Tr {
	return q.getter.DefaultTrOrDB(ctx, q.pool)
}

func (q *Querier) observe(sql string, start time.Time) {
	if q.slowLog == nil {
		return
	}
	elapsed := time.Since(start)
	if elapsed < q.slowThreshold {
		return
	}
	q.slowLog.Warn("slow query",
		logger.NewField("sql", strings.Join(strings.Fields(sql), " ")),
		logger.NewField("duration", elapsed),
	)
}
