package retrier

import (
	"context"
	"time"
)

type Retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

type ShouldRetryFunc func(error) bool

// NotifyFunc вызывается перед каждой паузой: ошибка попытки и длина паузы.
type NotifyFunc func(err error, wait time.Duration)

type Config struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	Randomization   float64
	Multiplier      float64
	// MaxRetries ноль означает ограничение только по MaxElapsedTime
	MaxRetries uint64

	// nil ретраит все ошибки
	ShouldRetry ShouldRetryFunc
	OnRetry     NotifyFunc
}
