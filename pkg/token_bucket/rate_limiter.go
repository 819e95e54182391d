package token_bucket

import (
	"sync"
	"time"
)

// TokenBucket классический bucket: burst токенов в запасе, rate токенов в секунду
// на пополнение. Дробные токены копятся, поэтому малые rate не теряются.
type TokenBucket struct {
	mu       sync.Mutex
	burst    float64
	rate     float64
	tokens   float64
	lastSeen time.Time
	now      func() time.Time
}

type Option func(*TokenBucket)

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(t *TokenBucket) {
		t.now = now
	}
}

func New(rate float64, burst int, opts ...Option) *TokenBucket {
	t := &TokenBucket{
		burst: float64(burst),
		rate:  rate,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.tokens = t.burst
	t.lastSeen = t.now()
	return t
}

func (t *TokenBucket) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.refill()
	if t.tokens < 1 {
		return false
	}
	t.tokens--
	return true
}

func (t *TokenBucket) refill() {
	now := t.now()
	elapsed := now.Sub(t.lastSeen).Seconds()
	if elapsed <= 0 {
		return
	}
	t.lastSeen = now
	t.tokens = min(t.burst, t.tokens+elapsed*t.rate)
}
