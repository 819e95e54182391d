package graceful_shutdown

import (
	"context"
	"net/http"
	"sync/atomic"
)

const unavailableBody = `{"error":"unavailable","message":"service is shutting down"}`

// Middleware отбивает новые запросы 503, когда процесс уже уходит:
// флаг поднят и базовый контекст сервера отменен.
func Middleware(isShuttingDown *atomic.Bool, ongoingCtx context.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isShuttingDown.Load() && ongoingCtx.Err() != nil {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Connection", "close")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(unavailableBody))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
