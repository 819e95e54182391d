package timeout

import (
	"context"
	"net/http"
	"time"
)

// Middleware ограничивает контекст запроса. Контекст наследуется от BaseContext
// сервера, поэтому SIGTERM его не отменяет, а таймаут отменяет.
// Нулевая длительность отключает ограничение.
func Middleware(limit time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), limit)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
