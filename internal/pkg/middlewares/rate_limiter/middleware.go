package rate_limiter

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"shipping/internal/pkg/middlewares/metrics"
	"shipping/pkg/logger"
)

const tooManyRequestsBody = `{"error":"too_many_requests","message":"rate limit exceeded, retry later"}`

var RejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "shipping",
		Name:      "rate_limit_rejected_total",
		Help:      "Requests rejected by the global token bucket",
	},
	[]string{"method", "route"},
)

// Middleware пропускает запрос, только если limiter выдал токен.
// Лимит общий на процесс, а не на клиента.
func Middleware(log handlerLogger, qps int, limiter Limiter) func(http.Handler) http.Handler {
	limitHeader := strconv.Itoa(qps)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			route := metrics.RouteTemplate(r)
			RejectedTotal.WithLabelValues(r.Method, route).Inc()
			log.Warn("rate limit exceeded",
				logger.NewField("method", r.Method),
				logger.NewField("route", route),
				logger.NewField("remote_addr", r.RemoteAddr),
			)

			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-RateLimit-Limit", limitHeader)
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(tooManyRequestsBody))
		})
	}
}
