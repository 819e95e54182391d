package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"shipping/pkg/logger"
)

// служебные маршруты пишутся в debug, чтобы не забивать лог пробами
var quietRoutes = map[string]struct{}{
	"/healthcheck": {},
	"/metrics":     {},
	"/ping":        {},
}

// Middleware считает латентность и статусы по шаблону маршрута mux.
func Middleware(log handlerLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			route := RouteTemplate(r)
			status := strconv.Itoa(rec.status)

			HTTPRequestDuration.WithLabelValues(r.Method, route, status).Observe(elapsed.Seconds())
			HTTPRequestTotal.WithLabelValues(r.Method, route, status).Inc()

			fields := []logger.Field{
				logger.NewField("method", r.Method),
				logger.NewField("route", route),
				logger.NewField("status", rec.status),
				logger.NewField("duration", elapsed),
				logger.NewField("bytes", rec.written),
			}
			if _, quiet := quietRoutes[route]; quiet {
				log.Debug("http request", fields...)
				return
			}
			log.Info("http request", fields...)
		})
	}
}

// RouteTemplate возвращает шаблон маршрута, а без него сырой путь.
func RouteTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int
	wrote   bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.wrote {
		rec.status = code
		rec.wrote = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	rec.wrote = true
	n, err := rec.ResponseWriter.Write(b)
	rec.written += n
	return n, err
}
