package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	_ "net/http/pprof" //nolint:gosec // localhost-only ${PPROF_PORT}
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	application "shipping/internal/app"
	"shipping/internal/handlers/rest/debt_settle_post"
	"shipping/internal/handlers/rest/dispatch_cancel_post"
	"shipping/internal/handlers/rest/dispatch_debts_get"
	"shipping/internal/handlers/rest/dispatch_delete"
	"shipping/internal/handlers/rest/dispatch_finalize_post"
	"shipping/internal/handlers/rest/dispatch_get"
	"shipping/internal/handlers/rest/dispatch_orders_post"
	"shipping/internal/handlers/rest/dispatch_parcels_post"
	"shipping/internal/handlers/rest/dispatch_payment_delete"
	"shipping/internal/handlers/rest/dispatch_payments_post"
	"shipping/internal/handlers/rest/dispatch_post"
	"shipping/internal/handlers/rest/dispatch_receive_post"
	"shipping/internal/handlers/rest/dispatch_reception_finalize_post"
	"shipping/internal/handlers/rest/dispatch_reception_get"
	"shipping/internal/handlers/rest/dispatch_scan_post"
	"shipping/internal/handlers/rest/healthcheck_head"
	"shipping/internal/handlers/rest/parcel_dispatch_delete"
	"shipping/internal/handlers/rest/ping_get"
	"shipping/internal/handlers/rest/reception_post"
	"shipping/internal/pkg/config"
	"shipping/internal/pkg/dotenv"
	metrics_system "shipping/internal/pkg/metrics"
	"shipping/internal/pkg/middlewares/actor"
	"shipping/internal/pkg/middlewares/graceful_shutdown"
	"shipping/internal/pkg/middlewares/metrics"
	"shipping/internal/pkg/middlewares/rate_limiter"
	"shipping/internal/pkg/middlewares/timeout"
	"shipping/internal/pkg/postgres"
	"shipping/pkg/logger"
	"shipping/pkg/logger/zap_adapter"
	"shipping/pkg/token_bucket"
)

func main() {
	zapLogger, err := zap_adapter.NewZapAdapter("shipping")
	if err != nil {
		stdlog.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := zapLogger.Sync(); err != nil {
			stdlog.Printf("failed to sync logger: %v", err)
		}
	}()

	var appLogger logger.Logger = zapLogger
	mainLog := appLogger.With()

	mainLog.Info("starting shipping service")

	if err := dotenv.Load("PORT"); err != nil {
		mainLog.Error("failed to load .env file", logger.NewField("error", err))
		return
	}

	cfg, err := config.Load()
	if err != nil {
		mainLog.Error("load config", logger.NewField("error", err))
		return
	}

	if err := zapLogger.SetLevel(cfg.LogLevel); err != nil {
		mainLog.Error("log level", logger.NewField("error", err))
		return
	}

	err = run(context.Background(), cfg, appLogger)
	if err != nil {
		mainLog.Error("application failed", logger.NewField("error", err))
		return
	}
}

//nolint:contextcheck // Получаю предупреждения от линтера в местах де наследуюсь от context.Background(), хотя это часть gracefull shutdown
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	const (
		shutdownPeriod      = 15 * time.Second
		shutdownHardPeriod  = 3 * time.Second
		readinessDrainDelay = 5 * time.Second
	)

	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	var isShuttingDown atomic.Bool

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	runLog := log.With()

	pool, err := postgres.NewConnPool(ctx, log, &cfg.Database)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, log, pool); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
	}

	businessApp, err := application.InitializeApplication(ctx, log, pool, pgxv5.DefaultCtxGetter, cfg)
	if err != nil {
		return fmt.Errorf("business logic: %w", err)
	}

	metrics_system.StartSystemMetricsCollector(ctx, log)

	// ongoingCtx используется для BaseContext и не должен отменяться при SIGTERM.
	// Он отменяется только после server.Shutdown() для завершения in-flight запросов.
	// https://victoriametrics.com/blog/go-graceful-shutdown/#b-use-basecontext-to-provide-a-global-context-to-all-connections
	ongoingCtx, stopOngoingGracefully := context.WithCancel(context.Background())
	defer stopOngoingGracefully()

	// основной http сервер
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: initRouter(ongoingCtx, log, &isShuttingDown, businessApp, cfg.Server, pool.Ping),
		BaseContext: func(_ net.Listener) context.Context {
			return ongoingCtx
		},

		ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		defer close(serverErr)
		runLog.Info("server starting",
			logger.NewField("port", cfg.Server.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()
	// основной http сервер

	// pprof http сервер
	var pprofServer *http.Server
	var pprofServerErr chan error
	if cfg.Server.PprofEnabled {
		pprofMux := http.NewServeMux()
		pprofMux.Handle("/debug/pprof/", http.DefaultServeMux)

		pprofServer = &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.Server.PprofPort),
			Handler: initPprofRouter(&isShuttingDown),
			BaseContext: func(_ net.Listener) context.Context {
				return ongoingCtx
			},

			ReadHeaderTimeout: 5 * time.Second, // Slowloris DoS gosec G112
			ReadTimeout:       60 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		pprofServerErr = make(chan error, 1)
		go func() {
			defer close(pprofServerErr)
			runLog.Info("pprof server starting",
				logger.NewField("port", cfg.Server.PprofPort),
			)
			if err := pprofServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				pprofServerErr <- err
			}
		}()
	}
	// pprof http сервер

	select {
	case <-ctx.Done():
		runLog.Info("Shutdown signal received")
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	case err := <-pprofServerErr: // if !cfg.Server.PprofEnabled будет nil по умолчанию, и данный кейс будет проигнорирован
		return fmt.Errorf("pprof server: %w", err)
	}

	stop()
	isShuttingDown.Store(true)

	time.Sleep(readinessDrainDelay)
	runLog.Info("draining requests")

	// shutdownCtx должен быть независим от ctx, который уже отменен на этом этапе.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)

	defer cancel()

	var shutdownErr error
	err = server.Shutdown(shutdownCtx)
	if pprofServer != nil {
		shutdownErr = pprofServer.Shutdown(shutdownCtx)
		if shutdownErr != nil {
			runLog.Error("pprof server shutdown error", logger.NewField("error", shutdownErr))
		} else {
			runLog.Info("pprof server stopped")
		}
	}

	stopOngoingGracefully()
	businessApp.BackgroundWorkers.Wait()
	if err != nil || shutdownErr != nil {
		runLog.Info("Graceful shutdown timeout, forcing close")
		time.Sleep(shutdownHardPeriod)
	}

	runLog.Info("Server stopped")
	return nil
}

func initRouter(
	ongoingCtx context.Context,
	log logger.Logger,
	isShuttingDown *atomic.Bool,
	app *application.Application,
	cfg config.HTTPServer,
	checks ...healthcheck_head.Check,
) http.Handler {
	router := mux.NewRouter()

	router.Use(graceful_shutdown.Middleware(isShuttingDown, ongoingCtx))

	router.Use(timeout.Middleware(cfg.RequestTimeout))
	router.Use(metrics.Middleware(log))
	router.Use(rate_limiter.Middleware(log, cfg.RateLimiterQPS, token_bucket.New(float64(cfg.RateLimiterQPS), cfg.RateLimiterBurst)))
	router.Handle("/metrics", promhttp.Handler())

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown, checks...)).Methods("HEAD")
	router.Handle("/ping", ping_get.New(log)).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(actor.Middleware(log))

	api.Handle("/dispatches", dispatch_post.New(log, app.ServiceDispatch)).Methods("POST")
	// scan регистрируется раньше {id}, иначе совпадет с POST /dispatches/{id}
	api.Handle("/dispatches/scan", dispatch_scan_post.New(log, app.ServiceMembership)).Methods("POST")
	api.Handle("/dispatches/{id:[0-9]+}", dispatch_get.New(log, app.ServiceDispatch)).Methods("GET")
	api.Handle("/dispatches/{id:[0-9]+}", dispatch_delete.New(log, app.ServiceDispatch)).Methods("DELETE")
	api.Handle("/dispatches/{id:[0-9]+}/cancel", dispatch_cancel_post.New(log, app.ServiceDispatch)).Methods("POST")
	api.Handle("/dispatches/{id:[0-9]+}/finalize", dispatch_finalize_post.New(log, app.ServiceDispatch)).Methods("POST")

	api.Handle("/dispatches/{id:[0-9]+}/parcels", dispatch_parcels_post.New(log, app.ServiceMembership)).Methods("POST")
	api.Handle("/dispatches/{id:[0-9]+}/orders", dispatch_orders_post.New(log, app.ServiceMembership)).Methods("POST")
	api.Handle("/parcels/{tracking}/dispatch", parcel_dispatch_delete.New(log, app.ServiceMembership)).Methods("DELETE")

	api.Handle("/receptions", reception_post.New(log, app.ServiceReception)).Methods("POST")
	api.Handle("/dispatches/{id:[0-9]+}/receive", dispatch_receive_post.New(log, app.ServiceReception)).Methods("POST")
	api.Handle("/dispatches/{id:[0-9]+}/reception", dispatch_reception_get.New(log, app.ServiceReception)).Methods("GET")
	api.Handle("/dispatches/{id:[0-9]+}/reception/finalize", dispatch_reception_finalize_post.New(log, app.ServiceReception)).Methods("POST")

	api.Handle("/dispatches/{id:[0-9]+}/payments", dispatch_payments_post.New(log, app.ServicePayment)).Methods("POST")
	api.Handle("/dispatches/{id:[0-9]+}/payments/{payment_id:[0-9]+}", dispatch_payment_delete.New(log, app.ServicePayment)).Methods("DELETE")

	api.Handle("/dispatches/{id:[0-9]+}/debts", dispatch_debts_get.New(log, app.ServiceLedger)).Methods("GET")
	api.Handle("/debts/{id:[0-9]+}/settle", debt_settle_post.New(log, app.ServiceLedger)).Methods("POST")

	return router
}

func initPprofRouter(isShuttingDown *atomic.Bool) http.Handler {
	router := mux.NewRouter()

	router.Handle("/healthcheck", healthcheck_head.New(isShuttingDown)).Methods("HEAD")
	router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)

	return router
}
