package integration_test

import (
	"context"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"shipping/internal/pkg/config"
	"shipping/internal/pkg/postgres"
	"shipping/pkg/logger/zap_adapter"
	"shipping/pkg/querier"
)

var (
	poolInstance    *pgxpool.Pool
	querierInstance *querier.Querier
	querierOnce     sync.Once
)

func GetPool() *pgxpool.Pool {
	GetQuerier()
	return poolInstance
}

func GetQuerier() *querier.Querier {
	querierOnce.Do(func() {
		ctx := context.Background()

		zapLogger, err := zap_adapter.NewZapAdapter("integration-test")
		if err != nil {
			log.Fatalf("failed to initialize logger: %v", err)
		}
		defer func() {
			if err := zapLogger.Sync(); err != nil {
				log.Printf("failed to sync logger: %v", err)
			}
		}()

		// POSTGRES_* из окружения, без них поднимаем контейнер
		cfg := &config.Database{
			Host:     os.Getenv("POSTGRES_HOST"),
			Port:     os.Getenv("POSTGRES_PORT"),
			User:     os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			DBName:   os.Getenv("POSTGRES_DB"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
		}
		if cfg.Host == "" {
			cfg = startContainer(ctx)
		}

		connPool, err := postgres.NewConnPool(ctx, zapLogger, cfg)
		if err != nil {
			panic(err)
		}

		if err := postgres.Migrate(ctx, zapLogger, connPool); err != nil {
			panic(err)
		}

		poolInstance = connPool
		querierInstance = querier.New(connPool, pgxv5.DefaultCtxGetter)
	})

	return querierInstance
}

// контейнер живет до конца процесса тестов, его убирает ryuk
func startContainer(ctx context.Context) *config.Database {
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("shipping"),
		tcpostgres.WithUsername("shipping"),
		tcpostgres.WithPassword("shipping"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		panic(err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}

	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		panic(err)
	}

	return &config.Database{
		Host:     host,
		Port:     port.Port(),
		User:     "shipping",
		Password: "shipping",
		DBName:   "shipping",
		SSLMode:  "disable",
	}
}

func SetupDB(t *testing.T, setupSql string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := GetQuerier().Exec(ctx, setupSql)

	require.NoError(t, err)
}

func TeardownDB(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := GetQuerier().Exec(ctx, `
		TRUNCATE TABLE dispatch_payments, inter_agency_debts, parcel_events, order_items,
			parcels, dispatches, orders, pricing_agreements, agencies
		RESTART IDENTITY CASCADE;
	`)
	require.NoError(t, err)
}

// Seed - общий набор данных: дерево A(1) <- B(2) <- C(3), корень R(4),
// заказ 1 агентства C с тремя посылками по 1, 2 и 3 фунта.
const Seed = `
	INSERT INTO agencies (id, name, parent_agency_id, is_forwarder) VALUES
		(1, 'A', NULL, TRUE),
		(2, 'B', 1, FALSE),
		(3, 'C', 2, FALSE),
		(4, 'R', NULL, FALSE);
	SELECT setval('agencies_id_seq', 4);

	INSERT INTO pricing_agreements (seller_agency_id, buyer_agency_id, product_id, service_id, price_in_cents)
	VALUES (2, 3, 1, 1, 120);

	INSERT INTO orders (id, agency_id, delivery_fee_in_cents) VALUES (1, 3, 50);
	SELECT setval('orders_id_seq', 1);

	INSERT INTO parcels (id, tracking_number, order_id, origin_agency_id, agency_id, status, weight) VALUES
		(1, 'HBL1', 1, 3, 3, 'IN_AGENCY', 1),
		(2, 'HBL2', 1, 3, 3, 'IN_AGENCY', 2),
		(3, 'HBL3', 1, 3, 3, 'IN_WAREHOUSE', 3);
	SELECT setval('parcels_id_seq', 3);

	INSERT INTO order_items (order_id, parcel_id, product_id, service_id, unit, weight, rate_in_cents) VALUES
		(1, 1, 1, 1, 'PER_LB', 1, 100),
		(1, 2, 1, 1, 'PER_LB', 2, NULL),
		(1, 3, 1, 1, 'FIXED', 3, 100);
`
