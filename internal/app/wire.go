//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"shipping/internal/handlers/tasks/draft_cleanup"
	"shipping/internal/pkg/config"
	agencyRepo "shipping/internal/repository/agency"
	billingRepo "shipping/internal/repository/billing"
	debtRepo "shipping/internal/repository/debt"
	dispatchRepo "shipping/internal/repository/dispatch"
	parcelRepo "shipping/internal/repository/parcel"
	paymentRepo "shipping/internal/repository/payment"
	costService "shipping/internal/service/cost"
	dispatchService "shipping/internal/service/dispatch"
	hierarchyService "shipping/internal/service/hierarchy"
	ledgerService "shipping/internal/service/ledger"
	membershipService "shipping/internal/service/membership"
	paymentService "shipping/internal/service/payment"
	receptionService "shipping/internal/service/reception"
	"shipping/pkg/logger"
	"shipping/pkg/tx"
)

var repositorySet = wire.NewSet(
	provideTxManager,
	provideQuerier,

	provideAgencyRepository,
	provideBillingRepository,
	provideParcelRepository,
	provideDispatchRepository,
	provideDebtRepository,

	wire.Bind(new(hierarchyService.Repository), new(*agencyRepo.Repository)),
	wire.Bind(new(costService.Repository), new(*billingRepo.Repository)),
	wire.Bind(new(ledgerService.Repository), new(*debtRepo.Repository)),

	wire.Bind(new(membershipService.ParcelRepository), new(*parcelRepo.Repository)),
	wire.Bind(new(membershipService.DispatchRepository), new(*dispatchRepo.Repository)),
	wire.Bind(new(receptionService.ParcelRepository), new(*parcelRepo.Repository)),
	wire.Bind(new(receptionService.DispatchRepository), new(*dispatchRepo.Repository)),
)

// domainSet - сервисы, общие для HTTP API и Kafka воркера.
var domainSet = wire.NewSet(
	provideResolver,
	provideCostCalculator,
	provideLedger,
	provideMembership,
	provideServiceReception,

	wire.Bind(new(ledgerService.CostCalculator), new(*costService.Calculator)),
	wire.Bind(new(ledgerService.TxManager), new(*tx.Manager)),

	wire.Bind(new(membershipService.Ledger), new(*ledgerService.Ledger)),
	wire.Bind(new(membershipService.CostCalculator), new(*costService.Calculator)),
	wire.Bind(new(membershipService.Resolver), new(*hierarchyService.Resolver)),
	wire.Bind(new(membershipService.TxManager), new(*tx.Manager)),

	wire.Bind(new(receptionService.Membership), new(*membershipService.Tracker)),
	wire.Bind(new(receptionService.Ledger), new(*ledgerService.Ledger)),
	wire.Bind(new(receptionService.CostCalculator), new(*costService.Calculator)),
	wire.Bind(new(receptionService.Resolver), new(*hierarchyService.Resolver)),
	wire.Bind(new(receptionService.TxManager), new(*tx.Manager)),
)

// InitializeApplication для HTTP сервиса (cmd/service)
func InitializeApplication(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	cfg *config.Config,
) (*Application, error) {
	wire.Build(
		repositorySet,
		domainSet,

		providePaymentRepository,
		provideServiceDispatch,
		provideServicePayment,

		provideDraftCleanupTask,
		provideTaskList,
		provideBackgroundWorkers,

		wire.Struct(new(Application), "*"),

		wire.Bind(new(ServiceDispatch), new(*dispatchService.Dispatch)),
		wire.Bind(new(ServiceMembership), new(*membershipService.Tracker)),
		wire.Bind(new(ServiceReception), new(*receptionService.Reception)),
		wire.Bind(new(ServicePayment), new(*paymentService.Service)),
		wire.Bind(new(ServiceLedger), new(*ledgerService.Ledger)),

		wire.Bind(new(dispatchService.Repository), new(*dispatchRepo.Repository)),
		wire.Bind(new(dispatchService.ParcelRepository), new(*parcelRepo.Repository)),
		wire.Bind(new(dispatchService.Membership), new(*membershipService.Tracker)),
		wire.Bind(new(dispatchService.Ledger), new(*ledgerService.Ledger)),
		wire.Bind(new(dispatchService.CostCalculator), new(*costService.Calculator)),
		wire.Bind(new(dispatchService.Resolver), new(*hierarchyService.Resolver)),
		wire.Bind(new(dispatchService.TxManager), new(*tx.Manager)),

		wire.Bind(new(paymentService.Repository), new(*paymentRepo.Repository)),
		wire.Bind(new(paymentService.DispatchRepository), new(*dispatchRepo.Repository)),
		wire.Bind(new(paymentService.TxManager), new(*tx.Manager)),

		wire.Bind(new(draft_cleanup.Service), new(*dispatchService.Dispatch)),
	)
	return &Application{}, nil
}

// InitializeKafkaWorkerApp для Kafka воркера (cmd/worker-parcels-scanned)
func InitializeKafkaWorkerApp(
	ctx context.Context,
	log logger.Logger,
	pool *pgxpool.Pool,
	getter *pgxv5.CtxGetter,
	cfg *config.Config,
) (*KafkaWorkerApp, error) {
	wire.Build(
		repositorySet,
		domainSet,

		wire.Struct(new(KafkaWorkerApp), "*"),
	)
	return nil, nil
}
