package app

import (
	"context"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5/pgxpool"
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
	"shipping/internal/handlers/rest/parcel_dispatch_delete"
	"shipping/internal/handlers/rest/reception_post"
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
	"shipping/pkg/background"
	"shipping/pkg/logger"
	"shipping/pkg/querier"
	"shipping/pkg/tx"
)

type Application struct {
	ServiceDispatch   ServiceDispatch
	ServiceMembership ServiceMembership
	ServiceReception  ServiceReception
	ServicePayment    ServicePayment
	ServiceLedger     ServiceLedger
	BackgroundWorkers *background.Worker
}

type ServiceDispatch interface {
	dispatch_post.Service
	dispatch_get.Service
	dispatch_delete.Service
	dispatch_cancel_post.Service
	dispatch_finalize_post.Service
}

type ServiceMembership interface {
	dispatch_parcels_post.Service
	dispatch_orders_post.Service
	parcel_dispatch_delete.Service
	dispatch_scan_post.Service
}

type ServiceReception interface {
	reception_post.Service
	dispatch_receive_post.Service
	dispatch_reception_get.Service
	dispatch_reception_finalize_post.Service
}

type ServicePayment interface {
	dispatch_payments_post.Service
	dispatch_payment_delete.Service
}

type ServiceLedger interface {
	dispatch_debts_get.Service
	debt_settle_post.Service
}

type KafkaWorkerApp struct {
	ReceptionService *receptionService.Reception
}

func provideTxManager(pool *pgxpool.Pool) *tx.Manager {
	return tx.New(pool)
}

const slowQueryThreshold = 200 * time.Millisecond

func provideQuerier(pool *pgxpool.Pool, getter *pgxv5.CtxGetter, log logger.Logger) *querier.Querier {
	return querier.New(pool, getter, querier.WithSlowQueryLog(log, slowQueryThreshold))
}

func provideAgencyRepository(querier *querier.Querier) *agencyRepo.Repository {
	return agencyRepo.New(querier)
}

func provideBillingRepository(querier *querier.Querier) *billingRepo.Repository {
	return billingRepo.New(querier)
}

func provideParcelRepository(querier *querier.Querier) *parcelRepo.Repository {
	return parcelRepo.New(querier)
}

func provideDispatchRepository(querier *querier.Querier) *dispatchRepo.Repository {
	return dispatchRepo.New(querier)
}

func provideDebtRepository(querier *querier.Querier) *debtRepo.Repository {
	return debtRepo.New(querier)
}

func providePaymentRepository(querier *querier.Querier) *paymentRepo.Repository {
	return paymentRepo.New(querier)
}

func provideResolver(repository hierarchyService.Repository) *hierarchyService.Resolver {
	return hierarchyService.New(repository)
}

func provideCostCalculator(repository costService.Repository, log logger.Logger) *costService.Calculator {
	return costService.New(repository, log)
}

func provideLedger(
	repository ledgerService.Repository,
	calculator ledgerService.CostCalculator,
	txManager ledgerService.TxManager,
	log logger.Logger,
) *ledgerService.Ledger {
	return ledgerService.New(repository, calculator, txManager, log)
}

func provideMembership(
	parcels membershipService.ParcelRepository,
	dispatches membershipService.DispatchRepository,
	ledger membershipService.Ledger,
	calculator membershipService.CostCalculator,
	resolver membershipService.Resolver,
	txManager membershipService.TxManager,
	log logger.Logger,
) *membershipService.Tracker {
	return membershipService.New(parcels, dispatches, ledger, calculator, resolver, txManager, log)
}

func provideServiceDispatch(
	repository dispatchService.Repository,
	parcels dispatchService.ParcelRepository,
	membership dispatchService.Membership,
	ledger dispatchService.Ledger,
	calculator dispatchService.CostCalculator,
	resolver dispatchService.Resolver,
	txManager dispatchService.TxManager,
	log logger.Logger,
) *dispatchService.Dispatch {
	return dispatchService.New(repository, parcels, membership, ledger, calculator, resolver, txManager, log)
}

func provideServiceReception(
	parcels receptionService.ParcelRepository,
	dispatches receptionService.DispatchRepository,
	membership receptionService.Membership,
	ledger receptionService.Ledger,
	calculator receptionService.CostCalculator,
	resolver receptionService.Resolver,
	txManager receptionService.TxManager,
	log logger.Logger,
) *receptionService.Reception {
	return receptionService.New(parcels, dispatches, membership, ledger, calculator, resolver, txManager, log)
}

func provideServicePayment(
	repository paymentService.Repository,
	dispatches paymentService.DispatchRepository,
	txManager paymentService.TxManager,
	cfg *config.Config,
	log logger.Logger,
) *paymentService.Service {
	return paymentService.New(repository, dispatches, txManager, cfg.Payments.CardFeePercent, log)
}

func provideDraftCleanupTask(
	log logger.Logger,
	service draft_cleanup.Service,
	cfg *config.Config,
) *draft_cleanup.DraftCleanup {
	return draft_cleanup.New(log, service, cfg.Tasks.DraftCleanupInterval, cfg.Tasks.DraftMaxAge)
}

func provideTaskList(
	draftCleanupTask *draft_cleanup.DraftCleanup,
) []background.Task {
	return []background.Task{
		draftCleanupTask,
	}
}

func provideBackgroundWorkers(ctx context.Context, log logger.Logger, tasks []background.Task) (*background.Worker, error) {
	return background.New(ctx, log, tasks)
}
