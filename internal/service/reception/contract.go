//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=reception_test
package reception

import (
	"context"

	"shipping/internal/entities"
	"shipping/internal/service/cost"
	"shipping/internal/service/hierarchy"
	"shipping/internal/service/ledger"
	"shipping/pkg/logger"
)

type ParcelRepository interface {
	GetByTrackingNumberForUpdate(ctx context.Context, trackingNumber string) (*entities.Parcel, error)
	GetByTrackingNumbersForUpdate(ctx context.Context, trackingNumbers []string) ([]entities.Parcel, error)
	GetByDispatchID(ctx context.Context, dispatchID int64) ([]entities.Parcel, error)
	Update(ctx context.Context, parcelModify entities.ParcelModify) (*entities.Parcel, error)
	CreateEvents(ctx context.Context, events []entities.ParcelEvent) error
	GetDispatchTotals(ctx context.Context, dispatchID int64) (*entities.DispatchTotals, error)
}

type DispatchRepository interface {
	Create(ctx context.Context, dispatchModify entities.DispatchModify) (*entities.Dispatch, error)
	GetByID(ctx context.Context, id int64) (*entities.Dispatch, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Dispatch, error)
	GetByIDsForUpdate(ctx context.Context, ids []int64) ([]entities.Dispatch, error)
	Update(ctx context.Context, dispatchModify entities.DispatchModify) (*entities.Dispatch, error)
}

type Membership interface {
	Restore(ctx context.Context, parcel *entities.Parcel, actor entities.Actor, notes string) (*entities.Parcel, error)
}

type Ledger interface {
	CancelPending(ctx context.Context, dispatchIDs []int64) (int64, error)
	GenerateDispatchDebts(
		ctx context.Context,
		scope ledger.Hierarchy,
		receiverAgencyID int64,
		parcels []entities.HeldParcel,
		dispatchID int64,
	) (*ledger.Result, error)
	DetermineHierarchyDebts(
		ctx context.Context,
		scope ledger.Hierarchy,
		senderAgencyID, receiverAgencyID int64,
		parcels []entities.Parcel,
		dispatchID int64,
	) (*ledger.Result, error)
}

type CostCalculator interface {
	CalculateDispatchCost(
		ctx context.Context,
		pricing cost.Pricing,
		parcels []entities.Parcel,
		senderAgencyID, receiverAgencyID int64,
	) (*entities.DispatchCost, error)
}

type Resolver interface {
	NewScope() *hierarchy.Scope
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type receptionLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
