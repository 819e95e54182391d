//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=dispatch_test
package dispatch

import (
	"context"
	"time"

	"shipping/internal/entities"
	"shipping/internal/service/cost"
	"shipping/internal/service/hierarchy"
	"shipping/internal/service/ledger"
	"shipping/pkg/logger"
)

type Repository interface {
	Create(ctx context.Context, dispatchModify entities.DispatchModify) (*entities.Dispatch, error)
	GetByID(ctx context.Context, id int64) (*entities.Dispatch, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Dispatch, error)
	Update(ctx context.Context, dispatchModify entities.DispatchModify) (*entities.Dispatch, error)
	Delete(ctx context.Context, id int64) error
	// DeleteEmptyDraftsBefore удаляет черновики без посылок, созданные раньше before.
	DeleteEmptyDraftsBefore(ctx context.Context, before time.Time) (int64, error)
}

type ParcelRepository interface {
	GetByDispatchID(ctx context.Context, dispatchID int64) ([]entities.Parcel, error)
	Update(ctx context.Context, parcelModify entities.ParcelModify) (*entities.Parcel, error)
	CreateEvents(ctx context.Context, events []entities.ParcelEvent) error
	GetEvents(ctx context.Context, parcelID int64) ([]entities.ParcelEvent, error)
}

type Membership interface {
	Restore(ctx context.Context, parcel *entities.Parcel, actor entities.Actor, notes string) (*entities.Parcel, error)
}

type Ledger interface {
	CancelPending(ctx context.Context, dispatchIDs []int64) (int64, error)
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

type serviceLogger interface {
	Info(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
