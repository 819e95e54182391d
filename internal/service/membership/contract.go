//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=membership_test
package membership

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
	// GetByTrackingNumbers читает без блокировок: используется для предварительной классификации.
	GetByTrackingNumbers(ctx context.Context, trackingNumbers []string) ([]entities.Parcel, error)
	GetByOrderIDForUpdate(ctx context.Context, orderID int64) ([]entities.Parcel, error)
	GetByDispatchID(ctx context.Context, dispatchID int64) ([]entities.Parcel, error)
	Update(ctx context.Context, parcelModify entities.ParcelModify) (*entities.Parcel, error)
	// ClaimForDispatch привязывает к отправке только посылки, которые все еще свободны,
	// и возвращает фактически захваченные строки.
	ClaimForDispatch(ctx context.Context, claim entities.ParcelClaim) ([]entities.Parcel, error)
	GetDispatchTotals(ctx context.Context, dispatchID int64) (*entities.DispatchTotals, error)
	CreateEvents(ctx context.Context, events []entities.ParcelEvent) error
	GetEvents(ctx context.Context, parcelID int64) ([]entities.ParcelEvent, error)
}

type DispatchRepository interface {
	Create(ctx context.Context, dispatchModify entities.DispatchModify) (*entities.Dispatch, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.Dispatch, error)
	GetByIDs(ctx context.Context, ids []int64) ([]entities.Dispatch, error)
	Update(ctx context.Context, dispatchModify entities.DispatchModify) (*entities.Dispatch, error)
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

type trackerLogger interface {
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
