//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=ledger_test
package ledger

import (
	"context"
	"time"

	"shipping/internal/entities"
	"shipping/internal/service/cost"
	"shipping/pkg/logger"
)

type Repository interface {
	Create(ctx context.Context, debts []entities.InterAgencyDebt) ([]entities.InterAgencyDebt, error)
	CancelPendingByDispatchIDs(ctx context.Context, dispatchIDs []int64) (int64, error)
	// HasPaidDebtForParcel - есть ли PAID долг debtor -> creditor по отправке, в которую входила посылка.
	HasPaidDebtForParcel(ctx context.Context, debtorAgencyID, creditorAgencyID, parcelID int64) (bool, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*entities.InterAgencyDebt, error)
	MarkPaid(ctx context.Context, id int64, paidAt time.Time) (*entities.InterAgencyDebt, error)
	GetByDispatchID(ctx context.Context, dispatchID int64) ([]entities.InterAgencyDebt, error)
}

type CostCalculator interface {
	CalculateDispatchCost(
		ctx context.Context,
		pricing cost.Pricing,
		parcels []entities.Parcel,
		senderAgencyID, receiverAgencyID int64,
	) (*entities.DispatchCost, error)
}

// Hierarchy - кэш иерархии и цен на одну операцию (hierarchy.Scope).
type Hierarchy interface {
	cost.Pricing
	GetAgencyHierarchy(ctx context.Context, id int64) ([]int64, error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type ledgerLogger interface {
	Warn(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
