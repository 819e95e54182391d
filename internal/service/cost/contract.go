//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=cost_test
package cost

import (
	"context"

	"shipping/internal/entities"
	"shipping/pkg/logger"
)

type Repository interface {
	GetBillableItems(ctx context.Context, parcelIDs []int64) ([]entities.BillableItem, error)
}

// Pricing - кэш соглашений на время одной операции (hierarchy.Scope).
type Pricing interface {
	GetPricingBetweenAgencies(ctx context.Context, sellerAgencyID, buyerAgencyID, productID, serviceID int64) (int64, bool, error)
}

type calculatorLogger interface {
	Warn(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
