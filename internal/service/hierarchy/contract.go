//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=hierarchy_test
package hierarchy

import (
	"context"

	"shipping/internal/entities"
)

type Repository interface {
	GetAgencyByID(ctx context.Context, id int64) (*entities.Agency, error)
	GetDescendantIDs(ctx context.Context, id int64) ([]int64, error)
	// GetPricingAgreement возвращает ErrPricingNotFound, если соглашения нет.
	GetPricingAgreement(ctx context.Context, sellerAgencyID, buyerAgencyID, productID, serviceID int64) (int64, error)
}
