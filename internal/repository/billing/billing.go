package billing

import (
	"context"
	"fmt"

	"shipping/internal/entities"
)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

// GetBillableItems - позиции заказов по посылкам вместе с доставкой заказа.
func (r *Repository) GetBillableItems(ctx context.Context, parcelIDs []int64) ([]entities.BillableItem, error) {
	if len(parcelIDs) == 0 {
		return []entities.BillableItem{}, nil
	}

	query := `SELECT i.parcel_id, i.order_id, i.product_id, i.service_id, i.unit, i.weight::text,
			i.rate_in_cents, i.customs_fee_in_cents, i.charge_fee_in_cents, i.insurance_fee_in_cents,
			o.delivery_fee_in_cents
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE i.parcel_id = ANY($1)
		ORDER BY i.parcel_id`

	rows, err := r.querier.Query(ctx, query, parcelIDs)
	if err != nil {
		return nil, fmt.Errorf("unexpected billing repository getitems error: %w", err)
	}
	defer rows.Close()

	itemModels := make([]BillableItemDB, 0, len(parcelIDs))
	for rows.Next() {
		var itemModel BillableItemDB
		err := rows.Scan(
			&itemModel.ParcelID,
			&itemModel.OrderID,
			&itemModel.ProductID,
			&itemModel.ServiceID,
			&itemModel.Unit,
			&itemModel.Weight,
			&itemModel.RateInCents,
			&itemModel.CustomsFeeInCents,
			&itemModel.ChargeFeeInCents,
			&itemModel.InsuranceFeeInCents,
			&itemModel.DeliveryFeeInCents,
		)
		if err != nil {
			return nil, fmt.Errorf("unexpected billing repository getitems error: %w", err)
		}
		itemModels = append(itemModels, itemModel)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("unexpected billing repository getitems error: %w", err)
	}

	return ToDomainList(itemModels), nil
}
