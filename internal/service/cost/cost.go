package cost

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"shipping/internal/entities"
	"shipping/pkg/logger"
)

type Calculator struct {
	repository Repository
	log        calculatorLogger
}

func New(repository Repository, log calculatorLogger) *Calculator {
	return &Calculator{
		repository: repository,
		log:        log.With(logger.NewField("component", "cost-calculator")),
	}
}

// CalculateDispatchCost считает стоимость перевозки посылок от sender к receiver в центах.
// Ставка ищется в соглашении receiver -> sender, затем в самой позиции заказа, иначе 0.
// Пробелы в ценах не ошибка: они попадают в Warnings.
func (c *Calculator) CalculateDispatchCost(
	ctx context.Context,
	pricing Pricing,
	parcels []entities.Parcel,
	senderAgencyID, receiverAgencyID int64,
) (*entities.DispatchCost, error) {
	result := &entities.DispatchCost{
		Weight:       decimal.Zero,
		ParcelsCount: len(parcels),
	}
	if len(parcels) == 0 {
		return result, nil
	}

	parcelIDs := make([]int64, 0, len(parcels))
	for _, parcel := range parcels {
		parcelIDs = append(parcelIDs, parcel.ID)
		result.Weight = result.Weight.Add(parcel.Weight)
	}

	items, err := c.repository.GetBillableItems(ctx, parcelIDs)
	if err != nil {
		return nil, fmt.Errorf("get billable items: %w", err)
	}

	billed := make(map[int64]struct{}, len(items))
	deliveryCharged := make(map[int64]struct{})
	for _, item := range items {
		billed[item.ParcelID] = struct{}{}

		rate, found, err := pricing.GetPricingBetweenAgencies(ctx, receiverAgencyID, senderAgencyID, item.ProductID, item.ServiceID)
		if err != nil {
			return nil, fmt.Errorf("resolve pricing for parcel %d: %w", item.ParcelID, err)
		}
		if !found {
			if item.AgreementRateInCents != nil {
				rate = *item.AgreementRateInCents
			} else {
				warning := fmt.Sprintf("no pricing agreement %d->%d for product %d service %d (parcel %d)",
					receiverAgencyID, senderAgencyID, item.ProductID, item.ServiceID, item.ParcelID)
				c.log.With(
					logger.NewField("seller_agency", receiverAgencyID),
					logger.NewField("buyer_agency", senderAgencyID),
					logger.NewField("product", item.ProductID),
					logger.NewField("service", item.ServiceID),
					logger.NewField("parcel", item.ParcelID),
				).Warn("pricing agreement not found, rate treated as zero")
				result.Warnings = append(result.Warnings, warning)
			}
		}

		result.TotalInCents += ItemSubtotal(item, rate)

		if _, done := deliveryCharged[item.OrderID]; !done {
			deliveryCharged[item.OrderID] = struct{}{}
			result.TotalInCents += item.DeliveryFeeInCents
		}
	}

	for _, parcelID := range parcelIDs {
		if _, ok := billed[parcelID]; !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("parcel %d has no billable item", parcelID))
		}
	}

	return result, nil
}

// ItemSubtotal - стоимость одной позиции, округление всегда вверх до цента.
// Для FIXED комиссия и страховка не добавляются.
// TODO: подтвердить у владельцев продукта, что для FIXED это намеренно.
func ItemSubtotal(item entities.BillableItem, rateInCents int64) int64 {
	rate := decimal.NewFromInt(rateInCents)
	customs := decimal.NewFromInt(item.CustomsFeeInCents)

	var subtotal decimal.Decimal
	switch item.Unit {
	case entities.UnitFixed:
		subtotal = rate.Add(customs)
	default:
		subtotal = rate.Mul(item.Weight).
			Add(customs).
			Add(decimal.NewFromInt(item.ChargeFeeInCents)).
			Add(decimal.NewFromInt(item.InsuranceFeeInCents))
	}

	return subtotal.Ceil().IntPart()
}
