package billing

import (
	"github.com/shopspring/decimal"
	"shipping/internal/entities"
)

func ToDomain(i *BillableItemDB) *entities.BillableItem {
	if i == nil {
		return nil
	}

	return &entities.BillableItem{
		ParcelID:             i.ParcelID,
		OrderID:              i.OrderID,
		ProductID:            i.ProductID,
		ServiceID:            i.ServiceID,
		Unit:                 entities.PricingUnit(i.Unit),
		Weight:               decimal.RequireFromString(i.Weight),
		AgreementRateInCents: i.RateInCents,
		CustomsFeeInCents:    i.CustomsFeeInCents,
		ChargeFeeInCents:     i.ChargeFeeInCents,
		InsuranceFeeInCents:  i.InsuranceFeeInCents,
		DeliveryFeeInCents:   i.DeliveryFeeInCents,
	}
}

func ToDomainList(itemsDB []BillableItemDB) []entities.BillableItem {
	if len(itemsDB) == 0 {
		return []entities.BillableItem{}
	}

	result := make([]entities.BillableItem, len(itemsDB))
	for i, itemDB := range itemsDB {
		result[i] = *ToDomain(&itemDB)
	}
	return result
}
