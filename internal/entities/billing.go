package entities

import "github.com/shopspring/decimal"

type PricingUnit string

const (
	UnitPerLb PricingUnit = "PER_LB"
	UnitFixed PricingUnit = "FIXED"
)

func (u PricingUnit) String() string {
	return string(u)
}

// BillableItem - позиция заказа, соответствующая посылке.
type BillableItem struct {
	ParcelID  int64
	OrderID   int64
	ProductID int64
	ServiceID int64
	Unit      PricingUnit
	Weight    decimal.Decimal
	// AgreementRateInCents - цена соглашения, сохраненная в самой позиции.
	AgreementRateInCents *int64
	CustomsFeeInCents    int64
	ChargeFeeInCents     int64
	InsuranceFeeInCents  int64
	// DeliveryFeeInCents - доставка заказа, берется один раз на заказ.
	DeliveryFeeInCents int64
}
