package billing

type BillableItemDB struct {
	ParcelID            int64
	OrderID             int64
	ProductID           int64
	ServiceID           int64
	Unit                string
	Weight              string
	RateInCents         *int64
	CustomsFeeInCents   int64
	ChargeFeeInCents    int64
	InsuranceFeeInCents int64
	DeliveryFeeInCents  int64
}
