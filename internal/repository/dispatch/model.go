package dispatch

import "time"

type DispatchDB struct {
	ID                   int64
	Status               string
	SenderAgencyID       int64
	ReceiverAgencyID     *int64
	OriginDispatchID     *int64
	DeclaredParcelsCount int
	DeclaredWeight       string
	DeclaredCostInCents  int64
	Weight               string
	CostInCents          int64
	ReceivedParcelsCount int
	PaymentStatus        string
	PaidInCents          int64
	CreatedByID          string
	ReceivedByID         *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
	DispatchedAt         *time.Time
	ReceivedAt           *time.Time
}

type DispatchModifyDB struct {
	ID                   *int64
	Status               *string
	SenderAgencyID       *int64
	ReceiverAgencyID     *int64
	OriginDispatchID     *int64
	DeclaredParcelsCount *int
	DeclaredWeight       *string
	DeclaredCostInCents  *int64
	Weight               *string
	CostInCents          *int64
	ReceivedParcelsCount *int
	PaymentStatus        *string
	PaidInCents          *int64
	CreatedByID          *string
	ReceivedByID         *string
	DispatchedAt         *time.Time
	ReceivedAt           *time.Time
}
