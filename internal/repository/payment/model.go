package payment

import "time"

type PaymentDB struct {
	ID            int64
	DispatchID    int64
	AmountInCents int64
	ChargeInCents int64
	Method        string
	Reference     string
	Date          time.Time
	Notes         string
	UserID        string
	CreatedAt     time.Time
}
