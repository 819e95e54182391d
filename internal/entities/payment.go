package entities

import "time"

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentZelle        PaymentMethod = "ZELLE"
	PaymentOther        PaymentMethod = "OTHER"
)

func (m PaymentMethod) String() string {
	return string(m)
}

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentBankTransfer, PaymentZelle, PaymentOther:
		return true
	default:
		return false
	}
}

// IsCard - за оплату картой берется комиссия процессинга.
func (m PaymentMethod) IsCard() bool {
	return m == PaymentCreditCard || m == PaymentDebitCard
}

type DispatchPayment struct {
	ID            int64
	DispatchID    int64
	AmountInCents int64
	ChargeInCents int64
	Method        PaymentMethod
	Reference     string
	Date          time.Time
	Notes         string
	UserID        string
	CreatedAt     time.Time
}
