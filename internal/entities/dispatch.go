package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type DispatchStatus string

const (
	DispatchDraft           DispatchStatus = "DRAFT"
	DispatchLoading         DispatchStatus = "LOADING"
	DispatchDispatched      DispatchStatus = "DISPATCHED"
	DispatchReceiving       DispatchStatus = "RECEIVING"
	DispatchReceived        DispatchStatus = "RECEIVED"
	DispatchPartialReceived DispatchStatus = "PARTIAL_RECEIVED"
	DispatchDiscrepancy     DispatchStatus = "DISCREPANCY"
	DispatchCancelled       DispatchStatus = "CANCELLED"
)

func (s DispatchStatus) String() string {
	return string(s)
}

// IsMutable - состав отправки можно менять только до финализации.
func (s DispatchStatus) IsMutable() bool {
	return s == DispatchDraft || s == DispatchLoading
}

// IsCompleted - отправка принята получателем и больше не удерживает посылки.
func (s DispatchStatus) IsCompleted() bool {
	return s == DispatchReceived || s == DispatchDiscrepancy
}

// IsTerminal - в обычном потоке статус больше не меняется.
func (s DispatchStatus) IsTerminal() bool {
	return s.IsCompleted() || s == DispatchCancelled
}

// IsInFlight - отправка финализирована, но еще не принята полностью.
func (s DispatchStatus) IsInFlight() bool {
	return s == DispatchDispatched || s == DispatchReceiving || s == DispatchPartialReceived
}

// IsDeletable - удалять без повышенной роли можно только черновик или отмененную отправку.
func (s DispatchStatus) IsDeletable() bool {
	return s == DispatchDraft || s == DispatchCancelled
}

// DeriveDispatchStatus вычисляет статус по составу отправки.
// DISPATCHED выставляется явно при финализации, остальное выводится.
func DeriveDispatchStatus(current DispatchStatus, total, received int) DispatchStatus {
	if current == DispatchCancelled || current == DispatchDiscrepancy {
		return current
	}
	if total == 0 {
		if current.IsMutable() {
			return DispatchDraft
		}
		return current
	}
	if current.IsMutable() {
		return DispatchLoading
	}
	switch {
	case received == 0:
		if current == DispatchPartialReceived {
			return current
		}
		return DispatchDispatched
	case received < total:
		return DispatchReceiving
	default:
		return DispatchReceived
	}
}

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentPaid          PaymentStatus = "PAID"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// DerivePaymentStatus - статус оплаты по сумме оплат и стоимости.
func DerivePaymentStatus(paidInCents, costInCents int64) PaymentStatus {
	switch {
	case paidInCents <= 0:
		return PaymentPending
	case paidInCents < costInCents:
		return PaymentPartiallyPaid
	default:
		return PaymentPaid
	}
}

type Dispatch struct {
	ID               int64
	Status           DispatchStatus
	SenderAgencyID   int64
	ReceiverAgencyID *int64
	OriginDispatchID *int64

	// заявлено отправителем
	DeclaredParcelsCount int
	DeclaredWeight       decimal.Decimal
	DeclaredCostInCents  int64

	// фактически при приеме
	Weight               decimal.Decimal
	CostInCents          int64
	ReceivedParcelsCount int

	PaymentStatus PaymentStatus
	PaidInCents   int64

	CreatedByID  string
	ReceivedByID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DispatchedAt *time.Time
	ReceivedAt   *time.Time
}

// HasDiscrepancy - заявленные значения не совпали с фактическими.
func (d *Dispatch) HasDiscrepancy() bool {
	return d.DeclaredParcelsCount != d.ReceivedParcelsCount ||
		d.DeclaredCostInCents != d.CostInCents ||
		!d.DeclaredWeight.Equal(d.Weight)
}

type DispatchModify struct {
	ID               *int64
	Status           *DispatchStatus
	SenderAgencyID   *int64
	ReceiverAgencyID *int64
	OriginDispatchID *int64

	DeclaredParcelsCount *int
	DeclaredWeight       *decimal.Decimal
	DeclaredCostInCents  *int64

	Weight               *decimal.Decimal
	CostInCents          *int64
	ReceivedParcelsCount *int

	PaymentStatus *PaymentStatus
	PaidInCents   *int64

	CreatedByID  *string
	ReceivedByID *string
	DispatchedAt *time.Time
	ReceivedAt   *time.Time
}

// DispatchTotals - агрегаты по посылкам, привязанным к отправке.
type DispatchTotals struct {
	ParcelsCount         int
	Weight               decimal.Decimal
	ReceivedParcelsCount int
	ReceivedWeight       decimal.Decimal
}

// DispatchCost - результат калькулятора стоимости.
type DispatchCost struct {
	TotalInCents int64
	Weight       decimal.Decimal
	ParcelsCount int
	Warnings     []string
}
