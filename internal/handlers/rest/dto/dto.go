// Package dto - JSON представления запросов и ответов REST API.
package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type PingResponse struct {
	Message string `json:"message"`
	Service string `json:"service"`
}

type Dispatch struct {
	ID                   int64           `json:"id"`
	Status               string          `json:"status"`
	SenderAgencyID       int64           `json:"sender_agency_id"`
	ReceiverAgencyID     *int64          `json:"receiver_agency_id,omitempty"`
	OriginDispatchID     *int64          `json:"origin_dispatch_id,omitempty"`
	DeclaredParcelsCount int             `json:"declared_parcels_count"`
	DeclaredWeight       decimal.Decimal `json:"declared_weight"`
	DeclaredCostInCents  int64           `json:"declared_cost_in_cents"`
	Weight               decimal.Decimal `json:"weight"`
	CostInCents          int64           `json:"cost_in_cents"`
	ReceivedParcelsCount int             `json:"received_parcels_count"`
	PaymentStatus        string          `json:"payment_status"`
	PaidInCents          int64           `json:"paid_in_cents"`
	CreatedByID          string          `json:"created_by_id"`
	ReceivedByID         *string         `json:"received_by_id,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	DispatchedAt         *time.Time      `json:"dispatched_at,omitempty"`
	ReceivedAt           *time.Time      `json:"received_at,omitempty"`
}

type Parcel struct {
	ID             int64           `json:"id"`
	TrackingNumber string          `json:"tracking_number"`
	OrderID        int64           `json:"order_id"`
	AgencyID       int64           `json:"agency_id"`
	DispatchID     *int64          `json:"dispatch_id,omitempty"`
	Status         string          `json:"status"`
	Weight         decimal.Decimal `json:"weight"`
}

type Debt struct {
	ID                     int64      `json:"id"`
	DebtorAgencyID         int64      `json:"debtor_agency_id"`
	CreditorAgencyID       int64      `json:"creditor_agency_id"`
	OriginalSenderAgencyID *int64     `json:"original_sender_agency_id,omitempty"`
	AmountInCents          int64      `json:"amount_in_cents"`
	DispatchID             *int64     `json:"dispatch_id,omitempty"`
	Relationship           string     `json:"relationship"`
	Status                 string     `json:"status"`
	Notes                  string     `json:"notes,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
	PaidAt                 *time.Time `json:"paid_at,omitempty"`
}

type Payment struct {
	ID            int64     `json:"id"`
	DispatchID    int64     `json:"dispatch_id"`
	AmountInCents int64     `json:"amount_in_cents"`
	ChargeInCents int64     `json:"charge_in_cents"`
	Method        string    `json:"method"`
	Reference     string    `json:"reference,omitempty"`
	Date          time.Time `json:"date"`
	Notes         string    `json:"notes,omitempty"`
	UserID        string    `json:"user_id"`
}

type Outcome struct {
	TrackingNumber string `json:"tracking_number"`
	Outcome        string `json:"outcome"`
	Reason         string `json:"reason,omitempty"`
	DispatchID     *int64 `json:"dispatch_id,omitempty"`
}

// Запросы

type DispatchCreate struct {
	SenderAgencyID int64 `json:"sender_agency_id"`
}

type ParcelAdd struct {
	TrackingNumber string `json:"tracking_number"`
}

type OrderAdd struct {
	OrderID int64 `json:"order_id"`
}

type TrackingNumbers struct {
	TrackingNumbers []string `json:"tracking_numbers"`
}

type DispatchScan struct {
	SenderAgencyID  int64    `json:"sender_agency_id"`
	TrackingNumbers []string `json:"tracking_numbers"`
}

type DispatchFinalize struct {
	ReceiverAgencyID int64 `json:"receiver_agency_id"`
}

type SmartReceive struct {
	ReceiverAgencyID int64    `json:"receiver_agency_id"`
	TrackingNumbers  []string `json:"tracking_numbers"`
}

type PaymentCreate struct {
	AmountInCents int64      `json:"amount_in_cents"`
	Method        string     `json:"method"`
	Reference     string     `json:"reference,omitempty"`
	Date          *time.Time `json:"date,omitempty"`
	Notes         string     `json:"notes,omitempty"`
}

// Ответы

type Outcomes struct {
	Outcomes []Outcome `json:"outcomes"`
	Added    int       `json:"added"`
	Skipped  int       `json:"skipped"`
}

type ScanResult struct {
	Dispatch *Dispatch `json:"dispatch,omitempty"`
	Outcomes
}

type FinalizeResult struct {
	Dispatch Dispatch `json:"dispatch"`
	Debts    []Debt   `json:"debts"`
	Warnings []string `json:"warnings"`
	Returned []string `json:"returned,omitempty"`
}

type ReceptionStatus struct {
	Dispatch                Dispatch        `json:"dispatch"`
	TotalParcels            int             `json:"total_parcels"`
	ReceivedParcels         int             `json:"received_parcels"`
	ReceivedWeight          decimal.Decimal `json:"received_weight"`
	ReceivedTrackingNumbers []string        `json:"received_tracking_numbers"`
	PendingTrackingNumbers  []string        `json:"pending_tracking_numbers"`
}

type ReceptionSummary struct {
	BatchID              string     `json:"batch_id"`
	Scanned              int        `json:"scanned"`
	Received             int        `json:"received"`
	Skipped              int        `json:"skipped"`
	SurplusAdded         int        `json:"surplus_added"`
	ReceptionDispatches  []Dispatch `json:"reception_dispatches"`
	SplitDispatches      []Dispatch `json:"split_dispatches"`
	AccountingDispatches []Dispatch `json:"accounting_dispatches"`
	Debts                []Debt     `json:"debts"`
	Outcomes             []Outcome  `json:"outcomes"`
	Warnings             []string   `json:"warnings"`
}

type PaymentReceipt struct {
	Payment  Payment  `json:"payment"`
	Dispatch Dispatch `json:"dispatch"`
}
