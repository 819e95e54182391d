package parcel

import "time"

// NUMERIC читается как text и разбирается в decimal в конвертерах.
type ParcelDB struct {
	ID             int64
	TrackingNumber string
	OrderID        int64
	OriginAgencyID int64
	AgencyID       int64
	DispatchID     *int64
	Status         string
	Weight         string
	DeletedAt      *time.Time
	UpdatedAt      time.Time
}

type ParcelModifyDB struct {
	ID         *int64
	AgencyID   *int64
	DispatchID *int64
	Detach     bool
	Status     *string
}

type ParcelEventDB struct {
	ID         int64
	ParcelID   int64
	Type       string
	Status     string
	DispatchID *int64
	UserID     string
	Notes      string
	CreatedAt  time.Time
}

type DispatchTotalsDB struct {
	ParcelsCount         int
	Weight               string
	ReceivedParcelsCount int
	ReceivedWeight       string
}
