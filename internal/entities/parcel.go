package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type ParcelStatus string

const (
	ParcelInAgency           ParcelStatus = "IN_AGENCY"
	ParcelInPallet           ParcelStatus = "IN_PALLET"
	ParcelInDispatch         ParcelStatus = "IN_DISPATCH"
	ParcelReceivedInDispatch ParcelStatus = "RECEIVED_IN_DISPATCH"
	ParcelInWarehouse        ParcelStatus = "IN_WAREHOUSE"
	ParcelInContainer        ParcelStatus = "IN_CONTAINER"
	ParcelInTransit          ParcelStatus = "IN_TRANSIT"
	ParcelAtPort             ParcelStatus = "AT_PORT"
	ParcelCustomsProcessing  ParcelStatus = "CUSTOMS_PROCESSING"
	ParcelOutForDelivery     ParcelStatus = "OUT_FOR_DELIVERY"
	ParcelDelivered          ParcelStatus = "DELIVERED"
)

// BaselineParcelStatus - статус "в агентстве", если в истории нечего восстановить.
const BaselineParcelStatus = ParcelInAgency

// DispatchableParcelStatuses - статусы, из которых посылку можно загрузить в отправку.
var DispatchableParcelStatuses = []ParcelStatus{
	ParcelInAgency,
	ParcelInPallet,
	ParcelInDispatch,
	ParcelReceivedInDispatch,
	ParcelInWarehouse,
}

func (s ParcelStatus) String() string {
	return string(s)
}

func (s ParcelStatus) IsDispatchable() bool {
	for _, allowed := range DispatchableParcelStatuses {
		if s == allowed {
			return true
		}
	}
	return false
}

// IsDispatchRelated - статус выставлен самим движением по отправкам,
// при восстановлении истории такие статусы пропускаются.
func (s ParcelStatus) IsDispatchRelated() bool {
	return s == ParcelInDispatch || s == ParcelReceivedInDispatch
}

type Parcel struct {
	ID             int64
	TrackingNumber string
	OrderID        int64
	OriginAgencyID int64
	// AgencyID - агентство, где посылка лежит вне активной отправки.
	AgencyID   int64
	DispatchID *int64
	Status     ParcelStatus
	Weight     decimal.Decimal
	DeletedAt  *time.Time
	UpdatedAt  time.Time
}

func (p *Parcel) IsDeleted() bool {
	return p.DeletedAt != nil
}

type LocationKind int

const (
	AtRest LocationKind = iota
	InDispatch
)

// ParcelLocation - текущее местоположение посылки: либо покоится в агентстве,
// либо едет в отправке. История движения хранится отдельно в ParcelEvent.
type ParcelLocation struct {
	Kind       LocationKind
	AgencyID   int64
	DispatchID int64
}

// Location определяет местоположение по состоянию отправки, к которой привязана посылка.
// Завершенная отправка (RECEIVED/DISCREPANCY) больше не удерживает посылку: она покоится у получателя.
func (p *Parcel) Location(dispatch *Dispatch) ParcelLocation {
	if p.DispatchID == nil || dispatch == nil || dispatch.ID != *p.DispatchID {
		return ParcelLocation{Kind: AtRest, AgencyID: p.AgencyID}
	}
	if dispatch.Status.IsCompleted() {
		agencyID := p.AgencyID
		if dispatch.ReceiverAgencyID != nil {
			agencyID = *dispatch.ReceiverAgencyID
		}
		return ParcelLocation{Kind: AtRest, AgencyID: agencyID}
	}
	return ParcelLocation{Kind: InDispatch, AgencyID: dispatch.SenderAgencyID, DispatchID: dispatch.ID}
}

// TrackedParcel - посылка вместе с отправкой, в которой она числится (если есть).
type TrackedParcel struct {
	Parcel   Parcel
	Dispatch *Dispatch
}

func (t *TrackedParcel) Location() ParcelLocation {
	return t.Parcel.Location(t.Dispatch)
}

// HolderAgencyID - агентство, физически владеющее посылкой.
func (t *TrackedParcel) HolderAgencyID() int64 {
	return t.Location().AgencyID
}

// ActiveDispatch возвращает отправку, если посылка едет в ней прямо сейчас.
func (t *TrackedParcel) ActiveDispatch() *Dispatch {
	if t.Location().Kind == InDispatch {
		return t.Dispatch
	}
	return nil
}

type ParcelModify struct {
	ID         *int64
	AgencyID   *int64
	DispatchID *int64
	Detach     bool
	Status     *ParcelStatus
}
