package dispatch

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"
	"shipping/internal/entities"
)

func ToDomain(d *DispatchDB) *entities.Dispatch {
	if d == nil {
		return nil
	}

	return &entities.Dispatch{
		ID:                   d.ID,
		Status:               entities.DispatchStatus(d.Status),
		SenderAgencyID:       d.SenderAgencyID,
		ReceiverAgencyID:     d.ReceiverAgencyID,
		OriginDispatchID:     d.OriginDispatchID,
		DeclaredParcelsCount: d.DeclaredParcelsCount,
		DeclaredWeight:       decimal.RequireFromString(d.DeclaredWeight),
		DeclaredCostInCents:  d.DeclaredCostInCents,
		Weight:               decimal.RequireFromString(d.Weight),
		CostInCents:          d.CostInCents,
		ReceivedParcelsCount: d.ReceivedParcelsCount,
		PaymentStatus:        entities.PaymentStatus(d.PaymentStatus),
		PaidInCents:          d.PaidInCents,
		CreatedByID:          d.CreatedByID,
		ReceivedByID:         d.ReceivedByID,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
		DispatchedAt:         d.DispatchedAt,
		ReceivedAt:           d.ReceivedAt,
	}
}

func FromDomainModify(dispatchModify *entities.DispatchModify) *DispatchModifyDB {
	if dispatchModify == nil {
		return nil
	}
	dispatchDB := &DispatchModifyDB{
		ID:                   dispatchModify.ID,
		SenderAgencyID:       dispatchModify.SenderAgencyID,
		ReceiverAgencyID:     dispatchModify.ReceiverAgencyID,
		OriginDispatchID:     dispatchModify.OriginDispatchID,
		DeclaredParcelsCount: dispatchModify.DeclaredParcelsCount,
		DeclaredCostInCents:  dispatchModify.DeclaredCostInCents,
		CostInCents:          dispatchModify.CostInCents,
		ReceivedParcelsCount: dispatchModify.ReceivedParcelsCount,
		PaidInCents:          dispatchModify.PaidInCents,
		CreatedByID:          dispatchModify.CreatedByID,
		ReceivedByID:         dispatchModify.ReceivedByID,
		DispatchedAt:         dispatchModify.DispatchedAt,
		ReceivedAt:           dispatchModify.ReceivedAt,
	}

	if dispatchModify.Status != nil {
		status := dispatchModify.Status.String()
		dispatchDB.Status = &status
	}
	if dispatchModify.PaymentStatus != nil {
		paymentStatus := dispatchModify.PaymentStatus.String()
		dispatchDB.PaymentStatus = &paymentStatus
	}
	if dispatchModify.DeclaredWeight != nil {
		declaredWeight := dispatchModify.DeclaredWeight.String()
		dispatchDB.DeclaredWeight = &declaredWeight
	}
	if dispatchModify.Weight != nil {
		weight := dispatchModify.Weight.String()
		dispatchDB.Weight = &weight
	}

	return dispatchDB
}

func ToDomainList(dispatchesDB []DispatchDB) []entities.Dispatch {
	if len(dispatchesDB) == 0 {
		return []entities.Dispatch{}
	}

	result := make([]entities.Dispatch, len(dispatchesDB))
	for i, dispatchDB := range dispatchesDB {
		result[i] = *ToDomain(&dispatchDB)
	}
	return result
}

// columns - заданные поля изменения, общие для INSERT и UPDATE.
func (m *DispatchModifyDB) columns() map[string]interface{} {
	values := make(map[string]interface{})

	set := func(column string, isSet bool, value interface{}) {
		if isSet {
			values[column] = value
		}
	}
	set("status", m.Status != nil, m.Status)
	set("sender_agency_id", m.SenderAgencyID != nil, m.SenderAgencyID)
	set("receiver_agency_id", m.ReceiverAgencyID != nil, m.ReceiverAgencyID)
	set("origin_dispatch_id", m.OriginDispatchID != nil, m.OriginDispatchID)
	set("declared_parcels_count", m.DeclaredParcelsCount != nil, m.DeclaredParcelsCount)
	set("declared_weight", m.DeclaredWeight != nil, sq.Expr("?::numeric", m.DeclaredWeight))
	set("declared_cost_in_cents", m.DeclaredCostInCents != nil, m.DeclaredCostInCents)
	set("weight", m.Weight != nil, sq.Expr("?::numeric", m.Weight))
	set("cost_in_cents", m.CostInCents != nil, m.CostInCents)
	set("received_parcels_count", m.ReceivedParcelsCount != nil, m.ReceivedParcelsCount)
	set("payment_status", m.PaymentStatus != nil, m.PaymentStatus)
	set("paid_in_cents", m.PaidInCents != nil, m.PaidInCents)
	set("created_by_id", m.CreatedByID != nil, m.CreatedByID)
	set("received_by_id", m.ReceivedByID != nil, m.ReceivedByID)
	set("dispatched_at", m.DispatchedAt != nil, m.DispatchedAt)
	set("received_at", m.ReceivedAt != nil, m.ReceivedAt)

	return values
}
