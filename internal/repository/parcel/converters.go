package parcel

import (
	"github.com/shopspring/decimal"
	"shipping/internal/entities"
)

func ToDomain(p *ParcelDB) *entities.Parcel {
	if p == nil {
		return nil
	}

	return &entities.Parcel{
		ID:             p.ID,
		TrackingNumber: p.TrackingNumber,
		OrderID:        p.OrderID,
		OriginAgencyID: p.OriginAgencyID,
		AgencyID:       p.AgencyID,
		DispatchID:     p.DispatchID,
		Status:         entities.ParcelStatus(p.Status),
		Weight:         decimal.RequireFromString(p.Weight),
		DeletedAt:      p.DeletedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func FromDomainModify(parcelModify *entities.ParcelModify) *ParcelModifyDB {
	if parcelModify == nil {
		return nil
	}
	parcelDB := &ParcelModifyDB{
		ID:         parcelModify.ID,
		AgencyID:   parcelModify.AgencyID,
		DispatchID: parcelModify.DispatchID,
		Detach:     parcelModify.Detach,
	}

	if parcelModify.Status != nil {
		status := parcelModify.Status.String()
		parcelDB.Status = &status
	}

	return parcelDB
}

func ToDomainList(parcelsDB []ParcelDB) []entities.Parcel {
	if len(parcelsDB) == 0 {
		return []entities.Parcel{}
	}

	result := make([]entities.Parcel, len(parcelsDB))
	for i, parcelDB := range parcelsDB {
		result[i] = *ToDomain(&parcelDB)
	}
	return result
}

func EventToDomain(e *ParcelEventDB) entities.ParcelEvent {
	return entities.ParcelEvent{
		ID:         e.ID,
		ParcelID:   e.ParcelID,
		Type:       entities.ParcelEventType(e.Type),
		Status:     entities.ParcelStatus(e.Status),
		DispatchID: e.DispatchID,
		UserID:     e.UserID,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt,
	}
}

func TotalsToDomain(t *DispatchTotalsDB) *entities.DispatchTotals {
	return &entities.DispatchTotals{
		ParcelsCount:         t.ParcelsCount,
		Weight:               decimal.RequireFromString(t.Weight),
		ReceivedParcelsCount: t.ReceivedParcelsCount,
		ReceivedWeight:       decimal.RequireFromString(t.ReceivedWeight),
	}
}

func statusesToDB(statuses []entities.ParcelStatus) []string {
	result := make([]string, len(statuses))
	for i, status := range statuses {
		result[i] = status.String()
	}
	return result
}
