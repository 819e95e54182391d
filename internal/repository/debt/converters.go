package debt

import "shipping/internal/entities"

func ToDomain(d *DebtDB) *entities.InterAgencyDebt {
	if d == nil {
		return nil
	}

	return &entities.InterAgencyDebt{
		ID:                     d.ID,
		DebtorAgencyID:         d.DebtorAgencyID,
		CreditorAgencyID:       d.CreditorAgencyID,
		OriginalSenderAgencyID: d.OriginalSenderAgencyID,
		AmountInCents:          d.AmountInCents,
		DispatchID:             d.DispatchID,
		Relationship:           entities.DebtRelationship(d.Relationship),
		Status:                 entities.DebtStatus(d.Status),
		Notes:                  d.Notes,
		CreatedAt:              d.CreatedAt,
		PaidAt:                 d.PaidAt,
	}
}

func FromDomain(d *entities.InterAgencyDebt) *DebtDB {
	if d == nil {
		return nil
	}

	status := d.Status
	if status == "" {
		status = entities.DebtPending
	}

	return &DebtDB{
		DebtorAgencyID:         d.DebtorAgencyID,
		CreditorAgencyID:       d.CreditorAgencyID,
		OriginalSenderAgencyID: d.OriginalSenderAgencyID,
		AmountInCents:          d.AmountInCents,
		DispatchID:             d.DispatchID,
		Relationship:           d.Relationship.String(),
		Status:                 status.String(),
		Notes:                  d.Notes,
		PaidAt:                 d.PaidAt,
	}
}

func ToDomainList(debtsDB []DebtDB) []entities.InterAgencyDebt {
	if len(debtsDB) == 0 {
		return []entities.InterAgencyDebt{}
	}

	result := make([]entities.InterAgencyDebt, len(debtsDB))
	for i, debtDB := range debtsDB {
		result[i] = *ToDomain(&debtDB)
	}
	return result
}
