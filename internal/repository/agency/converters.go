package agency

import "shipping/internal/entities"

func ToDomain(a *AgencyDB) *entities.Agency {
	if a == nil {
		return nil
	}

	return &entities.Agency{
		ID:             a.ID,
		Name:           a.Name,
		ParentAgencyID: a.ParentAgencyID,
		IsForwarder:    a.IsForwarder,
	}
}
