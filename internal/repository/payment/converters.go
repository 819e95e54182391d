package payment

import "shipping/internal/entities"

func ToDomain(p *PaymentDB) *entities.DispatchPayment {
	if p == nil {
		return nil
	}

	return &entities.DispatchPayment{
		ID:            p.ID,
		DispatchID:    p.DispatchID,
		AmountInCents: p.AmountInCents,
		ChargeInCents: p.ChargeInCents,
		Method:        entities.PaymentMethod(p.Method),
		Reference:     p.Reference,
		Date:          p.Date,
		Notes:         p.Notes,
		UserID:        p.UserID,
		CreatedAt:     p.CreatedAt,
	}
}

func FromDomain(p *entities.DispatchPayment) *PaymentDB {
	if p == nil {
		return nil
	}

	return &PaymentDB{
		DispatchID:    p.DispatchID,
		AmountInCents: p.AmountInCents,
		ChargeInCents: p.ChargeInCents,
		Method:        p.Method.String(),
		Reference:     p.Reference,
		Date:          p.Date,
		Notes:         p.Notes,
		UserID:        p.UserID,
	}
}
