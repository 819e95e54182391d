package dto

import (
	"shipping/internal/entities"
	"shipping/internal/service/membership"
	"shipping/internal/service/payment"
	"shipping/internal/service/reception"
)

func FromDispatch(d *entities.Dispatch) Dispatch {
	return Dispatch{
		ID:                   d.ID,
		Status:               d.Status.String(),
		SenderAgencyID:       d.SenderAgencyID,
		ReceiverAgencyID:     d.ReceiverAgencyID,
		OriginDispatchID:     d.OriginDispatchID,
		DeclaredParcelsCount: d.DeclaredParcelsCount,
		DeclaredWeight:       d.DeclaredWeight,
		DeclaredCostInCents:  d.DeclaredCostInCents,
		Weight:               d.Weight,
		CostInCents:          d.CostInCents,
		ReceivedParcelsCount: d.ReceivedParcelsCount,
		PaymentStatus:        d.PaymentStatus.String(),
		PaidInCents:          d.PaidInCents,
		CreatedByID:          d.CreatedByID,
		ReceivedByID:         d.ReceivedByID,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
		DispatchedAt:         d.DispatchedAt,
		ReceivedAt:           d.ReceivedAt,
	}
}

func FromDispatches(dispatches []entities.Dispatch) []Dispatch {
	result := make([]Dispatch, len(dispatches))
	for i := range dispatches {
		result[i] = FromDispatch(&dispatches[i])
	}
	return result
}

func FromParcel(p *entities.Parcel) Parcel {
	return Parcel{
		ID:             p.ID,
		TrackingNumber: p.TrackingNumber,
		OrderID:        p.OrderID,
		AgencyID:       p.AgencyID,
		DispatchID:     p.DispatchID,
		Status:         p.Status.String(),
		Weight:         p.Weight,
	}
}

func FromDebt(d *entities.InterAgencyDebt) Debt {
	return Debt{
		ID:                     d.ID,
		DebtorAgencyID:         d.DebtorAgencyID,
		CreditorAgencyID:       d.CreditorAgencyID,
		OriginalSenderAgencyID: d.OriginalSenderAgencyID,
		AmountInCents:          d.AmountInCents,
		DispatchID:             d.DispatchID,
		Relationship:           d.Relationship.String(),
		Status:                 d.Status.String(),
		Notes:                  d.Notes,
		CreatedAt:              d.CreatedAt,
		PaidAt:                 d.PaidAt,
	}
}

func FromDebts(debts []entities.InterAgencyDebt) []Debt {
	result := make([]Debt, len(debts))
	for i := range debts {
		result[i] = FromDebt(&debts[i])
	}
	return result
}

func FromPayment(p *entities.DispatchPayment) Payment {
	return Payment{
		ID:            p.ID,
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

func FromOutcomes(outcomes []entities.ParcelOutcome) []Outcome {
	result := make([]Outcome, len(outcomes))
	for i, outcome := range outcomes {
		result[i] = Outcome{
			TrackingNumber: outcome.TrackingNumber,
			Outcome:        outcome.Outcome.String(),
			Reason:         outcome.Reason,
			DispatchID:     outcome.DispatchID,
		}
	}
	return result
}

// CountOutcomes считает добавленные и пропущенные строки пакетной операции.
func CountOutcomes(outcomes []entities.ParcelOutcome) Outcomes {
	result := Outcomes{Outcomes: FromOutcomes(outcomes)}
	for _, outcome := range outcomes {
		if outcome.Outcome == entities.OutcomeSkipped {
			result.Skipped++
		} else {
			result.Added++
		}
	}
	return result
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func FromScanResult(result *membership.ScanResult) ScanResult {
	response := ScanResult{
		Outcomes: Outcomes{
			Outcomes: FromOutcomes(result.Outcomes),
			Added:    result.Added,
			Skipped:  result.Skipped,
		},
	}
	if result.Dispatch != nil {
		dispatch := FromDispatch(result.Dispatch)
		response.Dispatch = &dispatch
	}
	return response
}

func FromFinalize(dispatch *entities.Dispatch, debts []entities.InterAgencyDebt, warnings, returned []string) FinalizeResult {
	return FinalizeResult{
		Dispatch: FromDispatch(dispatch),
		Debts:    FromDebts(debts),
		Warnings: nonNil(warnings),
		Returned: returned,
	}
}

func FromReceptionStatus(status *reception.Status) ReceptionStatus {
	return ReceptionStatus{
		Dispatch:                FromDispatch(status.Dispatch),
		TotalParcels:            status.TotalParcels,
		ReceivedParcels:         status.ReceivedParcels,
		ReceivedWeight:          status.ReceivedWeight,
		ReceivedTrackingNumbers: nonNil(status.ReceivedTrackingNumbers),
		PendingTrackingNumbers:  nonNil(status.PendingTrackingNumbers),
	}
}

func FromReceptionSummary(summary *reception.Summary) ReceptionSummary {
	return ReceptionSummary{
		BatchID:              summary.BatchID,
		Scanned:              summary.Scanned,
		Received:             summary.Received,
		Skipped:              summary.Skipped,
		SurplusAdded:         summary.SurplusAdded,
		ReceptionDispatches:  FromDispatches(summary.ReceptionDispatches),
		SplitDispatches:      FromDispatches(summary.SplitDispatches),
		AccountingDispatches: FromDispatches(summary.AccountingDispatches),
		Debts:                FromDebts(summary.Debts),
		Outcomes:             FromOutcomes(summary.Outcomes),
		Warnings:             nonNil(summary.Warnings),
	}
}

func FromReceipt(receipt *payment.Receipt) PaymentReceipt {
	return PaymentReceipt{
		Payment:  FromPayment(receipt.Payment),
		Dispatch: FromDispatch(receipt.Dispatch),
	}
}
