package membership

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"shipping/internal/entities"
	"shipping/internal/pkg/metrics"
	"shipping/pkg/logger"
)

const reasonClaimLost = "claimed by concurrent operation"

// ScanResult - созданная отправка (nil, если нечего было загружать) и исход по каждому трек-номеру.
type ScanResult struct {
	Dispatch *entities.Dispatch
	Outcomes []entities.ParcelOutcome
	Added    int
	Skipped  int
}

// CreateFromScan создает отправку из отсканированных посылок с оптимистичной конкуренцией:
// посылки классифицируются без блокировок, затем захватываются одним условным обновлением,
// итоги отправки пересчитываются по реально захваченным строкам.
func (t *Tracker) CreateFromScan(ctx context.Context, trackingNumbers []string, senderAgencyID int64, actor entities.Actor) (*ScanResult, error) {
	trackingNumbers = NormalizeTrackingNumbers(trackingNumbers)
	if len(trackingNumbers) == 0 {
		return nil, ErrEmptyTrackingNumbers
	}

	scope := t.resolver.NewScope()
	defer scope.Clear()

	var (
		result  *ScanResult
		changes metrics.Changes
	)
	err := t.txManager.Do(ctx, func(ctx context.Context) error {
		changes.Reset()

		if _, err := scope.GetAgency(ctx, senderAgencyID); err != nil {
			return err
		}
		if err := t.authorize(ctx, scope, senderAgencyID, actor); err != nil {
			return err
		}

		var owned []int64
		if !actor.CanBypass() {
			var err error
			owned, err = scope.GetOwnedAgencyIDs(ctx, senderAgencyID)
			if err != nil {
				return err
			}
		}

		parcels, err := t.parcels.GetByTrackingNumbers(ctx, trackingNumbers)
		if err != nil {
			return fmt.Errorf("get scanned parcels: %w", err)
		}

		candidates, reasons, err := t.classify(ctx, parcels, owned)
		if err != nil {
			return err
		}

		result = &ScanResult{}
		if len(candidates) == 0 {
			result.Outcomes, result.Added, result.Skipped = buildOutcomes(trackingNumbers, nil, reasons, 0)
			return nil
		}

		provisionalWeight := decimal.Zero
		for _, parcel := range candidates {
			provisionalWeight = provisionalWeight.Add(parcel.Weight)
		}
		status := entities.DispatchLoading
		provisionalCount := len(candidates)
		dispatch, err := t.dispatches.Create(ctx, entities.DispatchModify{
			Status:               &status,
			SenderAgencyID:       &senderAgencyID,
			DeclaredParcelsCount: &provisionalCount,
			DeclaredWeight:       &provisionalWeight,
			CreatedByID:          &actor.UserID,
		})
		if err != nil {
			return fmt.Errorf("create dispatch: %w", err)
		}

		claimIDs := make([]int64, 0, len(candidates))
		for _, parcel := range candidates {
			claimIDs = append(claimIDs, parcel.ID)
		}
		claimed, err := t.parcels.ClaimForDispatch(ctx, entities.ParcelClaim{
			DispatchID:      dispatch.ID,
			ParcelIDs:       claimIDs,
			OwnerAgencyIDs:  owned,
			AllowedStatuses: entities.DispatchableParcelStatuses,
		})
		if err != nil {
			return fmt.Errorf("claim parcels: %w", err)
		}

		claimedByTracking := make(map[string]struct{}, len(claimed))
		events := make([]entities.ParcelEvent, 0, len(claimed))
		for _, parcel := range claimed {
			claimedByTracking[parcel.TrackingNumber] = struct{}{}
			events = append(events, entities.ParcelEvent{
				ParcelID:   parcel.ID,
				Type:       entities.EventAddedToDispatch,
				Status:     entities.ParcelInDispatch,
				DispatchID: &dispatch.ID,
				UserID:     actor.UserID,
				Notes:      "scan",
			})
		}
		if len(events) > 0 {
			if err := t.parcels.CreateEvents(ctx, events); err != nil {
				return fmt.Errorf("record parcel events: %w", err)
			}
		}

		if lost := len(candidates) - len(claimed); lost > 0 {
			t.log.Warn("parcels claimed by concurrent operation",
				logger.NewField("dispatch", dispatch.ID),
				logger.NewField("expected", len(candidates)),
				logger.NewField("claimed", len(claimed)),
			)
			for _, parcel := range candidates {
				if _, ok := claimedByTracking[parcel.TrackingNumber]; !ok {
					reasons[parcel.TrackingNumber] = reasonClaimLost
				}
			}
		}

		// итоги берутся из базы, а не из предварительного снимка
		dispatch, err = t.recalculate(ctx, scope, dispatch, &changes)
		if err != nil {
			return err
		}

		result.Dispatch = dispatch
		result.Outcomes, result.Added, result.Skipped = buildOutcomes(trackingNumbers, claimedByTracking, reasons, dispatch.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	changes.Flush()
	if result.Dispatch != nil {
		t.log.Info("dispatch created from scan",
			logger.NewField("dispatch", result.Dispatch.ID),
			logger.NewField("added", result.Added),
			logger.NewField("skipped", result.Skipped),
		)
	}
	return result, nil
}

// classify - предварительная классификация. Причины отказа копятся по трек-номеру.
func (t *Tracker) classify(ctx context.Context, parcels []entities.Parcel, owned []int64) ([]entities.Parcel, map[string]string, error) {
	reasons := make(map[string]string)

	var dispatchIDs []int64
	for _, parcel := range parcels {
		if parcel.DispatchID != nil {
			dispatchIDs = append(dispatchIDs, *parcel.DispatchID)
		}
	}
	attached := make(map[int64]entities.Dispatch)
	if len(dispatchIDs) > 0 {
		dispatches, err := t.dispatches.GetByIDs(ctx, dispatchIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("get attached dispatches: %w", err)
		}
		for _, dispatch := range dispatches {
			attached[dispatch.ID] = dispatch
		}
	}

	candidates := make([]entities.Parcel, 0, len(parcels))
	for _, parcel := range parcels {
		switch {
		case parcel.IsDeleted():
			reasons[parcel.TrackingNumber] = ErrParcelDeleted.Error()
		case owned != nil && !containsID(owned, parcel.AgencyID):
			reasons[parcel.TrackingNumber] = ErrParcelNotOwned.Error()
		case !parcel.Status.IsDispatchable():
			reasons[parcel.TrackingNumber] = ErrParcelStatusNotAllowed.Error()
		case parcel.DispatchID != nil && !isCompleted(attached, *parcel.DispatchID):
			reasons[parcel.TrackingNumber] = fmt.Sprintf("%s (dispatch %d)", ErrParcelInOtherDispatch.Error(), *parcel.DispatchID)
		default:
			candidates = append(candidates, parcel)
		}
	}
	return candidates, reasons, nil
}

func isCompleted(dispatches map[int64]entities.Dispatch, id int64) bool {
	dispatch, ok := dispatches[id]
	if !ok {
		return true
	}
	return dispatch.Status.IsCompleted()
}

func buildOutcomes(
	trackingNumbers []string,
	claimed map[string]struct{},
	reasons map[string]string,
	dispatchID int64,
) ([]entities.ParcelOutcome, int, int) {
	outcomes := make([]entities.ParcelOutcome, 0, len(trackingNumbers))
	added, skipped := 0, 0
	for _, trackingNumber := range trackingNumbers {
		if _, ok := claimed[trackingNumber]; ok {
			id := dispatchID
			outcomes = append(outcomes, entities.ParcelOutcome{
				TrackingNumber: trackingNumber,
				Outcome:        entities.OutcomeAdded,
				DispatchID:     &id,
			})
			added++
			continue
		}

		reason, ok := reasons[trackingNumber]
		if !ok {
			reason = entities.ErrParcelNotFound.Error()
		}
		outcomes = append(outcomes, entities.ParcelOutcome{
			TrackingNumber: trackingNumber,
			Outcome:        entities.OutcomeSkipped,
			Reason:         reason,
		})
		skipped++
	}
	return outcomes, added, skipped
}
