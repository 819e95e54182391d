package reception

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"shipping/internal/entities"
	"shipping/internal/pkg/metrics"
	"shipping/internal/service/hierarchy"
	"shipping/internal/service/ledger"
	"shipping/pkg/logger"
)

type Reception struct {
	parcels    ParcelRepository
	dispatches DispatchRepository
	membership Membership
	ledger     Ledger
	calculator CostCalculator
	resolver   Resolver
	txManager  TxManager
	log        receptionLogger
}

func New(
	parcels ParcelRepository,
	dispatches DispatchRepository,
	membership Membership,
	ledger Ledger,
	calculator CostCalculator,
	resolver Resolver,
	txManager TxManager,
	log receptionLogger,
) *Reception {
	return &Reception{
		parcels:    parcels,
		dispatches: dispatches,
		membership: membership,
		ledger:     ledger,
		calculator: calculator,
		resolver:   resolver,
		txManager:  txManager,
		log:        log.With(logger.NewField("component", "reception")),
	}
}

type Status struct {
	Dispatch                *entities.Dispatch
	TotalParcels            int
	ReceivedParcels         int
	ReceivedWeight          decimal.Decimal
	ReceivedTrackingNumbers []string
	PendingTrackingNumbers  []string
}

type FinalizeResult struct {
	Dispatch *entities.Dispatch
	Debts    []entities.InterAgencyDebt
	Warnings []string
	// Returned - посылки, которые не были отсканированы и вернулись отправителю.
	Returned []string
}

// ReceiveParcel принимает одну посылку внутри финализированной отправки.
// Когда приняты все посылки, отправка завершается и долги пересчитываются.
func (r *Reception) ReceiveParcel(ctx context.Context, dispatchID int64, trackingNumber string, actor entities.Actor) (*entities.Dispatch, error) {
	if dispatchID <= 0 {
		return nil, ErrInvalidDispatchID
	}
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, ErrInvalidTrackingNumber
	}

	scope := r.resolver.NewScope()
	defer scope.Clear()

	var (
		updated *entities.Dispatch
		changes metrics.Changes
	)
	err := r.txManager.Do(ctx, func(ctx context.Context) error {
		changes.Reset()

		dispatch, err := r.lockReceivable(ctx, dispatchID, actor)
		if err != nil {
			return err
		}

		parcel, err := r.parcels.GetByTrackingNumberForUpdate(ctx, trackingNumber)
		if err != nil {
			return fmt.Errorf("get parcel: %w", err)
		}
		if parcel.DispatchID == nil || *parcel.DispatchID != dispatch.ID {
			return ErrParcelNotInDispatch
		}
		if parcel.Status == entities.ParcelReceivedInDispatch {
			return ErrParcelAlreadyReceived
		}

		status := entities.ParcelReceivedInDispatch
		if _, err := r.parcels.Update(ctx, entities.ParcelModify{ID: &parcel.ID, Status: &status}); err != nil {
			return fmt.Errorf("mark parcel received: %w", err)
		}
		err = r.parcels.CreateEvents(ctx, []entities.ParcelEvent{{
			ParcelID:   parcel.ID,
			Type:       entities.EventReceivedInDispatch,
			Status:     status,
			DispatchID: &dispatch.ID,
			UserID:     actor.UserID,
			Notes:      "single scan",
		}})
		if err != nil {
			return fmt.Errorf("record parcel event: %w", err)
		}

		totals, err := r.parcels.GetDispatchTotals(ctx, dispatch.ID)
		if err != nil {
			return fmt.Errorf("get dispatch totals: %w", err)
		}

		next := entities.DeriveDispatchStatus(dispatch.Status, totals.ParcelsCount, totals.ReceivedParcelsCount)
		if next == entities.DispatchReceived {
			members, err := r.parcels.GetByDispatchID(ctx, dispatch.ID)
			if err != nil {
				return fmt.Errorf("get dispatch parcels: %w", err)
			}
			updated, _, err = r.complete(ctx, scope, dispatch, members, actor, false, &changes)
			return err
		}

		updated, err = r.dispatches.Update(ctx, entities.DispatchModify{
			ID:                   &dispatch.ID,
			Status:               &next,
			ReceivedParcelsCount: &totals.ReceivedParcelsCount,
		})
		if err != nil {
			return fmt.Errorf("update dispatch: %w", err)
		}
		if next != dispatch.Status {
			changes.Transition(next)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	changes.Flush()
	metrics.ReceptionParcelsTotal.WithLabelValues(entities.OutcomeReceived.String()).Inc()
	return updated, nil
}

func (r *Reception) GetReceptionStatus(ctx context.Context, dispatchID int64) (*Status, error) {
	if dispatchID <= 0 {
		return nil, ErrInvalidDispatchID
	}

	dispatch, err := r.dispatches.GetByID(ctx, dispatchID)
	if err != nil {
		return nil, fmt.Errorf("get dispatch: %w", err)
	}
	members, err := r.parcels.GetByDispatchID(ctx, dispatchID)
	if err != nil {
		return nil, fmt.Errorf("get dispatch parcels: %w", err)
	}

	status := &Status{
		Dispatch:                dispatch,
		TotalParcels:            len(members),
		ReceivedWeight:          decimal.Zero,
		ReceivedTrackingNumbers: []string{},
		PendingTrackingNumbers:  []string{},
	}
	for _, parcel := range members {
		if parcel.Status == entities.ParcelReceivedInDispatch {
			status.ReceivedParcels++
			status.ReceivedWeight = status.ReceivedWeight.Add(parcel.Weight)
			status.ReceivedTrackingNumbers = append(status.ReceivedTrackingNumbers, parcel.TrackingNumber)
			continue
		}
		status.PendingTrackingNumbers = append(status.PendingTrackingNumbers, parcel.TrackingNumber)
	}
	return status, nil
}

// FinalizeReception закрывает прием: неотсканированные посылки возвращаются в исходное состояние,
// фактические значения пересчитываются, при расхождении с заявленными статус DISCREPANCY.
func (r *Reception) FinalizeReception(ctx context.Context, dispatchID int64, actor entities.Actor) (*FinalizeResult, error) {
	if dispatchID <= 0 {
		return nil, ErrInvalidDispatchID
	}

	scope := r.resolver.NewScope()
	defer scope.Clear()

	var (
		result  *FinalizeResult
		changes metrics.Changes
	)
	err := r.txManager.Do(ctx, func(ctx context.Context) error {
		changes.Reset()

		dispatch, err := r.lockReceivable(ctx, dispatchID, actor)
		if err != nil {
			return err
		}

		members, err := r.parcels.GetByDispatchID(ctx, dispatch.ID)
		if err != nil {
			return fmt.Errorf("get dispatch parcels: %w", err)
		}

		result = &FinalizeResult{Returned: []string{}}
		received := make([]entities.Parcel, 0, len(members))
		for i := range members {
			if members[i].Status == entities.ParcelReceivedInDispatch {
				received = append(received, members[i])
				continue
			}
			if _, err := r.membership.Restore(ctx, &members[i], actor, "not received"); err != nil {
				return err
			}
			result.Returned = append(result.Returned, members[i].TrackingNumber)
		}

		updated, debts, err := r.complete(ctx, scope, dispatch, received, actor, true, &changes)
		if err != nil {
			return err
		}
		result.Dispatch = updated
		if debts != nil {
			result.Debts = debts.Debts
			result.Warnings = debts.Warnings
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	changes.Flush()
	r.log.Info("reception finalized",
		logger.NewField("dispatch", dispatchID),
		logger.NewField("status", result.Dispatch.Status.String()),
		logger.NewField("returned", len(result.Returned)),
	)
	return result, nil
}

func (r *Reception) lockReceivable(ctx context.Context, dispatchID int64, actor entities.Actor) (*entities.Dispatch, error) {
	dispatch, err := r.dispatches.GetByIDForUpdate(ctx, dispatchID)
	if err != nil {
		return nil, fmt.Errorf("get dispatch: %w", err)
	}
	if !dispatch.Status.IsInFlight() || dispatch.ReceiverAgencyID == nil {
		return nil, ErrDispatchNotReceivable
	}
	if !actor.ActsFor(*dispatch.ReceiverAgencyID) {
		return nil, ErrNotReceiver
	}
	return dispatch, nil
}

// complete завершает отправку: посылки переходят к получателю, фактическая стоимость
// пересчитывается, долги отправки отменяются и создаются заново.
func (r *Reception) complete(
	ctx context.Context,
	scope *hierarchy.Scope,
	dispatch *entities.Dispatch,
	received []entities.Parcel,
	actor entities.Actor,
	detectDiscrepancy bool,
	changes *metrics.Changes,
) (*entities.Dispatch, *ledger.Result, error) {
	receiverID := *dispatch.ReceiverAgencyID
	for _, parcel := range received {
		if _, err := r.parcels.Update(ctx, entities.ParcelModify{ID: &parcel.ID, AgencyID: &receiverID}); err != nil {
			return nil, nil, fmt.Errorf("move parcel %s to receiver: %w", parcel.TrackingNumber, err)
		}
	}

	actual, err := r.calculator.CalculateDispatchCost(ctx, scope, received, dispatch.SenderAgencyID, receiverID)
	if err != nil {
		return nil, nil, fmt.Errorf("calculate actual cost: %w", err)
	}

	candidate := *dispatch
	candidate.ReceivedParcelsCount = len(received)
	candidate.Weight = actual.Weight
	candidate.CostInCents = actual.TotalInCents

	status := entities.DispatchReceived
	if detectDiscrepancy && candidate.HasDiscrepancy() {
		status = entities.DispatchDiscrepancy
	}
	paymentStatus := entities.DerivePaymentStatus(dispatch.PaidInCents, actual.TotalInCents)
	now := time.Now().UTC()

	updated, err := r.dispatches.Update(ctx, entities.DispatchModify{
		ID:                   &dispatch.ID,
		Status:               &status,
		ReceivedParcelsCount: &candidate.ReceivedParcelsCount,
		Weight:               &candidate.Weight,
		CostInCents:          &candidate.CostInCents,
		PaymentStatus:        &paymentStatus,
		ReceivedByID:         &actor.UserID,
		ReceivedAt:           &now,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("update dispatch: %w", err)
	}
	changes.Transition(status)

	if _, err := r.ledger.CancelPending(ctx, []int64{dispatch.ID}); err != nil {
		return nil, nil, err
	}
	if len(received) == 0 {
		return updated, &ledger.Result{Warnings: actual.Warnings}, nil
	}

	debts, err := r.ledger.GenerateDispatchDebts(ctx, scope, receiverID, heldBy(received, dispatch.SenderAgencyID), dispatch.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("generate dispatch debts: %w", err)
	}
	changes.DebtsCreated(debts.Debts)
	debts.Warnings = append(actual.Warnings, debts.Warnings...)
	return updated, debts, nil
}

func heldBy(parcels []entities.Parcel, holderID int64) []entities.HeldParcel {
	held := make([]entities.HeldParcel, 0, len(parcels))
	for _, parcel := range parcels {
		held = append(held, entities.HeldParcel{Parcel: parcel, HolderAgencyID: holderID})
	}
	return held
}

func sumWeight(parcels []entities.Parcel) decimal.Decimal {
	total := decimal.Zero
	for _, parcel := range parcels {
		total = total.Add(parcel.Weight)
	}
	return total
}
