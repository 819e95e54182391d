package membership

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shipping/internal/entities"
	"shipping/internal/pkg/metrics"
	"shipping/internal/service/hierarchy"
	"shipping/pkg/logger"
)

type Tracker struct {
	parcels    ParcelRepository
	dispatches DispatchRepository
	ledger     Ledger
	calculator CostCalculator
	resolver   Resolver
	txManager  TxManager
	log        trackerLogger
}

func New(
	parcels ParcelRepository,
	dispatches DispatchRepository,
	ledger Ledger,
	calculator CostCalculator,
	resolver Resolver,
	txManager TxManager,
	log trackerLogger,
) *Tracker {
	return &Tracker{
		parcels:    parcels,
		dispatches: dispatches,
		ledger:     ledger,
		calculator: calculator,
		resolver:   resolver,
		txManager:  txManager,
		log:        log.With(logger.NewField("component", "membership-tracker")),
	}
}

func (t *Tracker) AddParcel(ctx context.Context, trackingNumber string, dispatchID int64, actor entities.Actor) (*entities.Parcel, error) {
	if !isValidTrackingNumber(trackingNumber) {
		return nil, ErrInvalidTrackingNumber
	}
	if dispatchID <= 0 {
		return nil, ErrInvalidDispatchID
	}
	trackingNumber = strings.TrimSpace(trackingNumber)

	scope := t.resolver.NewScope()
	defer scope.Clear()

	var (
		added   *entities.Parcel
		changes metrics.Changes
	)
	err := t.txManager.Do(ctx, func(ctx context.Context) error {
		changes.Reset()

		dispatch, err := t.lockMutableDispatch(ctx, scope, dispatchID, actor)
		if err != nil {
			return err
		}

		parcel, err := t.parcels.GetByTrackingNumberForUpdate(ctx, trackingNumber)
		if err != nil {
			return fmt.Errorf("get parcel: %w", err)
		}

		if err := t.checkAttachable(ctx, scope, parcel, dispatch, actor); err != nil {
			return err
		}

		added, err = t.Attach(ctx, parcel, dispatch.ID, actor, "")
		if err != nil {
			return err
		}

		_, err = t.recalculate(ctx, scope, dispatch, &changes)
		return err
	})
	if err != nil {
		return nil, err
	}

	changes.Flush()
	return added, nil
}

// AddParcelsByOrder добавляет все посылки заказа. Непригодные посылки не валят операцию,
// а попадают в результат со статусом skipped.
func (t *Tracker) AddParcelsByOrder(ctx context.Context, orderID, dispatchID int64, actor entities.Actor) ([]entities.ParcelOutcome, error) {
	if orderID <= 0 {
		return nil, ErrInvalidOrderID
	}
	if dispatchID <= 0 {
		return nil, ErrInvalidDispatchID
	}

	scope := t.resolver.NewScope()
	defer scope.Clear()

	var (
		outcomes []entities.ParcelOutcome
		changes  metrics.Changes
	)
	err := t.txManager.Do(ctx, func(ctx context.Context) error {
		outcomes = nil
		changes.Reset()

		dispatch, err := t.lockMutableDispatch(ctx, scope, dispatchID, actor)
		if err != nil {
			return err
		}

		parcels, err := t.parcels.GetByOrderIDForUpdate(ctx, orderID)
		if err != nil {
			return fmt.Errorf("get order parcels: %w", err)
		}
		if len(parcels) == 0 {
			return ErrOrderHasNoParcels
		}

		added := 0
		for i := range parcels {
			parcel := &parcels[i]
			outcome := entities.ParcelOutcome{TrackingNumber: parcel.TrackingNumber}

			err := t.checkAttachable(ctx, scope, parcel, dispatch, actor)
			switch {
			case err == nil:
				if _, err := t.Attach(ctx, parcel, dispatch.ID, actor, fmt.Sprintf("order %d", orderID)); err != nil {
					return err
				}
				outcome.Outcome = entities.OutcomeAdded
				outcome.DispatchID = &dispatch.ID
				added++
			case isRowError(err):
				outcome.Outcome = entities.OutcomeSkipped
				outcome.Reason = err.Error()
			default:
				return err
			}
			outcomes = append(outcomes, outcome)
		}

		if added > 0 {
			if _, err := t.recalculate(ctx, scope, dispatch, &changes); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	changes.Flush()
	return outcomes, nil
}

func (t *Tracker) RemoveParcel(ctx context.Context, trackingNumber string, actor entities.Actor) (*entities.Parcel, error) {
	if !isValidTrackingNumber(trackingNumber) {
		return nil, ErrInvalidTrackingNumber
	}
	trackingNumber = strings.TrimSpace(trackingNumber)

	scope := t.resolver.NewScope()
	defer scope.Clear()

	var (
		removed *entities.Parcel
		changes metrics.Changes
	)
	err := t.txManager.Do(ctx, func(ctx context.Context) error {
		changes.Reset()

		parcel, err := t.parcels.GetByTrackingNumberForUpdate(ctx, trackingNumber)
		if err != nil {
			return fmt.Errorf("get parcel: %w", err)
		}
		if parcel.DispatchID == nil {
			return ErrParcelNotInDispatch
		}

		dispatch, err := t.dispatches.GetByIDForUpdate(ctx, *parcel.DispatchID)
		if err != nil {
			return fmt.Errorf("get dispatch: %w", err)
		}
		// из завершенной отправки посылка уже выгружена у получателя
		if dispatch.Status.IsTerminal() {
			return ErrParcelNotInDispatch
		}
		if !dispatch.Status.IsMutable() && !actor.CanBypass() {
			return ErrDispatchNotMutable
		}
		if err := t.authorize(ctx, scope, dispatch.SenderAgencyID, actor); err != nil {
			return err
		}

		removed, err = t.Restore(ctx, parcel, actor, "")
		if err != nil {
			return err
		}

		_, err = t.recalculate(ctx, scope, dispatch, &changes)
		return err
	})
	if err != nil {
		return nil, err
	}

	changes.Flush()
	return removed, nil
}

// Attach привязывает посылку к отправке и пишет ADDED_TO_DISPATCH.
// Должен вызываться внутри транзакции.
func (t *Tracker) Attach(ctx context.Context, parcel *entities.Parcel, dispatchID int64, actor entities.Actor, notes string) (*entities.Parcel, error) {
	status := entities.ParcelInDispatch
	updated, err := t.parcels.Update(ctx, entities.ParcelModify{
		ID:         &parcel.ID,
		DispatchID: &dispatchID,
		Status:     &status,
	})
	if err != nil {
		return nil, fmt.Errorf("attach parcel %s: %w", parcel.TrackingNumber, err)
	}

	err = t.parcels.CreateEvents(ctx, []entities.ParcelEvent{{
		ParcelID:   parcel.ID,
		Type:       entities.EventAddedToDispatch,
		Status:     status,
		DispatchID: &dispatchID,
		UserID:     actor.UserID,
		Notes:      notes,
	}})
	if err != nil {
		return nil, fmt.Errorf("record parcel event: %w", err)
	}
	return updated, nil
}

// Restore отвязывает посылку от отправки и возвращает статус, который был до нее.
// Должен вызываться внутри транзакции.
func (t *Tracker) Restore(ctx context.Context, parcel *entities.Parcel, actor entities.Actor, notes string) (*entities.Parcel, error) {
	events, err := t.parcels.GetEvents(ctx, parcel.ID)
	if err != nil {
		return nil, fmt.Errorf("get parcel history: %w", err)
	}
	status := entities.StatusBeforeDispatch(events)

	restored, err := t.parcels.Update(ctx, entities.ParcelModify{
		ID:     &parcel.ID,
		Detach: true,
		Status: &status,
	})
	if err != nil {
		return nil, fmt.Errorf("detach parcel %s: %w", parcel.TrackingNumber, err)
	}

	err = t.parcels.CreateEvents(ctx, []entities.ParcelEvent{{
		ParcelID:   parcel.ID,
		Type:       entities.EventRemovedFromDispatch,
		Status:     status,
		DispatchID: parcel.DispatchID,
		UserID:     actor.UserID,
		Notes:      notes,
	}})
	if err != nil {
		return nil, fmt.Errorf("record parcel event: %w", err)
	}
	return restored, nil
}

// recalculate пересчитывает итоги отправки по фактическому составу и выводит статус.
// До финализации пересчитываются заявленные количество и вес, после - число принятых.
// Если состав отправки в пути правит повышенная роль, заново считаются заявленные итоги,
// стоимость и предварительный журнал долгов.
func (t *Tracker) recalculate(
	ctx context.Context,
	scope *hierarchy.Scope,
	dispatch *entities.Dispatch,
	changes *metrics.Changes,
) (*entities.Dispatch, error) {
	totals, err := t.parcels.GetDispatchTotals(ctx, dispatch.ID)
	if err != nil {
		return nil, fmt.Errorf("get dispatch totals: %w", err)
	}

	status := entities.DeriveDispatchStatus(dispatch.Status, totals.ParcelsCount, totals.ReceivedParcelsCount)
	modify := entities.DispatchModify{
		ID:     &dispatch.ID,
		Status: &status,
	}
	if dispatch.Status.IsMutable() {
		modify.DeclaredParcelsCount = &totals.ParcelsCount
		modify.DeclaredWeight = &totals.Weight
	} else {
		modify.ReceivedParcelsCount = &totals.ReceivedParcelsCount
	}
	if dispatch.Status.IsInFlight() && dispatch.ReceiverAgencyID != nil {
		declaredCost, err := t.redeclare(ctx, scope, dispatch, *dispatch.ReceiverAgencyID, changes)
		if err != nil {
			return nil, err
		}
		modify.DeclaredParcelsCount = &totals.ParcelsCount
		modify.DeclaredWeight = &totals.Weight
		modify.DeclaredCostInCents = &declaredCost
	}

	updated, err := t.dispatches.Update(ctx, modify)
	if err != nil {
		return nil, fmt.Errorf("update dispatch totals: %w", err)
	}
	if updated.Status != dispatch.Status {
		changes.Transition(updated.Status)
	}
	return updated, nil
}

// redeclare пересобирает заявленную стоимость и PENDING долги финализированной отправки
// по текущему составу. Возвращает новую заявленную стоимость.
func (t *Tracker) redeclare(
	ctx context.Context,
	scope *hierarchy.Scope,
	dispatch *entities.Dispatch,
	receiverAgencyID int64,
	changes *metrics.Changes,
) (int64, error) {
	parcels, err := t.parcels.GetByDispatchID(ctx, dispatch.ID)
	if err != nil {
		return 0, fmt.Errorf("get dispatch parcels: %w", err)
	}

	declared, err := t.calculator.CalculateDispatchCost(ctx, scope, parcels, dispatch.SenderAgencyID, receiverAgencyID)
	if err != nil {
		return 0, fmt.Errorf("calculate declared cost: %w", err)
	}

	if _, err := t.ledger.CancelPending(ctx, []int64{dispatch.ID}); err != nil {
		return 0, err
	}
	debts, err := t.ledger.DetermineHierarchyDebts(ctx, scope, dispatch.SenderAgencyID, receiverAgencyID, parcels, dispatch.ID)
	if err != nil {
		return 0, fmt.Errorf("determine hierarchy debts: %w", err)
	}
	changes.DebtsCreated(debts.Debts)

	t.log.Info("in-flight dispatch redeclared",
		logger.NewField("dispatch", dispatch.ID),
		logger.NewField("parcels", declared.ParcelsCount),
		logger.NewField("cost", declared.TotalInCents),
		logger.NewField("debts", len(debts.Debts)),
	)
	return declared.TotalInCents, nil
}

func (t *Tracker) lockMutableDispatch(ctx context.Context, scope *hierarchy.Scope, dispatchID int64, actor entities.Actor) (*entities.Dispatch, error) {
	dispatch, err := t.dispatches.GetByIDForUpdate(ctx, dispatchID)
	if err != nil {
		return nil, fmt.Errorf("get dispatch: %w", err)
	}
	if !dispatch.Status.IsMutable() && !(actor.CanBypass() && !dispatch.Status.IsTerminal()) {
		return nil, ErrDispatchNotMutable
	}
	if err := t.authorize(ctx, scope, dispatch.SenderAgencyID, actor); err != nil {
		return nil, err
	}
	return dispatch, nil
}

// checkAttachable проверяет посылку на свежих данных внутри транзакции.
func (t *Tracker) checkAttachable(
	ctx context.Context,
	scope *hierarchy.Scope,
	parcel *entities.Parcel,
	dispatch *entities.Dispatch,
	actor entities.Actor,
) error {
	if parcel.IsDeleted() {
		return ErrParcelDeleted
	}
	if parcel.DispatchID != nil && *parcel.DispatchID == dispatch.ID {
		return ErrParcelAlreadyAttached
	}

	if !actor.CanBypass() {
		owned, err := scope.GetOwnedAgencyIDs(ctx, dispatch.SenderAgencyID)
		if err != nil {
			return err
		}
		if !containsID(owned, parcel.AgencyID) {
			return ErrParcelNotOwned
		}
	}

	if !parcel.Status.IsDispatchable() {
		return ErrParcelStatusNotAllowed
	}

	if parcel.DispatchID != nil {
		current, err := t.dispatches.GetByIDForUpdate(ctx, *parcel.DispatchID)
		if err != nil && !errors.Is(err, entities.ErrDispatchNotFound) {
			return fmt.Errorf("get current dispatch: %w", err)
		}
		if err == nil && !current.Status.IsCompleted() {
			return ErrParcelInOtherDispatch
		}
	}
	return nil
}

// authorize - пользователь работает в агентстве отправителя или выше по иерархии.
func (t *Tracker) authorize(ctx context.Context, scope *hierarchy.Scope, agencyID int64, actor entities.Actor) error {
	if actor.CanBypass() {
		return nil
	}
	ok, err := scope.IsSelfOrDescendant(ctx, agencyID, actor.AgencyID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAgencyNotManaged
	}
	return nil
}

// isRowError - ошибка касается одной посылки и в пакетных операциях не прерывает пакет.
func isRowError(err error) bool {
	return errors.Is(err, entities.ErrInvalidState) ||
		errors.Is(err, entities.ErrForbidden) ||
		errors.Is(err, entities.ErrConflict)
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
