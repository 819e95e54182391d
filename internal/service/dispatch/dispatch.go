package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"shipping/internal/entities"
	"shipping/internal/pkg/metrics"
	"shipping/internal/service/hierarchy"
	"shipping/pkg/logger"
)

type Dispatch struct {
	repository Repository
	parcels    ParcelRepository
	membership Membership
	ledger     Ledger
	calculator CostCalculator
	resolver   Resolver
	txManager  TxManager
	log        serviceLogger
}

func New(
	repository Repository,
	parcels ParcelRepository,
	membership Membership,
	ledger Ledger,
	calculator CostCalculator,
	resolver Resolver,
	txManager TxManager,
	log serviceLogger,
) *Dispatch {
	return &Dispatch{
		repository: repository,
		parcels:    parcels,
		membership: membership,
		ledger:     ledger,
		calculator: calculator,
		resolver:   resolver,
		txManager:  txManager,
		log:        log.With(logger.NewField("component", "dispatch-service")),
	}
}

// FinalizeResult - отправка после финализации и предварительный журнал долгов.
type FinalizeResult struct {
	Dispatch *entities.Dispatch
	Debts    []entities.InterAgencyDebt
	Warnings []string
}

func (d *Dispatch) CreateDispatch(ctx context.Context, senderAgencyID int64, actor entities.Actor) (*entities.Dispatch, error) {
	if senderAgencyID <= 0 {
		return nil, ErrInvalidAgencyID
	}

	scope := d.resolver.NewScope()
	defer scope.Clear()

	var created *entities.Dispatch
	err := d.txManager.Do(ctx, func(ctx context.Context) error {
		if _, err := scope.GetAgency(ctx, senderAgencyID); err != nil {
			return err
		}
		if err := authorize(ctx, scope, senderAgencyID, actor); err != nil {
			return err
		}

		status := entities.DispatchDraft
		var err error
		created, err = d.repository.Create(ctx, entities.DispatchModify{
			Status:         &status,
			SenderAgencyID: &senderAgencyID,
			CreatedByID:    &actor.UserID,
		})
		if err != nil {
			return fmt.Errorf("create dispatch: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (d *Dispatch) GetDispatch(ctx context.Context, id int64) (*entities.Dispatch, error) {
	if id <= 0 {
		return nil, ErrInvalidDispatchID
	}
	dispatch, err := d.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get dispatch: %w", err)
	}
	return dispatch, nil
}

// FinalizeDispatch фиксирует получателя и заявленные значения, переводит отправку в DISPATCHED
// и строит предварительный журнал долгов по иерархии.
func (d *Dispatch) FinalizeDispatch(ctx context.Context, id, receiverAgencyID int64, actor entities.Actor) (*FinalizeResult, error) {
	if id <= 0 {
		return nil, ErrInvalidDispatchID
	}
	if receiverAgencyID <= 0 {
		return nil, ErrInvalidAgencyID
	}

	scope := d.resolver.NewScope()
	defer scope.Clear()

	var result *FinalizeResult
	err := d.txManager.Do(ctx, func(ctx context.Context) error {
		dispatch, err := d.repository.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("get dispatch: %w", err)
		}
		if dispatch.Status != entities.DispatchLoading {
			return ErrDispatchNotLoading
		}
		if err := authorize(ctx, scope, dispatch.SenderAgencyID, actor); err != nil {
			return err
		}
		if receiverAgencyID == dispatch.SenderAgencyID {
			return ErrSameAgency
		}

		receiver, err := scope.GetAgency(ctx, receiverAgencyID)
		if err != nil {
			return err
		}
		if !receiver.IsForwarder {
			isAncestor, err := scope.IsAncestor(ctx, receiver.ID, dispatch.SenderAgencyID)
			if err != nil {
				return err
			}
			if !isAncestor {
				return ErrReceiverNotAllowed
			}
		}

		parcels, err := d.parcels.GetByDispatchID(ctx, dispatch.ID)
		if err != nil {
			return fmt.Errorf("get dispatch parcels: %w", err)
		}

		declared, err := d.calculator.CalculateDispatchCost(ctx, scope, parcels, dispatch.SenderAgencyID, receiverAgencyID)
		if err != nil {
			return fmt.Errorf("calculate declared cost: %w", err)
		}

		if _, err := d.ledger.CancelPending(ctx, []int64{dispatch.ID}); err != nil {
			return err
		}
		debts, err := d.ledger.DetermineHierarchyDebts(ctx, scope, dispatch.SenderAgencyID, receiverAgencyID, parcels, dispatch.ID)
		if err != nil {
			return fmt.Errorf("determine hierarchy debts: %w", err)
		}

		status := entities.DispatchDispatched
		now := time.Now().UTC()
		updated, err := d.repository.Update(ctx, entities.DispatchModify{
			ID:                   &dispatch.ID,
			Status:               &status,
			ReceiverAgencyID:     &receiverAgencyID,
			DeclaredParcelsCount: &declared.ParcelsCount,
			DeclaredWeight:       &declared.Weight,
			DeclaredCostInCents:  &declared.TotalInCents,
			DispatchedAt:         &now,
		})
		if err != nil {
			return fmt.Errorf("update dispatch: %w", err)
		}

		result = &FinalizeResult{
			Dispatch: updated,
			Debts:    debts.Debts,
			Warnings: append(declared.Warnings, debts.Warnings...),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var changes metrics.Changes
	changes.Transition(entities.DispatchDispatched)
	changes.DebtsCreated(result.Debts)
	changes.Flush()
	d.log.Info("dispatch finalized",
		logger.NewField("dispatch", id),
		logger.NewField("receiver", receiverAgencyID),
		logger.NewField("parcels", result.Dispatch.DeclaredParcelsCount),
		logger.NewField("debts", len(result.Debts)),
	)
	return result, nil
}

// CancelDispatch возвращает посылки в исходное состояние и отменяет отправку до финализации.
func (d *Dispatch) CancelDispatch(ctx context.Context, id int64, actor entities.Actor) (*entities.Dispatch, error) {
	if id <= 0 {
		return nil, ErrInvalidDispatchID
	}

	scope := d.resolver.NewScope()
	defer scope.Clear()

	var cancelled *entities.Dispatch
	err := d.txManager.Do(ctx, func(ctx context.Context) error {
		dispatch, err := d.repository.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("get dispatch: %w", err)
		}
		if !dispatch.Status.IsMutable() {
			return ErrDispatchNotMutable
		}
		if err := authorize(ctx, scope, dispatch.SenderAgencyID, actor); err != nil {
			return err
		}

		if err := d.releaseParcels(ctx, dispatch, actor, "dispatch cancelled"); err != nil {
			return err
		}
		if _, err := d.ledger.CancelPending(ctx, []int64{dispatch.ID}); err != nil {
			return err
		}

		status := entities.DispatchCancelled
		zeroCount := 0
		zeroWeight := decimal.Zero
		cancelled, err = d.repository.Update(ctx, entities.DispatchModify{
			ID:                   &dispatch.ID,
			Status:               &status,
			DeclaredParcelsCount: &zeroCount,
			DeclaredWeight:       &zeroWeight,
		})
		if err != nil {
			return fmt.Errorf("update dispatch: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.DispatchTransitionsTotal.WithLabelValues(entities.DispatchCancelled.String()).Inc()
	return cancelled, nil
}

// DeleteDispatch удаляет черновик или отмененную отправку. Повышенная роль может удалить
// отправку в любом статусе: посылки принятой отправки возвращаются отправителю.
func (d *Dispatch) DeleteDispatch(ctx context.Context, id int64, actor entities.Actor) error {
	if id <= 0 {
		return ErrInvalidDispatchID
	}

	scope := d.resolver.NewScope()
	defer scope.Clear()

	return d.txManager.Do(ctx, func(ctx context.Context) error {
		dispatch, err := d.repository.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("get dispatch: %w", err)
		}
		if !dispatch.Status.IsDeletable() && !actor.CanBypass() {
			return ErrDispatchNotDeletable
		}
		if err := authorize(ctx, scope, dispatch.SenderAgencyID, actor); err != nil {
			return err
		}

		if dispatch.Status.IsCompleted() {
			err = d.returnToSender(ctx, dispatch, actor)
		} else {
			err = d.releaseParcels(ctx, dispatch, actor, "dispatch deleted")
		}
		if err != nil {
			return err
		}

		if _, err := d.ledger.CancelPending(ctx, []int64{dispatch.ID}); err != nil {
			return err
		}
		if err := d.repository.Delete(ctx, dispatch.ID); err != nil {
			return fmt.Errorf("delete dispatch: %w", err)
		}

		d.log.Info("dispatch deleted",
			logger.NewField("dispatch", dispatch.ID),
			logger.NewField("status", dispatch.Status.String()),
			logger.NewField("user", actor.UserID),
		)
		return nil
	})
}

// CleanupStaleDrafts удаляет пустые черновики старше maxAge.
func (d *Dispatch) CleanupStaleDrafts(ctx context.Context, maxAge time.Duration) (int64, error) {
	deleted, err := d.repository.DeleteEmptyDraftsBefore(ctx, time.Now().UTC().Add(-maxAge))
	if err != nil {
		return 0, fmt.Errorf("cleanup stale drafts: %w", err)
	}
	return deleted, nil
}

func (d *Dispatch) releaseParcels(ctx context.Context, dispatch *entities.Dispatch, actor entities.Actor, notes string) error {
	parcels, err := d.parcels.GetByDispatchID(ctx, dispatch.ID)
	if err != nil {
		return fmt.Errorf("get dispatch parcels: %w", err)
	}
	for i := range parcels {
		if _, err := d.membership.Restore(ctx, &parcels[i], actor, notes); err != nil {
			return err
		}
	}
	return nil
}

// returnToSender - принятая отправка удаляется: посылки возвращаются в агентство-отправитель
// с исправлением статуса.
func (d *Dispatch) returnToSender(ctx context.Context, dispatch *entities.Dispatch, actor entities.Actor) error {
	parcels, err := d.parcels.GetByDispatchID(ctx, dispatch.ID)
	if err != nil {
		return fmt.Errorf("get dispatch parcels: %w", err)
	}

	events := make([]entities.ParcelEvent, 0, len(parcels))
	for _, parcel := range parcels {
		history, err := d.parcels.GetEvents(ctx, parcel.ID)
		if err != nil {
			return fmt.Errorf("get parcel history: %w", err)
		}
		status := entities.StatusBeforeDispatch(history)

		_, err = d.parcels.Update(ctx, entities.ParcelModify{
			ID:       &parcel.ID,
			AgencyID: &dispatch.SenderAgencyID,
			Detach:   true,
			Status:   &status,
		})
		if err != nil {
			return fmt.Errorf("return parcel %s to sender: %w", parcel.TrackingNumber, err)
		}

		events = append(events, entities.ParcelEvent{
			ParcelID:   parcel.ID,
			Type:       entities.EventStatusCorrected,
			Status:     status,
			DispatchID: &dispatch.ID,
			UserID:     actor.UserID,
			Notes:      fmt.Sprintf("dispatch %d deleted, returned to agency %d", dispatch.ID, dispatch.SenderAgencyID),
		})
	}

	if len(events) == 0 {
		return nil
	}
	if err := d.parcels.CreateEvents(ctx, events); err != nil {
		return fmt.Errorf("record parcel events: %w", err)
	}
	return nil
}

func authorize(ctx context.Context, scope *hierarchy.Scope, agencyID int64, actor entities.Actor) error {
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
