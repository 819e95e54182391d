package reception

import (
	"context"
	"fmt"
	"time"

	"github.com/AlekSi/pointer"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"shipping/internal/entities"
	"shipping/internal/pkg/metrics"
	"shipping/internal/service/hierarchy"
	"shipping/internal/service/membership"
	"shipping/pkg/logger"
)

const (
	reasonDeleted         = "parcel is deleted"
	reasonAlreadyHeld     = "parcel is already held by the receiving agency"
	reasonAlreadyReceived = "parcel is already received in its dispatch"
	reasonOtherReceiver   = "parcel travels in a dispatch addressed to another agency"
	reasonNotReceivable   = "receiving agency may not receive from the holder agency"
	reasonNotFound        = "parcel not found"
)

// Summary - итог пакетного приема.
type Summary struct {
	BatchID string

	Scanned      int
	Received     int
	Skipped      int
	SurplusAdded int

	// ReceptionDispatches - отправки, в которых посылки физически приняты (RECEIVED).
	ReceptionDispatches []entities.Dispatch
	// SplitDispatches - исходные отправки, из которых выделена часть (PARTIAL_RECEIVED).
	SplitDispatches []entities.Dispatch
	// AccountingDispatches - учетные отправки holder -> billing sender без посылок.
	AccountingDispatches []entities.Dispatch

	Debts    []entities.InterAgencyDebt
	Outcomes []entities.ParcelOutcome
	Warnings []string
}

type candidate struct {
	parcel    entities.Parcel
	holderID  int64
	billingID int64
}

type dispatchGroup struct {
	dispatch entities.Dispatch
	scanned  []candidate
	surplus  []candidate
}

type looseGroup struct {
	billingID int64
	parcels   []candidate
}

type debtUnit struct {
	dispatchID int64
	receiverID int64
	parcels    []entities.HeldParcel
}

type provisionalUnit struct {
	dispatchID int64
	senderID   int64
	receiverID int64
	parcels    []entities.Parcel
}

type receptionRun struct {
	*Reception

	scope    *hierarchy.Scope
	receiver *entities.Agency
	actor    entities.Actor
	notes    string
	now      time.Time

	summary     *Summary
	outcomes    map[string]entities.ParcelOutcome
	touched     []int64
	units       []debtUnit
	provisional []provisionalUnit
	changes     metrics.Changes
}

// SmartReceive принимает пакет отсканированных трек-номеров агентством-получателем.
// Посылки раскладываются по отправкам, в которых они едут, и по агентствам-отправителям
// для посылок без отправки. Весь пакет выполняется в одной транзакции, а плохая строка
// не прерывает пакет и попадает в Outcomes как skipped.
func (r *Reception) SmartReceive(ctx context.Context, trackingNumbers []string, receiverID int64, actor entities.Actor) (*Summary, error) {
	if receiverID <= 0 {
		return nil, ErrInvalidAgencyID
	}
	numbers := membership.NormalizeTrackingNumbers(trackingNumbers)
	if len(numbers) == 0 {
		return nil, ErrEmptyTrackingNumbers
	}
	if !actor.ActsFor(receiverID) {
		return nil, ErrNotReceiver
	}

	scope := r.resolver.NewScope()
	defer scope.Clear()

	batchID := uuid.NewString()

	var (
		summary *Summary
		changes *metrics.Changes
	)
	err := r.txManager.Do(ctx, func(ctx context.Context) error {
		receiver, err := scope.GetAgency(ctx, receiverID)
		if err != nil {
			return fmt.Errorf("get receiver agency: %w", err)
		}

		run := &receptionRun{
			Reception: r,
			scope:     scope,
			receiver:  receiver,
			actor:     actor,
			notes:     "smart receive batch " + batchID,
			now:       time.Now().UTC(),
			summary:   &Summary{BatchID: batchID, Scanned: len(numbers)},
			outcomes:  make(map[string]entities.ParcelOutcome, len(numbers)),
		}
		if err := run.execute(ctx, numbers); err != nil {
			return err
		}
		summary = run.summary
		changes = &run.changes
		return nil
	})
	if err != nil {
		return nil, err
	}

	changes.DebtsCreated(summary.Debts)
	changes.Flush()

	for _, outcome := range summary.Outcomes {
		metrics.ReceptionParcelsTotal.WithLabelValues(outcome.Outcome.String()).Inc()
	}
	r.log.Info("smart receive completed",
		logger.NewField("batch", batchID),
		logger.NewField("receiver", receiverID),
		logger.NewField("scanned", summary.Scanned),
		logger.NewField("received", summary.Received),
		logger.NewField("skipped", summary.Skipped),
		logger.NewField("debts", len(summary.Debts)),
	)
	return summary, nil
}

func (run *receptionRun) execute(ctx context.Context, numbers []string) error {
	groups, loose, err := run.classify(ctx, numbers)
	if err != nil {
		return err
	}

	loose = run.foldSurplus(groups, loose)

	for _, group := range groups {
		if err := run.receiveDispatchGroup(ctx, group); err != nil {
			return err
		}
	}
	for _, group := range loose {
		if err := run.receiveLooseGroup(ctx, group); err != nil {
			return err
		}
	}

	if err := run.writeLedger(ctx); err != nil {
		return err
	}

	run.summary.Outcomes = make([]entities.ParcelOutcome, 0, len(numbers))
	for _, number := range numbers {
		outcome := run.outcomes[number]
		switch outcome.Outcome {
		case entities.OutcomeSkipped:
			run.summary.Skipped++
		case entities.OutcomeSurplus:
			run.summary.SurplusAdded++
			run.summary.Received++
		default:
			run.summary.Received++
		}
		run.summary.Outcomes = append(run.summary.Outcomes, outcome)
	}
	return nil
}

// classify загружает посылки с их отправками и раскладывает их по группам.
func (run *receptionRun) classify(ctx context.Context, numbers []string) ([]*dispatchGroup, []*looseGroup, error) {
	parcels, err := run.parcels.GetByTrackingNumbersForUpdate(ctx, numbers)
	if err != nil {
		return nil, nil, fmt.Errorf("get parcels: %w", err)
	}

	byNumber := make(map[string]entities.Parcel, len(parcels))
	dispatchIDs := make([]int64, 0, len(parcels))
	seen := make(map[int64]struct{})
	for _, parcel := range parcels {
		byNumber[parcel.TrackingNumber] = parcel
		if parcel.DispatchID == nil {
			continue
		}
		if _, ok := seen[*parcel.DispatchID]; !ok {
			seen[*parcel.DispatchID] = struct{}{}
			dispatchIDs = append(dispatchIDs, *parcel.DispatchID)
		}
	}

	dispatches := make(map[int64]*entities.Dispatch, len(dispatchIDs))
	if len(dispatchIDs) > 0 {
		loaded, err := run.dispatches.GetByIDsForUpdate(ctx, dispatchIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("get parcel dispatches: %w", err)
		}
		for i := range loaded {
			dispatches[loaded[i].ID] = &loaded[i]
		}
	}

	var (
		groups     []*dispatchGroup
		groupIndex = make(map[int64]*dispatchGroup)
		loose      []*looseGroup
		looseIndex = make(map[int64]*looseGroup)
	)
	for _, number := range numbers {
		parcel, ok := byNumber[number]
		if !ok {
			run.skip(number, reasonNotFound)
			continue
		}
		if parcel.IsDeleted() {
			run.skip(number, reasonDeleted)
			continue
		}

		tracked := entities.TrackedParcel{Parcel: parcel}
		if parcel.DispatchID != nil {
			tracked.Dispatch = dispatches[*parcel.DispatchID]
		}
		holderID := tracked.HolderAgencyID()
		active := tracked.ActiveDispatch()

		if holderID == run.receiver.ID {
			run.skip(number, reasonAlreadyHeld)
			continue
		}
		if active != nil && active.ReceiverAgencyID != nil && *active.ReceiverAgencyID != run.receiver.ID {
			run.skip(number, reasonOtherReceiver)
			continue
		}
		allowed, err := run.scope.CanReceiveFrom(ctx, run.receiver, holderID)
		if err != nil {
			return nil, nil, fmt.Errorf("check holder %d: %w", holderID, err)
		}
		if !allowed {
			run.skip(number, reasonNotReceivable)
			continue
		}

		if active != nil {
			group, ok := groupIndex[active.ID]
			if !ok {
				group = &dispatchGroup{dispatch: *active}
				groupIndex[active.ID] = group
				groups = append(groups, group)
			}
			group.scanned = append(group.scanned, candidate{parcel: parcel, holderID: holderID, billingID: holderID})
			continue
		}

		billingID, err := run.scope.BillingSender(ctx, holderID, run.receiver.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("resolve billing sender for %d: %w", holderID, err)
		}
		group, ok := looseIndex[billingID]
		if !ok {
			group = &looseGroup{billingID: billingID}
			looseIndex[billingID] = group
			loose = append(loose, group)
		}
		group.parcels = append(group.parcels, candidate{parcel: parcel, holderID: holderID, billingID: billingID})
	}
	return groups, loose, nil
}

// foldSurplus присоединяет посылки без отправки к отсканированной отправке того же отправителя.
func (run *receptionRun) foldSurplus(groups []*dispatchGroup, loose []*looseGroup) []*looseGroup {
	bySender := make(map[int64]*dispatchGroup, len(groups))
	for _, group := range groups {
		if _, ok := bySender[group.dispatch.SenderAgencyID]; !ok {
			bySender[group.dispatch.SenderAgencyID] = group
		}
	}

	remaining := loose[:0]
	for _, group := range loose {
		target, ok := bySender[group.billingID]
		if !ok {
			remaining = append(remaining, group)
			continue
		}
		target.surplus = append(target.surplus, group.parcels...)
	}
	return remaining
}

func (run *receptionRun) receiveDispatchGroup(ctx context.Context, group *dispatchGroup) error {
	original := group.dispatch
	members, err := run.parcels.GetByDispatchID(ctx, original.ID)
	if err != nil {
		return fmt.Errorf("get dispatch %d parcels: %w", original.ID, err)
	}

	// повторный скан уже принятой посылки не пишет второе событие
	fresh := make([]candidate, 0, len(group.scanned))
	scannedIDs := make(map[int64]struct{}, len(group.scanned))
	for _, c := range group.scanned {
		if c.parcel.Status == entities.ParcelReceivedInDispatch {
			run.skip(c.parcel.TrackingNumber, reasonAlreadyReceived)
			continue
		}
		fresh = append(fresh, c)
		scannedIDs[c.parcel.ID] = struct{}{}
	}
	if len(fresh) == 0 && len(group.surplus) == 0 {
		return nil
	}
	run.touched = append(run.touched, original.ID)

	var remaining, alreadyReceived []entities.Parcel
	for _, member := range members {
		if _, ok := scannedIDs[member.ID]; ok {
			continue
		}
		if member.Status == entities.ParcelReceivedInDispatch {
			alreadyReceived = append(alreadyReceived, member)
			continue
		}
		remaining = append(remaining, member)
	}

	target := original
	if len(remaining) > 0 {
		child, err := run.dispatches.Create(ctx, entities.DispatchModify{
			Status:               pointer.To(entities.DispatchReceiving),
			SenderAgencyID:       &original.SenderAgencyID,
			ReceiverAgencyID:     &run.receiver.ID,
			OriginDispatchID:     &original.ID,
			DeclaredParcelsCount: pointer.ToInt(len(fresh) + len(group.surplus)),
			DeclaredWeight:       pointer.To(sumCandidates(fresh, group.surplus)),
			CreatedByID:          &run.actor.UserID,
			DispatchedAt:         &run.now,
		})
		if err != nil {
			return fmt.Errorf("create split dispatch for %d: %w", original.ID, err)
		}
		target = *child
		run.touched = append(run.touched, child.ID)
	}

	received := make([]entities.Parcel, 0, len(members)+len(group.surplus))
	for _, c := range fresh {
		parcel, err := run.moveIn(ctx, c.parcel, target.ID, entities.OutcomeReceived)
		if err != nil {
			return err
		}
		received = append(received, *parcel)
	}
	for _, c := range group.surplus {
		parcel, err := run.moveIn(ctx, c.parcel, target.ID, entities.OutcomeSurplus)
		if err != nil {
			return err
		}
		received = append(received, *parcel)
	}
	if len(remaining) == 0 {
		// отправка закрывается целиком, принятые ранее посылки тоже переходят получателю
		for _, parcel := range alreadyReceived {
			moved, err := run.parcels.Update(ctx, entities.ParcelModify{ID: &parcel.ID, AgencyID: &run.receiver.ID})
			if err != nil {
				return fmt.Errorf("move parcel %s to receiver: %w", parcel.TrackingNumber, err)
			}
			received = append(received, *moved)
		}
	}

	completed, err := run.markReceived(ctx, target, received)
	if err != nil {
		return err
	}
	run.summary.ReceptionDispatches = append(run.summary.ReceptionDispatches, *completed)
	run.units = append(run.units, debtUnit{
		dispatchID: completed.ID,
		receiverID: run.receiver.ID,
		parcels:    heldBy(received, completed.SenderAgencyID),
	})
	if err := run.accountingLegs(ctx, completed.ID, group.surplus); err != nil {
		return err
	}

	if len(remaining) == 0 {
		return nil
	}
	return run.splitOriginal(ctx, original, append(remaining, alreadyReceived...))
}

// splitOriginal пересчитывает исходную отправку по оставшимся посылкам.
func (run *receptionRun) splitOriginal(ctx context.Context, original entities.Dispatch, remaining []entities.Parcel) error {
	receiverID := run.receiver.ID
	if original.ReceiverAgencyID != nil {
		receiverID = *original.ReceiverAgencyID
	}

	declared, err := run.calculator.CalculateDispatchCost(ctx, run.scope, remaining, original.SenderAgencyID, receiverID)
	if err != nil {
		return fmt.Errorf("calculate remaining cost for %d: %w", original.ID, err)
	}
	run.summary.Warnings = append(run.summary.Warnings, declared.Warnings...)

	receivedCount := 0
	for _, parcel := range remaining {
		if parcel.Status == entities.ParcelReceivedInDispatch {
			receivedCount++
		}
	}

	status := entities.DispatchPartialReceived
	updated, err := run.dispatches.Update(ctx, entities.DispatchModify{
		ID:                   &original.ID,
		Status:               &status,
		ReceiverAgencyID:     &receiverID,
		DeclaredParcelsCount: pointer.ToInt(len(remaining)),
		DeclaredWeight:       pointer.To(sumWeight(remaining)),
		DeclaredCostInCents:  &declared.TotalInCents,
		ReceivedParcelsCount: &receivedCount,
	})
	if err != nil {
		return fmt.Errorf("update split dispatch %d: %w", original.ID, err)
	}
	run.changes.Transition(status)

	run.summary.SplitDispatches = append(run.summary.SplitDispatches, *updated)
	run.provisional = append(run.provisional, provisionalUnit{
		dispatchID: updated.ID,
		senderID:   updated.SenderAgencyID,
		receiverID: receiverID,
		parcels:    remaining,
	})
	return nil
}

// receiveLooseGroup создает новую принятую отправку от billing sender для посылок без отправки.
func (run *receptionRun) receiveLooseGroup(ctx context.Context, group *looseGroup) error {
	created, err := run.dispatches.Create(ctx, entities.DispatchModify{
		Status:               pointer.To(entities.DispatchReceiving),
		SenderAgencyID:       &group.billingID,
		ReceiverAgencyID:     &run.receiver.ID,
		DeclaredParcelsCount: pointer.ToInt(len(group.parcels)),
		DeclaredWeight:       pointer.To(sumCandidates(group.parcels)),
		CreatedByID:          &run.actor.UserID,
		DispatchedAt:         &run.now,
	})
	if err != nil {
		return fmt.Errorf("create reception dispatch from %d: %w", group.billingID, err)
	}
	run.touched = append(run.touched, created.ID)

	received := make([]entities.Parcel, 0, len(group.parcels))
	for _, c := range group.parcels {
		parcel, err := run.moveIn(ctx, c.parcel, created.ID, entities.OutcomeReceived)
		if err != nil {
			return err
		}
		received = append(received, *parcel)
	}

	completed, err := run.markReceived(ctx, *created, received)
	if err != nil {
		return err
	}
	run.summary.ReceptionDispatches = append(run.summary.ReceptionDispatches, *completed)
	run.units = append(run.units, debtUnit{
		dispatchID: completed.ID,
		receiverID: run.receiver.ID,
		parcels:    heldBy(received, group.billingID),
	})
	return run.accountingLegs(ctx, completed.ID, group.parcels)
}

// accountingLegs создает учетные отправки holder -> billing sender для пропущенных промежуточных звеньев.
func (run *receptionRun) accountingLegs(ctx context.Context, physicalID int64, parcels []candidate) error {
	var holders []int64
	byHolder := make(map[int64][]candidate)
	for _, c := range parcels {
		if c.holderID == c.billingID {
			continue
		}
		if _, ok := byHolder[c.holderID]; !ok {
			holders = append(holders, c.holderID)
		}
		byHolder[c.holderID] = append(byHolder[c.holderID], c)
	}

	for _, holderID := range holders {
		leg := byHolder[holderID]
		billingID := leg[0].billingID
		legParcels := make([]entities.Parcel, 0, len(leg))
		for _, c := range leg {
			legParcels = append(legParcels, c.parcel)
		}

		legCost, err := run.calculator.CalculateDispatchCost(ctx, run.scope, legParcels, holderID, billingID)
		if err != nil {
			return fmt.Errorf("calculate accounting cost %d->%d: %w", holderID, billingID, err)
		}
		run.summary.Warnings = append(run.summary.Warnings, legCost.Warnings...)

		weight := sumWeight(legParcels)
		paymentStatus := entities.DerivePaymentStatus(0, legCost.TotalInCents)
		accounting, err := run.dispatches.Create(ctx, entities.DispatchModify{
			Status:               pointer.To(entities.DispatchReceived),
			SenderAgencyID:       &holderID,
			ReceiverAgencyID:     &billingID,
			OriginDispatchID:     &physicalID,
			DeclaredParcelsCount: pointer.ToInt(len(legParcels)),
			DeclaredWeight:       &weight,
			DeclaredCostInCents:  &legCost.TotalInCents,
			Weight:               &weight,
			CostInCents:          &legCost.TotalInCents,
			ReceivedParcelsCount: pointer.ToInt(len(legParcels)),
			PaymentStatus:        &paymentStatus,
			CreatedByID:          &run.actor.UserID,
			ReceivedByID:         &run.actor.UserID,
			DispatchedAt:         &run.now,
			ReceivedAt:           &run.now,
		})
		if err != nil {
			return fmt.Errorf("create accounting dispatch %d->%d: %w", holderID, billingID, err)
		}
		run.touched = append(run.touched, accounting.ID)
		run.summary.AccountingDispatches = append(run.summary.AccountingDispatches, *accounting)
		run.units = append(run.units, debtUnit{
			dispatchID: accounting.ID,
			receiverID: billingID,
			parcels:    heldBy(legParcels, holderID),
		})
	}
	return nil
}

// moveIn отмечает посылку принятой в отправке и передает ее получателю.
func (run *receptionRun) moveIn(ctx context.Context, parcel entities.Parcel, dispatchID int64, outcome entities.OutcomeKind) (*entities.Parcel, error) {
	status := entities.ParcelReceivedInDispatch
	updated, err := run.parcels.Update(ctx, entities.ParcelModify{
		ID:         &parcel.ID,
		AgencyID:   &run.receiver.ID,
		DispatchID: &dispatchID,
		Status:     &status,
	})
	if err != nil {
		return nil, fmt.Errorf("receive parcel %s: %w", parcel.TrackingNumber, err)
	}
	err = run.parcels.CreateEvents(ctx, []entities.ParcelEvent{{
		ParcelID:   parcel.ID,
		Type:       entities.EventReceivedInDispatch,
		Status:     status,
		DispatchID: &dispatchID,
		UserID:     run.actor.UserID,
		Notes:      run.notes,
	}})
	if err != nil {
		return nil, fmt.Errorf("record parcel %s event: %w", parcel.TrackingNumber, err)
	}

	run.outcomes[parcel.TrackingNumber] = entities.ParcelOutcome{
		TrackingNumber: parcel.TrackingNumber,
		Outcome:        outcome,
		DispatchID:     &dispatchID,
	}
	return updated, nil
}

// markReceived фиксирует фактические значения и переводит отправку в RECEIVED.
func (run *receptionRun) markReceived(ctx context.Context, dispatch entities.Dispatch, received []entities.Parcel) (*entities.Dispatch, error) {
	actual, err := run.calculator.CalculateDispatchCost(ctx, run.scope, received, dispatch.SenderAgencyID, run.receiver.ID)
	if err != nil {
		return nil, fmt.Errorf("calculate actual cost for %d: %w", dispatch.ID, err)
	}
	run.summary.Warnings = append(run.summary.Warnings, actual.Warnings...)

	status := entities.DispatchReceived
	count := len(received)
	paymentStatus := entities.DerivePaymentStatus(dispatch.PaidInCents, actual.TotalInCents)
	modify := entities.DispatchModify{
		ID:                   &dispatch.ID,
		Status:               &status,
		ReceiverAgencyID:     &run.receiver.ID,
		Weight:               &actual.Weight,
		CostInCents:          &actual.TotalInCents,
		ReceivedParcelsCount: &count,
		PaymentStatus:        &paymentStatus,
		ReceivedByID:         &run.actor.UserID,
		ReceivedAt:           &run.now,
	}
	if dispatch.DispatchedAt == nil {
		modify.DispatchedAt = &run.now
	}
	if dispatch.OriginDispatchID != nil || dispatch.DeclaredCostInCents == 0 {
		modify.DeclaredCostInCents = &actual.TotalInCents
	}

	updated, err := run.dispatches.Update(ctx, modify)
	if err != nil {
		return nil, fmt.Errorf("complete dispatch %d: %w", dispatch.ID, err)
	}
	run.changes.Transition(status)
	return updated, nil
}

// writeLedger отменяет прежние PENDING долги затронутых отправок и создает новые.
func (run *receptionRun) writeLedger(ctx context.Context) error {
	if len(run.touched) == 0 {
		return nil
	}
	if _, err := run.ledger.CancelPending(ctx, run.touched); err != nil {
		return err
	}

	for _, unit := range run.units {
		result, err := run.ledger.GenerateDispatchDebts(ctx, run.scope, unit.receiverID, unit.parcels, unit.dispatchID)
		if err != nil {
			return fmt.Errorf("generate debts for dispatch %d: %w", unit.dispatchID, err)
		}
		run.summary.Debts = append(run.summary.Debts, result.Debts...)
		run.summary.Warnings = append(run.summary.Warnings, result.Warnings...)
	}
	for _, unit := range run.provisional {
		result, err := run.ledger.DetermineHierarchyDebts(ctx, run.scope, unit.senderID, unit.receiverID, unit.parcels, unit.dispatchID)
		if err != nil {
			return fmt.Errorf("determine provisional debts for dispatch %d: %w", unit.dispatchID, err)
		}
		run.summary.Debts = append(run.summary.Debts, result.Debts...)
		run.summary.Warnings = append(run.summary.Warnings, result.Warnings...)
	}
	return nil
}

func (run *receptionRun) skip(trackingNumber, reason string) {
	run.outcomes[trackingNumber] = entities.ParcelOutcome{
		TrackingNumber: trackingNumber,
		Outcome:        entities.OutcomeSkipped,
		Reason:         reason,
	}
}

func sumCandidates(sets ...[]candidate) decimal.Decimal {
	total := decimal.Zero
	for _, set := range sets {
		for _, c := range set {
			total = total.Add(c.parcel.Weight)
		}
	}
	return total
}
