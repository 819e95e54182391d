package ledger

import (
	"context"
	"fmt"
	"time"

	"shipping/internal/entities"
	"shipping/pkg/logger"
)

type Ledger struct {
	repository Repository
	calculator CostCalculator
	txManager  TxManager
	log        ledgerLogger
}

func New(repository Repository, calculator CostCalculator, txManager TxManager, log ledgerLogger) *Ledger {
	return &Ledger{
		repository: repository,
		calculator: calculator,
		txManager:  txManager,
		log:        log.With(logger.NewField("component", "debt-ledger")),
	}
}

// Result - созданные долги и некритичные предупреждения (пробелы в ценах, иерархии).
type Result struct {
	Debts    []entities.InterAgencyDebt
	Warnings []string
}

func (r *Result) merge(other *Result) {
	if other == nil {
		return
	}
	r.Debts = append(r.Debts, other.Debts...)
	r.Warnings = append(r.Warnings, other.Warnings...)
}

// GenerateDispatchDebts создает по одному PENDING долгу holder -> receiver на каждую группу держателей.
// Стоимость группы считается по соглашению receiver -> holder, доставка один раз на заказ.
// Вызывается внутри транзакции приема.
func (l *Ledger) GenerateDispatchDebts(
	ctx context.Context,
	scope Hierarchy,
	receiverAgencyID int64,
	parcels []entities.HeldParcel,
	dispatchID int64,
) (*Result, error) {
	result := &Result{}

	holders, groups := groupHeld(parcels)
	debts := make([]entities.InterAgencyDebt, 0, len(holders))
	for _, holderID := range holders {
		if holderID == receiverAgencyID {
			continue
		}

		groupCost, err := l.calculator.CalculateDispatchCost(ctx, scope, groups[holderID], holderID, receiverAgencyID)
		if err != nil {
			return nil, fmt.Errorf("calculate cost for holder %d: %w", holderID, err)
		}
		result.Warnings = append(result.Warnings, groupCost.Warnings...)
		if groupCost.TotalInCents <= 0 {
			continue
		}

		debts = append(debts, newDebt(
			holderID,
			receiverAgencyID,
			nil,
			groupCost.TotalInCents,
			dispatchID,
			entities.RelationshipDispatchReception,
			fmt.Sprintf("reception of %d parcels", len(groups[holderID])),
		))
	}

	created, err := l.create(ctx, debts)
	if err != nil {
		return nil, err
	}
	result.Debts = created
	return result, nil
}

// DetermineHierarchyDebts строит предварительный журнал при финализации отправки:
// посылки группируются по агентству-создателю, долг идет вверх по иерархии до получателя.
// Если создатель уже оплатил посылку отправителю, вся ответственность переходит на отправителя.
func (l *Ledger) DetermineHierarchyDebts(
	ctx context.Context,
	scope Hierarchy,
	senderAgencyID, receiverAgencyID int64,
	parcels []entities.Parcel,
	dispatchID int64,
) (*Result, error) {
	result := &Result{}

	origins, groups := groupByOrigin(parcels)
	for _, originID := range origins {
		if originID == receiverAgencyID {
			continue
		}

		own := groups[originID]
		var shifted []entities.Parcel
		if originID != senderAgencyID {
			var err error
			own, shifted, err = l.splitSettled(ctx, originID, senderAgencyID, own)
			if err != nil {
				return nil, err
			}
		}

		if len(shifted) > 0 {
			part, err := l.senderLiability(ctx, scope, originID, senderAgencyID, receiverAgencyID, shifted, dispatchID)
			if err != nil {
				return nil, err
			}
			result.merge(part)
		}

		if len(own) > 0 {
			part, err := l.originLiability(ctx, scope, originID, receiverAgencyID, own, dispatchID)
			if err != nil {
				return nil, err
			}
			result.merge(part)
		}
	}

	return result, nil
}

// CancelPending отменяет PENDING долги отправок перед пересчетом.
func (l *Ledger) CancelPending(ctx context.Context, dispatchIDs []int64) (int64, error) {
	if len(dispatchIDs) == 0 {
		return 0, nil
	}
	cancelled, err := l.repository.CancelPendingByDispatchIDs(ctx, dispatchIDs)
	if err != nil {
		return 0, fmt.Errorf("cancel pending debts: %w", err)
	}
	return cancelled, nil
}

func (l *Ledger) SettleDebt(ctx context.Context, debtID int64, actor entities.Actor) (*entities.InterAgencyDebt, error) {
	if debtID <= 0 {
		return nil, ErrInvalidDebtID
	}

	var settled *entities.InterAgencyDebt
	err := l.txManager.Do(ctx, func(ctx context.Context) error {
		debt, err := l.repository.GetByIDForUpdate(ctx, debtID)
		if err != nil {
			return fmt.Errorf("get debt: %w", err)
		}
		if debt.Status != entities.DebtPending {
			return ErrDebtNotPending
		}
		if !actor.ActsFor(debt.CreditorAgencyID) {
			return ErrNotDebtCreditor
		}

		settled, err = l.repository.MarkPaid(ctx, debt.ID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("mark debt paid: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return settled, nil
}

func (l *Ledger) GetDispatchDebts(ctx context.Context, dispatchID int64) ([]entities.InterAgencyDebt, error) {
	if dispatchID <= 0 {
		return nil, ErrInvalidDispatchID
	}
	debts, err := l.repository.GetByDispatchID(ctx, dispatchID)
	if err != nil {
		return nil, fmt.Errorf("get dispatch debts: %w", err)
	}
	return debts, nil
}

// splitSettled отделяет посылки, за которые origin уже расплатился с sender.
func (l *Ledger) splitSettled(ctx context.Context, originID, senderID int64, parcels []entities.Parcel) ([]entities.Parcel, []entities.Parcel, error) {
	own := make([]entities.Parcel, 0, len(parcels))
	var shifted []entities.Parcel
	for _, parcel := range parcels {
		paid, err := l.repository.HasPaidDebtForParcel(ctx, originID, senderID, parcel.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("check paid debt for parcel %d: %w", parcel.ID, err)
		}
		if paid {
			shifted = append(shifted, parcel)
			continue
		}
		own = append(own, parcel)
	}
	return own, shifted, nil
}

func (l *Ledger) senderLiability(
	ctx context.Context,
	scope Hierarchy,
	originID, senderID, receiverID int64,
	parcels []entities.Parcel,
	dispatchID int64,
) (*Result, error) {
	groupCost, err := l.calculator.CalculateDispatchCost(ctx, scope, parcels, senderID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("calculate cost for sender %d: %w", senderID, err)
	}

	result := &Result{Warnings: groupCost.Warnings}
	if groupCost.TotalInCents <= 0 {
		return result, nil
	}

	debt := newDebt(senderID, receiverID, &originID, groupCost.TotalInCents, dispatchID,
		entities.RelationshipDirect,
		fmt.Sprintf("agency %d already settled with sender", originID))
	result.Debts, err = l.create(ctx, []entities.InterAgencyDebt{debt})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *Ledger) originLiability(
	ctx context.Context,
	scope Hierarchy,
	originID, receiverID int64,
	parcels []entities.Parcel,
	dispatchID int64,
) (*Result, error) {
	chain, err := scope.GetAgencyHierarchy(ctx, originID)
	if err != nil {
		return nil, fmt.Errorf("get hierarchy of agency %d: %w", originID, err)
	}

	level := -1
	for i, ancestorID := range chain {
		if ancestorID == receiverID {
			level = i
			break
		}
	}

	result := &Result{}
	if level < 0 {
		warning := fmt.Sprintf("agency %d is not an ancestor of agency %d, debt omitted", receiverID, originID)
		l.log.With(
			logger.NewField("origin_agency", originID),
			logger.NewField("receiver_agency", receiverID),
			logger.NewField("dispatch", dispatchID),
		).Warn("receiver not found in origin hierarchy")
		result.Warnings = append(result.Warnings, warning)
		return result, nil
	}

	groupCost, err := l.calculator.CalculateDispatchCost(ctx, scope, parcels, originID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("calculate cost for origin %d: %w", originID, err)
	}
	result.Warnings = append(result.Warnings, groupCost.Warnings...)
	if groupCost.TotalInCents <= 0 {
		return result, nil
	}

	amount := groupCost.TotalInCents
	var debts []entities.InterAgencyDebt
	switch level {
	case 0:
		debts = append(debts, newDebt(originID, receiverID, &originID, amount, dispatchID,
			entities.RelationshipParent, ""))
	case 1:
		// одна и та же сумма проходит через книги родителя и деда
		debts = append(debts,
			newDebt(originID, chain[0], &originID, amount, dispatchID,
				entities.RelationshipSkippedParent, fmt.Sprintf("skipped on the way to agency %d", receiverID)),
			newDebt(originID, receiverID, &originID, amount, dispatchID,
				entities.RelationshipGrandparent, ""),
		)
	default:
		debts = append(debts, newDebt(originID, receiverID, &originID, amount, dispatchID,
			entities.AncestorLevelRelationship(level+1), ""))
	}

	result.Debts, err = l.create(ctx, debts)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *Ledger) create(ctx context.Context, debts []entities.InterAgencyDebt) ([]entities.InterAgencyDebt, error) {
	if len(debts) == 0 {
		return nil, nil
	}
	created, err := l.repository.Create(ctx, debts)
	if err != nil {
		return nil, fmt.Errorf("create debts: %w", err)
	}
	return created, nil
}

func newDebt(
	debtorID, creditorID int64,
	originalSenderID *int64,
	amount int64,
	dispatchID int64,
	relationship entities.DebtRelationship,
	notes string,
) entities.InterAgencyDebt {
	return entities.InterAgencyDebt{
		DebtorAgencyID:         debtorID,
		CreditorAgencyID:       creditorID,
		OriginalSenderAgencyID: originalSenderID,
		AmountInCents:          amount,
		DispatchID:             &dispatchID,
		Relationship:           relationship,
		Status:                 entities.DebtPending,
		Notes:                  notes,
	}
}

// groupHeld группирует посылки по держателю, сохраняя порядок первого появления.
func groupHeld(parcels []entities.HeldParcel) ([]int64, map[int64][]entities.Parcel) {
	order := make([]int64, 0)
	groups := make(map[int64][]entities.Parcel)
	for _, held := range parcels {
		if _, ok := groups[held.HolderAgencyID]; !ok {
			order = append(order, held.HolderAgencyID)
		}
		groups[held.HolderAgencyID] = append(groups[held.HolderAgencyID], held.Parcel)
	}
	return order, groups
}

func groupByOrigin(parcels []entities.Parcel) ([]int64, map[int64][]entities.Parcel) {
	order := make([]int64, 0)
	groups := make(map[int64][]entities.Parcel)
	for _, parcel := range parcels {
		if _, ok := groups[parcel.OriginAgencyID]; !ok {
			order = append(order, parcel.OriginAgencyID)
		}
		groups[parcel.OriginAgencyID] = append(groups[parcel.OriginAgencyID], parcel)
	}
	return order, groups
}
