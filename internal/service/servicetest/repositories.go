package servicetest

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"shipping/internal/entities"
	"shipping/internal/service/hierarchy"
)

type ParcelRepository struct {
	store *Store
}

func (r *ParcelRepository) GetByTrackingNumberForUpdate(_ context.Context, trackingNumber string) (*entities.Parcel, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, parcel := range r.store.state.parcels {
		if parcel.TrackingNumber == trackingNumber {
			return &parcel, nil
		}
	}
	return nil, entities.ErrParcelNotFound
}

func (r *ParcelRepository) GetByTrackingNumbers(_ context.Context, trackingNumbers []string) ([]entities.Parcel, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	wanted := make(map[string]struct{}, len(trackingNumbers))
	for _, trackingNumber := range trackingNumbers {
		wanted[trackingNumber] = struct{}{}
	}
	return r.filter(func(p entities.Parcel) bool {
		_, ok := wanted[p.TrackingNumber]
		return ok
	}), nil
}

func (r *ParcelRepository) GetByTrackingNumbersForUpdate(ctx context.Context, trackingNumbers []string) ([]entities.Parcel, error) {
	return r.GetByTrackingNumbers(ctx, trackingNumbers)
}

func (r *ParcelRepository) GetByOrderIDForUpdate(_ context.Context, orderID int64) ([]entities.Parcel, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.filter(func(p entities.Parcel) bool { return p.OrderID == orderID }), nil
}

func (r *ParcelRepository) GetByDispatchID(_ context.Context, dispatchID int64) ([]entities.Parcel, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.filter(func(p entities.Parcel) bool {
		return p.DispatchID != nil && *p.DispatchID == dispatchID && !p.IsDeleted()
	}), nil
}

func (r *ParcelRepository) Update(_ context.Context, modify entities.ParcelModify) (*entities.Parcel, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if modify.ID == nil {
		return nil, entities.ErrParcelNotFound
	}
	parcel, ok := r.store.state.parcels[*modify.ID]
	if !ok {
		return nil, entities.ErrParcelNotFound
	}
	if modify.AgencyID != nil {
		parcel.AgencyID = *modify.AgencyID
	}
	if modify.Detach {
		parcel.DispatchID = nil
	} else if modify.DispatchID != nil {
		id := *modify.DispatchID
		parcel.DispatchID = &id
	}
	if modify.Status != nil {
		parcel.Status = *modify.Status
	}
	parcel.UpdatedAt = r.store.now()
	r.store.state.parcels[parcel.ID] = parcel
	return &parcel, nil
}

func (r *ParcelRepository) ClaimForDispatch(_ context.Context, claim entities.ParcelClaim) ([]entities.Parcel, error) {
	if r.store.OnClaim != nil {
		r.store.OnClaim(claim)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ids := make(map[int64]struct{}, len(claim.ParcelIDs))
	for _, id := range claim.ParcelIDs {
		ids[id] = struct{}{}
	}

	var claimed []entities.Parcel
	for _, parcel := range r.filter(func(p entities.Parcel) bool { _, ok := ids[p.ID]; return ok }) {
		if parcel.IsDeleted() || !containsStatus(claim.AllowedStatuses, parcel.Status) {
			continue
		}
		if claim.OwnerAgencyIDs != nil && !containsID(claim.OwnerAgencyIDs, parcel.AgencyID) {
			continue
		}
		if parcel.DispatchID != nil {
			current, ok := r.store.state.dispatches[*parcel.DispatchID]
			if ok && !current.Status.IsCompleted() {
				continue
			}
		}

		dispatchID := claim.DispatchID
		parcel.DispatchID = &dispatchID
		parcel.Status = entities.ParcelInDispatch
		parcel.UpdatedAt = r.store.now()
		r.store.state.parcels[parcel.ID] = parcel
		claimed = append(claimed, parcel)
	}
	return claimed, nil
}

func (r *ParcelRepository) GetDispatchTotals(_ context.Context, dispatchID int64) (*entities.DispatchTotals, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	totals := &entities.DispatchTotals{Weight: decimal.Zero, ReceivedWeight: decimal.Zero}
	for _, parcel := range r.store.state.parcels {
		if parcel.DispatchID == nil || *parcel.DispatchID != dispatchID || parcel.IsDeleted() {
			continue
		}
		totals.ParcelsCount++
		totals.Weight = totals.Weight.Add(parcel.Weight)
		if parcel.Status == entities.ParcelReceivedInDispatch {
			totals.ReceivedParcelsCount++
			totals.ReceivedWeight = totals.ReceivedWeight.Add(parcel.Weight)
		}
	}
	return totals, nil
}

func (r *ParcelRepository) CreateEvents(_ context.Context, events []entities.ParcelEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, event := range events {
		event.ID = r.store.state.nextID()
		event.CreatedAt = r.store.now()
		r.store.state.events = append(r.store.state.events, event)
	}
	return nil
}

func (r *ParcelRepository) GetEvents(_ context.Context, parcelID int64) ([]entities.ParcelEvent, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.eventsLocked(parcelID), nil
}

func (r *ParcelRepository) filter(match func(entities.Parcel) bool) []entities.Parcel {
	var result []entities.Parcel
	for _, parcel := range r.store.state.parcels {
		if match(parcel) {
			result = append(result, parcel)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

type DispatchRepository struct {
	store *Store
}

func (r *DispatchRepository) Create(_ context.Context, modify entities.DispatchModify) (*entities.Dispatch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	dispatch := entities.Dispatch{
		ID:             r.store.state.nextID(),
		Status:         entities.DispatchDraft,
		DeclaredWeight: decimal.Zero,
		Weight:         decimal.Zero,
		PaymentStatus:  entities.PaymentPending,
	}
	applyDispatchModify(&dispatch, modify)
	dispatch.CreatedAt = r.store.now()
	dispatch.UpdatedAt = dispatch.CreatedAt
	r.store.state.dispatches[dispatch.ID] = dispatch
	return &dispatch, nil
}

func (r *DispatchRepository) GetByID(_ context.Context, id int64) (*entities.Dispatch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	dispatch, ok := r.store.state.dispatches[id]
	if !ok {
		return nil, entities.ErrDispatchNotFound
	}
	return &dispatch, nil
}

func (r *DispatchRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Dispatch, error) {
	return r.GetByID(ctx, id)
}

func (r *DispatchRepository) GetByIDs(_ context.Context, ids []int64) ([]entities.Dispatch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []entities.Dispatch
	for _, id := range ids {
		if dispatch, ok := r.store.state.dispatches[id]; ok && !containsDispatch(result, id) {
			result = append(result, dispatch)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *DispatchRepository) GetByIDsForUpdate(ctx context.Context, ids []int64) ([]entities.Dispatch, error) {
	return r.GetByIDs(ctx, ids)
}

func (r *DispatchRepository) Update(_ context.Context, modify entities.DispatchModify) (*entities.Dispatch, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if modify.ID == nil {
		return nil, entities.ErrDispatchNotFound
	}
	dispatch, ok := r.store.state.dispatches[*modify.ID]
	if !ok {
		return nil, entities.ErrDispatchNotFound
	}
	applyDispatchModify(&dispatch, modify)
	dispatch.UpdatedAt = r.store.now()
	r.store.state.dispatches[dispatch.ID] = dispatch
	return &dispatch, nil
}

func (r *DispatchRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.state.dispatches[id]; !ok {
		return entities.ErrDispatchNotFound
	}
	r.store.deleteDispatchLocked(id)
	return nil
}

func (r *DispatchRepository) DeleteEmptyDraftsBefore(_ context.Context, before time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	attached := make(map[int64]struct{})
	for _, parcel := range r.store.state.parcels {
		if parcel.DispatchID != nil {
			attached[*parcel.DispatchID] = struct{}{}
		}
	}

	var deleted int64
	for id, dispatch := range r.store.state.dispatches {
		if dispatch.Status != entities.DispatchDraft || !dispatch.CreatedAt.Before(before) {
			continue
		}
		if _, ok := attached[id]; ok {
			continue
		}
		r.store.deleteDispatchLocked(id)
		deleted++
	}
	return deleted, nil
}

// deleteDispatchLocked повторяет внешние ключи схемы: долги и дочерние отправки теряют ссылку,
// платежи удаляются вместе с отправкой.
func (s *Store) deleteDispatchLocked(id int64) {
	delete(s.state.dispatches, id)
	for debtID, debt := range s.state.debts {
		if debt.DispatchID != nil && *debt.DispatchID == id {
			debt.DispatchID = nil
			s.state.debts[debtID] = debt
		}
	}
	for childID, child := range s.state.dispatches {
		if child.OriginDispatchID != nil && *child.OriginDispatchID == id {
			child.OriginDispatchID = nil
			s.state.dispatches[childID] = child
		}
	}
	for paymentID, payment := range s.state.payments {
		if payment.DispatchID == id {
			delete(s.state.payments, paymentID)
		}
	}
}

func applyDispatchModify(dispatch *entities.Dispatch, modify entities.DispatchModify) {
	if modify.Status != nil {
		dispatch.Status = *modify.Status
	}
	if modify.SenderAgencyID != nil {
		dispatch.SenderAgencyID = *modify.SenderAgencyID
	}
	if modify.ReceiverAgencyID != nil {
		id := *modify.ReceiverAgencyID
		dispatch.ReceiverAgencyID = &id
	}
	if modify.OriginDispatchID != nil {
		id := *modify.OriginDispatchID
		dispatch.OriginDispatchID = &id
	}
	if modify.DeclaredParcelsCount != nil {
		dispatch.DeclaredParcelsCount = *modify.DeclaredParcelsCount
	}
	if modify.DeclaredWeight != nil {
		dispatch.DeclaredWeight = *modify.DeclaredWeight
	}
	if modify.DeclaredCostInCents != nil {
		dispatch.DeclaredCostInCents = *modify.DeclaredCostInCents
	}
	if modify.Weight != nil {
		dispatch.Weight = *modify.Weight
	}
	if modify.CostInCents != nil {
		dispatch.CostInCents = *modify.CostInCents
	}
	if modify.ReceivedParcelsCount != nil {
		dispatch.ReceivedParcelsCount = *modify.ReceivedParcelsCount
	}
	if modify.PaymentStatus != nil {
		dispatch.PaymentStatus = *modify.PaymentStatus
	}
	if modify.PaidInCents != nil {
		dispatch.PaidInCents = *modify.PaidInCents
	}
	if modify.CreatedByID != nil {
		dispatch.CreatedByID = *modify.CreatedByID
	}
	if modify.ReceivedByID != nil {
		id := *modify.ReceivedByID
		dispatch.ReceivedByID = &id
	}
	if modify.DispatchedAt != nil {
		at := *modify.DispatchedAt
		dispatch.DispatchedAt = &at
	}
	if modify.ReceivedAt != nil {
		at := *modify.ReceivedAt
		dispatch.ReceivedAt = &at
	}
}

type DebtRepository struct {
	store *Store
}

func (r *DebtRepository) Create(_ context.Context, debts []entities.InterAgencyDebt) ([]entities.InterAgencyDebt, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	created := make([]entities.InterAgencyDebt, 0, len(debts))
	for _, debt := range debts {
		debt.ID = r.store.state.nextID()
		debt.CreatedAt = r.store.now()
		r.store.state.debts[debt.ID] = debt
		created = append(created, debt)
	}
	return created, nil
}

func (r *DebtRepository) CancelPendingByDispatchIDs(_ context.Context, dispatchIDs []int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var cancelled int64
	for id, debt := range r.store.state.debts {
		if debt.Status != entities.DebtPending || debt.DispatchID == nil || !containsID(dispatchIDs, *debt.DispatchID) {
			continue
		}
		debt.Status = entities.DebtCancelled
		r.store.state.debts[id] = debt
		cancelled++
	}
	return cancelled, nil
}

func (r *DebtRepository) HasPaidDebtForParcel(_ context.Context, debtorAgencyID, creditorAgencyID, parcelID int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var dispatchIDs []int64
	for _, event := range r.store.eventsLocked(parcelID) {
		if event.DispatchID != nil {
			dispatchIDs = append(dispatchIDs, *event.DispatchID)
		}
	}
	for _, debt := range r.store.state.debts {
		if debt.Status == entities.DebtPaid &&
			debt.DebtorAgencyID == debtorAgencyID &&
			debt.CreditorAgencyID == creditorAgencyID &&
			debt.DispatchID != nil && containsID(dispatchIDs, *debt.DispatchID) {
			return true, nil
		}
	}
	return false, nil
}

func (r *DebtRepository) GetByIDForUpdate(_ context.Context, id int64) (*entities.InterAgencyDebt, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	debt, ok := r.store.state.debts[id]
	if !ok {
		return nil, entities.ErrDebtNotFound
	}
	return &debt, nil
}

func (r *DebtRepository) MarkPaid(_ context.Context, id int64, paidAt time.Time) (*entities.InterAgencyDebt, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	debt, ok := r.store.state.debts[id]
	if !ok {
		return nil, entities.ErrDebtNotFound
	}
	debt.Status = entities.DebtPaid
	debt.PaidAt = &paidAt
	r.store.state.debts[id] = debt
	return &debt, nil
}

func (r *DebtRepository) GetByDispatchID(_ context.Context, dispatchID int64) ([]entities.InterAgencyDebt, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []entities.InterAgencyDebt
	for _, debt := range r.store.state.debts {
		if debt.DispatchID != nil && *debt.DispatchID == dispatchID {
			result = append(result, debt)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type PaymentRepository struct {
	store *Store
}

func (r *PaymentRepository) Create(_ context.Context, payment entities.DispatchPayment) (*entities.DispatchPayment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	payment.ID = r.store.state.nextID()
	payment.CreatedAt = r.store.now()
	r.store.state.payments[payment.ID] = payment
	return &payment, nil
}

func (r *PaymentRepository) GetByID(_ context.Context, dispatchID, paymentID int64) (*entities.DispatchPayment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	payment, ok := r.store.state.payments[paymentID]
	if !ok || payment.DispatchID != dispatchID {
		return nil, entities.ErrPaymentNotFound
	}
	return &payment, nil
}

func (r *PaymentRepository) Delete(_ context.Context, paymentID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.state.payments[paymentID]; !ok {
		return entities.ErrPaymentNotFound
	}
	delete(r.store.state.payments, paymentID)
	return nil
}

func (r *PaymentRepository) SumByDispatchID(_ context.Context, dispatchID int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var total int64
	for _, payment := range r.store.state.payments {
		if payment.DispatchID == dispatchID {
			total += payment.AmountInCents
		}
	}
	return total, nil
}

type AgencyRepository struct {
	store *Store
}

func (r *AgencyRepository) GetAgencyByID(_ context.Context, id int64) (*entities.Agency, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	agency, ok := r.store.state.agencies[id]
	if !ok {
		return nil, hierarchy.ErrAgencyNotFound
	}
	return &agency, nil
}

func (r *AgencyRepository) GetDescendantIDs(_ context.Context, id int64) ([]int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var result []int64
	queue := []int64{id}
	visited := map[int64]struct{}{id: {}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, agency := range r.store.state.agencies {
			if agency.ParentAgencyID == nil || *agency.ParentAgencyID != current {
				continue
			}
			if _, seen := visited[agency.ID]; seen {
				continue
			}
			visited[agency.ID] = struct{}{}
			result = append(result, agency.ID)
			queue = append(queue, agency.ID)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result, nil
}

func (r *AgencyRepository) GetPricingAgreement(_ context.Context, sellerAgencyID, buyerAgencyID, productID, serviceID int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	price, ok := r.store.state.pricing[pricingKey{sellerAgencyID, buyerAgencyID, productID, serviceID}]
	if !ok {
		return 0, hierarchy.ErrPricingNotFound
	}
	return price, nil
}

type BillingRepository struct {
	store *Store
}

func (r *BillingRepository) GetBillableItems(_ context.Context, parcelIDs []int64) ([]entities.BillableItem, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var result []entities.BillableItem
	for _, id := range parcelIDs {
		if item, ok := r.store.state.items[id]; ok {
			result = append(result, item)
		}
	}
	return result, nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func containsStatus(statuses []entities.ParcelStatus, status entities.ParcelStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func containsDispatch(dispatches []entities.Dispatch, id int64) bool {
	for _, dispatch := range dispatches {
		if dispatch.ID == id {
			return true
		}
	}
	return false
}
