// Package servicetest содержит хранилище в памяти, реализующее контракты репозиториев
// сервисов. Транзакции сериализуются и откатываются по ошибке, как в Postgres.
package servicetest

import (
	"context"
	"sort"
	"sync"
	"time"

	"shipping/internal/entities"
)

type pricingKey struct {
	seller, buyer, product, service int64
}

type state struct {
	agencies   map[int64]entities.Agency
	pricing    map[pricingKey]int64
	items      map[int64]entities.BillableItem
	parcels    map[int64]entities.Parcel
	events     []entities.ParcelEvent
	dispatches map[int64]entities.Dispatch
	debts      map[int64]entities.InterAgencyDebt
	payments   map[int64]entities.DispatchPayment
	seq        int64
}

func newState() *state {
	return &state{
		agencies:   make(map[int64]entities.Agency),
		pricing:    make(map[pricingKey]int64),
		items:      make(map[int64]entities.BillableItem),
		parcels:    make(map[int64]entities.Parcel),
		dispatches: make(map[int64]entities.Dispatch),
		debts:      make(map[int64]entities.InterAgencyDebt),
		payments:   make(map[int64]entities.DispatchPayment),
	}
}

// clone - структуры копируются по значению, указатели внутри них store никогда не мутирует.
func (s *state) clone() *state {
	c := newState()
	for k, v := range s.agencies {
		c.agencies[k] = v
	}
	for k, v := range s.pricing {
		c.pricing[k] = v
	}
	for k, v := range s.items {
		c.items[k] = v
	}
	for k, v := range s.parcels {
		c.parcels[k] = v
	}
	c.events = append(c.events, s.events...)
	for k, v := range s.dispatches {
		c.dispatches[k] = v
	}
	for k, v := range s.debts {
		c.debts[k] = v
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	c.seq = s.seq
	return c
}

func (s *state) nextID() int64 {
	s.seq++
	return s.seq
}

type Store struct {
	mu     sync.Mutex
	txLock sync.Mutex
	state  *state
	clock  time.Time

	// OnClaim вызывается перед условным захватом посылок, чтобы имитировать гонку.
	OnClaim func(claim entities.ParcelClaim)
}

func New() *Store {
	return &Store{
		state: newState(),
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// now - монотонные часы, чтобы порядок событий был однозначным.
func (s *Store) now() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *Store) Parcels() *ParcelRepository      { return &ParcelRepository{store: s} }
func (s *Store) Dispatches() *DispatchRepository { return &DispatchRepository{store: s} }
func (s *Store) Debts() *DebtRepository          { return &DebtRepository{store: s} }
func (s *Store) Payments() *PaymentRepository    { return &PaymentRepository{store: s} }
func (s *Store) Agencies() *AgencyRepository     { return &AgencyRepository{store: s} }
func (s *Store) Billing() *BillingRepository     { return &BillingRepository{store: s} }
func (s *Store) TxManager() *TxManager           { return &TxManager{store: s} }

type txKey struct{}

type TxManager struct {
	store *Store
}

// Do выполняет fn эксклюзивно. Вложенный вызов переиспользует внешнюю транзакцию.
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.store.txLock.Lock()
	defer m.store.txLock.Unlock()

	m.store.mu.Lock()
	snapshot := m.store.state.clone()
	m.store.mu.Unlock()

	err := fn(context.WithValue(ctx, txKey{}, struct{}{}))
	if err != nil {
		m.store.mu.Lock()
		m.store.state = snapshot
		m.store.mu.Unlock()
	}
	return err
}

// Наполнение и чтение состояния в тестах.

func (s *Store) AddAgency(id int64, name string, parentID *int64, forwarder bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.agencies[id] = entities.Agency{ID: id, Name: name, ParentAgencyID: parentID, IsForwarder: forwarder}
	if id > s.state.seq {
		s.state.seq = id
	}
}

func (s *Store) SetPricing(sellerAgencyID, buyerAgencyID, productID, serviceID, priceInCents int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.pricing[pricingKey{sellerAgencyID, buyerAgencyID, productID, serviceID}] = priceInCents
}

func (s *Store) SetBillableItem(item entities.BillableItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.items[item.ParcelID] = item
}

func (s *Store) AddParcel(parcel entities.Parcel) entities.Parcel {
	s.mu.Lock()
	defer s.mu.Unlock()
	if parcel.ID == 0 {
		parcel.ID = s.state.nextID()
	}
	if parcel.Status == "" {
		parcel.Status = entities.BaselineParcelStatus
	}
	if parcel.AgencyID == 0 {
		parcel.AgencyID = parcel.OriginAgencyID
	}
	parcel.UpdatedAt = s.now()
	s.state.parcels[parcel.ID] = parcel
	return parcel
}

func (s *Store) AddEvent(event entities.ParcelEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	event.ID = s.state.nextID()
	event.CreatedAt = s.now()
	s.state.events = append(s.state.events, event)
}

func (s *Store) AddDispatch(dispatch entities.Dispatch) entities.Dispatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dispatch.ID == 0 {
		dispatch.ID = s.state.nextID()
	}
	if dispatch.PaymentStatus == "" {
		dispatch.PaymentStatus = entities.PaymentPending
	}
	if dispatch.CreatedAt.IsZero() {
		dispatch.CreatedAt = s.now()
	}
	dispatch.UpdatedAt = dispatch.CreatedAt
	s.state.dispatches[dispatch.ID] = dispatch
	return dispatch
}

func (s *Store) AddDebt(debt entities.InterAgencyDebt) entities.InterAgencyDebt {
	s.mu.Lock()
	defer s.mu.Unlock()
	debt.ID = s.state.nextID()
	debt.CreatedAt = s.now()
	s.state.debts[debt.ID] = debt
	return debt
}

// SetParcelDispatch меняет привязку в обход сервисов, например чтобы имитировать чужую транзакцию.
func (s *Store) SetParcelDispatch(parcelID int64, dispatchID *int64, status entities.ParcelStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	parcel := s.state.parcels[parcelID]
	parcel.DispatchID = dispatchID
	parcel.Status = status
	s.state.parcels[parcelID] = parcel
}

func (s *Store) Parcel(trackingNumber string) entities.Parcel {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, parcel := range s.state.parcels {
		if parcel.TrackingNumber == trackingNumber {
			return parcel
		}
	}
	return entities.Parcel{}
}

func (s *Store) Dispatch(id int64) (entities.Dispatch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dispatch, ok := s.state.dispatches[id]
	return dispatch, ok
}

// ChildDispatches - отправки, порожденные из origin при частичном приеме или для учета.
func (s *Store) ChildDispatches(originID int64) []entities.Dispatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []entities.Dispatch
	for _, dispatch := range s.state.dispatches {
		if dispatch.OriginDispatchID != nil && *dispatch.OriginDispatchID == originID {
			result = append(result, dispatch)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *Store) AllDebts() []entities.InterAgencyDebt {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]entities.InterAgencyDebt, 0, len(s.state.debts))
	for _, debt := range s.state.debts {
		result = append(result, debt)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (s *Store) PendingDebts() []entities.InterAgencyDebt {
	var result []entities.InterAgencyDebt
	for _, debt := range s.AllDebts() {
		if debt.Status == entities.DebtPending {
			result = append(result, debt)
		}
	}
	return result
}

func (s *Store) Events(parcelID int64) []entities.ParcelEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eventsLocked(parcelID)
}

func (s *Store) eventsLocked(parcelID int64) []entities.ParcelEvent {
	var result []entities.ParcelEvent
	for _, event := range s.state.events {
		if event.ParcelID == parcelID {
			result = append(result, event)
		}
	}
	return result
}
