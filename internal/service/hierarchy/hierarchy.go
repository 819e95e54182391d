package hierarchy

import (
	"context"
	"errors"
	"fmt"

	"shipping/internal/entities"
)

// maxDepth - предохранитель на случай битых данных, реальные иерархии в 3-4 уровня.
const maxDepth = 64

type Resolver struct {
	repository Repository
}

func New(repository Repository) *Resolver {
	return &Resolver{
		repository: repository,
	}
}

// NewScope создает кэш на одну операцию верхнего уровня.
// Scope не разделяется между запросами и не потокобезопасен.
func (r *Resolver) NewScope() *Scope {
	return &Scope{
		repository:  r.repository,
		agencies:    make(map[int64]*entities.Agency),
		hierarchies: make(map[int64][]int64),
		descendants: make(map[int64][]int64),
		pricing:     make(map[PricingKey]pricingEntry),
	}
}

type PricingKey struct {
	SellerAgencyID int64
	BuyerAgencyID  int64
	ProductID      int64
	ServiceID      int64
}

type pricingEntry struct {
	priceInCents int64
	found        bool
}

type Scope struct {
	repository  Repository
	agencies    map[int64]*entities.Agency
	hierarchies map[int64][]int64
	descendants map[int64][]int64
	pricing     map[PricingKey]pricingEntry
}

func (s *Scope) GetAgency(ctx context.Context, id int64) (*entities.Agency, error) {
	if agency, ok := s.agencies[id]; ok {
		return agency, nil
	}

	agency, err := s.repository.GetAgencyByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get agency %d: %w", id, err)
	}
	s.agencies[id] = agency
	return agency, nil
}

// GetAgencyHierarchy возвращает предков агентства, ближайший первым:
// [0] - родитель, [1] - дед и так далее до корня.
func (s *Scope) GetAgencyHierarchy(ctx context.Context, id int64) ([]int64, error) {
	if chain, ok := s.hierarchies[id]; ok {
		return chain, nil
	}

	agency, err := s.GetAgency(ctx, id)
	if err != nil {
		return nil, err
	}

	visited := map[int64]struct{}{id: {}}
	chain := make([]int64, 0, 4)
	for agency.ParentAgencyID != nil {
		parentID := *agency.ParentAgencyID
		if _, seen := visited[parentID]; seen || len(chain) >= maxDepth {
			return nil, fmt.Errorf("agency %d: %w", id, ErrCyclicHierarchy)
		}
		visited[parentID] = struct{}{}
		chain = append(chain, parentID)

		agency, err = s.GetAgency(ctx, parentID)
		if err != nil {
			return nil, err
		}
	}

	s.hierarchies[id] = chain
	return chain, nil
}

// AncestorLevel - позиция ancestorID в цепочке agencyID (0 - родитель), -1 если не предок.
func (s *Scope) AncestorLevel(ctx context.Context, ancestorID, agencyID int64) (int, error) {
	chain, err := s.GetAgencyHierarchy(ctx, agencyID)
	if err != nil {
		return -1, err
	}
	for level, id := range chain {
		if id == ancestorID {
			return level, nil
		}
	}
	return -1, nil
}

func (s *Scope) IsAncestor(ctx context.Context, ancestorID, agencyID int64) (bool, error) {
	level, err := s.AncestorLevel(ctx, ancestorID, agencyID)
	if err != nil {
		return false, err
	}
	return level >= 0, nil
}

// IsSelfOrDescendant - agencyID совпадает с rootID или лежит в его поддереве.
func (s *Scope) IsSelfOrDescendant(ctx context.Context, agencyID, rootID int64) (bool, error) {
	if agencyID == rootID {
		return true, nil
	}
	return s.IsAncestor(ctx, rootID, agencyID)
}

// GetOwnedAgencyIDs - само агентство и все его потомки.
func (s *Scope) GetOwnedAgencyIDs(ctx context.Context, id int64) ([]int64, error) {
	if ids, ok := s.descendants[id]; ok {
		return ids, nil
	}

	descendants, err := s.repository.GetDescendantIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get descendants of agency %d: %w", id, err)
	}

	ids := make([]int64, 0, len(descendants)+1)
	ids = append(ids, id)
	for _, descendantID := range descendants {
		if descendantID != id {
			ids = append(ids, descendantID)
		}
	}
	s.descendants[id] = ids
	return ids, nil
}

// CanReceiveFrom - форвардер принимает от любого агентства, остальные только от потомков.
func (s *Scope) CanReceiveFrom(ctx context.Context, receiver *entities.Agency, holderID int64) (bool, error) {
	if receiver.ID == holderID {
		return false, nil
	}
	if receiver.IsForwarder {
		return true, nil
	}
	return s.IsAncestor(ctx, receiver.ID, holderID)
}

// BillingSender определяет, от чьего имени посылка считается полученной.
// Поднимаемся от holder, пока родитель не окажется получателем или его предком:
// промежуточные агентства, через которые посылка прошла транзитом, получают свою проводку.
func (s *Scope) BillingSender(ctx context.Context, holderID, receiverID int64) (int64, error) {
	receiverChain, err := s.GetAgencyHierarchy(ctx, receiverID)
	if err != nil {
		return 0, err
	}
	stopAt := make(map[int64]struct{}, len(receiverChain)+1)
	stopAt[receiverID] = struct{}{}
	for _, id := range receiverChain {
		stopAt[id] = struct{}{}
	}

	holderChain, err := s.GetAgencyHierarchy(ctx, holderID)
	if err != nil {
		return 0, err
	}

	sender := holderID
	for _, parentID := range holderChain {
		if _, stop := stopAt[parentID]; stop {
			break
		}
		sender = parentID
	}
	return sender, nil
}

// GetPricingBetweenAgencies - цена, по которой seller везет для buyer продукт/услугу.
// Отсутствие соглашения не ошибка: found=false, результат тоже кэшируется.
func (s *Scope) GetPricingBetweenAgencies(ctx context.Context, sellerAgencyID, buyerAgencyID, productID, serviceID int64) (int64, bool, error) {
	key := PricingKey{
		SellerAgencyID: sellerAgencyID,
		BuyerAgencyID:  buyerAgencyID,
		ProductID:      productID,
		ServiceID:      serviceID,
	}
	if entry, ok := s.pricing[key]; ok {
		return entry.priceInCents, entry.found, nil
	}

	price, err := s.repository.GetPricingAgreement(ctx, sellerAgencyID, buyerAgencyID, productID, serviceID)
	if err != nil {
		if errors.Is(err, ErrPricingNotFound) {
			s.pricing[key] = pricingEntry{}
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get pricing agreement: %w", err)
	}

	s.pricing[key] = pricingEntry{priceInCents: price, found: true}
	return price, true, nil
}

// Clear сбрасывает кэш по завершении операции.
func (s *Scope) Clear() {
	clear(s.agencies)
	clear(s.hierarchies)
	clear(s.descendants)
	clear(s.pricing)
}
