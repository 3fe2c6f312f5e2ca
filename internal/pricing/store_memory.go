package pricing

import (
	"context"
	"sync"
)

// MemStore keeps prices and promotions in two maps behind one lock.
type MemStore struct {
	mu         sync.RWMutex
	prices     map[string]Price
	promotions map[string]Promotion
}

func NewMemStore() *MemStore {
	return &MemStore{
		prices:     map[string]Price{},
		promotions: map[string]Promotion{},
	}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) SetPrice(ctx context.Context, p Price) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prices[p.ProductID] = p
	return nil
}

func (s *MemStore) GetPrice(ctx context.Context, productID string) (Price, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prices[productID]
	return p, ok, nil
}

func (s *MemStore) SetPromotion(ctx context.Context, p Promotion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.promotions[p.ProductID] = p
	return nil
}

func (s *MemStore) GetPromotion(ctx context.Context, productID string) (Promotion, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.promotions[productID]
	return p, ok, nil
}
