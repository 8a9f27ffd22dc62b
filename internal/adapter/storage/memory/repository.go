// Package memory keeps orders in process memory. It backs DEV mode without a
// database and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/port"
)

type Repository struct {
	mu      sync.RWMutex
	orders  map[string]*domain.Order
	numbers map[string]string
	locks   map[string]*sync.Mutex
}

func NewRepository() *Repository {
	return &Repository{
		orders:  make(map[string]*domain.Order),
		numbers: make(map[string]string),
		locks:   make(map[string]*sync.Mutex),
	}
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; ok {
		return nil, domain.ErrConflictingData
	}
	if _, ok := r.numbers[order.Number]; ok {
		return nil, domain.ErrConflictingData
	}

	stored := order.Clone()
	stored.Version = 1
	r.orders[stored.ID] = stored
	r.numbers[stored.Number] = stored.ID
	r.locks[stored.ID] = &sync.Mutex{}

	return stored.Clone(), nil
}

func (r *Repository) ReadOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[orderID]
	if !ok {
		return nil, domain.ErrDataNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) ListOrdersByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*domain.Order, 0)
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			list = append(list, o.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// UpdateOrder serializes writers of the same order with a per-order mutex.
// A failed updateFn leaves the stored order untouched.
func (r *Repository) UpdateOrder(ctx context.Context, orderID string, updateFn port.UpdateOrderFn) (*domain.Order, error) {
	r.mu.RLock()
	lock, ok := r.locks[orderID]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrDataNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	working := r.orders[orderID].Clone()
	r.mu.RUnlock()

	if err := updateFn(working); err != nil {
		return nil, err
	}
	working.Version++

	r.mu.Lock()
	r.orders[orderID] = working
	r.mu.Unlock()

	return working.Clone(), nil
}
