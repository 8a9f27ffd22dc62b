package port

import (
	"context"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
)

//go:generate mockgen -source=repository.go -destination=mock/repository.go -package=mock
type Repository interface {
	// CreateOrder stores the order, its lines and its history in one unit.
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	ReadOrder(ctx context.Context, orderID string) (*domain.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error)
	// UpdateOrder runs updateFn with the order locked and stores the result.
	// History entries appended by updateFn are inserted, existing ones are never touched.
	UpdateOrder(ctx context.Context, orderID string, updateFn UpdateOrderFn) (*domain.Order, error)
}

type UpdateOrderFn func(*domain.Order) error

type ReconciliationJournal interface {
	Record(ctx context.Context, entry *domain.JournalEntry) error
}
