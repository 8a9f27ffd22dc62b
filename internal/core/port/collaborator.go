package port

import (
	"context"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/govalues/decimal"
)

//go:generate mockgen -source=collaborator.go -destination=mock/collaborator.go -package=mock
type InventoryClient interface {
	// GetAvailability lists stock rows; empty branchID or productID means any.
	GetAvailability(ctx context.Context, branchID, productID string) ([]domain.StockLevel, error)
	GetProducts(ctx context.Context, productIDs []string) ([]domain.ProductInfo, error)
	Reserve(ctx context.Context, branchID, productID string, quantity int64) error
	Release(ctx context.Context, branchID, productID string, quantity int64) error
}

type GeographyClient interface {
	ListActiveBranches(ctx context.Context) ([]domain.Branch, error)
	Geocode(ctx context.Context, address string) (domain.Coordinates, error)
}

type RoutingClient interface {
	RoadDistance(ctx context.Context, from, to domain.Coordinates) (float64, error)
}

type PricingClient interface {
	ComputeDiscount(ctx context.Context, promotionID string, lines []domain.OrderLine, subtotal decimal.Decimal) (decimal.Decimal, error)
}

type Notifier interface {
	Notify(ctx context.Context, userID string, kind domain.EventKind, payload any) error
}
