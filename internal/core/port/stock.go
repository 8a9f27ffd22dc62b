package port

import (
	"context"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
)

//go:generate mockgen -source=stock.go -destination=mock/stock.go -package=mock
type StockGateway interface {
	CheckAvailability(ctx context.Context, branchID string, lines []domain.LineRequest) (domain.AvailabilityResult, error)
	Reserve(ctx context.Context, branchID, productID string, quantity int64) error
	Release(ctx context.Context, branchID, productID string, quantity int64) error
}
