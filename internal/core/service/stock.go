package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/port"
	"go.uber.org/zap"
)

// StockGateway narrows the inventory collaborator to the three calls the
// orchestrator needs and puts a deadline on each of them.
type StockGateway struct {
	inventory port.InventoryClient
	timeout   time.Duration
	logger    *zap.Logger
}

func NewStockGateway(inventory port.InventoryClient, timeout time.Duration, logger *zap.Logger) *StockGateway {
	return &StockGateway{
		inventory: inventory,
		timeout:   timeout,
		logger:    logger,
	}
}

func (g *StockGateway) CheckAvailability(ctx context.Context,
	branchID string, lines []domain.LineRequest) (domain.AvailabilityResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	levels, err := g.inventory.GetAvailability(ctx, branchID, "")
	if err != nil {
		return domain.AvailabilityResult{}, unavailable(err)
	}

	free := make(map[string]int64, len(levels))
	for _, l := range levels {
		if l.BranchID != "" && l.BranchID != branchID {
			continue
		}
		free[l.ProductID] += l.Free()
	}

	result := domain.AvailabilityResult{
		BranchID:  branchID,
		Satisfied: true,
		PerItem:   make([]domain.ItemAvailability, 0, len(lines)),
	}
	for _, line := range lines {
		item := domain.ItemAvailability{
			ProductID: line.ProductID,
			Requested: line.Quantity,
			Available: free[line.ProductID],
		}
		if !item.Sufficient() {
			result.Satisfied = false
		}
		result.PerItem = append(result.PerItem, item)
	}

	return result, nil
}

func (g *StockGateway) Reserve(ctx context.Context, branchID, productID string, quantity int64) error {
	if quantity <= 0 {
		return domain.NewValidationError("quantity", "must be positive")
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	err := g.inventory.Reserve(ctx, branchID, productID, quantity)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInsufficientStock) {
		return fmt.Errorf("%w: %s at %s", domain.ErrInsufficientStock, productID, branchID)
	}
	g.logger.Warn("reserve failed",
		zap.String("branch", branchID), zap.String("product", productID), zap.Error(err))
	return unavailable(err)
}

// Release never retries; a failure is left for reconciliation.
func (g *StockGateway) Release(ctx context.Context, branchID, productID string, quantity int64) error {
	if quantity <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.inventory.Release(ctx, branchID, productID, quantity); err != nil {
		return unavailable(err)
	}
	return nil
}

func unavailable(err error) error {
	if errors.Is(err, domain.ErrCollaboratorUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrCollaboratorUnavailable, err)
}
