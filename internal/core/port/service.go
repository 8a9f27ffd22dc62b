package port

import (
	"context"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
)

//go:generate mockgen -source=service.go -destination=mock/service.go -package=mock
type Service interface {
	CreateOrder(ctx context.Context, cmd domain.CreateOrderCommand) (*domain.Placement, error)
	AdvanceStatus(ctx context.Context, cmd domain.AdvanceStatusCommand) (*domain.Order, error)
	ForceStatus(ctx context.Context, cmd domain.ForceStatusCommand) (*domain.Order, error)
	CancelOrder(ctx context.Context, cmd domain.CancelOrderCommand) (*domain.Order, error)
	AdjustLineQuantity(ctx context.Context, cmd domain.AdjustLineQuantityCommand) (*domain.Order, error)
	AssignBranch(ctx context.Context, cmd domain.AssignBranchCommand) (*domain.Order, error)

	GetOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.Order, error)
	ListCustomerOrders(ctx context.Context, customerID string) ([]*domain.Order, error)
}
