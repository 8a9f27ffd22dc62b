package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/geo"
	"github.com/MikeRez0/ypfulfillment/internal/core/port"
	"github.com/google/uuid"
	"github.com/govalues/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	maxNumberAttempts    = 5
	defaultNotifyTimeout = 3 * time.Second
	defaultCallTimeout   = 2 * time.Second
)

var tracer = otel.Tracer("github.com/MikeRez0/ypfulfillment/internal/core/service")

// Collaborators are the external systems the orchestrator calls.
// Routing, Pricing, Notifier and Journal are optional.
type Collaborators struct {
	Inventory port.InventoryClient
	Geography port.GeographyClient
	Routing   port.RoutingClient
	Pricing   port.PricingClient
	Notifier  port.Notifier
	Journal   port.ReconciliationJournal
}

type Options struct {
	FanOut        int
	ShippingFee   decimal.Decimal
	TaxRate       decimal.Decimal
	CallTimeout   time.Duration
	NotifyTimeout time.Duration
}

type Service struct {
	repo      port.Repository
	inventory port.InventoryClient
	geography port.GeographyClient
	pricing   port.PricingClient
	notifier  port.Notifier
	stock     port.StockGateway
	selector  *Selector
	saga      *Saga
	opts      Options
	logger    *zap.Logger

	now     func() time.Time
	numbers func(time.Time) string
	pending sync.WaitGroup
}

func NewService(repo port.Repository, deps Collaborators, opts Options, logger *zap.Logger) (*Service, error) {
	if repo == nil || deps.Inventory == nil || deps.Geography == nil {
		return nil, errors.New("service: repository, inventory and geography are required")
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = defaultNotifyTimeout
	}

	stock := NewStockGateway(deps.Inventory, opts.CallTimeout, logger.Named("Stock"))
	var road geo.RoadDistancer
	if deps.Routing != nil {
		road = deps.Routing
	}

	return &Service{
		repo:      repo,
		inventory: deps.Inventory,
		geography: deps.Geography,
		pricing:   deps.Pricing,
		notifier:  deps.Notifier,
		stock:     stock,
		selector:  NewSelector(deps.Geography, stock, geo.NewEstimator(road), opts.FanOut, logger.Named("Selector")),
		saga:      NewSaga(stock, deps.Journal, logger.Named("Saga")),
		opts:      opts,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		numbers:   orderNumber,
	}, nil
}

func orderNumber(now time.Time) string {
	return fmt.Sprintf("%s-%06d", now.Format("20060102"), rand.IntN(1000000))
}

// Wait blocks until in-flight notifications are delivered or dropped.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) CreateOrder(ctx context.Context, cmd domain.CreateOrderCommand) (*domain.Placement, error) {
	ctx, span := tracer.Start(ctx, "CreateOrder")
	defer span.End()

	placement, err := s.createOrder(ctx, cmd)
	if err != nil {
		err = s.fail("Create order", err)
		endSpan(span, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("order.id", placement.Order.ID),
		attribute.String("order.branch", placement.Order.BranchID),
	)
	return placement, nil
}

func (s *Service) createOrder(ctx context.Context, cmd domain.CreateOrderCommand) (*domain.Placement, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	order, err := s.draftOrder(ctx, cmd)
	if err != nil {
		return nil, err
	}

	lines := cmd.LineRequests()
	selection, err := s.selector.Select(ctx, s.resolveDestination(ctx, cmd), lines)
	if err != nil {
		return nil, err
	}
	branchID := selection.Candidate.Branch.ID

	records, err := s.saga.Reserve(ctx, order.ID, branchID, lines)
	if err != nil {
		return nil, err
	}

	if err := order.AssignBranch(branchID); err != nil {
		s.saga.ReleaseAll(ctx, order.ID, records)
		return nil, err
	}
	order.Open(domain.Actor{ID: cmd.CustomerID, Role: domain.RoleCustomer}, s.now())

	saved, err := s.persistNew(ctx, order)
	if err != nil {
		s.logger.Error("Create order", zap.String("order", order.ID), zap.Error(err))
		s.saga.ReleaseAll(ctx, order.ID, records)
		return nil, domain.ErrInternal
	}

	s.logger.Info("order created",
		zap.String("order", saved.ID),
		zap.String("number", saved.Number),
		zap.String("branch", saved.BranchID),
		zap.String("total", saved.Total.String()))
	s.notify(ctx, saved, domain.EventOrderCreated)

	return &domain.Placement{Order: saved, Trail: selection.Trail}, nil
}

// draftOrder prices the cart from the catalog. Prices are never taken from the caller.
func (s *Service) draftOrder(ctx context.Context, cmd domain.CreateOrderCommand) (*domain.Order, error) {
	ids := make([]string, 0, len(cmd.Lines))
	for _, l := range cmd.Lines {
		ids = append(ids, l.ProductID)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	products, err := s.inventory.GetProducts(callCtx, ids)
	cancel()
	if err != nil {
		s.logger.Error("Get products", zap.Error(err))
		return nil, unavailable(err)
	}
	byID := make(map[string]domain.ProductInfo, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	order := &domain.Order{
		ID:              uuid.NewString(),
		CustomerID:      cmd.CustomerID,
		Lines:           make([]domain.OrderLine, 0, len(cmd.Lines)),
		ShippingFee:     s.opts.ShippingFee,
		TaxRate:         s.opts.TaxRate,
		PromotionID:     cmd.PromotionID,
		PaymentMethod:   cmd.PaymentMethod,
		ShippingAddress: cmd.ShippingAddress,
		Destination:     cmd.Destination,
	}
	for _, l := range cmd.Lines {
		p, ok := byID[l.ProductID]
		if !ok {
			return nil, domain.NewValidationError("lines.product_id", "unknown product "+l.ProductID)
		}
		if p.TotalAvailable <= 0 {
			return nil, domain.NewValidationError("lines.product_id", "product "+l.ProductID+" is out of stock everywhere")
		}
		order.Lines = append(order.Lines, domain.OrderLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: p.Price,
			Discount:  decimal.Zero,
			Snapshot: domain.LineSnapshot{
				Name:     p.Name,
				SKU:      p.SKU,
				ImageURL: p.ImageURL,
			},
		})
	}

	if err := order.Recalculate(); err != nil {
		return nil, err
	}
	order.Discount = s.discount(ctx, order)
	if err := order.Recalculate(); err != nil {
		return nil, err
	}

	return order, nil
}

// discount degrades to zero on any pricing failure.
func (s *Service) discount(ctx context.Context, order *domain.Order) decimal.Decimal {
	if s.pricing == nil || order.PromotionID == "" {
		return decimal.Zero
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	amount, err := s.pricing.ComputeDiscount(ctx, order.PromotionID, order.Lines, order.Subtotal)
	if err != nil {
		s.logger.Warn("pricing unavailable, proceeding without discount",
			zap.String("promotion", order.PromotionID), zap.Error(err))
		return decimal.Zero
	}
	if amount.IsNeg() {
		s.logger.Warn("pricing returned negative discount, ignoring",
			zap.String("promotion", order.PromotionID), zap.String("amount", amount.String()))
		return decimal.Zero
	}
	return amount
}

// resolveDestination geocodes the address when coordinates are missing.
// nil means the selector falls back to an unordered scan.
func (s *Service) resolveDestination(ctx context.Context, cmd domain.CreateOrderCommand) *domain.Coordinates {
	if cmd.Destination != nil {
		return cmd.Destination
	}
	ctx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	coords, err := s.geography.Geocode(ctx, cmd.ShippingAddress)
	if err != nil || !coords.Valid() {
		s.logger.Warn("geocoding failed, branch ranking disabled",
			zap.String("address", cmd.ShippingAddress), zap.Error(err))
		return nil
	}
	return &coords
}

func (s *Service) persistNew(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		order.Number = s.numbers(order.CreatedAt)

		saved, err := s.repo.CreateOrder(ctx, order)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, domain.ErrConflictingData) {
			return nil, err
		}
		s.logger.Debug("order number collision, retrying",
			zap.String("number", order.Number), zap.Int("attempt", attempt+1))
	}
	return nil, fmt.Errorf("order number: %w", domain.ErrConflictingData)
}

type orderEvent struct {
	OrderID  string             `json:"order_id"`
	Number   string             `json:"number"`
	Status   domain.OrderStatus `json:"status"`
	BranchID string             `json:"branch_id"`
	Total    decimal.Decimal    `json:"total"`
	Note     string             `json:"note,omitempty"`
}

func (e orderEvent) EventKey() string {
	return e.OrderID
}

// notify never blocks the caller and never fails the operation.
func (s *Service) notify(ctx context.Context, order *domain.Order, kind domain.EventKind) {
	if s.notifier == nil {
		return
	}
	event := orderEvent{
		OrderID:  order.ID,
		Number:   order.Number,
		Status:   order.Status,
		BranchID: order.BranchID,
		Total:    order.Total,
	}
	if last, ok := order.LastHistory(); ok {
		event.Note = last.Note
	}
	userID := order.CustomerID
	ctx = context.WithoutCancel(ctx)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(ctx, s.opts.NotifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, userID, kind, event); err != nil {
			s.logger.Warn("notification skipped",
				zap.String("order", event.OrderID), zap.String("kind", string(kind)), zap.Error(err))
		}
	}()
}
