package service

import (
	"context"
	"errors"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var errConcurrentChange = domain.Reject(domain.ErrConflictingData, "order was changed concurrently, retry")

func (s *Service) AdvanceStatus(ctx context.Context, cmd domain.AdvanceStatusCommand) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "AdvanceStatus", trace.WithAttributes(
		attribute.String("order.id", cmd.OrderID),
		attribute.String("order.target", string(cmd.Target)),
	))
	defer span.End()

	if err := cmd.Validate(); err != nil {
		endSpan(span, err)
		return nil, err
	}

	var effects domain.Effects
	order, err := s.repo.UpdateOrder(ctx, cmd.OrderID, func(o *domain.Order) error {
		var err error
		effects, err = o.Advance(domain.TransitionRequest{
			Target:        cmd.Target,
			Actor:         cmd.Actor,
			DeliveryProof: cmd.DeliveryProof,
			Note:          cmd.Note,
			Now:           s.now(),
		})
		return err
	})
	if err != nil {
		err = s.fail("Advance status", err)
		endSpan(span, err)
		return nil, err
	}

	s.afterTransition(ctx, order, effects)
	return order, nil
}

func (s *Service) ForceStatus(ctx context.Context, cmd domain.ForceStatusCommand) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "ForceStatus", trace.WithAttributes(
		attribute.String("order.id", cmd.OrderID),
		attribute.String("order.target", string(cmd.Target)),
	))
	defer span.End()

	if err := cmd.Validate(); err != nil {
		endSpan(span, err)
		return nil, err
	}

	var effects domain.Effects
	order, err := s.repo.UpdateOrder(ctx, cmd.OrderID, func(o *domain.Order) error {
		var err error
		effects, err = o.Force(domain.TransitionRequest{
			Target: cmd.Target,
			Actor:  cmd.Actor,
			Note:   cmd.Justification,
			Now:    s.now(),
		})
		return err
	})
	if err != nil {
		err = s.fail("Force status", err)
		endSpan(span, err)
		return nil, err
	}

	s.logger.Warn("status forced",
		zap.String("order", order.ID),
		zap.String("status", string(order.Status)),
		zap.String("actor", cmd.Actor.ID))
	s.afterTransition(ctx, order, effects)
	return order, nil
}

// CancelOrder is idempotent: cancelling a cancelled order returns it unchanged
// and releases nothing.
func (s *Service) CancelOrder(ctx context.Context, cmd domain.CancelOrderCommand) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "CancelOrder", trace.WithAttributes(
		attribute.String("order.id", cmd.OrderID),
	))
	defer span.End()

	if err := cmd.Validate(); err != nil {
		endSpan(span, err)
		return nil, err
	}

	var effects domain.Effects
	order, err := s.repo.UpdateOrder(ctx, cmd.OrderID, func(o *domain.Order) error {
		if o.Status == domain.OrderStatusCancelled && o.CustomerID == cmd.CustomerID {
			return domain.ErrNoUpdatedData
		}
		var err error
		effects, err = o.CancelByCustomer(cmd.CustomerID, cmd.Reason, s.now())
		return err
	})
	if errors.Is(err, domain.ErrNoUpdatedData) {
		s.logger.Debug("order already cancelled", zap.String("order", cmd.OrderID))
		order, err = s.repo.ReadOrder(ctx, cmd.OrderID)
	}
	if err != nil {
		err = s.fail("Cancel order", err)
		endSpan(span, err)
		return nil, err
	}

	s.afterTransition(ctx, order, effects)
	return order, nil
}

// afterTransition runs side effects once the new state is stored.
func (s *Service) afterTransition(ctx context.Context, order *domain.Order, effects domain.Effects) {
	if effects.ReleaseStock {
		if failed := s.saga.ReleaseAll(ctx, order.ID, order.Reservations()); failed > 0 {
			s.logger.Error("stock not fully released",
				zap.String("order", order.ID), zap.Int("failed", failed))
		}
	}

	kind := domain.EventOrderStatusChanged
	if order.Status == domain.OrderStatusCancelled {
		kind = domain.EventOrderCancelled
	}
	s.notify(ctx, order, kind)
}

func (s *Service) AdjustLineQuantity(ctx context.Context, cmd domain.AdjustLineQuantityCommand) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "AdjustLineQuantity", trace.WithAttributes(
		attribute.String("order.id", cmd.OrderID),
		attribute.String("product.id", cmd.ProductID),
	))
	defer span.End()

	order, err := s.adjustLineQuantity(ctx, cmd)
	if err != nil {
		err = s.fail("Adjust line quantity", err)
		endSpan(span, err)
		return nil, err
	}
	return order, nil
}

func (s *Service) adjustLineQuantity(ctx context.Context, cmd domain.AdjustLineQuantityCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.ReadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if current.CustomerID != cmd.CustomerID {
		return nil, domain.Reject(domain.ErrForbidden, "order belongs to another customer")
	}
	if !current.Adjustable() {
		return nil, domain.Reject(domain.ErrOrderNotAdjustable, "order in %s can not be adjusted", current.Status)
	}
	line, ok := current.Line(cmd.ProductID)
	if !ok {
		return nil, domain.NewValidationError("product_id", "order has no line for "+cmd.ProductID)
	}
	previous := line.Quantity
	delta := cmd.NewQuantity - previous
	if delta == 0 {
		return current, nil
	}

	if delta > 0 {
		if err := s.stock.Reserve(ctx, current.BranchID, cmd.ProductID, delta); err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return nil, domain.Reject(err, "branch %s can not hold %d more of %s",
					current.BranchID, delta, cmd.ProductID)
			}
			return nil, err
		}
	}
	heldDelta := []domain.ReservationRecord{{
		BranchID:  current.BranchID,
		ProductID: cmd.ProductID,
		Quantity:  delta,
	}}

	order, err := s.repo.UpdateOrder(ctx, cmd.OrderID, func(o *domain.Order) error {
		l, ok := o.Line(cmd.ProductID)
		if !ok || l.Quantity != previous || o.BranchID != current.BranchID {
			return errConcurrentChange
		}
		_, err := o.SetLineQuantity(cmd.ProductID, cmd.NewQuantity, s.now())
		return err
	})
	if err != nil {
		if delta > 0 {
			s.saga.ReleaseAll(ctx, cmd.OrderID, heldDelta)
		}
		return nil, err
	}

	if delta < 0 {
		heldDelta[0].Quantity = -delta
		s.saga.ReleaseAll(ctx, order.ID, heldDelta)
	}

	s.logger.Info("line quantity adjusted",
		zap.String("order", order.ID),
		zap.String("product", cmd.ProductID),
		zap.Int64("from", previous),
		zap.Int64("to", cmd.NewQuantity))
	return order, nil
}

func (s *Service) AssignBranch(ctx context.Context, cmd domain.AssignBranchCommand) (*domain.Order, error) {
	ctx, span := tracer.Start(ctx, "AssignBranch", trace.WithAttributes(
		attribute.String("order.id", cmd.OrderID),
		attribute.String("order.branch", cmd.BranchID),
	))
	defer span.End()

	order, err := s.assignBranch(ctx, cmd)
	if err != nil {
		err = s.fail("Assign branch", err)
		endSpan(span, err)
		return nil, err
	}
	return order, nil
}

func (s *Service) assignBranch(ctx context.Context, cmd domain.AssignBranchCommand) (*domain.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	current, err := s.repo.ReadOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if !current.Adjustable() {
		return nil, domain.Reject(domain.ErrOrderNotAdjustable, "order in %s can not change branch", current.Status)
	}
	if current.BranchID == cmd.BranchID {
		return nil, domain.Reject(domain.ErrValidation, "order is already assigned to %s", cmd.BranchID)
	}
	if err := s.requireActiveBranch(ctx, cmd.BranchID); err != nil {
		return nil, err
	}

	lines := make([]domain.LineRequest, 0, len(current.Lines))
	for _, l := range current.Lines {
		lines = append(lines, domain.LineRequest{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	held, err := s.saga.Reserve(ctx, current.ID, cmd.BranchID, lines)
	if err != nil {
		return nil, err
	}

	released := current.Reservations()
	order, err := s.repo.UpdateOrder(ctx, cmd.OrderID, func(o *domain.Order) error {
		if o.BranchID != current.BranchID || !sameLines(o, current) {
			return errConcurrentChange
		}
		return o.ReassignBranch(cmd.BranchID, cmd.Actor, cmd.Justification, s.now())
	})
	if err != nil {
		s.saga.ReleaseAll(ctx, cmd.OrderID, held)
		return nil, err
	}

	s.saga.ReleaseAll(ctx, order.ID, released)
	s.logger.Info("branch reassigned",
		zap.String("order", order.ID),
		zap.String("from", current.BranchID),
		zap.String("to", order.BranchID),
		zap.String("actor", cmd.Actor.ID))
	s.notify(ctx, order, domain.EventOrderStatusChanged)
	return order, nil
}

func (s *Service) requireActiveBranch(ctx context.Context, branchID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	branches, err := s.geography.ListActiveBranches(ctx)
	if err != nil {
		return unavailable(err)
	}
	for _, b := range branches {
		if b.ID == branchID {
			return nil
		}
	}
	return domain.NewValidationError("branch_id", "unknown or inactive branch "+branchID)
}

func sameLines(a, b *domain.Order) bool {
	if len(a.Lines) != len(b.Lines) {
		return false
	}
	for i := range a.Lines {
		if a.Lines[i].ProductID != b.Lines[i].ProductID || a.Lines[i].Quantity != b.Lines[i].Quantity {
			return false
		}
	}
	return true
}

// GetOrder returns an order. Customers only see their own orders.
func (s *Service) GetOrder(ctx context.Context, orderID string, actor domain.Actor) (*domain.Order, error) {
	order, err := s.repo.ReadOrder(ctx, orderID)
	if err != nil {
		return nil, s.fail("Get order", err)
	}
	if actor.Role == domain.RoleCustomer && order.CustomerID != actor.ID {
		return nil, domain.ErrDataNotFound
	}
	return order, nil
}

func (s *Service) ListCustomerOrders(ctx context.Context, customerID string) ([]*domain.Order, error) {
	orders, err := s.repo.ListOrdersByCustomer(ctx, customerID)
	if err != nil {
		return nil, s.fail("List orders", err)
	}
	return orders, nil
}

var knownErrors = []error{
	domain.ErrValidation,
	domain.ErrDataNotFound,
	domain.ErrConflictingData,
	domain.ErrNoBranchAvailable,
	domain.ErrReservationFailed,
	domain.ErrIllegalTransition,
	domain.ErrForbidden,
	domain.ErrInsufficientStock,
	domain.ErrCollaboratorUnavailable,
	domain.ErrBranchAlreadySet,
	domain.ErrOrderNotAdjustable,
	domain.ErrInternal,
}

// fail passes domain errors through and hides everything else behind ErrInternal.
func (s *Service) fail(op string, err error) error {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	s.logger.Error(op, zap.Error(err))
	return domain.ErrInternal
}

func endSpan(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
