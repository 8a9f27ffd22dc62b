package domain

import "strings"

type CreateOrderLine struct {
	ProductID string
	Quantity  int64
}

type CreateOrderCommand struct {
	CustomerID      string
	Lines           []CreateOrderLine
	ShippingAddress string
	Destination     *Coordinates
	PaymentMethod   PaymentMethod
	PromotionID     string
}

func (c CreateOrderCommand) Validate() error {
	if strings.TrimSpace(c.CustomerID) == "" {
		return NewValidationError("customer_id", "is required")
	}
	if len(c.Lines) == 0 {
		return NewValidationError("lines", "cart is empty")
	}
	seen := make(map[string]struct{}, len(c.Lines))
	for _, l := range c.Lines {
		if strings.TrimSpace(l.ProductID) == "" {
			return NewValidationError("lines.product_id", "is required")
		}
		if l.Quantity <= 0 {
			return NewValidationError("lines.quantity", "must be positive for "+l.ProductID)
		}
		if _, dup := seen[l.ProductID]; dup {
			return NewValidationError("lines.product_id", "duplicate product "+l.ProductID)
		}
		seen[l.ProductID] = struct{}{}
	}
	if !c.PaymentMethod.Valid() {
		return NewValidationError("payment_method", "unknown method "+string(c.PaymentMethod))
	}
	if c.Destination == nil && strings.TrimSpace(c.ShippingAddress) == "" {
		return NewValidationError("shipping", "address or coordinates are required")
	}
	if c.Destination != nil && !c.Destination.Valid() {
		return NewValidationError("shipping.coordinates", "out of range")
	}
	return nil
}

func (c CreateOrderCommand) LineRequests() []LineRequest {
	req := make([]LineRequest, 0, len(c.Lines))
	for _, l := range c.Lines {
		req = append(req, LineRequest{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return req
}

type AdvanceStatusCommand struct {
	OrderID       string
	Target        OrderStatus
	Actor         Actor
	DeliveryProof string
	Note          string
}

func (c AdvanceStatusCommand) Validate() error {
	if c.OrderID == "" {
		return NewValidationError("order_id", "is required")
	}
	if !c.Target.Valid() {
		return NewValidationError("status", "unknown status "+string(c.Target))
	}
	if c.Actor.ID == "" || !c.Actor.Role.Valid() {
		return NewValidationError("actor", "is required")
	}
	return nil
}

type ForceStatusCommand struct {
	OrderID       string
	Target        OrderStatus
	Actor         Actor
	Justification string
}

func (c ForceStatusCommand) Validate() error {
	if c.OrderID == "" {
		return NewValidationError("order_id", "is required")
	}
	if c.Actor.ID == "" || !c.Actor.Role.Valid() {
		return NewValidationError("actor", "is required")
	}
	return nil
}

type CancelOrderCommand struct {
	OrderID    string
	CustomerID string
	Reason     string
}

func (c CancelOrderCommand) Validate() error {
	if c.OrderID == "" {
		return NewValidationError("order_id", "is required")
	}
	if c.CustomerID == "" {
		return NewValidationError("customer_id", "is required")
	}
	return nil
}

type AdjustLineQuantityCommand struct {
	OrderID     string
	ProductID   string
	NewQuantity int64
	CustomerID  string
}

func (c AdjustLineQuantityCommand) Validate() error {
	if c.OrderID == "" || c.ProductID == "" {
		return NewValidationError("line", "order and product are required")
	}
	if c.NewQuantity <= 0 {
		return NewValidationError("quantity", "must be positive")
	}
	if c.CustomerID == "" {
		return NewValidationError("customer_id", "is required")
	}
	return nil
}

type AssignBranchCommand struct {
	OrderID       string
	BranchID      string
	Actor         Actor
	Justification string
}

func (c AssignBranchCommand) Validate() error {
	if c.OrderID == "" || c.BranchID == "" {
		return NewValidationError("branch", "order and branch are required")
	}
	if c.Actor.Role != RoleAdmin {
		return Reject(ErrForbidden, "only admin may reassign a branch")
	}
	if len(strings.TrimSpace(c.Justification)) < MinJustificationLength {
		return NewValidationError("justification", "too short")
	}
	return nil
}
