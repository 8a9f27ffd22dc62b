package domain

import (
	"slices"
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer    Role = "CUSTOMER"
	RoleFulfillment Role = "FULFILLMENT"
	RoleDelivery    Role = "DELIVERY"
	RoleAdmin       Role = "ADMIN"
	RoleSystem      Role = "SYSTEM"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleFulfillment, RoleDelivery, RoleAdmin, RoleSystem:
		return true
	}
	return false
}

type Actor struct {
	ID   string
	Role Role
}

// MinJustificationLength is the minimum length of a forced transition note.
const MinJustificationLength = 20

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPendingConfirmation: {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:           {OrderStatusPacking, OrderStatusCancelled},
	OrderStatusPacking:             {OrderStatusReadyToShip, OrderStatusCancelled},
	OrderStatusReadyToShip:         {OrderStatusShipping, OrderStatusCancelled},
	OrderStatusShipping:            {OrderStatusDelivered, OrderStatusFailedDelivery},
	OrderStatusDelivered:           {OrderStatusCompleted},
	OrderStatusFailedDelivery:      {OrderStatusShipping, OrderStatusReturning, OrderStatusCancelled},
	OrderStatusReturning:           {OrderStatusReturned},
}

type edge struct {
	from OrderStatus
	to   OrderStatus
}

// Roles without an entry (admin) may drive every legal edge.
var roleEdges = map[Role][]edge{
	RoleCustomer: {},
	RoleFulfillment: {
		{OrderStatusConfirmed, OrderStatusPacking},
		{OrderStatusPacking, OrderStatusReadyToShip},
	},
	RoleDelivery: {
		{OrderStatusReadyToShip, OrderStatusShipping},
		{OrderStatusShipping, OrderStatusDelivered},
		{OrderStatusShipping, OrderStatusFailedDelivery},
		{OrderStatusFailedDelivery, OrderStatusShipping},
	},
	RoleSystem: {
		{OrderStatusPendingConfirmation, OrderStatusConfirmed},
		{OrderStatusDelivered, OrderStatusCompleted},
		{OrderStatusFailedDelivery, OrderStatusReturning},
		{OrderStatusReturning, OrderStatusReturned},
		{OrderStatusPendingConfirmation, OrderStatusCancelled},
		{OrderStatusConfirmed, OrderStatusCancelled},
		{OrderStatusPacking, OrderStatusCancelled},
		{OrderStatusReadyToShip, OrderStatusCancelled},
		{OrderStatusFailedDelivery, OrderStatusCancelled},
	},
}

func Statuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPendingConfirmation,
		OrderStatusConfirmed,
		OrderStatusPacking,
		OrderStatusReadyToShip,
		OrderStatusShipping,
		OrderStatusDelivered,
		OrderStatusFailedDelivery,
		OrderStatusCompleted,
		OrderStatusReturning,
		OrderStatusReturned,
		OrderStatusCancelled,
	}
}

func (s OrderStatus) Valid() bool {
	return slices.Contains(Statuses(), s)
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled || s == OrderStatusReturned
}

func CanTransition(from, to OrderStatus) bool {
	return slices.Contains(orderTransitions[from], to)
}

// MayDrive reports whether the role is allowed to drive a legal edge.
func (r Role) MayDrive(from, to OrderStatus) bool {
	edges, restricted := roleEdges[r]
	if !restricted {
		return r == RoleAdmin
	}
	return slices.Contains(edges, edge{from, to})
}

// TransitionRequest carries everything a status change needs.
type TransitionRequest struct {
	Target        OrderStatus
	Actor         Actor
	DeliveryProof string
	Note          string
	Now           time.Time
}

// Effects lists side effects the caller has to run after the transition is stored.
type Effects struct {
	ReleaseStock bool
}

// Advance applies a transition from the static table, gated by role.
func (o *Order) Advance(req TransitionRequest) (Effects, error) {
	from := o.Status
	if !CanTransition(from, req.Target) {
		return Effects{}, Reject(ErrIllegalTransition, "transition %s -> %s is not allowed", from, req.Target)
	}
	if !req.Actor.Role.MayDrive(from, req.Target) {
		return Effects{}, Reject(ErrForbidden, "role %s may not move order from %s to %s", req.Actor.Role, from, req.Target)
	}
	if req.Target == OrderStatusDelivered && strings.TrimSpace(req.DeliveryProof) == "" {
		return Effects{}, Reject(ErrValidation, "missing delivery confirmation")
	}

	return o.apply(req, req.Note), nil
}

// Force applies an administrative transition outside the table.
func (o *Order) Force(req TransitionRequest) (Effects, error) {
	if req.Actor.Role != RoleAdmin {
		return Effects{}, Reject(ErrForbidden, "only admin may force a status")
	}
	if len(strings.TrimSpace(req.Note)) < MinJustificationLength {
		return Effects{}, Reject(ErrValidation, "justification must be at least %d characters", MinJustificationLength)
	}
	if !req.Target.Valid() {
		return Effects{}, Reject(ErrValidation, "unknown status %q", req.Target)
	}
	if o.Status.IsTerminal() || o.Status == req.Target {
		return Effects{}, Reject(ErrIllegalTransition, "order in %s can not be forced to %s", o.Status, req.Target)
	}

	return o.apply(req, "forced: "+strings.TrimSpace(req.Note)), nil
}

// CancelByCustomer is the narrower customer-initiated cancellation.
func (o *Order) CancelByCustomer(customerID, reason string, now time.Time) (Effects, error) {
	if o.CustomerID != customerID {
		return Effects{}, Reject(ErrForbidden, "order belongs to another customer")
	}
	if o.Status != OrderStatusPendingConfirmation && o.Status != OrderStatusConfirmed {
		return Effects{}, Reject(ErrIllegalTransition, "order in %s can not be cancelled by customer", o.Status)
	}
	o.CancelReason = reason
	return o.apply(TransitionRequest{
		Target: OrderStatusCancelled,
		Actor:  Actor{ID: customerID, Role: RoleCustomer},
		Now:    now,
	}, reason), nil
}

func (o *Order) apply(req TransitionRequest, note string) Effects {
	from := o.Status
	o.Status = req.Target
	o.UpdatedAt = req.Now
	o.stampMilestone(req)
	o.appendHistory(&from, req.Target, req.Actor, note, req.Now)

	effects := Effects{}
	if req.Target == OrderStatusCancelled && o.BranchID != "" {
		effects.ReleaseStock = true
	}
	return effects
}

func (o *Order) stampMilestone(req TransitionRequest) {
	now := req.Now
	switch req.Target {
	case OrderStatusConfirmed:
		o.ConfirmedAt = &now
	case OrderStatusPacking:
		o.PackedAt = &now
	case OrderStatusShipping:
		o.ShippedAt = &now
	case OrderStatusDelivered:
		o.DeliveredAt = &now
		o.DeliveryProof = strings.TrimSpace(req.DeliveryProof)
	case OrderStatusCompleted:
		o.CompletedAt = &now
		if o.PaymentMethod == PaymentMethodCOD {
			o.PaymentStatus = PaymentStatusPaid
		}
	case OrderStatusCancelled:
		if o.CancelledAt == nil {
			o.CancelledAt = &now
		}
		if o.CancelReason == "" {
			o.CancelReason = req.Note
		}
	}
}
