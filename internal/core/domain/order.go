package domain

import (
	"fmt"
	"time"

	"github.com/govalues/decimal"
	"github.com/oklog/ulid/v2"
)

type OrderStatus string

const (
	OrderStatusPendingConfirmation OrderStatus = "PENDING_CONFIRMATION"
	OrderStatusConfirmed           OrderStatus = "CONFIRMED"
	OrderStatusPacking             OrderStatus = "PACKING"
	OrderStatusReadyToShip         OrderStatus = "READY_TO_SHIP"
	OrderStatusShipping            OrderStatus = "SHIPPING"
	OrderStatusDelivered           OrderStatus = "DELIVERED"
	OrderStatusFailedDelivery      OrderStatus = "FAILED_DELIVERY"
	OrderStatusCompleted           OrderStatus = "COMPLETED"
	OrderStatusReturning           OrderStatus = "RETURNING"
	OrderStatusReturned            OrderStatus = "RETURNED"
	OrderStatusCancelled           OrderStatus = "CANCELLED"
)

type PaymentMethod string

const (
	PaymentMethodCOD          PaymentMethod = "COD"
	PaymentMethodCard         PaymentMethod = "CARD"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCOD, PaymentMethodCard, PaymentMethodBankTransfer:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// LineSnapshot freezes catalog data at purchase time.
type LineSnapshot struct {
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	ImageURL string `json:"image_url,omitempty"`
}

type OrderLine struct {
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
	Subtotal  decimal.Decimal
	Snapshot  LineSnapshot
}

type StatusHistoryEntry struct {
	ID        string
	OrderID   string
	From      *OrderStatus
	To        OrderStatus
	ActorID   string
	ActorRole Role
	Note      string
	CreatedAt time.Time
}

type Order struct {
	ID              string
	Number          string
	CustomerID      string
	Lines           []OrderLine
	Subtotal        decimal.Decimal
	Discount        decimal.Decimal
	ShippingFee     decimal.Decimal
	TaxRate         decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	PromotionID     string
	BranchID        string
	Status          OrderStatus
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	ShippingAddress string
	Destination     *Coordinates
	DeliveryProof   string
	CancelReason    string

	ConfirmedAt *time.Time
	PackedAt    *time.Time
	ShippedAt   *time.Time
	DeliveredAt *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time

	History []StatusHistoryEntry
}

// Recalculate recomputes line subtotals, tax and total.
// Total = Subtotal + ShippingFee + Tax - Discount.
func (o *Order) Recalculate() error {
	subtotal := decimal.Zero
	for i := range o.Lines {
		l := &o.Lines[i]
		qty, err := decimal.New(l.Quantity, 0)
		if err != nil {
			return fmt.Errorf("math error:%w", err)
		}
		gross, err := l.UnitPrice.Mul(qty)
		if err != nil {
			return fmt.Errorf("math error:%w", err)
		}
		if l.Discount.Cmp(gross) > 0 {
			l.Discount = gross
		}
		l.Subtotal, err = gross.Sub(l.Discount)
		if err != nil {
			return fmt.Errorf("math error:%w", err)
		}
		subtotal, err = subtotal.Add(l.Subtotal)
		if err != nil {
			return fmt.Errorf("math error:%w", err)
		}
	}
	o.Subtotal = subtotal

	if o.Discount.IsNeg() {
		o.Discount = decimal.Zero
	}
	if o.Discount.Cmp(o.Subtotal) > 0 {
		o.Discount = o.Subtotal
	}

	taxable, err := o.Subtotal.Sub(o.Discount)
	if err != nil {
		return fmt.Errorf("math error:%w", err)
	}
	tax, err := taxable.Mul(o.TaxRate)
	if err != nil {
		return fmt.Errorf("math error:%w", err)
	}
	o.Tax = tax.Round(2)

	total, err := o.Subtotal.Add(o.ShippingFee)
	if err != nil {
		return fmt.Errorf("math error:%w", err)
	}
	total, err = total.Add(o.Tax)
	if err != nil {
		return fmt.Errorf("math error:%w", err)
	}
	o.Total, err = total.Sub(o.Discount)
	if err != nil {
		return fmt.Errorf("math error:%w", err)
	}
	return nil
}

// AssignBranch sets the fulfilling branch once.
func (o *Order) AssignBranch(branchID string) error {
	if o.BranchID != "" && o.BranchID != branchID {
		return ErrBranchAlreadySet
	}
	o.BranchID = branchID
	return nil
}

// Reservations lists what is held at the order's branch.
func (o *Order) Reservations() []ReservationRecord {
	records := make([]ReservationRecord, 0, len(o.Lines))
	for _, l := range o.Lines {
		records = append(records, ReservationRecord{
			BranchID:  o.BranchID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}
	return records
}

func (o *Order) Line(productID string) (*OrderLine, bool) {
	for i := range o.Lines {
		if o.Lines[i].ProductID == productID {
			return &o.Lines[i], true
		}
	}
	return nil, false
}

// Adjustable reports whether lines may still change.
func (o *Order) Adjustable() bool {
	return o.Status == OrderStatusPendingConfirmation || o.Status == OrderStatusConfirmed
}

func (o *Order) appendHistory(from *OrderStatus, to OrderStatus, actor Actor, note string, now time.Time) {
	o.History = append(o.History, StatusHistoryEntry{
		ID:        ulid.Make().String(),
		OrderID:   o.ID,
		From:      from,
		To:        to,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Note:      note,
		CreatedAt: now,
	})
}

// Open starts the lifecycle and records the creation entry.
func (o *Order) Open(actor Actor, now time.Time) {
	o.Status = OrderStatusPendingConfirmation
	o.PaymentStatus = PaymentStatusPending
	o.CreatedAt = now
	o.UpdatedAt = now
	o.appendHistory(nil, o.Status, actor, "order created", now)
}

// LastHistory returns the newest history entry, if any.
func (o *Order) LastHistory() (StatusHistoryEntry, bool) {
	if len(o.History) == 0 {
		return StatusHistoryEntry{}, false
	}
	return o.History[len(o.History)-1], true
}

// SetLineQuantity changes one line and recomputes totals. It returns the previous quantity.
func (o *Order) SetLineQuantity(productID string, quantity int64, now time.Time) (int64, error) {
	if !o.Adjustable() {
		return 0, Reject(ErrOrderNotAdjustable, "order in %s can not be adjusted", o.Status)
	}
	if quantity <= 0 {
		return 0, NewValidationError("quantity", "must be positive")
	}
	line, ok := o.Line(productID)
	if !ok {
		return 0, NewValidationError("product_id", "order has no line for "+productID)
	}
	previous := line.Quantity
	line.Quantity = quantity
	if err := o.Recalculate(); err != nil {
		line.Quantity = previous
		return 0, err
	}
	o.UpdatedAt = now
	return previous, nil
}

// ReassignBranch is the explicit administrative branch change.
func (o *Order) ReassignBranch(branchID string, actor Actor, justification string, now time.Time) error {
	if actor.Role != RoleAdmin {
		return Reject(ErrForbidden, "only admin may reassign a branch")
	}
	if !o.Adjustable() {
		return Reject(ErrOrderNotAdjustable, "order in %s can not change branch", o.Status)
	}
	if o.BranchID == branchID {
		return Reject(ErrValidation, "order is already assigned to %s", branchID)
	}
	previous := o.BranchID
	o.BranchID = branchID
	o.UpdatedAt = now

	status := o.Status
	o.appendHistory(&status, status, actor,
		fmt.Sprintf("branch reassigned: %s -> %s: %s", previous, branchID, justification), now)
	return nil
}

// Clone returns a deep copy safe to mutate.
func (o *Order) Clone() *Order {
	c := *o
	c.Lines = append([]OrderLine(nil), o.Lines...)
	c.History = make([]StatusHistoryEntry, len(o.History))
	for i, h := range o.History {
		if h.From != nil {
			from := *h.From
			h.From = &from
		}
		c.History[i] = h
	}
	if o.Destination != nil {
		d := *o.Destination
		c.Destination = &d
	}
	for _, ts := range []**time.Time{&c.ConfirmedAt, &c.PackedAt, &c.ShippedAt, &c.DeliveredAt, &c.CompletedAt, &c.CancelledAt} {
		if *ts != nil {
			t := **ts
			*ts = &t
		}
	}
	return &c
}
