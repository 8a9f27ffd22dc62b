package domain

import (
	"testing"
	"time"

	"github.com/govalues/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrder(t *testing.T) *Order {
	t.Helper()
	o := &Order{
		ID:            "o1",
		CustomerID:    "c1",
		BranchID:      "b1",
		PaymentMethod: PaymentMethodCOD,
		ShippingFee:   decimal.MustParse("4.99"),
		TaxRate:       decimal.MustParse("0.2"),
		Lines: []OrderLine{
			{ProductID: "p1", Quantity: 3, UnitPrice: decimal.MustParse("2.50")},
			{ProductID: "p2", Quantity: 1, UnitPrice: decimal.MustParse("10.00"), Discount: decimal.MustParse("1.00")},
		},
	}
	require.NoError(t, o.Recalculate())
	o.Open(Actor{ID: "c1", Role: RoleCustomer}, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC))
	return o
}

func TestOrder_Recalculate(t *testing.T) {
	tests := []struct {
		name        string
		discount    string
		expSubtotal string
		expTax      string
		expTotal    string
	}{
		{name: "no discount", discount: "0", expSubtotal: "16.50", expTax: "3.30", expTotal: "24.79"},
		{name: "order discount", discount: "1.50", expSubtotal: "16.50", expTax: "3.00", expTotal: "22.99"},
		{name: "discount capped at subtotal", discount: "100", expSubtotal: "16.50", expTax: "0.00", expTotal: "4.99"},
		{name: "negative discount ignored", discount: "-3", expSubtotal: "16.50", expTax: "3.30", expTotal: "24.79"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			o := newOrder(t)
			o.Discount = decimal.MustParse(test.discount)
			require.NoError(t, o.Recalculate())

			assert.Equal(t, test.expSubtotal, o.Subtotal.String())
			assert.Equal(t, test.expTax, o.Tax.String())
			assert.Equal(t, test.expTotal, o.Total.String())
		})
	}
}

func TestOrder_Open(t *testing.T) {
	o := newOrder(t)

	assert.Equal(t, OrderStatusPendingConfirmation, o.Status)
	assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
	require.Len(t, o.History, 1)
	assert.Nil(t, o.History[0].From)
	assert.Equal(t, "c1", o.History[0].ActorID)
}

func TestOrder_AssignBranch(t *testing.T) {
	o := &Order{}
	require.NoError(t, o.AssignBranch("b1"))
	require.NoError(t, o.AssignBranch("b1"))
	assert.ErrorIs(t, o.AssignBranch("b2"), ErrBranchAlreadySet)
	assert.Equal(t, "b1", o.BranchID)
}

func TestOrder_SetLineQuantity(t *testing.T) {
	o := newOrder(t)
	now := time.Now()

	previous, err := o.SetLineQuantity("p1", 5, now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), previous)
	assert.Equal(t, "21.50", o.Subtotal.String())

	_, err = o.SetLineQuantity("p9", 1, now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = o.SetLineQuantity("p1", 0, now)
	assert.ErrorIs(t, err, ErrValidation)

	o.Status = OrderStatusShipping
	_, err = o.SetLineQuantity("p1", 1, now)
	assert.ErrorIs(t, err, ErrOrderNotAdjustable)
	assert.Equal(t, int64(5), o.Lines[0].Quantity)
}

func TestOrder_ReassignBranch(t *testing.T) {
	o := newOrder(t)
	admin := Actor{ID: "a1", Role: RoleAdmin}
	now := time.Now()

	assert.ErrorIs(t, o.ReassignBranch("b2", Actor{ID: "f1", Role: RoleFulfillment}, "x", now), ErrForbidden)
	assert.ErrorIs(t, o.ReassignBranch("b1", admin, "x", now), ErrValidation)

	require.NoError(t, o.ReassignBranch("b2", admin, "closed for audit", now))
	assert.Equal(t, "b2", o.BranchID)
	last, ok := o.LastHistory()
	require.True(t, ok)
	assert.Equal(t, OrderStatusPendingConfirmation, last.To)
	assert.Contains(t, last.Note, "b1 -> b2")
}

func TestOrder_Clone(t *testing.T) {
	o := newOrder(t)
	o.Destination = &Coordinates{Lat: 1, Lng: 2}
	confirmed := time.Now()
	o.ConfirmedAt = &confirmed

	c := o.Clone()
	c.Lines[0].Quantity = 99
	c.Destination.Lat = 50
	*c.ConfirmedAt = time.Time{}
	c.History = append(c.History, StatusHistoryEntry{})

	assert.Equal(t, int64(3), o.Lines[0].Quantity)
	assert.Equal(t, 1.0, o.Destination.Lat)
	assert.Equal(t, confirmed, *o.ConfirmedAt)
	assert.Len(t, o.History, 1)
}

func TestStockLevel_Free(t *testing.T) {
	reported := int64(7)
	assert.Equal(t, int64(3), StockLevel{OnHand: 5, Reserved: 2}.Free())
	assert.Equal(t, int64(0), StockLevel{OnHand: 1, Reserved: 2}.Free())
	assert.Equal(t, int64(7), StockLevel{OnHand: 1, Available: &reported}.Free())
}

func TestCreateOrderCommand_Validate(t *testing.T) {
	valid := CreateOrderCommand{
		CustomerID:      "c1",
		Lines:           []CreateOrderLine{{ProductID: "p1", Quantity: 1}},
		ShippingAddress: "1 Main Street",
		PaymentMethod:   PaymentMethodCard,
	}
	tests := []struct {
		name   string
		modify func(c *CreateOrderCommand)
		field  string
	}{
		{name: "valid", modify: func(c *CreateOrderCommand) {}},
		{name: "no customer", modify: func(c *CreateOrderCommand) { c.CustomerID = " " }, field: "customer_id"},
		{name: "empty cart", modify: func(c *CreateOrderCommand) { c.Lines = nil }, field: "lines"},
		{name: "zero quantity", modify: func(c *CreateOrderCommand) { c.Lines[0].Quantity = 0 }, field: "lines.quantity"},
		{name: "duplicate product", modify: func(c *CreateOrderCommand) {
			c.Lines = append(c.Lines, CreateOrderLine{ProductID: "p1", Quantity: 2})
		}, field: "lines.product_id"},
		{name: "unknown payment", modify: func(c *CreateOrderCommand) { c.PaymentMethod = "CRYPTO" }, field: "payment_method"},
		{name: "nowhere to ship", modify: func(c *CreateOrderCommand) { c.ShippingAddress = "" }, field: "shipping"},
		{name: "bad coordinates", modify: func(c *CreateOrderCommand) {
			c.Destination = &Coordinates{Lat: 91, Lng: 0}
		}, field: "shipping.coordinates"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cmd := valid
			cmd.Lines = append([]CreateOrderLine(nil), valid.Lines...)
			test.modify(&cmd)

			err := cmd.Validate()
			if test.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, test.field, verr.Field)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
