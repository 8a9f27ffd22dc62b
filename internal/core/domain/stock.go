package domain

import (
	"fmt"
	"strings"

	"github.com/govalues/decimal"
)

// StockLevel is one row of the inventory collaborator's ledger.
// Available is nil when the collaborator does not report it.
type StockLevel struct {
	BranchID  string
	ProductID string
	OnHand    int64
	Reserved  int64
	Available *int64
}

// Free returns the quantity that can still be reserved.
func (s StockLevel) Free() int64 {
	if s.Available != nil {
		return *s.Available
	}
	free := s.OnHand - s.Reserved
	if free < 0 {
		return 0
	}
	return free
}

// ProductInfo is the catalog view of a product at purchase time.
type ProductInfo struct {
	ProductID string
	Name      string
	SKU       string
	ImageURL  string
	Price     decimal.Decimal
	// TotalAvailable is the free stock summed over every branch.
	TotalAvailable int64
}

type LineRequest struct {
	ProductID string
	Quantity  int64
}

type ItemAvailability struct {
	ProductID string
	Requested int64
	Available int64
}

func (i ItemAvailability) Sufficient() bool {
	return i.Available >= i.Requested
}

type AvailabilityResult struct {
	BranchID  string
	Satisfied bool
	PerItem   []ItemAvailability
}

// Shortages renders the lines the branch could not satisfy.
func (r AvailabilityResult) Shortages() string {
	short := make([]string, 0, len(r.PerItem))
	for _, i := range r.PerItem {
		if !i.Sufficient() {
			short = append(short, fmt.Sprintf("%s (need %d, have %d)", i.ProductID, i.Requested, i.Available))
		}
	}
	return strings.Join(short, ", ")
}

// ReservationRecord is what the saga knows it has to compensate.
type ReservationRecord struct {
	BranchID  string
	ProductID string
	Quantity  int64
}
