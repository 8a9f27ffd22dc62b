package inventory

import (
	"context"
	"fmt"
	"sync"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
)

type stockKey struct {
	branchID  string
	productID string
}

type level struct {
	onHand   int64
	reserved int64
}

// Ledger is an in-process inventory collaborator. Reserve is atomic per call
// and Release never drives the reserved count below zero.
type Ledger struct {
	mu       sync.Mutex
	products map[string]domain.ProductInfo
	levels   map[stockKey]*level
	failures map[stockKey]error
	releases int
}

func NewLedger() *Ledger {
	return &Ledger{
		products: make(map[string]domain.ProductInfo),
		levels:   make(map[stockKey]*level),
		failures: make(map[stockKey]error),
	}
}

// AddProduct registers catalog data. TotalAvailable is computed from stock.
func (l *Ledger) AddProduct(p domain.ProductInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.products[p.ProductID] = p
}

func (l *Ledger) SetStock(branchID, productID string, onHand int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level(branchID, productID).onHand = onHand
}

// FailReserve makes the next reservations of the product at the branch fail with err.
// A nil err clears the failure.
func (l *Ledger) FailReserve(branchID, productID string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := stockKey{branchID, productID}
	if err == nil {
		delete(l.failures, key)
		return
	}
	l.failures[key] = err
}

func (l *Ledger) Reserved(branchID, productID string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lv, ok := l.levels[stockKey{branchID, productID}]; ok {
		return lv.reserved
	}
	return 0
}

// Releases counts successful release calls.
func (l *Ledger) Releases() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.releases
}

func (l *Ledger) level(branchID, productID string) *level {
	key := stockKey{branchID, productID}
	lv, ok := l.levels[key]
	if !ok {
		lv = &level{}
		l.levels[key] = lv
	}
	return lv
}

func (l *Ledger) GetAvailability(ctx context.Context, branchID, productID string) ([]domain.StockLevel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCollaboratorUnavailable, err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]domain.StockLevel, 0)
	for key, lv := range l.levels {
		if branchID != "" && key.branchID != branchID {
			continue
		}
		if productID != "" && key.productID != productID {
			continue
		}
		result = append(result, domain.StockLevel{
			BranchID:  key.branchID,
			ProductID: key.productID,
			OnHand:    lv.onHand,
			Reserved:  lv.reserved,
		})
	}
	return result, nil
}

func (l *Ledger) GetProducts(ctx context.Context, productIDs []string) ([]domain.ProductInfo, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]domain.ProductInfo, 0, len(productIDs))
	for _, id := range productIDs {
		p, ok := l.products[id]
		if !ok {
			continue
		}
		p.TotalAvailable = 0
		for key, lv := range l.levels {
			if key.productID == id && lv.onHand > lv.reserved {
				p.TotalAvailable += lv.onHand - lv.reserved
			}
		}
		result = append(result, p)
	}
	return result, nil
}

func (l *Ledger) Reserve(ctx context.Context, branchID, productID string, quantity int64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrCollaboratorUnavailable, err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if err, ok := l.failures[stockKey{branchID, productID}]; ok {
		return err
	}
	lv := l.level(branchID, productID)
	if lv.onHand-lv.reserved < quantity {
		return fmt.Errorf("%s at %s: %w", productID, branchID, domain.ErrInsufficientStock)
	}
	lv.reserved += quantity
	return nil
}

func (l *Ledger) Release(ctx context.Context, branchID, productID string, quantity int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	lv := l.level(branchID, productID)
	lv.reserved -= quantity
	if lv.reserved < 0 {
		lv.reserved = 0
	}
	l.releases++
	return nil
}
