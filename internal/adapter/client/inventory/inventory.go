package inventory

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/client/envelope"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/config"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type Client struct {
	c      *envelope.Client
	logger *zap.Logger
}

func NewClient(cfg *config.Collaborator, log *zap.Logger) (*Client, error) {
	return &Client{
		c:      envelope.NewClient(cfg.HostString, cfg.Timeout, log),
		logger: log,
	}, nil
}

type stockLevel struct {
	BranchID  string `json:"branch_id"`
	ProductID string `json:"product_id"`
	OnHand    int64  `json:"on_hand"`
	Reserved  int64  `json:"reserved"`
	Available *int64 `json:"available"`
}

type product struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	ImageURL       string          `json:"image_url"`
	Price          decimal.Decimal `json:"price"`
	TotalAvailable *int64          `json:"total_available"`
}

type movement struct {
	BranchID  string `json:"branch_id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

type ack struct {
	OK bool `json:"ok"`
}

func (c *Client) GetAvailability(ctx context.Context, branchID, productID string) ([]domain.StockLevel, error) {
	query := url.Values{}
	if branchID != "" {
		query.Set("branch_id", branchID)
	}
	if productID != "" {
		query.Set("product_id", productID)
	}

	levels, err := envelope.Call[[]stockLevel](ctx, c.c, http.MethodGet, "/api/stock", query, nil)
	if err != nil {
		return nil, err
	}

	result := make([]domain.StockLevel, 0, len(levels))
	for _, l := range levels {
		result = append(result, domain.StockLevel(l))
	}
	return result, nil
}

func (c *Client) GetProducts(ctx context.Context, productIDs []string) ([]domain.ProductInfo, error) {
	products, err := envelope.Call[[]product](ctx, c.c, http.MethodPost, "/api/products/batch", nil,
		map[string][]string{"ids": productIDs})
	if err != nil {
		return nil, err
	}

	result := make([]domain.ProductInfo, 0, len(products))
	for _, p := range products {
		info := domain.ProductInfo{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			ImageURL:  p.ImageURL,
			Price:     p.Price,
		}
		if p.TotalAvailable != nil {
			info.TotalAvailable = *p.TotalAvailable
		} else {
			info.TotalAvailable, err = c.totalAvailable(ctx, p.ID)
			if err != nil {
				return nil, err
			}
		}
		result = append(result, info)
	}
	return result, nil
}

// totalAvailable sums free stock over all branches for catalogs that omit the total.
func (c *Client) totalAvailable(ctx context.Context, productID string) (int64, error) {
	levels, err := c.GetAvailability(ctx, "", productID)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, l := range levels {
		if l.ProductID == productID {
			total += l.Free()
		}
	}
	return total, nil
}

// Reserve trusts only the collaborator's own answer: a negative ack is a refusal.
func (c *Client) Reserve(ctx context.Context, branchID, productID string, quantity int64) error {
	a, err := envelope.Call[ack](ctx, c.c, http.MethodPost, "/api/reservations", nil,
		movement{BranchID: branchID, ProductID: productID, Quantity: quantity})
	if err != nil {
		return err
	}
	if !a.OK {
		c.logger.Warn("reservation refused",
			zap.String("branch", branchID), zap.String("product", productID), zap.Int64("quantity", quantity))
		return domain.Reject(domain.ErrInsufficientStock,
			"branch %s refused to reserve %d of %s", branchID, quantity, productID)
	}
	return nil
}

func (c *Client) Release(ctx context.Context, branchID, productID string, quantity int64) error {
	a, err := envelope.Call[ack](ctx, c.c, http.MethodPost, "/api/reservations/release", nil,
		movement{BranchID: branchID, ProductID: productID, Quantity: quantity})
	if err != nil {
		return err
	}
	if !a.OK {
		return fmt.Errorf("branch %s refused to release %d of %s: %w",
			branchID, quantity, productID, domain.ErrCollaboratorUnavailable)
	}
	return nil
}
