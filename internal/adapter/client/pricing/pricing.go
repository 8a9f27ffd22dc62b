package pricing

import (
	"context"
	"net/http"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/client/envelope"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/config"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

type Client struct {
	c *envelope.Client
}

func NewClient(cfg *config.Collaborator, log *zap.Logger) (*Client, error) {
	return &Client{c: envelope.NewClient(cfg.HostString, cfg.Timeout, log)}, nil
}

type line struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type discountRequest struct {
	PromotionID string          `json:"promotion_id"`
	Lines       []line          `json:"lines"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type discount struct {
	Amount decimal.Decimal `json:"amount"`
}

func (c *Client) ComputeDiscount(ctx context.Context, promotionID string,
	lines []domain.OrderLine, subtotal decimal.Decimal) (decimal.Decimal, error) {
	req := discountRequest{
		PromotionID: promotionID,
		Lines:       make([]line, 0, len(lines)),
		Subtotal:    subtotal,
	}
	for _, l := range lines {
		req.Lines = append(req.Lines, line{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice})
	}

	d, err := envelope.Call[discount](ctx, c.c, http.MethodPost, "/api/promotions/discount", nil, req)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Amount, nil
}
