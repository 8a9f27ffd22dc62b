package http

import (
	"time"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
)

type coordinatesBody struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type LineResp struct {
	ProductID string      `json:"product_id"`
	Name      string      `json:"name"`
	SKU       string      `json:"sku"`
	ImageURL  string      `json:"image_url,omitempty"`
	Quantity  int64       `json:"quantity"`
	UnitPrice jsonDecimal `json:"unit_price"`
	Discount  jsonDecimal `json:"discount"`
	Subtotal  jsonDecimal `json:"subtotal"`
}

type HistoryResp struct {
	From      *domain.OrderStatus `json:"from,omitempty"`
	To        domain.OrderStatus  `json:"to"`
	ActorID   string              `json:"actor_id"`
	ActorRole domain.Role         `json:"actor_role"`
	Note      string              `json:"note,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

type OrderResp struct {
	ID              string               `json:"id"`
	Number          string               `json:"number"`
	CustomerID      string               `json:"customer_id"`
	BranchID        string               `json:"branch_id"`
	Status          domain.OrderStatus   `json:"status"`
	PaymentMethod   domain.PaymentMethod `json:"payment_method"`
	PaymentStatus   domain.PaymentStatus `json:"payment_status"`
	ShippingAddress string               `json:"shipping_address,omitempty"`
	Destination     *coordinatesBody     `json:"destination,omitempty"`
	Lines           []LineResp           `json:"lines"`
	Subtotal        jsonDecimal          `json:"subtotal"`
	Discount        jsonDecimal          `json:"discount"`
	ShippingFee     jsonDecimal          `json:"shipping_fee"`
	Tax             jsonDecimal          `json:"tax"`
	Total           jsonDecimal          `json:"total"`
	DeliveryProof   string               `json:"delivery_proof,omitempty"`
	CancelReason    string               `json:"cancel_reason,omitempty"`
	ConfirmedAt     *time.Time           `json:"confirmed_at,omitempty"`
	PackedAt        *time.Time           `json:"packed_at,omitempty"`
	ShippedAt       *time.Time           `json:"shipped_at,omitempty"`
	DeliveredAt     *time.Time           `json:"delivered_at,omitempty"`
	CompletedAt     *time.Time           `json:"completed_at,omitempty"`
	CancelledAt     *time.Time           `json:"cancelled_at,omitempty"`
	Version         int64                `json:"version"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
	History         []HistoryResp        `json:"history,omitempty"`
}

type PlacementResp struct {
	Order OrderResp           `json:"order"`
	Trail []domain.TrailEntry `json:"trail"`
}

func newOrderResp(o *domain.Order, withHistory bool) OrderResp {
	r := OrderResp{
		ID:              o.ID,
		Number:          o.Number,
		CustomerID:      o.CustomerID,
		BranchID:        o.BranchID,
		Status:          o.Status,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		ShippingAddress: o.ShippingAddress,
		Lines:           make([]LineResp, 0, len(o.Lines)),
		Subtotal:        jsonDecimal(o.Subtotal),
		Discount:        jsonDecimal(o.Discount),
		ShippingFee:     jsonDecimal(o.ShippingFee),
		Tax:             jsonDecimal(o.Tax),
		Total:           jsonDecimal(o.Total),
		DeliveryProof:   o.DeliveryProof,
		CancelReason:    o.CancelReason,
		ConfirmedAt:     o.ConfirmedAt,
		PackedAt:        o.PackedAt,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		CompletedAt:     o.CompletedAt,
		CancelledAt:     o.CancelledAt,
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.Destination != nil {
		r.Destination = &coordinatesBody{Lat: o.Destination.Lat, Lng: o.Destination.Lng}
	}
	for _, l := range o.Lines {
		r.Lines = append(r.Lines, LineResp{
			ProductID: l.ProductID,
			Name:      l.Snapshot.Name,
			SKU:       l.Snapshot.SKU,
			ImageURL:  l.Snapshot.ImageURL,
			Quantity:  l.Quantity,
			UnitPrice: jsonDecimal(l.UnitPrice),
			Discount:  jsonDecimal(l.Discount),
			Subtotal:  jsonDecimal(l.Subtotal),
		})
	}
	if withHistory {
		for _, h := range o.History {
			r.History = append(r.History, HistoryResp{
				From:      h.From,
				To:        h.To,
				ActorID:   h.ActorID,
				ActorRole: h.ActorRole,
				Note:      h.Note,
				CreatedAt: h.CreatedAt,
			})
		}
	}
	return r
}
