package routing

import (
	"context"
	"fmt"
	"net/http"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/client/envelope"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/config"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"go.uber.org/zap"
)

// Client asks the routing service for driving distances.
type Client struct {
	c *envelope.Client
}

func NewClient(cfg *config.Collaborator, log *zap.Logger) (*Client, error) {
	return &Client{c: envelope.NewClient(cfg.HostString, cfg.Timeout, log)}, nil
}

type point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type routeRequest struct {
	From point `json:"from"`
	To   point `json:"to"`
}

type route struct {
	Meters float64 `json:"meters"`
}

func (c *Client) RoadDistance(ctx context.Context, from, to domain.Coordinates) (float64, error) {
	r, err := envelope.Call[route](ctx, c.c, http.MethodPost, "/api/route", nil, routeRequest{
		From: point{Lat: from.Lat, Lng: from.Lng},
		To:   point{Lat: to.Lat, Lng: to.Lng},
	})
	if err != nil {
		return 0, err
	}
	if r.Meters < 0 {
		return 0, fmt.Errorf("negative route length %v", r.Meters)
	}
	return r.Meters, nil
}
