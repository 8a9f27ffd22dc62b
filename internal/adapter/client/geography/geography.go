package geography

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/client/envelope"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/config"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
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

type branch struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Lat     *float64 `json:"lat"`
	Lng     *float64 `json:"lng"`
}

type point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c *Client) ListActiveBranches(ctx context.Context) ([]domain.Branch, error) {
	branches, err := envelope.Call[[]branch](ctx, c.c, http.MethodGet, "/api/branches",
		url.Values{"active": {"true"}}, nil)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Branch, 0, len(branches))
	for _, b := range branches {
		item := domain.Branch{ID: b.ID, Name: b.Name, Address: b.Address}
		if b.Lat != nil && b.Lng != nil {
			coords := domain.Coordinates{Lat: *b.Lat, Lng: *b.Lng}
			if coords.Valid() {
				item.Coordinates = &coords
			} else {
				c.logger.Warn("branch has invalid coordinates", zap.String("branch", b.ID))
			}
		}
		result = append(result, item)
	}
	return result, nil
}

func (c *Client) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	p, err := envelope.Call[point](ctx, c.c, http.MethodGet, "/api/geocode",
		url.Values{"address": {address}}, nil)
	if err != nil {
		return domain.Coordinates{}, err
	}
	coords := domain.Coordinates{Lat: p.Lat, Lng: p.Lng}
	if !coords.Valid() {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, domain.ErrDataNotFound)
	}
	return coords, nil
}
