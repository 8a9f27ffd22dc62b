package geography

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/cache"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/port"
	"go.uber.org/zap"
)

// Cached remembers geocoding results. Cache failures never fail a lookup.
type Cached struct {
	port.GeographyClient
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCached(next port.GeographyClient, c cache.Cache, ttl time.Duration, log *zap.Logger) *Cached {
	return &Cached{
		GeographyClient: next,
		cache:           c,
		ttl:             ttl,
		logger:          log,
	}
}

func (c *Cached) Geocode(ctx context.Context, address string) (domain.Coordinates, error) {
	key := c.cache.GenerateKey("geocode", normalize(address))

	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("geocode cache read failed", zap.Error(err))
	}
	if raw != "" {
		var coords domain.Coordinates
		if err := json.Unmarshal([]byte(raw), &coords); err == nil {
			return coords, nil
		}
	}

	coords, err := c.GeographyClient.Geocode(ctx, address)
	if err != nil {
		return coords, err
	}

	if buf, err := json.Marshal(coords); err == nil {
		if err := c.cache.Set(ctx, key, string(buf), c.ttl); err != nil {
			c.logger.Warn("geocode cache write failed", zap.Error(err))
		}
	}
	return coords, nil
}
