package routing_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/client/routing"
	"github.com/MikeRez0/ypfulfillment/internal/adapter/config"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClient_RoadDistance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"meters":5230.5}}`))
	}))
	defer srv.Close()

	c, err := routing.NewClient(&config.Collaborator{HostString: srv.URL, Timeout: time.Second}, zap.NewNop())
	require.NoError(t, err)

	meters, err := c.RoadDistance(context.Background(), domain.Coordinates{Lat: 1, Lng: 1}, domain.Coordinates{Lat: 1.01, Lng: 1})
	require.NoError(t, err)
	assert.InDelta(t, 5230.5, meters, 0.001)
}
