package geo_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/geo"
	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lon1     float64
		lat2     float64
		lon2     float64
		expected float64
		delta    float64
	}{
		{name: "same point", lat1: 10.77, lon1: 106.70, lat2: 10.77, lon2: 106.70, expected: 0, delta: 0.001},
		{name: "one degree of latitude", lat1: 0, lon1: 0, lat2: 1, lon2: 0, expected: 111195, delta: 1},
		{name: "paris to london", lat1: 48.8566, lon1: 2.3522, lat2: 51.5074, lon2: -0.1278, expected: 343556, delta: 500},
		{name: "antipodes", lat1: 0, lon1: 0, lat2: 0, lon2: 180, expected: math.Pi * 6371000, delta: 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := geo.Haversine(test.lat1, test.lon1, test.lat2, test.lon2)
			assert.InDelta(t, test.expected, got, test.delta)
		})
	}
}

type fakeRoad struct {
	meters float64
	err    error
}

func (f fakeRoad) RoadDistance(ctx context.Context, from, to domain.Coordinates) (float64, error) {
	return f.meters, f.err
}

func TestEstimator_Distance(t *testing.T) {
	from := domain.Coordinates{Lat: 0, Lng: 0}
	to := domain.Coordinates{Lat: 1, Lng: 0}

	meters, label := geo.NewEstimator(fakeRoad{meters: 150000}).Distance(context.Background(), from, to)
	assert.Equal(t, 150000.0, meters)
	assert.Equal(t, "150.0 km (road)", label)

	meters, label = geo.NewEstimator(fakeRoad{err: errors.New("timeout")}).Distance(context.Background(), from, to)
	assert.InDelta(t, 111195, meters, 1)
	assert.Equal(t, "111.2 km (straight line)", label)

	meters, _ = geo.NewEstimator(nil).Distance(context.Background(), from, to)
	assert.InDelta(t, 111195, meters, 1)
}

func TestRank(t *testing.T) {
	dest := domain.Coordinates{Lat: 0, Lng: 0}
	at := func(lat float64) *domain.Coordinates { return &domain.Coordinates{Lat: lat, Lng: 0} }

	branches := []domain.Branch{
		{ID: "far", Coordinates: at(0.5)},
		{ID: "nocoords"},
		{ID: "near", Coordinates: at(0.1)},
		{ID: "nan", Coordinates: &domain.Coordinates{Lat: math.NaN(), Lng: 0}},
		{ID: "tie-a", Coordinates: at(0.3)},
		{ID: "tie-b", Coordinates: at(0.3)},
	}

	ranked := geo.Rank(context.Background(), dest, branches, geo.NewEstimator(nil))

	ids := make([]string, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.Branch.ID)
	}
	assert.Equal(t, []string{"near", "tie-a", "tie-b", "far", "nocoords", "nan"}, ids)

	assert.True(t, ranked[0].DistanceKnown)
	assert.False(t, ranked[4].DistanceKnown)
	assert.Equal(t, "distance unknown", ranked[4].DistanceLabel)
	assert.Equal(t, "distance unknown", ranked[5].DistanceLabel)
}

func TestUnranked(t *testing.T) {
	list := geo.Unranked([]domain.Branch{{ID: "b"}, {ID: "a"}})
	assert.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Branch.ID)
	assert.False(t, list[0].DistanceKnown)
}

// gatedRoad answers only once every expected lookup is in flight.
type gatedRoad struct {
	arrived sync.WaitGroup
}

func (g *gatedRoad) RoadDistance(ctx context.Context, from, to domain.Coordinates) (float64, error) {
	g.arrived.Done()
	all := make(chan struct{})
	go func() {
		g.arrived.Wait()
		close(all)
	}()
	select {
	case <-all:
		return geo.Haversine(from.Lat, from.Lng, to.Lat, to.Lng) * 1.3, nil
	case <-time.After(time.Second):
		return 0, errors.New("lookups ran one at a time")
	}
}

func TestRank_ConcurrentRouting(t *testing.T) {
	dest := domain.Coordinates{Lat: 0, Lng: 0}
	branches := []domain.Branch{
		{ID: "c", Coordinates: &domain.Coordinates{Lat: 0.3, Lng: 0}},
		{ID: "a", Coordinates: &domain.Coordinates{Lat: 0.1, Lng: 0}},
		{ID: "d", Coordinates: &domain.Coordinates{Lat: 0.4, Lng: 0}},
		{ID: "b", Coordinates: &domain.Coordinates{Lat: 0.2, Lng: 0}},
	}
	road := &gatedRoad{}
	road.arrived.Add(len(branches))

	ranked := geo.Rank(context.Background(), dest, branches, geo.NewEstimator(road))

	ids := make([]string, 0, len(ranked))
	for _, c := range ranked {
		ids = append(ids, c.Branch.ID)
		assert.Contains(t, c.DistanceLabel, "(road)")
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
}
