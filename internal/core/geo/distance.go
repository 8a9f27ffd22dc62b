// Package geo estimates distances and ranks branches around a destination.
package geo

import (
	"context"
	"fmt"
	"math"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
)

const earthRadiusMeters = 6371000.0

// Haversine returns the great-circle distance in meters.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// RoadDistancer is satisfied by the routing collaborator client.
type RoadDistancer interface {
	RoadDistance(ctx context.Context, from, to domain.Coordinates) (float64, error)
}

// Estimator prefers road distance and falls back to straight line.
type Estimator struct {
	road RoadDistancer
}

func NewEstimator(road RoadDistancer) *Estimator {
	return &Estimator{road: road}
}

// Distance never fails: routing errors degrade to haversine.
func (e *Estimator) Distance(ctx context.Context, from, to domain.Coordinates) (float64, string) {
	if e != nil && e.road != nil {
		if meters, err := e.road.RoadDistance(ctx, from, to); err == nil && meters >= 0 {
			return meters, Label(meters, "road")
		}
	}
	meters := Haversine(from.Lat, from.Lng, to.Lat, to.Lng)
	return meters, Label(meters, "straight line")
}

func Label(meters float64, kind string) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m (%s)", meters, kind)
	}
	return fmt.Sprintf("%.1f km (%s)", meters/1000, kind)
}
