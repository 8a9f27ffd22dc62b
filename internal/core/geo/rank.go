package geo

import (
	"context"
	"sort"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

const (
	unknownDistance = "distance unknown"
	// concurrent routing lookups while ranking
	rankFanOut = 8
)

// Rank orders branches nearest first. Branches without usable coordinates
// keep their input order at the tail. Distances are estimated concurrently.
func Rank(ctx context.Context, dest domain.Coordinates, branches []domain.Branch, est *Estimator) []domain.BranchCandidate {
	known := make([]domain.BranchCandidate, 0, len(branches))
	unknown := make([]domain.BranchCandidate, 0)

	for _, b := range branches {
		if b.Coordinates == nil || !b.Coordinates.Valid() {
			unknown = append(unknown, domain.BranchCandidate{
				Branch:        b,
				DistanceLabel: unknownDistance,
			})
			continue
		}
		known = append(known, domain.BranchCandidate{Branch: b, DistanceKnown: true})
	}

	var g errgroup.Group
	g.SetLimit(rankFanOut)
	for i := range known {
		c := &known[i]
		g.Go(func() error {
			c.DistanceMeters, c.DistanceLabel = est.Distance(ctx, dest, *c.Branch.Coordinates)
			return nil
		})
	}
	_ = g.Wait()

	sort.SliceStable(known, func(i, j int) bool {
		return known[i].DistanceMeters < known[j].DistanceMeters
	})

	return append(known, unknown...)
}

// Unranked wraps branches as candidates in the given order.
func Unranked(branches []domain.Branch) []domain.BranchCandidate {
	list := make([]domain.BranchCandidate, 0, len(branches))
	for _, b := range branches {
		list = append(list, domain.BranchCandidate{Branch: b, DistanceLabel: unknownDistance})
	}
	return list
}
