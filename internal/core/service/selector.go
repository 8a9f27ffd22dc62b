package service

import (
	"context"
	"fmt"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/geo"
	"github.com/MikeRez0/ypfulfillment/internal/core/port"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultFanOut = 4

// Selector picks the nearest branch that can serve every line.
type Selector struct {
	geography port.GeographyClient
	stock     port.StockGateway
	estimator *geo.Estimator
	fanOut    int
	logger    *zap.Logger
}

func NewSelector(geography port.GeographyClient, stock port.StockGateway,
	estimator *geo.Estimator, fanOut int, logger *zap.Logger) *Selector {
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	return &Selector{
		geography: geography,
		stock:     stock,
		estimator: estimator,
		fanOut:    fanOut,
		logger:    logger,
	}
}

type checkResult struct {
	result domain.AvailabilityResult
	err    error
}

// Select checks up to fanOut candidates at once. The lowest ranked satisfied
// candidate wins, so the outcome matches a sequential nearest-first scan.
func (s *Selector) Select(ctx context.Context,
	dest *domain.Coordinates, lines []domain.LineRequest) (*domain.Selection, error) {
	ctx, span := tracer.Start(ctx, "SelectBranch")
	defer span.End()

	branches, err := s.geography.ListActiveBranches(ctx)
	if err != nil {
		err = unavailable(fmt.Errorf("list branches: %w", err))
		endSpan(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("branches", len(branches)), attribute.Bool("ranked", dest != nil))

	var candidates []domain.BranchCandidate
	if dest != nil {
		candidates = geo.Rank(ctx, *dest, branches, s.estimator)
	} else {
		s.logger.Info("destination unknown, scanning branches unordered", zap.Int("branches", len(branches)))
		candidates = geo.Unranked(branches)
	}

	results := s.checkAll(ctx, candidates, lines)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trail := make([]domain.TrailEntry, 0, len(candidates))
	for i, c := range candidates {
		r := results[i]
		entry := domain.TrailEntry{
			BranchID:      c.Branch.ID,
			BranchName:    c.Branch.Name,
			DistanceLabel: c.DistanceLabel,
			Satisfied:     r.err == nil && r.result.Satisfied,
		}
		if r.err != nil {
			entry.Error = r.err.Error()
		} else if !r.result.Satisfied {
			entry.Shortages = r.result.Shortages()
		}
		trail = append(trail, entry)

		s.logger.Debug("branch candidate checked",
			zap.String("branch", c.Branch.Name),
			zap.String("distance", c.DistanceLabel),
			zap.Bool("satisfied", entry.Satisfied),
			zap.String("short", entry.Shortages),
			zap.String("error", entry.Error))

		if entry.Satisfied {
			span.SetAttributes(attribute.String("branch.selected", c.Branch.ID))
			s.logger.Info("branch selected",
				zap.String("branch", c.Branch.ID),
				zap.String("distance", c.DistanceLabel),
				zap.Int("checked", len(trail)))
			return &domain.Selection{Candidate: c, Trail: trail}, nil
		}
	}

	s.logger.Warn("no branch can serve the order", zap.Int("checked", len(trail)))
	noBranch := &domain.NoBranchAvailableError{Trail: trail}
	endSpan(span, noBranch)
	return nil, noBranch
}

func (s *Selector) checkAll(ctx context.Context,
	candidates []domain.BranchCandidate, lines []domain.LineRequest) []checkResult {
	results := make([]checkResult, len(candidates))
	contexts := make([]context.Context, len(candidates))
	cancels := make([]context.CancelFunc, len(candidates))
	for i := range candidates {
		contexts[i], cancels[i] = context.WithCancel(ctx)
	}
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
	}()

	g := errgroup.Group{}
	g.SetLimit(s.fanOut)
	for i, c := range candidates {
		g.Go(func() error {
			if contexts[i].Err() != nil {
				return nil
			}
			res, err := s.stock.CheckAvailability(contexts[i], c.Branch.ID, lines)
			results[i] = checkResult{result: res, err: err}
			if err == nil && res.Satisfied {
				// candidates ranked after a satisfied one can never win
				for j := i + 1; j < len(candidates); j++ {
					cancels[j]()
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
