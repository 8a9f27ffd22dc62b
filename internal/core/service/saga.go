package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/MikeRez0/ypfulfillment/internal/core/port"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Step is a single unit of work of the reservation saga.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

type reserveStep struct {
	stock  port.StockGateway
	record domain.ReservationRecord
}

func (s *reserveStep) Name() string {
	return "reserve:" + s.record.ProductID
}

func (s *reserveStep) Execute(ctx context.Context) error {
	return s.stock.Reserve(ctx, s.record.BranchID, s.record.ProductID, s.record.Quantity)
}

func (s *reserveStep) Compensate(ctx context.Context) error {
	return s.stock.Release(ctx, s.record.BranchID, s.record.ProductID, s.record.Quantity)
}

// Saga reserves order lines at one branch and undoes them on failure.
type Saga struct {
	stock   port.StockGateway
	journal port.ReconciliationJournal
	logger  *zap.Logger
}

func NewSaga(stock port.StockGateway, journal port.ReconciliationJournal, logger *zap.Logger) *Saga {
	return &Saga{
		stock:   stock,
		journal: journal,
		logger:  logger,
	}
}

// Reserve runs one step per line in submitted order. When a step fails the
// completed ones are compensated in reverse order before returning.
func (s *Saga) Reserve(ctx context.Context, sagaID, branchID string,
	lines []domain.LineRequest) ([]domain.ReservationRecord, error) {
	ctx, span := tracer.Start(ctx, "ReserveStock", trace.WithAttributes(
		attribute.String("saga.id", sagaID),
		attribute.String("branch.id", branchID),
	))
	defer span.End()

	steps := make([]*reserveStep, 0, len(lines))
	for _, l := range lines {
		steps = append(steps, &reserveStep{
			stock: s.stock,
			record: domain.ReservationRecord{
				BranchID:  branchID,
				ProductID: l.ProductID,
				Quantity:  l.Quantity,
			},
		})
	}

	done := make([]Step, 0, len(steps))
	records := make([]domain.ReservationRecord, 0, len(steps))
	for _, step := range steps {
		s.logger.Debug("executing step", zap.String("saga", sagaID), zap.String("step", step.Name()))

		if err := step.Execute(ctx); err != nil {
			s.logger.Warn("step failed, starting rollback",
				zap.String("saga", sagaID), zap.String("step", step.Name()), zap.Error(err))
			s.rollback(ctx, sagaID, done)
			failed := &domain.ReservationFailedError{
				BranchID:  branchID,
				ProductID: step.record.ProductID,
				Cause:     err,
			}
			endSpan(span, failed)
			return nil, failed
		}
		done = append(done, step)
		records = append(records, step.record)
	}

	return records, nil
}

// ReleaseAll returns held stock in reverse order. Failures are journaled, not returned.
func (s *Saga) ReleaseAll(ctx context.Context, sagaID string, records []domain.ReservationRecord) int {
	steps := make([]Step, 0, len(records))
	for _, r := range records {
		steps = append(steps, &reserveStep{stock: s.stock, record: r})
	}
	return s.rollback(ctx, sagaID, steps)
}

func (s *Saga) rollback(ctx context.Context, sagaID string, steps []Step) int {
	// compensation must run even when the request context is gone
	ctx = context.WithoutCancel(ctx)

	failed := 0
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		s.logger.Debug("compensating step", zap.String("saga", sagaID), zap.String("step", step.Name()))
		if err := step.Compensate(ctx); err != nil {
			failed++
			s.logger.Error("CRITICAL: failed to compensate step, manual reconciliation required",
				zap.String("saga", sagaID), zap.String("step", step.Name()), zap.Error(err))
			s.record(ctx, sagaID, step, err)
		}
	}
	return failed
}

func (s *Saga) record(ctx context.Context, sagaID string, step Step, cause error) {
	if s.journal == nil {
		return
	}
	entry := &domain.JournalEntry{
		SagaID:    sagaID,
		Status:    domain.JournalStatusReleaseFailed,
		Step:      step.Name(),
		Errors:    []string{fmt.Sprintf("%s: %v", step.Name(), cause)},
		CreatedAt: time.Now().UTC(),
	}
	if rs, ok := step.(*reserveStep); ok {
		entry.BranchID = rs.record.BranchID
		entry.ProductID = rs.record.ProductID
		entry.Quantity = rs.record.Quantity
	}
	if err := s.journal.Record(ctx, entry); err != nil {
		s.logger.Error("journal write failed", zap.String("saga", sagaID), zap.Error(err))
	}
}
