package journal_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/storage/journal"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestJournal_Record(t *testing.T) {
	j, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer func() { _ = j.Close() }()

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))

	err = j.Record(ctx, &domain.JournalEntry{
		SagaID:    "order-1",
		Status:    domain.JournalStatusReleaseFailed,
		Step:      "reserve:p1",
		BranchID:  "b1",
		ProductID: "p1",
		Quantity:  2,
		Errors:    []string{"reserve:p1: timeout"},
	})
	require.NoError(t, err)
	require.NoError(t, j.Record(context.Background(), &domain.JournalEntry{
		SagaID: "order-2",
		Status: domain.JournalStatusFailed,
	}))

	list, err := j.ListBySaga(context.Background(), "order-1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	e := list[0]
	assert.Equal(t, domain.JournalStatusReleaseFailed, e.Status)
	assert.Equal(t, int64(2), e.Quantity)
	assert.Equal(t, []string{"reserve:p1: timeout"}, e.Errors)
	assert.Equal(t, traceID.String(), e.TraceID)
	assert.Equal(t, spanID.String(), e.SpanID)
	assert.False(t, e.CreatedAt.IsZero())
}
