// Package journal is an append-only log of stock movements that could not be
// completed and have to be reconciled by hand.
package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"go.opentelemetry.io/otel/trace"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS reconciliation_journal (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    saga_id     TEXT    NOT NULL,
    status      TEXT    NOT NULL,
    step        TEXT    NOT NULL DEFAULT '',
    branch_id   TEXT    NOT NULL DEFAULT '',
    product_id  TEXT    NOT NULL DEFAULT '',
    quantity    INTEGER NOT NULL DEFAULT 0,
    errors      TEXT    NOT NULL DEFAULT '[]',
    trace_id    TEXT    NOT NULL DEFAULT '',
    span_id     TEXT    NOT NULL DEFAULT '',
    created_at  TEXT    NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_saga_id ON reconciliation_journal(saga_id, created_at);
CREATE INDEX IF NOT EXISTS idx_journal_trace_id ON reconciliation_journal(trace_id);
`

const timeLayout = "2006-01-02T15:04:05.999999999Z"

type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at path. ":memory:" is accepted.
func Open(path string) (*Journal, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &Journal{db: db}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record appends an entry. Trace ids are taken from ctx when the entry has none.
func (j *Journal) Record(ctx context.Context, entry *domain.JournalEntry) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() && entry.TraceID == "" {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	errs, err := json.Marshal(entry.Errors)
	if err != nil {
		return fmt.Errorf("journal: encode errors: %w", err)
	}

	const q = `
		INSERT INTO reconciliation_journal
			(saga_id, status, step, branch_id, product_id, quantity, errors, trace_id, span_id, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = j.db.ExecContext(ctx, q,
		entry.SagaID,
		string(entry.Status),
		entry.Step,
		entry.BranchID,
		entry.ProductID,
		entry.Quantity,
		string(errs),
		entry.TraceID,
		entry.SpanID,
		entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("journal: record %q: %w", entry.SagaID, err)
	}
	return nil
}

// ListBySaga returns entries of one saga in insertion order.
func (j *Journal) ListBySaga(ctx context.Context, sagaID string) ([]domain.JournalEntry, error) {
	const q = `
		SELECT saga_id, status, step, branch_id, product_id, quantity, errors, trace_id, span_id, created_at
		FROM   reconciliation_journal
		WHERE  saga_id = ?
		ORDER  BY id`

	rows, err := j.db.QueryContext(ctx, q, sagaID)
	if err != nil {
		return nil, fmt.Errorf("journal: list %q: %w", sagaID, err)
	}
	defer func() { _ = rows.Close() }()

	list := make([]domain.JournalEntry, 0)
	for rows.Next() {
		var (
			e         domain.JournalEntry
			status    string
			errs      string
			createdAt string
		)
		if err := rows.Scan(&e.SagaID, &status, &e.Step, &e.BranchID, &e.ProductID, &e.Quantity,
			&errs, &e.TraceID, &e.SpanID, &createdAt); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.Status = domain.JournalStatus(status)
		if err := json.Unmarshal([]byte(errs), &e.Errors); err != nil {
			return nil, fmt.Errorf("journal: decode errors: %w", err)
		}
		e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("journal: parse time %q: %w", createdAt, err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}
