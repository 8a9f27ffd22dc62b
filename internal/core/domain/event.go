package domain

import "time"

type EventKind string

const (
	EventOrderCreated       EventKind = "order.created"
	EventOrderStatusChanged EventKind = "order.status_changed"
	EventOrderCancelled     EventKind = "order.cancelled"
)

// Placement is the result of a successful order creation.
type Placement struct {
	Order *Order
	Trail []TrailEntry
}

type JournalStatus string

const (
	JournalStatusCompensating  JournalStatus = "COMPENSATING"
	JournalStatusReleaseFailed JournalStatus = "RELEASE_FAILED"
	JournalStatusFailed        JournalStatus = "FAILED"
)

// JournalEntry records stock movements that need manual reconciliation.
type JournalEntry struct {
	SagaID    string
	Status    JournalStatus
	Step      string
	BranchID  string
	ProductID string
	Quantity  int64
	Errors    []string
	TraceID   string
	SpanID    string
	CreatedAt time.Time
}
