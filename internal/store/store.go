package store

import (
	"context"
	"time"
)

// Store records accepted webhook deliveries and processing outcomes.
// Producer, consumer, and server depend only on this interface.
type Store interface {
	// RecordEvent records an accepted webhook delivery. Returns (true, nil)
	// when recorded, (false, nil) when the delivery was already seen.
	RecordEvent(ctx context.Context, event *EventRow) (recorded bool, err error)
	// RecordResult records the outcome of one processed pull request.
	RecordResult(ctx context.Context, result *ResultRow) error
	// RecentResults returns up to limit results, oldest first.
	// limit <= 0 means all retained results.
	RecentResults(ctx context.Context, limit int) ([]ResultRow, error)
	EventCount(ctx context.Context) (int64, error)
	ResultCount(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// EventRow is one accepted webhook delivery.
type EventRow struct {
	DeliveryID string    `json:"delivery_id"`
	Action     string    `json:"action"`
	PRURL      string    `json:"pr_url"`
	Repo       string    `json:"repo"`
	PRNumber   int       `json:"pr_number"`
	ReceivedAt time.Time `json:"received_at"`
}

// ResultRow is the recorded outcome of one processed pull request.
// JSON field names are the wire shape of /processed and /stats.
type ResultRow struct {
	PRURL          string    `json:"pr_url"`
	Repo           string    `json:"repo"`
	PRNumber       int       `json:"pr_number"`
	ReceivedAt     time.Time `json:"received_at"`
	ProcessedAt    time.Time `json:"processed_at"`
	ProcessingSecs float64   `json:"processing_time"`
	Status         string    `json:"status"`
	UpdateNeeded   bool      `json:"update_needed"`
	Reason         string    `json:"reason,omitempty"`
	CommentPosted  bool      `json:"comment_posted"`
}
