package punch

import (
	"context"
	"time"
)

// Repository reads the raw device log store. The core never deletes raw
// punches; it only marks them consumed so reprocessing can skip them or
// deliberately include them again.
type Repository interface {
	// ListWindow returns punches with punch_time in [from, to], chronological.
	// When deviceUserIDs is non-empty the result is narrowed to those
	// identifiers.
	ListWindow(ctx context.Context, tenantID string, from, to time.Time, deviceUserIDs []string) ([]Raw, error)

	// MarkProcessed flags the given punches as consumed.
	MarkProcessed(ctx context.Context, tenantID string, ids []string) error
}
