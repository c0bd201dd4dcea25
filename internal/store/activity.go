package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/lsandoval/mnemo/internal/progress"
)

// ActivityStore defines the interface for day-bucketed activity counters.
// Version: 1.0
type ActivityStore interface {
	// Upsert adds the delta into the bucket for the delta's date, creating
	// the row if needed. Counters are additive: multiple sessions on the
	// same date accumulate rather than overwrite.
	Upsert(ctx context.Context, userID uuid.UUID, delta progress.ActivityDay) error

	// Window returns the buckets with recorded activity in [from, to],
	// in ascending date order. Dates without activity are absent; callers
	// shape gapless windows with progress.FillWindow.
	Window(
		ctx context.Context,
		userID uuid.UUID,
		from, to time.Time,
	) ([]progress.ActivityDay, error)

	// WithTx returns a new ActivityStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ActivityStore
}
