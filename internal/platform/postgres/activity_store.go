package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lsandoval/mnemo/internal/progress"
	"github.com/lsandoval/mnemo/internal/store"
)

// PostgresActivityStore implements the store.ActivityStore interface using
// a PostgreSQL database as the storage backend.
type PostgresActivityStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresActivityStore creates a new PostgreSQL implementation of the
// ActivityStore interface. If logger is nil, a default logger will be used.
func NewPostgresActivityStore(db store.DBTX, logger *slog.Logger) *PostgresActivityStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresActivityStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_store")),
	}
}

// Ensure PostgresActivityStore implements store.ActivityStore.
var _ store.ActivityStore = (*PostgresActivityStore)(nil)

// Upsert implements store.ActivityStore.Upsert. The counters accumulate in
// SQL so concurrent sessions on the same date never lose increments.
func (s *PostgresActivityStore) Upsert(
	ctx context.Context,
	userID uuid.UUID,
	delta progress.ActivityDay,
) error {
	query := `INSERT INTO activity_days
			(user_id, day, cards_studied, cards_reviewed, cards_learned,
			 time_studied_seconds, xp_earned, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, day) DO UPDATE SET
			cards_studied = activity_days.cards_studied + EXCLUDED.cards_studied,
			cards_reviewed = activity_days.cards_reviewed + EXCLUDED.cards_reviewed,
			cards_learned = activity_days.cards_learned + EXCLUDED.cards_learned,
			time_studied_seconds = activity_days.time_studied_seconds + EXCLUDED.time_studied_seconds,
			xp_earned = activity_days.xp_earned + EXCLUDED.xp_earned,
			updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(
		ctx, query,
		userID,
		progress.DateOf(delta.Date),
		delta.CardsStudied,
		delta.CardsReviewed,
		delta.CardsLearned,
		delta.TimeStudiedSeconds,
		delta.XPEarned,
		time.Now().UTC(),
	)
	if err != nil {
		return mapWriteError(err, "activity", "upsert", "failed to upsert activity day")
	}

	s.logger.Debug("recorded activity",
		slog.String("user_id", userID.String()),
		slog.Int("cards_studied", delta.CardsStudied))
	return nil
}

// Window implements store.ActivityStore.Window.
func (s *PostgresActivityStore) Window(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
) ([]progress.ActivityDay, error) {
	query := `SELECT day, cards_studied, cards_reviewed, cards_learned,
			time_studied_seconds, xp_earned
		FROM activity_days
		WHERE user_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day`

	rows, err := s.db.QueryContext(ctx, query, userID, progress.DateOf(from), progress.DateOf(to))
	if err != nil {
		return nil, store.NewStoreError("activity", "window", "failed to query activity window", err)
	}
	defer func() { _ = rows.Close() }()

	var days []progress.ActivityDay
	for rows.Next() {
		var d progress.ActivityDay
		if err := rows.Scan(
			&d.Date,
			&d.CardsStudied,
			&d.CardsReviewed,
			&d.CardsLearned,
			&d.TimeStudiedSeconds,
			&d.XPEarned,
		); err != nil {
			return nil, store.NewStoreError("activity", "scan", "failed to scan activity day", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("activity", "scan", "row iteration failed", err)
	}

	return days, nil
}

// WithTx implements store.ActivityStore.WithTx.
func (s *PostgresActivityStore) WithTx(tx *sql.Tx) store.ActivityStore {
	return &PostgresActivityStore{
		db:     tx,
		logger: s.logger,
	}
}
