package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lsandoval/mnemo/internal/progress"
	"github.com/lsandoval/mnemo/internal/store"
)

// PostgresStreakStore implements the store.StreakStore interface using a
// PostgreSQL database as the storage backend.
type PostgresStreakStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStreakStore creates a new PostgreSQL implementation of the
// StreakStore interface. If logger is nil, a default logger will be used.
func NewPostgresStreakStore(db store.DBTX, logger *slog.Logger) *PostgresStreakStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStreakStore{
		db:     db,
		logger: logger.With(slog.String("component", "streak_store")),
	}
}

// Ensure PostgresStreakStore implements store.StreakStore.
var _ store.StreakStore = (*PostgresStreakStore)(nil)

// GetGlobal implements store.StreakStore.GetGlobal.
// A user with no streak row yet gets a zero state, not an error.
func (s *PostgresStreakStore) GetGlobal(
	ctx context.Context,
	userID uuid.UUID,
) (progress.StreakState, error) {
	query := `SELECT current_streak, max_streak, last_activity
		FROM user_streaks
		WHERE user_id = $1`

	var state progress.StreakState
	var lastActivity sql.NullTime

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&state.Current,
		&state.Max,
		&lastActivity,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return progress.StreakState{}, nil
		}
		return progress.StreakState{}, store.NewStoreError(
			"streak", "get", "failed to query global streak", err)
	}

	if lastActivity.Valid {
		state.LastActivity = lastActivity.Time
	}

	return state, nil
}

// UpdateGlobal implements store.StreakStore.UpdateGlobal.
func (s *PostgresStreakStore) UpdateGlobal(
	ctx context.Context,
	userID uuid.UUID,
	state progress.StreakState,
) error {
	query := `INSERT INTO user_streaks (user_id, current_streak, max_streak, last_activity, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			max_streak = EXCLUDED.max_streak,
			last_activity = EXCLUDED.last_activity,
			updated_at = EXCLUDED.updated_at`

	var lastActivity sql.NullTime
	if !state.LastActivity.IsZero() {
		lastActivity = sql.NullTime{Time: state.LastActivity, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query, userID, state.Current, state.Max, lastActivity, time.Now().UTC())
	if err != nil {
		return mapWriteError(err, "streak", "upsert", "failed to upsert global streak")
	}

	s.logger.Debug("updated global streak",
		slog.String("user_id", userID.String()),
		slog.Int("current", state.Current))
	return nil
}

// WithTx implements store.StreakStore.WithTx.
func (s *PostgresStreakStore) WithTx(tx *sql.Tx) store.StreakStore {
	return &PostgresStreakStore{
		db:     tx,
		logger: s.logger,
	}
}
