package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lsandoval/mnemo/internal/domain"
	"github.com/lsandoval/mnemo/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface using a
// PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the
// DeckStore interface. If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore.
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// GetByID implements store.DeckStore.GetByID.
func (s *PostgresDeckStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deck, error) {
	query := `SELECT id, user_id, name, study_mode,
			current_streak, max_streak, last_activity,
			created_at, updated_at
		FROM decks
		WHERE id = $1`

	var deck domain.Deck
	var lastActivity sql.NullTime

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&deck.ID,
		&deck.UserID,
		&deck.Name,
		&deck.StudyMode,
		&deck.Streak.Current,
		&deck.Streak.Max,
		&lastActivity,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		return nil, store.NewStoreError("deck", "get", "failed to query deck", err)
	}

	if lastActivity.Valid {
		deck.Streak.LastActivity = lastActivity.Time
	}

	return &deck, nil
}

// UpdateStreak implements store.DeckStore.UpdateStreak.
func (s *PostgresDeckStore) UpdateStreak(
	ctx context.Context,
	id uuid.UUID,
	streak domain.DeckStreak,
) error {
	query := `UPDATE decks SET
			current_streak = $2,
			max_streak = $3,
			last_activity = $4,
			updated_at = $5
		WHERE id = $1`

	var lastActivity sql.NullTime
	if !streak.LastActivity.IsZero() {
		lastActivity = sql.NullTime{Time: streak.LastActivity, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, query, id, streak.Current, streak.Max, lastActivity, time.Now().UTC())
	if err != nil {
		return store.NewStoreError("deck", "update_streak", "failed to update deck streak", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("deck", "update_streak", "failed to read rows affected", err)
	}
	if affected == 0 {
		return store.ErrDeckNotFound
	}

	s.logger.Debug("updated deck streak",
		slog.String("deck_id", id.String()),
		slog.Int("current", streak.Current),
		slog.Int("max", streak.Max))
	return nil
}

// WithTx implements store.DeckStore.WithTx.
func (s *PostgresDeckStore) WithTx(tx *sql.Tx) store.DeckStore {
	return &PostgresDeckStore{
		db:     tx,
		logger: s.logger,
	}
}
