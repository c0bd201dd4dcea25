package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lsandoval/mnemo/internal/domain"
	"github.com/lsandoval/mnemo/internal/store"
)

// PostgresCardStateStore implements the store.CardStateStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStateStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStateStore creates a new PostgreSQL implementation of the
// CardStateStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresCardStateStore(db store.DBTX, logger *slog.Logger) *PostgresCardStateStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStateStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_state_store")),
	}
}

// Ensure PostgresCardStateStore implements store.CardStateStore.
var _ store.CardStateStore = (*PostgresCardStateStore)(nil)

const cardStateColumns = `card_id, user_id, deck_id, ease_factor, review_interval,
	repetitions, due_date, last_studied, status, created_at, updated_at`

// scanCardState reads one card state row. last_studied is nullable: a card
// that has never been studied carries the zero time.
func scanCardState(row interface{ Scan(dest ...any) error }) (*domain.CardSrsState, error) {
	var state domain.CardSrsState
	var lastStudied sql.NullTime

	err := row.Scan(
		&state.CardID,
		&state.UserID,
		&state.DeckID,
		&state.EaseFactor,
		&state.ReviewInterval,
		&state.Repetitions,
		&state.DueDate,
		&lastStudied,
		&state.Status,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastStudied.Valid {
		state.LastStudied = lastStudied.Time
	}

	return &state, nil
}

// nullableTime maps the zero time to NULL.
func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

// GetByCardID implements store.CardStateStore.GetByCardID.
func (s *PostgresCardStateStore) GetByCardID(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.CardSrsState, error) {
	query := `SELECT ` + cardStateColumns + `
		FROM card_srs_states
		WHERE user_id = $1 AND card_id = $2`

	state, err := scanCardState(s.db.QueryRowContext(ctx, query, userID, cardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardStateNotFound
		}
		return nil, store.NewStoreError("card_state", "get", "failed to query card state", err)
	}

	return state, nil
}

// SelectNewCards implements store.CardStateStore.SelectNewCards.
// New cards are returned in stable creation order so repeated session
// starts see the same queue.
func (s *PostgresCardStateStore) SelectNewCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
	limit int,
) ([]*domain.CardSrsState, error) {
	query := `SELECT ` + cardStateColumns + `
		FROM card_srs_states
		WHERE user_id = $1 AND deck_id = $2 AND status = $3
		ORDER BY created_at, card_id
		LIMIT $4`

	return s.selectCards(ctx, query, userID, deckID, domain.CardStatusNew, limit)
}

// SelectDueCards implements store.CardStateStore.SelectDueCards.
// Due cards are returned most-overdue first. Suspended and never-studied
// cards are excluded.
func (s *PostgresCardStateStore) SelectDueCards(
	ctx context.Context,
	userID, deckID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.CardSrsState, error) {
	query := `SELECT ` + cardStateColumns + `
		FROM card_srs_states
		WHERE user_id = $1 AND deck_id = $2
		  AND status NOT IN ($3, $4)
		  AND due_date <= $5
		ORDER BY due_date, card_id
		LIMIT $6`

	rows, err := s.db.QueryContext(
		ctx, query,
		userID, deckID,
		domain.CardStatusNew, domain.CardStatusSuspended,
		now, limit,
	)
	if err != nil {
		return nil, store.NewStoreError("card_state", "select_due", "failed to query due cards", err)
	}
	defer func() { _ = rows.Close() }()

	return collectCardStates(rows)
}

// selectCards runs a card state query with the shared scan loop.
func (s *PostgresCardStateStore) selectCards(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.CardSrsState, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("card_state", "select", "failed to query cards", err)
	}
	defer func() { _ = rows.Close() }()

	return collectCardStates(rows)
}

func collectCardStates(rows *sql.Rows) ([]*domain.CardSrsState, error) {
	var states []*domain.CardSrsState
	for rows.Next() {
		state, err := scanCardState(rows)
		if err != nil {
			return nil, store.NewStoreError("card_state", "scan", "failed to scan card state", err)
		}
		states = append(states, state)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("card_state", "scan", "row iteration failed", err)
	}
	return states, nil
}

// ApplyReviewBatch implements store.CardStateStore.ApplyReviewBatch.
// Each update is upserted keyed by (user_id, card_id); re-applying the same
// batch leaves the rows unchanged, making caller-driven retries safe.
func (s *PostgresCardStateStore) ApplyReviewBatch(
	ctx context.Context,
	updates []*domain.CardSrsState,
) error {
	if len(updates) == 0 {
		return nil
	}

	query := `INSERT INTO card_srs_states (` + cardStateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, card_id) DO UPDATE SET
			ease_factor = EXCLUDED.ease_factor,
			review_interval = EXCLUDED.review_interval,
			repetitions = EXCLUDED.repetitions,
			due_date = EXCLUDED.due_date,
			last_studied = EXCLUDED.last_studied,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at`

	for _, update := range updates {
		if err := update.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}

		_, err := s.db.ExecContext(
			ctx, query,
			update.CardID,
			update.UserID,
			update.DeckID,
			update.EaseFactor,
			update.ReviewInterval,
			update.Repetitions,
			update.DueDate,
			nullableTime(update.LastStudied),
			update.Status,
			update.CreatedAt,
			update.UpdatedAt,
		)
		if err != nil {
			return mapWriteError(err, "card_state", "upsert", "failed to apply review batch")
		}
	}

	s.logger.Debug("applied review batch", slog.Int("count", len(updates)))
	return nil
}

// UpdateState implements store.CardStateStore.UpdateState.
func (s *PostgresCardStateStore) UpdateState(
	ctx context.Context,
	state *domain.CardSrsState,
) error {
	if err := state.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `UPDATE card_srs_states SET
			ease_factor = $3,
			review_interval = $4,
			repetitions = $5,
			due_date = $6,
			last_studied = $7,
			status = $8,
			updated_at = $9
		WHERE user_id = $1 AND card_id = $2`

	result, err := s.db.ExecContext(
		ctx, query,
		state.UserID,
		state.CardID,
		state.EaseFactor,
		state.ReviewInterval,
		state.Repetitions,
		state.DueDate,
		nullableTime(state.LastStudied),
		state.Status,
		state.UpdatedAt,
	)
	if err != nil {
		return store.NewStoreError("card_state", "update", "failed to update card state", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("card_state", "update", "failed to read rows affected", err)
	}
	if affected == 0 {
		return store.ErrCardStateNotFound
	}

	return nil
}

// WithTx implements store.CardStateStore.WithTx.
func (s *PostgresCardStateStore) WithTx(tx *sql.Tx) store.CardStateStore {
	return &PostgresCardStateStore{
		db:     tx,
		logger: s.logger,
	}
}
