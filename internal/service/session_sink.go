package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lsandoval/mnemo/internal/domain"
	"github.com/lsandoval/mnemo/internal/events"
	"github.com/lsandoval/mnemo/internal/progress"
	"github.com/lsandoval/mnemo/internal/session"
	"github.com/lsandoval/mnemo/internal/store"
)

// sessionSink implements session.Sink for one active session. It delivers
// the terminal batch to the card store and translates the session outcome
// into streak credits and an activity bucket.
type sessionSink struct {
	svc       *studyService
	sessionID uuid.UUID
	userID    uuid.UUID
	deckID    uuid.UUID
}

// Verify interface compliance at compile time.
var _ session.Sink = (*sessionSink)(nil)

// ApplyReviewBatch implements session.FlushSink.
func (s *sessionSink) ApplyReviewBatch(
	ctx context.Context,
	updates []*domain.CardSrsState,
) error {
	return s.svc.cards.ApplyReviewBatch(ctx, updates)
}

// SessionFinished implements session.Sink. A session that studied nothing
// earns neither streak credit nor an activity bucket. Each scope is
// credited at most once per calendar day; the rule itself lives in the
// progress package. When the service carries a database handle the writes
// commit as one transaction.
func (s *sessionSink) SessionFinished(ctx context.Context, outcome session.Outcome) error {
	if outcome.CardsStudied == 0 {
		return nil
	}

	var err error
	if s.svc.db != nil {
		err = store.RunInTransaction(ctx, s.svc.db, func(ctx context.Context, tx *sql.Tx) error {
			return s.recordOutcome(ctx,
				s.svc.decks.WithTx(tx),
				s.svc.streaks.WithTx(tx),
				s.svc.activity.WithTx(tx),
				outcome)
		})
	} else {
		err = s.recordOutcome(ctx, s.svc.decks, s.svc.streaks, s.svc.activity, outcome)
	}

	s.emitCompleted(ctx, outcome)

	return err
}

// recordOutcome applies the streak credits and the activity bucket for a
// finished session against the given store bindings.
func (s *sessionSink) recordOutcome(
	ctx context.Context,
	decks store.DeckStore,
	streaks store.StreakStore,
	activity store.ActivityStore,
	outcome session.Outcome,
) error {
	today := outcome.FinishedAt
	var errs []error

	// Global scope.
	global, err := streaks.GetGlobal(ctx, s.userID)
	if err != nil {
		errs = append(errs, err)
	} else {
		credited := progress.Credit(global, outcome.CardsStudied, today)
		if credited != global {
			if err := streaks.UpdateGlobal(ctx, s.userID, credited); err != nil {
				errs = append(errs, err)
			}
		}
	}

	// Deck scope.
	deck, err := decks.GetByID(ctx, s.deckID)
	if err != nil {
		errs = append(errs, err)
	} else {
		current := progress.StreakState{
			Current:      deck.Streak.Current,
			Max:          deck.Streak.Max,
			LastActivity: deck.Streak.LastActivity,
		}
		credited := progress.Credit(current, outcome.CardsStudied, today)
		if credited != current {
			streak := domain.DeckStreak{
				Current:      credited.Current,
				Max:          credited.Max,
				LastActivity: credited.LastActivity,
			}
			if err := decks.UpdateStreak(ctx, s.deckID, streak); err != nil {
				errs = append(errs, err)
			}
		}
	}

	// Activity bucket.
	delta := progress.ActivityDay{
		Date:               today,
		CardsStudied:       outcome.CardsStudied,
		CardsReviewed:      outcome.CardsReviewed,
		CardsLearned:       outcome.CardsLearned,
		TimeStudiedSeconds: outcome.TimeStudiedSeconds,
		XPEarned:           outcome.XPEarned,
	}
	if err := activity.Upsert(ctx, s.userID, delta); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// emitCompleted publishes the session outcome for observers.
func (s *sessionSink) emitCompleted(ctx context.Context, outcome session.Outcome) {
	if s.svc.emitter == nil {
		return
	}

	event, err := events.NewStudyEvent(events.TypeSessionCompleted, struct {
		SessionID uuid.UUID       `json:"session_id"`
		UserID    uuid.UUID       `json:"user_id"`
		DeckID    uuid.UUID       `json:"deck_id"`
		Outcome   session.Outcome `json:"outcome"`
	}{
		SessionID: s.sessionID,
		UserID:    s.userID,
		DeckID:    s.deckID,
		Outcome:   outcome,
	})
	if err != nil {
		s.svc.logger.Error("failed to build session completed event",
			slog.String("error", err.Error()))
		return
	}

	if err := s.svc.emitter.EmitEvent(ctx, event); err != nil {
		s.svc.logger.Error("failed to emit session completed event",
			slog.String("error", err.Error()))
	}
}
