package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lsandoval/mnemo/internal/domain"
	"github.com/lsandoval/mnemo/internal/domain/srs"
)

// Outcome summarizes a finished session for the streak and activity
// trackers. CardsStudied is the total number of rated interactions,
// split into reviewed and learned by the session kind.
type Outcome struct {
	Kind               Kind      `json:"kind"`
	CardsStudied       int       `json:"cards_studied"`
	CardsReviewed      int       `json:"cards_reviewed"`
	CardsLearned       int       `json:"cards_learned"`
	TimeStudiedSeconds int       `json:"time_studied_seconds"`
	XPEarned           int       `json:"xp_earned"`
	FinishedAt         time.Time `json:"finished_at"`
	Exited             bool      `json:"exited"` // true when ended via Exit before the last step
}

// Sink receives the terminal actions of a session: the single batch flush
// and the completion notification that drives streak and activity updates.
// Both are called exactly once per session, in that order.
type Sink interface {
	FlushSink

	// SessionFinished is invoked after the flush with the session outcome.
	// Implementations credit streaks and append activity; a returned error
	// is surfaced as a warning, it does not undo the terminal transition.
	SessionFinished(ctx context.Context, outcome Outcome) error
}

// defaultXPPerCard is the XP earned per rated card when the config does not
// override it.
const defaultXPPerCard = 10

// Config carries the dependencies and policy for one session.
type Config struct {
	// Kind selects learn or review semantics. Required.
	Kind Kind

	// Mode selects the learn-session phase sequence. Ignored for review
	// sessions. Unknown modes fall back to the flip-card sequence.
	Mode domain.StudyMode

	// Queue is the fixed, ordered card queue selected at session start.
	// It is owned by the session for its lifetime; an empty queue yields a
	// session that is terminal from the start.
	Queue []*domain.CardSrsState

	// Scheduler computes new card state from ratings. Required.
	Scheduler srs.Service

	// Sink receives the terminal actions. Required.
	Sink Sink

	// Phases overrides the default phase table. Optional.
	Phases PhaseTable

	// XPPerCard overrides the XP earned per rated card. Optional.
	XPPerCard int

	// Clock overrides the time source. Optional, used by tests.
	Clock func() time.Time

	// Logger is the structured logger. Optional.
	Logger *slog.Logger
}

// Controller orchestrates a study session as a phase-by-card state machine.
//
// The position only moves forward: advancing past the last card of a phase
// moves to the first card of the next phase, and advancing past the last
// phase makes the session terminal. Once terminal the session is immutable;
// only Reset starts a fresh pass over the same queue.
//
// Controller is not safe for concurrent use. Ratings for one session are
// processed strictly sequentially; callers needing cross-goroutine access
// must serialize externally (see service.StudyService).
type Controller struct {
	kind      Kind
	phases    []Phase
	queue     []*domain.CardSrsState
	scheduler srs.Service
	sink      Sink
	batcher   *Batcher
	clock     func() time.Time
	logger    *slog.Logger
	xpPerCard int

	phaseIndex   int
	cardIndex    int
	finished     bool
	terminalDone bool
	reviewed     int
	learned      int
	startedAt    time.Time
}

// NewController builds a session from the given config. Returns ErrNoPhases
// if the resolved phase sequence is empty - a fatal configuration error -
// and validation errors for missing dependencies.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Scheduler == nil {
		return nil, ErrNilScheduler
	}
	if cfg.Sink == nil {
		return nil, ErrNilSink
	}
	if !cfg.Kind.IsValid() {
		return nil, fmt.Errorf("unknown session kind %q", cfg.Kind)
	}

	table := cfg.Phases
	if table == nil {
		table = DefaultPhaseTable()
	}
	phases := table.PhasesFor(cfg.Kind, cfg.Mode)
	if len(phases) == 0 {
		return nil, fmt.Errorf("%w: mode %q", ErrNoPhases, cfg.Mode)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	xp := cfg.XPPerCard
	if xp <= 0 {
		xp = defaultXPPerCard
	}

	c := &Controller{
		kind:      cfg.Kind,
		phases:    phases,
		queue:     cfg.Queue,
		scheduler: cfg.Scheduler,
		sink:      cfg.Sink,
		batcher:   NewBatcher(),
		clock:     clock,
		logger:    logger.With(slog.String("component", "session_controller")),
		xpPerCard: xp,
		startedAt: clock(),
	}

	if len(c.queue) == 0 {
		// Nothing to study: terminal from the start, without entering
		// phase 0 and without terminal actions.
		c.finished = true
		c.terminalDone = true
		c.logger.Debug("empty session queue, session terminal at start",
			slog.String("kind", string(cfg.Kind)))
	}

	return c, nil
}

// Kind returns the session kind.
func (c *Controller) Kind() Kind { return c.kind }

// Finished reports whether the session is terminal.
func (c *Controller) Finished() bool { return c.finished }

// QueueLen returns the fixed length of the card queue.
func (c *Controller) QueueLen() int { return len(c.queue) }

// TotalSteps returns the total number of (phase, card) steps in the session.
func (c *Controller) TotalSteps() int { return len(c.phases) * len(c.queue) }

// CurrentStep returns the zero-based index of the current step. For a
// finished session it equals TotalSteps.
func (c *Controller) CurrentStep() int {
	if c.finished {
		return c.TotalSteps()
	}
	return c.phaseIndex*len(c.queue) + c.cardIndex
}

// CurrentPhase returns the active phase descriptor. ok is false once the
// session is finished.
func (c *Controller) CurrentPhase() (Phase, bool) {
	if c.finished {
		return Phase{}, false
	}
	return c.phases[c.phaseIndex], true
}

// CurrentCard returns the card at the current position, or nil once the
// session is finished.
func (c *Controller) CurrentCard() *domain.CardSrsState {
	if c.finished {
		return nil
	}
	return c.queue[c.cardIndex]
}

// Reviewed returns the number of cards reviewed so far this session.
func (c *Controller) Reviewed() int { return c.reviewed }

// Learned returns the number of cards learned so far this session.
func (c *Controller) Learned() int { return c.learned }

// Advance moves to the next step during a phase that disallows rating.
// Returns ErrAdvanceNotAllowed in a rating phase and ErrSessionFinished on
// a terminal session. A *FlushError or *CompletionError return means the
// session finished but a terminal action failed; the transition itself is
// complete.
func (c *Controller) Advance(ctx context.Context) error {
	if c.finished {
		return ErrSessionFinished
	}

	if c.phases[c.phaseIndex].AllowRating {
		return ErrAdvanceNotAllowed
	}

	return c.advanceIndex(ctx)
}

// Rate submits a rating for the current card. Valid only in phases that
// allow rating; otherwise the call is rejected and the session state is
// unchanged. On success the scheduler output is recorded in the batch and
// the position advances. A *FlushError or *CompletionError return means the
// rating was recorded and the session finished, but a terminal action
// failed.
func (c *Controller) Rate(ctx context.Context, rating domain.Rating) error {
	if c.finished {
		return ErrSessionFinished
	}

	if !c.phases[c.phaseIndex].AllowRating {
		return ErrRatingNotAllowed
	}

	card := c.queue[c.cardIndex]
	newState, err := c.scheduler.Schedule(card, rating, c.clock())
	if err != nil {
		// Invalid rating or state: reject without advancing.
		return err
	}

	// The scheduling computation and batch record complete strictly before
	// the index advances.
	c.batcher.Record(newState)

	if c.kind == KindLearn {
		c.learned++
	} else {
		c.reviewed++
	}

	c.logger.Debug("rating recorded",
		slog.String("card_id", card.CardID.String()),
		slog.String("rating", rating.String()),
		slog.Int("new_interval", newState.ReviewInterval),
		slog.Float64("ease_factor", newState.EaseFactor))

	return c.advanceIndex(ctx)
}

// Exit aborts the session early. The partial batch is flushed and the usual
// terminal actions run; partial sessions are not discarded. Exit on an
// already finished session is a no-op.
func (c *Controller) Exit(ctx context.Context) error {
	if c.finished {
		return nil
	}

	c.finished = true
	return c.runTerminal(ctx, true)
}

// Reset re-initializes the session to a fresh pass over the same queue:
// position (0,0), counters zeroed, and any unflushed batch cleared.
func (c *Controller) Reset() {
	c.phaseIndex = 0
	c.cardIndex = 0
	c.reviewed = 0
	c.learned = 0
	c.finished = len(c.queue) == 0
	c.terminalDone = c.finished
	c.batcher.Reset()
	c.startedAt = c.clock()
}

// advanceIndex performs the shared forward movement: next card, wrapping
// into the next phase, finishing after the last phase.
func (c *Controller) advanceIndex(ctx context.Context) error {
	c.cardIndex++
	if c.cardIndex < len(c.queue) {
		return nil
	}

	c.cardIndex = 0
	c.phaseIndex++
	if c.phaseIndex < len(c.phases) {
		return nil
	}

	c.finished = true
	return c.runTerminal(ctx, false)
}

// runTerminal fires the terminal actions exactly once: batch flush, then
// the completion notification. Failures are warning-level; the terminal
// transition has already happened and local state stays the source of
// truth.
func (c *Controller) runTerminal(ctx context.Context, exited bool) error {
	if c.terminalDone {
		return nil
	}
	c.terminalDone = true

	now := c.clock()
	studied := c.reviewed + c.learned

	outcome := Outcome{
		Kind:               c.kind,
		CardsStudied:       studied,
		CardsReviewed:      c.reviewed,
		CardsLearned:       c.learned,
		TimeStudiedSeconds: int(now.Sub(c.startedAt).Seconds()),
		XPEarned:           studied * c.xpPerCard,
		FinishedAt:         now,
		Exited:             exited,
	}

	var terminalErr error
	if err := c.batcher.Flush(ctx, c.sink); err != nil {
		terminalErr = &FlushError{Err: err}
		c.logger.Warn("terminal batch flush failed",
			slog.String("error", err.Error()),
			slog.Int("cards_studied", studied))
	}

	if err := c.sink.SessionFinished(ctx, outcome); err != nil {
		c.logger.Warn("session completion handling failed",
			slog.String("error", err.Error()))
		if terminalErr == nil {
			terminalErr = &CompletionError{Err: err}
		}
	}

	c.logger.Debug("session finished",
		slog.String("kind", string(c.kind)),
		slog.Int("cards_studied", studied),
		slog.Int("xp_earned", outcome.XPEarned),
		slog.Bool("exited", exited))

	return terminalErr
}
