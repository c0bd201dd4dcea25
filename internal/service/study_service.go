package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lsandoval/mnemo/internal/config"
	"github.com/lsandoval/mnemo/internal/domain"
	"github.com/lsandoval/mnemo/internal/domain/srs"
	"github.com/lsandoval/mnemo/internal/events"
	"github.com/lsandoval/mnemo/internal/platform/logger"
	"github.com/lsandoval/mnemo/internal/progress"
	"github.com/lsandoval/mnemo/internal/session"
	"github.com/lsandoval/mnemo/internal/store"
)

// SessionHandle is the caller-facing snapshot of a session. It carries no
// live references; every lifecycle call returns a fresh snapshot.
type SessionHandle struct {
	ID            uuid.UUID      `json:"id"`
	UserID        uuid.UUID      `json:"user_id"`
	DeckID        uuid.UUID      `json:"deck_id"`
	Kind          session.Kind   `json:"kind"`
	CurrentStep   int            `json:"current_step"`
	TotalSteps    int            `json:"total_steps"`
	Finished      bool           `json:"finished"`
	Phase         *session.Phase `json:"phase,omitempty"`
	CurrentCardID *uuid.UUID     `json:"current_card_id,omitempty"`
	Reviewed      int            `json:"reviewed"`
	Learned       int            `json:"learned"`

	// Warning is set when a terminal action failed after the session
	// finished (e.g. the batch flush could not be delivered). The session
	// state itself is intact; redelivery is the caller's decision.
	Warning string `json:"warning,omitempty"`
}

// StudyService exposes the study session lifecycle. One learner may hold
// several handles; every session owns its card queue and counters
// independently, and calls for one session are serialized internally.
type StudyService interface {
	// Start selects a card queue for the deck and session kind, builds the
	// session, and returns its handle. A deck with nothing to study yields
	// a handle that is already finished - that is a valid terminal state,
	// not an error.
	Start(ctx context.Context, userID, deckID uuid.UUID, kind session.Kind) (*SessionHandle, error)

	// Rate submits a rating for the current card of a session.
	Rate(ctx context.Context, sessionID uuid.UUID, rating domain.Rating) (*SessionHandle, error)

	// Advance moves past a non-rating phase step.
	Advance(ctx context.Context, sessionID uuid.UUID) (*SessionHandle, error)

	// Exit aborts the session early, flushing the partial batch, and
	// releases the handle.
	Exit(ctx context.Context, sessionID uuid.UUID) (*SessionHandle, error)

	// Reset re-initializes the session for a fresh pass over the same
	// queue, discarding unflushed progress.
	Reset(ctx context.Context, sessionID uuid.UUID) (*SessionHandle, error)

	// Progress returns a read-only snapshot of the session.
	Progress(sessionID uuid.UUID) (*SessionHandle, error)

	// Postpone pushes a card's due date forward by the given number of
	// days without rating it.
	Postpone(ctx context.Context, userID, cardID uuid.UUID, days int) (*domain.CardSrsState, error)

	// ActivityWindow returns a gapless activity window covering the last
	// given number of days up to today, for heatmap rendering.
	ActivityWindow(ctx context.Context, userID uuid.UUID, days int) ([]progress.ActivityDay, error)
}

// activeSession pairs a controller with its owning keys. The mutex
// serializes lifecycle calls per session; the controller itself is not
// concurrency-safe.
type activeSession struct {
	id         uuid.UUID
	userID     uuid.UUID
	deckID     uuid.UUID
	controller *session.Controller
	mu         sync.Mutex
}

// studyService implements the StudyService interface.
type studyService struct {
	cards     store.CardStateStore
	decks     store.DeckStore
	streaks   store.StreakStore
	activity  store.ActivityStore
	scheduler srs.Service
	emitter   events.EventEmitter
	cfg       config.StudyConfig
	logger    *slog.Logger
	clock     func() time.Time

	// db enables transactional progress updates at session end. Optional;
	// without it the writes run on the bare stores.
	db *sql.DB

	mu       sync.Mutex
	sessions map[uuid.UUID]*activeSession
}

// Verify interface compliance at compile time.
var _ StudyService = (*studyService)(nil)

// StudyServiceOption customizes a StudyService.
type StudyServiceOption func(*studyService)

// WithClock overrides the service time source, used by tests.
func WithClock(clock func() time.Time) StudyServiceOption {
	return func(s *studyService) {
		s.clock = clock
	}
}

// WithDB provides the database handle used to run the session-end progress
// updates in a single transaction.
func WithDB(db *sql.DB) StudyServiceOption {
	return func(s *studyService) {
		s.db = db
	}
}

// NewStudyService creates a new StudyService implementation.
func NewStudyService(
	cards store.CardStateStore,
	decks store.DeckStore,
	streaks store.StreakStore,
	activity store.ActivityStore,
	scheduler srs.Service,
	emitter events.EventEmitter,
	cfg config.StudyConfig,
	log *slog.Logger,
	opts ...StudyServiceOption,
) StudyService {
	if cards == nil {
		panic("cards store cannot be nil")
	}
	if decks == nil {
		panic("decks store cannot be nil")
	}
	if streaks == nil {
		panic("streaks store cannot be nil")
	}
	if activity == nil {
		panic("activity store cannot be nil")
	}
	if scheduler == nil {
		panic("scheduler cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	s := &studyService{
		cards:     cards,
		decks:     decks,
		streaks:   streaks,
		activity:  activity,
		scheduler: scheduler,
		emitter:   emitter,
		cfg:       cfg,
		logger:    log.With(slog.String("component", "study_service")),
		clock:     time.Now,
		sessions:  make(map[uuid.UUID]*activeSession),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start implements StudyService.Start.
func (s *studyService) Start(
	ctx context.Context,
	userID, deckID uuid.UUID,
	kind session.Kind,
) (*SessionHandle, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	deck, err := s.decks.GetByID(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, err
		}
		return nil, NewServiceError("start_session", "failed to load deck", err)
	}

	if deck.UserID != userID {
		log.Warn("user does not own deck",
			slog.String("user_id", userID.String()),
			slog.String("deck_id", deckID.String()))
		return nil, ErrDeckNotOwned
	}

	queue, err := s.selectQueue(ctx, userID, deckID, kind)
	if err != nil {
		return nil, NewServiceError("start_session", "failed to select card queue", err)
	}

	id := uuid.New()
	sink := &sessionSink{svc: s, sessionID: id, userID: userID, deckID: deckID}

	controller, err := session.NewController(session.Config{
		Kind:      kind,
		Mode:      deck.StudyMode,
		Queue:     queue,
		Scheduler: s.scheduler,
		Sink:      sink,
		XPPerCard: s.cfg.XPPerCard,
		Clock:     s.clock,
		Logger:    s.logger,
	})
	if err != nil {
		// Zero phases or bad kind: fatal configuration error, the session
		// cannot start.
		return nil, NewServiceError("start_session", "invalid session configuration", err)
	}

	active := &activeSession{
		id:         id,
		userID:     userID,
		deckID:     deckID,
		controller: controller,
	}

	s.mu.Lock()
	s.sessions[id] = active
	s.mu.Unlock()

	log.Debug("session started",
		slog.String("session_id", id.String()),
		slog.String("deck_id", deckID.String()),
		slog.String("kind", string(kind)),
		slog.Int("queue_len", controller.QueueLen()))

	return snapshot(active, ""), nil
}

// selectQueue builds the fixed card queue for a session. The queue length
// is min(matching cards, mode-specific limit) and never re-filtered
// mid-session.
func (s *studyService) selectQueue(
	ctx context.Context,
	userID, deckID uuid.UUID,
	kind session.Kind,
) ([]*domain.CardSrsState, error) {
	if kind == session.KindLearn {
		return s.cards.SelectNewCards(ctx, userID, deckID, s.cfg.NewCardLimit)
	}
	return s.cards.SelectDueCards(ctx, userID, deckID, s.clock(), s.cfg.ReviewCardLimit)
}

// Rate implements StudyService.Rate.
func (s *studyService) Rate(
	ctx context.Context,
	sessionID uuid.UUID,
	rating domain.Rating,
) (*SessionHandle, error) {
	active, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	err = active.controller.Rate(ctx, rating)
	return s.resolve(ctx, active, err)
}

// Advance implements StudyService.Advance.
func (s *studyService) Advance(ctx context.Context, sessionID uuid.UUID) (*SessionHandle, error) {
	active, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	err = active.controller.Advance(ctx)
	return s.resolve(ctx, active, err)
}

// Exit implements StudyService.Exit.
func (s *studyService) Exit(ctx context.Context, sessionID uuid.UUID) (*SessionHandle, error) {
	active, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	active.mu.Lock()
	exitErr := active.controller.Exit(ctx)
	handle, err := s.resolve(ctx, active, exitErr)
	active.mu.Unlock()

	// The handle is released whether or not the terminal flush succeeded.
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	return handle, err
}

// Reset implements StudyService.Reset.
func (s *studyService) Reset(ctx context.Context, sessionID uuid.UUID) (*SessionHandle, error) {
	active, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	active.controller.Reset()
	return snapshot(active, ""), nil
}

// Progress implements StudyService.Progress.
func (s *studyService) Progress(sessionID uuid.UUID) (*SessionHandle, error) {
	active, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	return snapshot(active, ""), nil
}

// Postpone implements StudyService.Postpone.
func (s *studyService) Postpone(
	ctx context.Context,
	userID, cardID uuid.UUID,
	days int,
) (*domain.CardSrsState, error) {
	state, err := s.cards.GetByCardID(ctx, userID, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardStateNotFound) {
			return nil, err
		}
		return nil, NewServiceError("postpone_card", "failed to load card state", err)
	}

	newState, err := s.scheduler.Postpone(state, days, s.clock())
	if err != nil {
		return nil, err
	}

	if err := s.cards.UpdateState(ctx, newState); err != nil {
		return nil, NewServiceError("postpone_card", "failed to persist card state", err)
	}

	return newState, nil
}

// ActivityWindow implements StudyService.ActivityWindow.
func (s *studyService) ActivityWindow(
	ctx context.Context,
	userID uuid.UUID,
	days int,
) ([]progress.ActivityDay, error) {
	if days < 1 {
		return nil, fmt.Errorf("window days must be at least 1, got %d", days)
	}

	to := progress.DateOf(s.clock())
	from := to.AddDate(0, 0, -(days - 1))

	recorded, err := s.activity.Window(ctx, userID, from, to)
	if err != nil {
		return nil, NewServiceError("activity_window", "failed to query activity", err)
	}

	return progress.FillWindow(recorded, from, to), nil
}

// lookup finds an active session by ID.
func (s *studyService) lookup(sessionID uuid.UUID) (*activeSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return active, nil
}

// resolve maps a controller error into the handle/error pair callers see.
// A failed terminal action after the terminal transition (batch flush or
// the streak and activity writes) is a warning on the handle, not a failed
// call; everything else passes through with state unchanged.
func (s *studyService) resolve(
	ctx context.Context,
	active *activeSession,
	err error,
) (*SessionHandle, error) {
	if err == nil {
		return snapshot(active, ""), nil
	}

	var flushErr *session.FlushError
	if errors.As(err, &flushErr) {
		s.emitTerminalWarning(ctx, active, events.TypeFlushFailed, flushErr)
		return snapshot(active, flushErr.Error()), nil
	}

	var completionErr *session.CompletionError
	if errors.As(err, &completionErr) {
		s.emitTerminalWarning(ctx, active, events.TypeProgressWriteFailed, completionErr)
		return snapshot(active, completionErr.Error()), nil
	}

	return nil, err
}

// emitTerminalWarning publishes a warning-level event so a subscriber can
// decide on redelivery. Emission failures only get logged; there is nothing
// further to escalate to.
func (s *studyService) emitTerminalWarning(
	ctx context.Context,
	active *activeSession,
	eventType string,
	warnErr error,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Warn("session terminal action failed",
		slog.String("session_id", active.id.String()),
		slog.String("event_type", eventType),
		slog.String("error", warnErr.Error()))

	if s.emitter == nil {
		return
	}

	event, err := events.NewStudyEvent(eventType, map[string]string{
		"session_id": active.id.String(),
		"user_id":    active.userID.String(),
		"deck_id":    active.deckID.String(),
		"error":      warnErr.Error(),
	})
	if err != nil {
		log.Error("failed to build terminal warning event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to emit terminal warning event", slog.String("error", err.Error()))
	}
}

// snapshot builds a SessionHandle from the live session. Callers must hold
// the session mutex.
func snapshot(active *activeSession, warning string) *SessionHandle {
	c := active.controller

	handle := &SessionHandle{
		ID:          active.id,
		UserID:      active.userID,
		DeckID:      active.deckID,
		Kind:        c.Kind(),
		CurrentStep: c.CurrentStep(),
		TotalSteps:  c.TotalSteps(),
		Finished:    c.Finished(),
		Reviewed:    c.Reviewed(),
		Learned:     c.Learned(),
		Warning:     warning,
	}

	if phase, ok := c.CurrentPhase(); ok {
		handle.Phase = &phase
	}
	if card := c.CurrentCard(); card != nil {
		cardID := card.CardID
		handle.CurrentCardID = &cardID
	}

	return handle
}
