package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lsandoval/mnemo/internal/api/shared"
	"github.com/lsandoval/mnemo/internal/domain"
	"github.com/lsandoval/mnemo/internal/platform/logger"
	"github.com/lsandoval/mnemo/internal/service"
)

// SessionHandler handles the session lifecycle HTTP requests.
type SessionHandler struct {
	studyService service.StudyService
	logger       *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(studyService service.StudyService, logger *slog.Logger) *SessionHandler {
	if studyService == nil {
		panic("study service cannot be nil for SessionHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "session_handler")),
	}
}

// StartSession handles POST /sessions requests. A deck with nothing to study
// yields a 201 with an already-finished session body, not an error.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	deckID, err := uuid.Parse(req.DeckID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID format")
		return
	}

	handle, err := h.studyService.Start(r.Context(), userID, deckID, kindFromRequest(req.Kind))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("session started",
		slog.String("session_id", handle.ID.String()),
		slog.String("deck_id", deckID.String()),
		slog.String("kind", req.Kind))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(handle))
}

// GetSession handles GET /sessions/{id} requests.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}

	handle, err := h.studyService.Progress(sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if handle.UserID != userID {
		// Do not reveal the session's existence to other users.
		shared.RespondWithError(w, r, http.StatusNotFound, "Session not found")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(handle))
}

// RateCard handles POST /sessions/{id}/rate requests.
func (h *SessionHandler) RateCard(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}

	var req RateCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	h.lifecycleCall(w, r, sessionID, userID, func(ctx context.Context) (*service.SessionHandle, error) {
		return h.studyService.Rate(ctx, sessionID, domain.Rating(req.Rating))
	})
}

// AdvanceSession handles POST /sessions/{id}/advance requests.
func (h *SessionHandler) AdvanceSession(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}

	h.lifecycleCall(w, r, sessionID, userID, func(ctx context.Context) (*service.SessionHandle, error) {
		return h.studyService.Advance(ctx, sessionID)
	})
}

// ExitSession handles POST /sessions/{id}/exit requests.
func (h *SessionHandler) ExitSession(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}

	h.lifecycleCall(w, r, sessionID, userID, func(ctx context.Context) (*service.SessionHandle, error) {
		return h.studyService.Exit(ctx, sessionID)
	})
}

// ResetSession handles POST /sessions/{id}/reset requests.
func (h *SessionHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	sessionID, userID, ok := h.sessionRequest(w, r)
	if !ok {
		return
	}

	h.lifecycleCall(w, r, sessionID, userID, func(ctx context.Context) (*service.SessionHandle, error) {
		return h.studyService.Reset(ctx, sessionID)
	})
}

// sessionRequest extracts the session ID from the URL path and the user ID
// from the request context, writing the error response itself on failure.
func (h *SessionHandler) sessionRequest(
	w http.ResponseWriter,
	r *http.Request,
) (sessionID, userID uuid.UUID, ok bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok = userIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return uuid.Nil, uuid.Nil, false
	}

	pathID := chi.URLParam(r, "id")
	sessionID, err := uuid.Parse(pathID)
	if err != nil {
		log.Warn("invalid session ID format", slog.String("session_id", pathID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return sessionID, userID, true
}

// lifecycleCall runs a session lifecycle operation after verifying the
// session belongs to the requesting user, and writes the resulting snapshot.
func (h *SessionHandler) lifecycleCall(
	w http.ResponseWriter,
	r *http.Request,
	sessionID, userID uuid.UUID,
	call func(ctx context.Context) (*service.SessionHandle, error),
) {
	current, err := h.studyService.Progress(sessionID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	if current.UserID != userID {
		shared.RespondWithError(w, r, http.StatusNotFound, "Session not found")
		return
	}

	handle, err := call(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(handle))
}

// userIDFromContext extracts the authenticated user ID set by the identity
// middleware.
func userIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}
