package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lsandoval/mnemo/internal/api/shared"
	"github.com/lsandoval/mnemo/internal/platform/logger"
	"github.com/lsandoval/mnemo/internal/service"
)

// CardHandler handles card-level HTTP requests outside the session
// lifecycle.
type CardHandler struct {
	studyService service.StudyService
	logger       *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(studyService service.StudyService, logger *slog.Logger) *CardHandler {
	if studyService == nil {
		panic("study service cannot be nil for CardHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CardHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "card_handler")),
	}
}

// PostponeCard handles POST /cards/{id}/postpone requests. It pushes the
// card's due date forward without rating it.
func (h *CardHandler) PostponeCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	pathID := chi.URLParam(r, "id")
	cardID, err := uuid.Parse(pathID)
	if err != nil {
		log.Warn("invalid card ID format", slog.String("card_id", pathID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	var req PostponeCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	state, err := h.studyService.Postpone(r.Context(), userID, cardID, req.Days)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card postponed",
		slog.String("card_id", cardID.String()),
		slog.Int("days", req.Days))
	shared.RespondWithJSON(w, r, http.StatusOK, cardStateToResponse(state))
}
