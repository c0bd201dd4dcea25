package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/lsandoval/mnemo/internal/api/shared"
	"github.com/lsandoval/mnemo/internal/platform/logger"
	"github.com/lsandoval/mnemo/internal/service"
)

// Bounds for the activity window query.
const (
	defaultActivityDays = 30
	maxActivityDays     = 366
)

// ActivityHandler handles the activity heatmap query.
type ActivityHandler struct {
	studyService service.StudyService
	logger       *slog.Logger
}

// NewActivityHandler creates a new ActivityHandler.
func NewActivityHandler(studyService service.StudyService, logger *slog.Logger) *ActivityHandler {
	if studyService == nil {
		panic("study service cannot be nil for ActivityHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ActivityHandler{
		studyService: studyService,
		logger:       logger.With(slog.String("component", "activity_handler")),
	}
}

// GetActivity handles GET /activity requests. The optional "days" query
// parameter sizes the window ending today; every date in the window appears
// in the response, zero-valued when nothing was studied.
func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	days := defaultActivityDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxActivityDays {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		days = parsed
	}

	window, err := h.studyService.ActivityWindow(r.Context(), userID, days)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("activity window served",
		slog.String("user_id", userID.String()),
		slog.Int("days", days))
	shared.RespondWithJSON(w, r, http.StatusOK, activityToResponse(window))
}
