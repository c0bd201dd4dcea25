package api

import (
	"time"

	"github.com/lsandoval/mnemo/internal/domain"
	"github.com/lsandoval/mnemo/internal/progress"
	"github.com/lsandoval/mnemo/internal/service"
	"github.com/lsandoval/mnemo/internal/session"
)

// StartSessionRequest represents the request body for starting a session.
type StartSessionRequest struct {
	DeckID string `json:"deck_id" validate:"required,uuid"`
	Kind   string `json:"kind"    validate:"required,oneof=learn review"`
}

// RateCardRequest represents the request body for rating the current card.
type RateCardRequest struct {
	Rating string `json:"rating" validate:"required,oneof=again hard good easy"`
}

// PostponeCardRequest represents the request body for postponing a card.
type PostponeCardRequest struct {
	Days int `json:"days" validate:"required,gte=1,lte=365"`
}

// PhaseResponse describes the current phase of a session.
type PhaseResponse struct {
	Display     string `json:"display"`
	AllowRating bool   `json:"allow_rating"`
}

// SessionResponse represents the response data for a session snapshot.
type SessionResponse struct {
	ID            string         `json:"id"`
	DeckID        string         `json:"deck_id"`
	Kind          string         `json:"kind"`
	CurrentStep   int            `json:"current_step"`
	TotalSteps    int            `json:"total_steps"`
	Finished      bool           `json:"finished"`
	Phase         *PhaseResponse `json:"phase,omitempty"`
	CurrentCardID string         `json:"current_card_id,omitempty"`
	Reviewed      int            `json:"reviewed"`
	Learned       int            `json:"learned"`
	Warning       string         `json:"warning,omitempty"`
}

// CardStateResponse represents the response data for card scheduling state.
type CardStateResponse struct {
	CardID         string    `json:"card_id"`
	DeckID         string    `json:"deck_id"`
	EaseFactor     float64   `json:"ease_factor"`
	ReviewInterval int       `json:"review_interval"`
	Repetitions    int       `json:"repetitions"`
	DueDate        time.Time `json:"due_date"`
	Status         string    `json:"status"`
}

// ActivityDayResponse represents one calendar date of the activity heatmap.
type ActivityDayResponse struct {
	Date               string `json:"date"`
	CardsStudied       int    `json:"cards_studied"`
	CardsReviewed      int    `json:"cards_reviewed"`
	CardsLearned       int    `json:"cards_learned"`
	TimeStudiedSeconds int    `json:"time_studied_seconds"`
	XPEarned           int    `json:"xp_earned"`
}

// activityDateLayout is the wire format for heatmap dates.
const activityDateLayout = "2006-01-02"

// sessionToResponse converts a service.SessionHandle to a SessionResponse.
func sessionToResponse(handle *service.SessionHandle) SessionResponse {
	resp := SessionResponse{
		ID:          handle.ID.String(),
		DeckID:      handle.DeckID.String(),
		Kind:        string(handle.Kind),
		CurrentStep: handle.CurrentStep,
		TotalSteps:  handle.TotalSteps,
		Finished:    handle.Finished,
		Reviewed:    handle.Reviewed,
		Learned:     handle.Learned,
		Warning:     handle.Warning,
	}

	if handle.Phase != nil {
		resp.Phase = &PhaseResponse{
			Display:     string(handle.Phase.Display),
			AllowRating: handle.Phase.AllowRating,
		}
	}
	if handle.CurrentCardID != nil {
		resp.CurrentCardID = handle.CurrentCardID.String()
	}

	return resp
}

// cardStateToResponse converts a domain.CardSrsState to a CardStateResponse.
func cardStateToResponse(state *domain.CardSrsState) CardStateResponse {
	return CardStateResponse{
		CardID:         state.CardID.String(),
		DeckID:         state.DeckID.String(),
		EaseFactor:     state.EaseFactor,
		ReviewInterval: state.ReviewInterval,
		Repetitions:    state.Repetitions,
		DueDate:        state.DueDate,
		Status:         string(state.Status),
	}
}

// activityToResponse converts a gapless activity window to wire format.
func activityToResponse(days []progress.ActivityDay) []ActivityDayResponse {
	resp := make([]ActivityDayResponse, 0, len(days))
	for _, d := range days {
		resp = append(resp, ActivityDayResponse{
			Date:               d.Date.Format(activityDateLayout),
			CardsStudied:       d.CardsStudied,
			CardsReviewed:      d.CardsReviewed,
			CardsLearned:       d.CardsLearned,
			TimeStudiedSeconds: d.TimeStudiedSeconds,
			XPEarned:           d.XPEarned,
		})
	}
	return resp
}

// kindFromRequest maps the wire kind to the session kind.
func kindFromRequest(kind string) session.Kind {
	return session.Kind(kind)
}
