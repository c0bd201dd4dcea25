package session

import (
	"github.com/lsandoval/mnemo/internal/domain"
)

// Kind distinguishes sessions that introduce new cards from sessions that
// review previously studied ones. The kind decides both the phase sequence
// and which session counter a rating increments.
type Kind string

// Recognized session kinds.
const (
	KindLearn  Kind = "learn"
	KindReview Kind = "review"
)

// IsValid reports whether the kind is one of the recognized values.
func (k Kind) IsValid() bool {
	return k == KindLearn || k == KindReview
}

// DisplayState names what the UI should present during a phase. The engine
// never interprets these beyond equality; they are part of the phase
// descriptor contract with the rendering layer.
type DisplayState string

// Display states used by the built-in phase sequences.
const (
	DisplayReveal    DisplayState = "reveal"
	DisplayQuiz      DisplayState = "quiz"
	DisplayAnimation DisplayState = "animation"
	DisplayOutline   DisplayState = "outline"
)

// Phase describes one sub-step of the per-card study sequence.
type Phase struct {
	Display     DisplayState `json:"display"`
	AllowRating bool         `json:"allow_rating"`
}

// PhaseTable maps a study mode to the ordered phase sequence used for
// learn sessions. Review sessions always use a single quiz phase regardless
// of mode.
type PhaseTable map[domain.StudyMode][]Phase

// DefaultPhaseTable returns the built-in mode-to-phases mapping:
//
//   - mode "A" (flip-card): reveal without rating, then quiz
//   - mode "C" (character-trace): stroke animation and outline trace
//     without rating, then quiz
func DefaultPhaseTable() PhaseTable {
	return PhaseTable{
		domain.StudyModeFlipCard: {
			{Display: DisplayReveal, AllowRating: false},
			{Display: DisplayQuiz, AllowRating: true},
		},
		domain.StudyModeTrace: {
			{Display: DisplayAnimation, AllowRating: false},
			{Display: DisplayOutline, AllowRating: false},
			{Display: DisplayQuiz, AllowRating: true},
		},
	}
}

// reviewPhases is the single-phase sequence shared by all review sessions.
var reviewPhases = []Phase{
	{Display: DisplayQuiz, AllowRating: true},
}

// PhasesFor resolves the phase sequence for a session. An unknown study mode
// falls back to the flip-card sequence, the documented default. A table
// entry that resolves to zero phases is a configuration error surfaced by
// the controller, not here.
func (t PhaseTable) PhasesFor(kind Kind, mode domain.StudyMode) []Phase {
	if kind == KindReview {
		return reviewPhases
	}

	if phases, ok := t[mode]; ok {
		return phases
	}
	return t[domain.StudyModeFlipCard]
}
