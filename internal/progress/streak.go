package progress

import "time"

// StreakState holds the streak counters for one scope (global or per-deck).
// LastActivity is the calendar date of the most recent credited session; a
// scope is credited at most once per calendar date.
type StreakState struct {
	Current      int       `json:"current"`
	Max          int       `json:"max"`
	LastActivity time.Time `json:"last_activity"`
}

// DateOf truncates a timestamp to its calendar date, preserving the
// location. Streak and activity math compares dates, never instants.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return DateOf(a).Equal(DateOf(b))
}

// Credit applies the streak continuation rule for a finished session and
// returns the updated state. The input state is not modified.
//
// Rules:
//   - a session that studied no cards earns no credit
//   - a scope already credited today is left unchanged
//   - activity on the day after the last credited date extends the streak
//   - any longer gap (or no prior activity) restarts the streak at 1
func Credit(state StreakState, studiedCount int, today time.Time) StreakState {
	if studiedCount <= 0 {
		return state
	}

	day := DateOf(today)

	if !state.LastActivity.IsZero() && SameDay(state.LastActivity, day) {
		return state
	}

	next := state
	if !state.LastActivity.IsZero() && SameDay(state.LastActivity.AddDate(0, 0, 1), day) {
		next.Current = state.Current + 1
	} else {
		next.Current = 1
	}

	if next.Current > next.Max {
		next.Max = next.Current
	}

	next.LastActivity = day
	return next
}
