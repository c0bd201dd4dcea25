package progress

import (
	"sort"
	"time"
)

// dayKeyLayout is the bucket key format; one bucket per calendar date.
const dayKeyLayout = "2006-01-02"

// ActivityDay aggregates study activity for one calendar date. All counter
// fields are additive across sessions on the same date.
type ActivityDay struct {
	Date               time.Time `json:"date"`
	CardsStudied       int       `json:"cards_studied"`
	CardsReviewed      int       `json:"cards_reviewed"`
	CardsLearned       int       `json:"cards_learned"`
	TimeStudiedSeconds int       `json:"time_studied_seconds"`
	XPEarned           int       `json:"xp_earned"`
}

// add accumulates another day's counters into the bucket.
func (d *ActivityDay) add(delta ActivityDay) {
	d.CardsStudied += delta.CardsStudied
	d.CardsReviewed += delta.CardsReviewed
	d.CardsLearned += delta.CardsLearned
	d.TimeStudiedSeconds += delta.TimeStudiedSeconds
	d.XPEarned += delta.XPEarned
}

// Log is a day-bucketed activity accumulator. Multiple sessions on the same
// date accumulate into one bucket rather than overwriting each other.
//
// Log is not safe for concurrent use; each learner's log is owned by a
// single logical thread of control, matching the session model.
type Log struct {
	buckets map[string]*ActivityDay
}

// NewLog creates an empty activity log.
func NewLog() *Log {
	return &Log{
		buckets: make(map[string]*ActivityDay),
	}
}

// Append sums the delta into the bucket for the given date, creating the
// bucket if it does not exist yet. The Date field of the delta is ignored;
// the explicit date argument decides the bucket.
func (l *Log) Append(date time.Time, delta ActivityDay) {
	day := DateOf(date)
	key := day.Format(dayKeyLayout)

	bucket, ok := l.buckets[key]
	if !ok {
		bucket = &ActivityDay{Date: day}
		l.buckets[key] = bucket
	}
	bucket.add(delta)
}

// Day returns the bucket for the given date, if one exists.
func (l *Log) Day(date time.Time) (ActivityDay, bool) {
	bucket, ok := l.buckets[DateOf(date).Format(dayKeyLayout)]
	if !ok {
		return ActivityDay{}, false
	}
	return *bucket, true
}

// All returns every bucket in ascending date order.
func (l *Log) All() []ActivityDay {
	days := make([]ActivityDay, 0, len(l.buckets))
	for _, bucket := range l.buckets {
		days = append(days, *bucket)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.Before(days[j].Date)
	})
	return days
}

// Window returns one entry per calendar date in [from, to], in date order.
// Dates without recorded activity appear as zero-valued buckets so a
// heatmap renderer gets a complete, gapless window.
func (l *Log) Window(from, to time.Time) []ActivityDay {
	start := DateOf(from)
	end := DateOf(to)
	if end.Before(start) {
		return nil
	}

	var days []ActivityDay
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if bucket, ok := l.Day(day); ok {
			days = append(days, bucket)
		} else {
			days = append(days, ActivityDay{Date: day})
		}
	}
	return days
}

// FillWindow builds a gapless [from, to] window from an already date-ordered
// list of buckets, inserting zero-valued entries for missing dates. It is
// used to shape store query results for heatmap rendering.
func FillWindow(days []ActivityDay, from, to time.Time) []ActivityDay {
	log := NewLog()
	for _, d := range days {
		log.Append(d.Date, d)
	}
	return log.Window(from, to)
}
