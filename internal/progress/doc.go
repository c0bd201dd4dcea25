// Package progress implements the engagement statistics kept alongside the
// scheduler: study streaks and day-bucketed activity counters. All rules are
// pure calendar-date math; persistence of the resulting values is the
// caller's concern.
package progress
