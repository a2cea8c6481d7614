// Package schedule implements the Ebbinghaus review-interval model: a fixed
// level→days table and the pure record transitions built on it. Nothing here
// touches the store; callers integrate the returned records themselves.
package schedule

import (
	"math"
	"strings"
	"time"

	"github.com/danbi/ebbing/internal/types"
)

// DateLayout is the ISO calendar-date format used everywhere in the state.
const DateLayout = "2006-01-02"

// intervals maps level to days until the next review. The last entry is also
// used for every level beyond the table.
var intervals = []int{0, 1, 3, 7, 14, 30, 45, 60}

// IntervalDays returns the review gap in days for the given level,
// saturating at the table's last entry.
func IntervalDays(level int) int {
	if level >= len(intervals) {
		level = len(intervals) - 1
	}
	if level < 0 {
		level = 0
	}
	return intervals[level]
}

// FormatDate renders a time as an ISO calendar date.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// LevelUp advances the record one level as of the given date. The gap to the
// next review is ceil(interval × weight) days from asOf, so a backdated asOf
// yields a correspondingly earlier nextDate.
func LevelUp(rec types.Record, asOf time.Time) types.Record {
	rec.Level++
	weight := rec.Weight
	if weight == 0 {
		weight = 1
	}
	gap := int(math.Ceil(float64(IntervalDays(rec.Level)) * weight))
	rec.LastDate = FormatDate(asOf)
	rec.NextDate = FormatDate(asOf.AddDate(0, 0, gap))
	return rec
}

// Reset returns the record to the unscheduled state and counts the reset.
// Weight and topic survive; mastery does not.
func Reset(rec types.Record) types.Record {
	rec.Level = 0
	rec.LastDate = ""
	rec.NextDate = ""
	rec.Mastered = false
	rec.ResetCount++
	return rec
}

// ToggleMastered flips the mastered flag and nothing else.
func ToggleMastered(rec types.Record) types.Record {
	rec.Mastered = !rec.Mastered
	return rec
}

// ToggleWeight flips between the only two legal weights, 1 and 0.5.
func ToggleWeight(rec types.Record) types.Record {
	if rec.Weight == 1 {
		rec.Weight = 0.5
	} else {
		rec.Weight = 1
	}
	return rec
}

// SetTopic replaces the free-text annotation, trimmed of surrounding space.
func SetTopic(rec types.Record, topic string) types.Record {
	rec.Topic = strings.TrimSpace(topic)
	return rec
}

// IsDue reports whether the record is scheduled on or before today and not
// mastered. ISO dates compare correctly as strings.
func IsDue(rec types.Record, today string) bool {
	return rec.NextDate != "" && rec.NextDate <= today && !rec.Mastered
}
