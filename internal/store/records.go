package store

import (
	"time"

	"github.com/danbi/ebbing/internal/schedule"
	"github.com/danbi/ebbing/internal/types"
)

// LevelUp advances one item and appends a log entry. daysAgo backdates the
// study event: the schedule is computed relative to now minus daysAgo, so a
// retroactively logged session still yields a realistic review date.
func LevelUp(s types.AppState, idx, num, daysAgo int, now time.Time) (types.AppState, error) {
	subjects, err := activeSubject(s, idx)
	if err != nil {
		return s, err
	}
	if num < 1 || num > subjects[idx].Max {
		return s, ErrBadRange
	}

	out := s.Clone()
	return levelUpInPlace(out, idx, num, daysAgo, now), nil
}

// levelUpInPlace mutates an already-cloned state. Shared by LevelUp and
// BatchLevelUp so a batch clones once.
func levelUpInPlace(out types.AppState, idx, num, daysAgo int, now time.Time) types.AppState {
	sub := &out.Books[out.ActiveTab][idx]
	asOf := now.AddDate(0, 0, -daysAgo)
	rec := schedule.LevelUp(sub.Record(num), asOf)
	sub.Records[num] = rec

	entry := types.LogEntry{
		Date:    schedule.FormatDate(asOf),
		Time:    now.Format("15:04"),
		Book:    out.ActiveTabName(),
		Subject: sub.Name,
		Num:     num,
		Level:   rec.Level,
	}
	out.Logs = append([]types.LogEntry{entry}, out.Logs...)
	if len(out.Logs) > types.MaxLogs {
		out.Logs = out.Logs[:types.MaxLogs]
	}
	return out
}

// BatchLevelUp applies LevelUp to every item in the inclusive range. An
// invalid range is rejected with no partial effect.
func BatchLevelUp(s types.AppState, idx, start, end int, now time.Time) (types.AppState, error) {
	subjects, err := activeSubject(s, idx)
	if err != nil {
		return s, err
	}
	if start < 1 || start > end || end > subjects[idx].Max {
		return s, ErrBadRange
	}

	out := s.Clone()
	for num := start; num <= end; num++ {
		out = levelUpInPlace(out, idx, num, 0, now)
	}
	return out, nil
}

// ResetRecord reinitializes one item in place, preserving weight and topic
// and counting the reset.
func ResetRecord(s types.AppState, idx, num int) (types.AppState, error) {
	if _, err := activeSubject(s, idx); err != nil {
		return s, err
	}
	out := s.Clone()
	sub := &out.Books[out.ActiveTab][idx]
	sub.Records[num] = schedule.Reset(sub.Record(num))
	return out, nil
}

// ToggleMastered flips one item's mastered flag.
func ToggleMastered(s types.AppState, idx, num int) (types.AppState, error) {
	if _, err := activeSubject(s, idx); err != nil {
		return s, err
	}
	out := s.Clone()
	sub := &out.Books[out.ActiveTab][idx]
	sub.Records[num] = schedule.ToggleMastered(sub.Record(num))
	return out, nil
}

// ToggleWeight flips one item between normal and focus weight.
func ToggleWeight(s types.AppState, idx, num int) (types.AppState, error) {
	if _, err := activeSubject(s, idx); err != nil {
		return s, err
	}
	out := s.Clone()
	sub := &out.Books[out.ActiveTab][idx]
	sub.Records[num] = schedule.ToggleWeight(sub.Record(num))
	return out, nil
}

// SetTopic annotates one item.
func SetTopic(s types.AppState, idx, num int, topic string) (types.AppState, error) {
	if _, err := activeSubject(s, idx); err != nil {
		return s, err
	}
	out := s.Clone()
	sub := &out.Books[out.ActiveTab][idx]
	sub.Records[num] = schedule.SetTopic(sub.Record(num), topic)
	return out, nil
}
