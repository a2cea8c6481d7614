package schedule

import (
	"testing"
	"time"

	"github.com/danbi/ebbing/internal/types"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestIntervalDaysTable(t *testing.T) {
	want := []int{0, 1, 3, 7, 14, 30, 45, 60}
	for level, days := range want {
		if got := IntervalDays(level); got != days {
			t.Errorf("IntervalDays(%d) = %d, want %d", level, got, days)
		}
	}
}

func TestIntervalDaysSaturates(t *testing.T) {
	for level := 7; level < 100; level++ {
		if got := IntervalDays(level); got != 60 {
			t.Errorf("IntervalDays(%d) = %d, want 60", level, got)
		}
	}
}

func TestLevelUp(t *testing.T) {
	rec := types.Record{Level: 3, Weight: 1, LastDate: "2026-01-01", NextDate: "2026-01-08"}
	got := LevelUp(rec, date("2026-02-01"))

	if got.Level != 4 {
		t.Errorf("level = %d, want 4", got.Level)
	}
	if got.LastDate != "2026-02-01" {
		t.Errorf("lastDate = %q, want 2026-02-01", got.LastDate)
	}
	// Level 4 interval is 14 days.
	if got.NextDate != "2026-02-15" {
		t.Errorf("nextDate = %q, want 2026-02-15", got.NextDate)
	}
}

func TestLevelUpHalvesGapForFocusWeight(t *testing.T) {
	rec := types.Record{Level: 2, Weight: 0.5}
	got := LevelUp(rec, date("2026-03-01"))

	// Level 3 interval is 7 days; ceil(7 * 0.5) = 4.
	if got.NextDate != "2026-03-05" {
		t.Errorf("nextDate = %q, want 2026-03-05", got.NextDate)
	}
}

func TestLevelUpBackdated(t *testing.T) {
	now := date("2026-02-10")
	asOf := now.AddDate(0, 0, -3)
	got := LevelUp(types.Record{Weight: 1}, asOf)

	if got.LastDate != "2026-02-07" {
		t.Errorf("lastDate = %q, want 2026-02-07", got.LastDate)
	}
	// Level 1 interval is 1 day, relative to the backdated date.
	if got.NextDate != "2026-02-08" {
		t.Errorf("nextDate = %q, want 2026-02-08", got.NextDate)
	}
}

func TestLevelUpTreatsZeroWeightAsNormal(t *testing.T) {
	// Records deserialized from older backups may carry weight 0.
	got := LevelUp(types.Record{Level: 0, Weight: 0}, date("2026-01-01"))
	if got.NextDate != "2026-01-02" {
		t.Errorf("nextDate = %q, want 2026-01-02", got.NextDate)
	}
}

func TestLevelUpIsMonotonic(t *testing.T) {
	rec := types.ZeroRecord()
	for i := 1; i <= 20; i++ {
		rec = LevelUp(rec, date("2026-01-01").AddDate(0, 0, i))
		if rec.Level != i {
			t.Fatalf("after %d level-ups level = %d", i, rec.Level)
		}
	}
}

func TestReset(t *testing.T) {
	rec := types.Record{
		Level: 5, Weight: 0.5, Topic: "dismissal", LastDate: "2026-01-01",
		NextDate: "2026-03-01", Mastered: true, ResetCount: 2,
	}
	got := Reset(rec)

	if got.Level != 0 || got.LastDate != "" || got.NextDate != "" {
		t.Errorf("reset left schedule state: %+v", got)
	}
	if got.Mastered {
		t.Error("reset must clear mastered")
	}
	if got.ResetCount != 3 {
		t.Errorf("resetCount = %d, want 3", got.ResetCount)
	}
	if got.Weight != 0.5 || got.Topic != "dismissal" {
		t.Errorf("reset must preserve weight and topic: %+v", got)
	}
}

func TestToggleWeightIsInvolution(t *testing.T) {
	rec := types.ZeroRecord()
	once := ToggleWeight(rec)
	if once.Weight != 0.5 {
		t.Errorf("weight after one toggle = %v, want 0.5", once.Weight)
	}
	twice := ToggleWeight(once)
	if twice.Weight != 1 {
		t.Errorf("weight after two toggles = %v, want 1", twice.Weight)
	}
}

func TestToggleMastered(t *testing.T) {
	rec := types.Record{Level: 4, Weight: 1, NextDate: "2026-05-01"}
	got := ToggleMastered(rec)
	if !got.Mastered {
		t.Error("expected mastered=true")
	}
	got.Mastered = false
	if got.Level != rec.Level || got.NextDate != rec.NextDate {
		t.Errorf("toggle changed other fields: %+v", got)
	}
}

func TestSetTopicTrims(t *testing.T) {
	got := SetTopic(types.ZeroRecord(), "  부당해고 구제절차  ")
	if got.Topic != "부당해고 구제절차" {
		t.Errorf("topic = %q", got.Topic)
	}
}

func TestIsDue(t *testing.T) {
	today := "2026-02-01"
	cases := []struct {
		rec  types.Record
		want bool
	}{
		{types.Record{NextDate: "2026-01-31"}, true},
		{types.Record{NextDate: "2026-02-01"}, true},
		{types.Record{NextDate: "2026-02-02"}, false},
		{types.Record{NextDate: "2026-01-31", Mastered: true}, false},
		{types.Record{}, false},
	}
	for i, c := range cases {
		if got := IsDue(c.rec, today); got != c.want {
			t.Errorf("case %d: IsDue(%+v) = %v, want %v", i, c.rec, got, c.want)
		}
	}
}
