package extract

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/danbi/ebbing/internal/types"
)

var testNow = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return New(rand.New(rand.NewSource(1)))
}

// singleSubjectState builds a one-book, one-subject state for bucket tests.
func singleSubjectState(sub types.Subject) types.AppState {
	return types.AppState{
		ActiveTab: "b",
		Tabs:      []types.Tab{{ID: "b", Name: "book"}},
		Books:     map[string][]types.Subject{"b": {sub}},
	}
}

func TestDailyPicksNewFromEmptySubject(t *testing.T) {
	s := singleSubjectState(types.Subject{
		Name: "노동법", Color: "#0984e3", Max: 5,
		Records: map[int]types.Record{}, ExtractEnabled: true,
	})

	out, picks, err := testEngine().Daily(s, testNow)
	if err != nil {
		t.Fatalf("Daily: %v", err)
	}
	if len(picks) != 1 {
		t.Fatalf("expected 1 pick, got %d", len(picks))
	}
	p := picks[0]
	if p.Num < 1 || p.Num > 5 {
		t.Errorf("pick %d outside 1..5", p.Num)
	}
	if p.Label != LabelNew {
		t.Errorf("label = %q, want %q", p.Label, LabelNew)
	}
	if len(out.History) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(out.History))
	}
	if len(out.Logs) != 0 {
		t.Error("extraction must not write study logs")
	}
	// Input snapshot untouched.
	if len(s.History) != 0 {
		t.Error("Daily mutated its input")
	}
}

func TestDailyPrefersDueOverNewAndLearned(t *testing.T) {
	s := singleSubjectState(types.Subject{
		Name: "x", Max: 10, ExtractEnabled: true,
		Records: map[int]types.Record{
			2: {Level: 3, Weight: 1, NextDate: "2026-01-20"}, // due
			4: {Level: 2, Weight: 1, NextDate: "2026-03-01"}, // learned, not due
		},
	})

	for i := 0; i < 20; i++ {
		_, picks, err := testEngine().Daily(s, testNow)
		if err != nil {
			t.Fatal(err)
		}
		if picks[0].Num != 2 || picks[0].Label != LabelReview {
			t.Fatalf("pick = %+v, want due item 2", picks[0])
		}
	}
}

func TestDailyBonusWhenOnlyLearnedRemain(t *testing.T) {
	s := singleSubjectState(types.Subject{
		Name: "x", Max: 1, ExtractEnabled: true,
		Records: map[int]types.Record{
			1: {Level: 2, Weight: 1, NextDate: "2026-03-01"},
		},
	})
	_, picks, err := testEngine().Daily(s, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if picks[0].Label != LabelBonus {
		t.Errorf("label = %q, want %q", picks[0].Label, LabelBonus)
	}
}

func TestDailyNeverPicksMastered(t *testing.T) {
	records := map[int]types.Record{}
	for num := 1; num <= 9; num++ {
		records[num] = types.Record{Level: 1, Weight: 1, NextDate: "2026-01-01", Mastered: true}
	}
	records[10] = types.Record{Level: 1, Weight: 1, NextDate: "2026-01-01"}
	s := singleSubjectState(types.Subject{Name: "x", Max: 10, ExtractEnabled: true, Records: records})

	for i := 0; i < 20; i++ {
		_, picks, err := testEngine().Daily(s, testNow)
		if err != nil {
			t.Fatal(err)
		}
		if picks[0].Num != 10 {
			t.Fatalf("picked mastered item %d", picks[0].Num)
		}
	}
}

func TestDailySkipsMasteredUnstudiedItems(t *testing.T) {
	// Mastering an item at level 0 keeps it out of the "new" bucket.
	s := singleSubjectState(types.Subject{
		Name: "x", Max: 1, ExtractEnabled: true,
		Records: map[int]types.Record{
			1: {Level: 0, Weight: 1, Mastered: true},
		},
	})
	if _, _, err := testEngine().Daily(s, testNow); !errors.Is(err, ErrNothingToExtract) {
		t.Fatalf("expected ErrNothingToExtract, got %v", err)
	}

	// With an eligible sibling, the mastered level-0 item is never drawn.
	s = singleSubjectState(types.Subject{
		Name: "x", Max: 2, ExtractEnabled: true,
		Records: map[int]types.Record{
			1: {Level: 0, Weight: 1, Mastered: true},
		},
	})
	for i := 0; i < 20; i++ {
		_, picks, err := testEngine().Daily(s, testNow)
		if err != nil {
			t.Fatal(err)
		}
		if picks[0].Num != 2 {
			t.Fatalf("picked mastered item %d", picks[0].Num)
		}
	}
}

func TestDailySkipsDisabledSubjects(t *testing.T) {
	s := types.AppState{
		ActiveTab: "b",
		Tabs:      []types.Tab{{ID: "b", Name: "book"}},
		Books: map[string][]types.Subject{"b": {
			{Name: "off", Max: 5, ExtractEnabled: false},
			{Name: "on", Max: 5, ExtractEnabled: true},
		}},
	}
	_, picks, err := testEngine().Daily(s, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(picks) != 1 || picks[0].Subject != "on" {
		t.Errorf("picks = %+v", picks)
	}
}

func TestDailyNothingToExtract(t *testing.T) {
	// All subjects disabled.
	s := singleSubjectState(types.Subject{Name: "x", Max: 5, ExtractEnabled: false})
	out, _, err := testEngine().Daily(s, testNow)
	if !errors.Is(err, ErrNothingToExtract) {
		t.Fatalf("expected ErrNothingToExtract, got %v", err)
	}
	if len(out.History) != 0 {
		t.Error("empty extraction must not append history")
	}

	// Enabled but everything mastered.
	records := map[int]types.Record{}
	for num := 1; num <= 3; num++ {
		records[num] = types.Record{Level: 1, Weight: 1, Mastered: true}
	}
	s = singleSubjectState(types.Subject{Name: "x", Max: 3, ExtractEnabled: true, Records: records})
	if _, _, err := testEngine().Daily(s, testNow); !errors.Is(err, ErrNothingToExtract) {
		t.Fatalf("expected ErrNothingToExtract, got %v", err)
	}
}

func TestWeightedReturnsOnlyFocusItems(t *testing.T) {
	s := singleSubjectState(types.Subject{
		Name: "x", Max: 20, ExtractEnabled: true,
		Records: map[int]types.Record{
			1: {Level: 1, Weight: 0.5},
			2: {Level: 1, Weight: 1},
			3: {Level: 1, Weight: 0.5, Mastered: true},
			4: {Level: 0, Weight: 0.5},
		},
	})
	picks, err := testEngine().Weighted(s)
	if err != nil {
		t.Fatalf("Weighted: %v", err)
	}
	if len(picks) != 2 {
		t.Fatalf("expected 2 picks, got %d", len(picks))
	}
	for _, p := range picks {
		if p.Num != 1 && p.Num != 4 {
			t.Errorf("unexpected pick %+v", p)
		}
		if p.Label != LabelFocus {
			t.Errorf("label = %q", p.Label)
		}
	}
}

func TestWeightedCapsAtFive(t *testing.T) {
	records := map[int]types.Record{}
	for num := 1; num <= 12; num++ {
		records[num] = types.Record{Level: 1, Weight: 0.5}
	}
	s := singleSubjectState(types.Subject{Name: "x", Max: 20, ExtractEnabled: true, Records: records})

	picks, err := testEngine().Weighted(s)
	if err != nil {
		t.Fatal(err)
	}
	if len(picks) != WeightedLimit {
		t.Errorf("expected %d picks, got %d", WeightedLimit, len(picks))
	}
	seen := map[int]bool{}
	for _, p := range picks {
		if seen[p.Num] {
			t.Errorf("item %d picked twice", p.Num)
		}
		seen[p.Num] = true
	}
}

func TestWeightedEmptyPool(t *testing.T) {
	s := singleSubjectState(types.Subject{Name: "x", Max: 5, ExtractEnabled: true})
	if _, err := testEngine().Weighted(s); !errors.Is(err, ErrNoFocusItems) {
		t.Errorf("expected ErrNoFocusItems, got %v", err)
	}
}

func TestWeightedIgnoresDisabledSubjects(t *testing.T) {
	s := types.AppState{
		ActiveTab: "b",
		Tabs:      []types.Tab{{ID: "b", Name: "book"}},
		Books: map[string][]types.Subject{"b": {
			{Name: "off", Max: 5, ExtractEnabled: false, Records: map[int]types.Record{
				1: {Level: 1, Weight: 0.5},
			}},
		}},
	}
	if _, err := testEngine().Weighted(s); !errors.Is(err, ErrNoFocusItems) {
		t.Errorf("expected ErrNoFocusItems, got %v", err)
	}
}
