// Package extract selects "what to study now" from the active book. The
// daily pick walks every enabled subject and draws from the highest-priority
// bucket; the weighted pick shuffles the flagged-item pool. Neither mutates
// records; the daily pick's history entry goes through the store.
package extract

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/danbi/ebbing/internal/schedule"
	"github.com/danbi/ebbing/internal/store"
	"github.com/danbi/ebbing/internal/types"
)

var (
	// ErrNothingToExtract means no subject produced a daily pick.
	ErrNothingToExtract = errors.New("nothing to extract")
	// ErrNoFocusItems means no unmastered item carries a focus weight.
	ErrNoFocusItems = errors.New("no focus items")
)

// Bucket labels on a daily pick.
const (
	LabelReview = "review"
	LabelNew    = "new"
	LabelBonus  = "bonus"
	LabelFocus  = "focus"
)

// WeightedLimit caps a weighted extraction.
const WeightedLimit = 5

// Pick is one extracted item.
type Pick struct {
	Subject string `json:"subject"`
	Color   string `json:"color"`
	Num     int    `json:"num"`
	Label   string `json:"label"`
}

// Engine draws picks. The rand source is injectable so tests are
// deterministic.
type Engine struct {
	rng *rand.Rand
}

// New creates an Engine. A nil rng gets a time-seeded source.
func New(rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{rng: rng}
}

// Daily picks one item per enabled subject of the active book, preferring
// due items, then new, then learned, and appends one history entry. When no
// subject yields a pick it returns the state unchanged with
// ErrNothingToExtract.
func (e *Engine) Daily(s types.AppState, now time.Time) (types.AppState, []Pick, error) {
	today := schedule.FormatDate(now)
	var picks []Pick
	var summary strings.Builder

	for _, sub := range s.ActiveBook() {
		if !sub.ExtractEnabled {
			continue
		}
		var due, fresh, learned []int
		for num := 1; num <= sub.Max; num++ {
			rec := sub.Record(num)
			switch {
			case schedule.IsDue(rec, today):
				due = append(due, num)
			case rec.Level == 0 && !rec.Mastered:
				fresh = append(fresh, num)
			case !rec.Mastered:
				learned = append(learned, num)
			}
		}

		var pool []int
		var label string
		switch {
		case len(due) > 0:
			pool, label = due, LabelReview
		case len(fresh) > 0:
			pool, label = fresh, LabelNew
		case len(learned) > 0:
			pool, label = learned, LabelBonus
		default:
			continue // nothing eligible in this subject
		}

		num := pool[e.rng.Intn(len(pool))]
		picks = append(picks, Pick{Subject: sub.Name, Color: sub.Color, Num: num, Label: label})
		fmt.Fprintf(&summary, "%s(%d) ", sub.Name, num)
	}

	if len(picks) == 0 {
		return s, nil, ErrNothingToExtract
	}

	out := store.AppendHistory(s, types.HistoryEntry{
		Time:   now.Format("15:04"),
		Result: strings.TrimSpace(summary.String()),
	})
	return out, picks, nil
}

// Weighted collects every unmastered focus item (weight < 1) across the
// enabled subjects of the active book and returns up to WeightedLimit of
// them, shuffled. No history entry is written.
func (e *Engine) Weighted(s types.AppState) ([]Pick, error) {
	var pool []Pick
	for _, sub := range s.ActiveBook() {
		if !sub.ExtractEnabled {
			continue
		}
		for num, rec := range sub.Records {
			if rec.Weight < 1 && !rec.Mastered {
				pool = append(pool, Pick{Subject: sub.Name, Color: sub.Color, Num: num, Label: LabelFocus})
			}
		}
	}
	if len(pool) == 0 {
		return nil, ErrNoFocusItems
	}

	e.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if len(pool) > WeightedLimit {
		pool = pool[:WeightedLimit]
	}
	return pool, nil
}
