// Package report derives read-only summaries from an AppState: the upcoming
// review schedule and per-subject progress. Rendering is the caller's
// problem.
package report

import (
	"sort"
	"time"

	"github.com/danbi/ebbing/internal/schedule"
	"github.com/danbi/ebbing/internal/types"
)

// Item is one scheduled review in a listing.
type Item struct {
	Book    string
	Subject string
	Color   string
	Num     int
	Level   int
	Topic   string
	Date    string // scheduled review date
	Overdue bool
}

// Day groups the schedule by calendar date.
type Day struct {
	Date  string
	Items []Item
}

// DueSchedule lists scheduled, unmastered items across all books: everything
// overdue as of `from`, plus the next `days` calendar days. Items beyond a
// subject's current max are invisible, mirroring extraction.
func DueSchedule(s types.AppState, from string, days int) []Day {
	horizon := ""
	if days > 0 {
		if t, err := time.Parse(schedule.DateLayout, from); err == nil {
			horizon = schedule.FormatDate(t.AddDate(0, 0, days))
		}
	}

	byDate := map[string][]Item{}
	for _, tab := range s.Tabs {
		for _, sub := range s.Books[tab.ID] {
			for num := 1; num <= sub.Max; num++ {
				rec := sub.Record(num)
				if rec.NextDate == "" || rec.Mastered {
					continue
				}
				if horizon != "" && rec.NextDate >= horizon {
					continue
				}
				byDate[rec.NextDate] = append(byDate[rec.NextDate], Item{
					Book:    tab.Name,
					Subject: sub.Name,
					Color:   sub.Color,
					Num:     num,
					Level:   rec.Level,
					Topic:   rec.Topic,
					Date:    rec.NextDate,
					Overdue: rec.NextDate < from,
				})
			}
		}
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]Day, 0, len(dates))
	for _, d := range dates {
		items := byDate[d]
		sort.Slice(items, func(i, j int) bool {
			if items[i].Subject != items[j].Subject {
				return items[i].Subject < items[j].Subject
			}
			return items[i].Num < items[j].Num
		})
		out = append(out, Day{Date: d, Items: items})
	}
	return out
}

// SubjectStats summarizes one subject's progress.
type SubjectStats struct {
	Book     string
	Subject  string
	Color    string
	Total    int // item count (max)
	Studied  int // level ≥ 1
	Mastered int
	Focus    int // weight < 1, not mastered
	Due      int // due as of today
	Resets   int // sum of resetCounts
}

// Stats computes per-subject progress for every book, in tab order.
func Stats(s types.AppState, today string) []SubjectStats {
	var out []SubjectStats
	for _, tab := range s.Tabs {
		for _, sub := range s.Books[tab.ID] {
			st := SubjectStats{Book: tab.Name, Subject: sub.Name, Color: sub.Color, Total: sub.Max}
			for num := 1; num <= sub.Max; num++ {
				rec := sub.Record(num)
				if rec.Level > 0 {
					st.Studied++
				}
				if rec.Mastered {
					st.Mastered++
				}
				if rec.Weight < 1 && !rec.Mastered {
					st.Focus++
				}
				if schedule.IsDue(rec, today) {
					st.Due++
				}
				st.Resets += rec.ResetCount
			}
			out = append(out, st)
		}
	}
	return out
}
