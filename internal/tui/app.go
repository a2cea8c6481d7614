// Package tui is the interactive dashboard. It never computes schedule or
// extraction logic itself: every keypress maps to one named engine action
// dispatched through the syncer.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/danbi/ebbing/internal/extract"
	"github.com/danbi/ebbing/internal/store"
	"github.com/danbi/ebbing/internal/syncer"
	"github.com/danbi/ebbing/internal/types"
)

// View identifiers for the navbar.
type viewID int

const (
	viewDashboard viewID = iota
	viewSchedule
	viewStats
	viewLogs
	viewHistory
)

var viewNames = []string{"Dashboard", "Schedule", "Stats", "Logs", "History"}

// Model is the bubbletea model for the whole app.
type Model struct {
	sync   *syncer.Syncer
	engine *extract.Engine

	state types.AppState
	view  viewID

	subjectIdx int // selected subject in the active book
	itemNum    int // selected item number within the subject
	entryIdx   int // selected row in logs/history views

	picks   []extract.Pick // result of the last extraction, shown until dismissed
	pickttl string         // "daily" or "focus"
	status  string

	width  int
	height int
}

// NewModel builds the TUI over an already-started syncer.
func NewModel(sy *syncer.Syncer, engine *extract.Engine) Model {
	return Model{
		sync:    sy,
		engine:  engine,
		state:   sy.State(),
		itemNum: 1,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// apply routes a store operation through the syncer and refreshes the local
// snapshot. Rejections land in the status line instead of crashing the UI.
func (m *Model) apply(fn func(types.AppState) (types.AppState, error)) {
	next, err := m.sync.Apply(fn)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.state = next
	m.status = ""
	m.clampCursor()
}

func (m *Model) clampCursor() {
	subjects := m.state.ActiveBook()
	if m.subjectIdx >= len(subjects) {
		m.subjectIdx = len(subjects) - 1
	}
	if m.subjectIdx < 0 {
		m.subjectIdx = 0
	}
	if len(subjects) > 0 {
		max := subjects[m.subjectIdx].Max
		if m.itemNum > max {
			m.itemNum = max
		}
		if m.itemNum < 1 {
			m.itemNum = 1
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// An extraction overlay swallows every key except dismissal.
		if m.picks != nil {
			m.picks = nil
			m.pickttl = ""
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.sync.Flush(false)
		return m, tea.Quit

	case "1", "2", "3", "4", "5":
		m.view = viewID(int(msg.String()[0] - '1'))
		m.entryIdx = 0
		return m, nil

	case "tab":
		m.switchBook(1)
		return m, nil
	case "shift+tab":
		m.switchBook(-1)
		return m, nil
	}

	switch m.view {
	case viewDashboard:
		return m.handleDashboardKey(msg)
	case viewLogs, viewHistory:
		return m.handleLedgerKey(msg)
	}
	return m, nil
}

func (m *Model) switchBook(dir int) {
	tabs := m.state.Tabs
	cur := 0
	for i, t := range tabs {
		if t.ID == m.state.ActiveTab {
			cur = i
			break
		}
	}
	next := tabs[(cur+dir+len(tabs))%len(tabs)].ID
	m.apply(func(st types.AppState) (types.AppState, error) {
		return store.SwitchBook(st, next)
	})
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	subjects := m.state.ActiveBook()
	if len(subjects) == 0 {
		return m, nil
	}
	idx, num := m.subjectIdx, m.itemNum

	switch msg.String() {
	case "up", "k":
		m.subjectIdx--
		m.clampCursor()
	case "down", "j":
		m.subjectIdx++
		m.clampCursor()
	case "left", "h":
		m.itemNum--
		m.clampCursor()
	case "right", "l":
		m.itemNum++
		m.clampCursor()
	case "pgup":
		m.itemNum -= 10
		m.clampCursor()
	case "pgdown":
		m.itemNum += 10
		m.clampCursor()

	case "enter", " ":
		m.apply(func(st types.AppState) (types.AppState, error) {
			return store.LevelUp(st, idx, num, 0, time.Now())
		})
	case "y":
		// Retroactive: log yesterday's study with its real date.
		m.apply(func(st types.AppState) (types.AppState, error) {
			return store.LevelUp(st, idx, num, 1, time.Now())
		})
	case "w":
		m.apply(func(st types.AppState) (types.AppState, error) {
			return store.ToggleWeight(st, idx, num)
		})
	case "m":
		m.apply(func(st types.AppState) (types.AppState, error) {
			return store.ToggleMastered(st, idx, num)
		})
	case "r":
		m.apply(func(st types.AppState) (types.AppState, error) {
			return store.ResetRecord(st, idx, num)
		})
	case "x":
		m.apply(func(st types.AppState) (types.AppState, error) {
			return store.ToggleExtractEnabled(st, idx)
		})

	case "e":
		m.runDaily()
	case "f":
		m.runWeighted()
	case "D":
		m.apply0(store.ToggleDark)
	}
	return m, nil
}

func (m *Model) apply0(fn func(types.AppState) types.AppState) {
	m.apply(func(st types.AppState) (types.AppState, error) {
		return fn(st), nil
	})
}

func (m *Model) runDaily() {
	var picks []extract.Pick
	next, err := m.sync.Apply(func(st types.AppState) (types.AppState, error) {
		out, p, err := m.engine.Daily(st, time.Now())
		if err != nil {
			return st, err
		}
		picks = p
		return out, nil
	})
	if err != nil {
		m.status = err.Error()
		return
	}
	m.state = next
	m.picks = picks
	m.pickttl = "daily"
	m.status = ""
}

func (m *Model) runWeighted() {
	picks, err := m.engine.Weighted(m.state)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.picks = picks
	m.pickttl = "focus"
	m.status = ""
}

func (m Model) handleLedgerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	size := len(m.state.Logs)
	if m.view == viewHistory {
		size = len(m.state.History)
	}

	switch msg.String() {
	case "up", "k":
		if m.entryIdx > 0 {
			m.entryIdx--
		}
	case "down", "j":
		if m.entryIdx < size-1 {
			m.entryIdx++
		}
	case "d":
		idx := m.entryIdx
		if m.view == viewLogs {
			m.apply(func(st types.AppState) (types.AppState, error) {
				return store.DeleteLog(st, idx)
			})
		} else {
			m.apply(func(st types.AppState) (types.AppState, error) {
				return store.DeleteHistory(st, idx)
			})
		}
		if m.entryIdx > 0 {
			m.entryIdx--
		}
	case "C":
		if m.view == viewLogs {
			m.apply0(store.ClearLogs)
		}
	}
	return m, nil
}
