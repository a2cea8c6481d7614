package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/danbi/ebbing/internal/report"
	"github.com/danbi/ebbing/internal/schedule"
	"github.com/danbi/ebbing/internal/types"
)

var (
	navStyle       = lipgloss.NewStyle().Padding(0, 1)
	navActiveStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Underline(true)
	titleStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Faint(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	cursorStyle    = lipgloss.NewStyle().Reverse(true)
	dueStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	masteredStyle  = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	focusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	overlayStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderNavbar())
	b.WriteString("\n\n")

	if m.picks != nil {
		b.WriteString(m.renderPicks())
	} else {
		switch m.view {
		case viewDashboard:
			b.WriteString(m.renderDashboard())
		case viewSchedule:
			b.WriteString(m.renderSchedule())
		case viewStats:
			b.WriteString(m.renderStats())
		case viewLogs:
			b.WriteString(m.renderLogs())
		case viewHistory:
			b.WriteString(m.renderHistory())
		}
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(m.helpLine()))
	return b.String()
}

func (m Model) renderNavbar() string {
	var parts []string
	for i, name := range viewNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if viewID(i) == m.view {
			parts = append(parts, navActiveStyle.Render(label))
		} else {
			parts = append(parts, navStyle.Render(label))
		}
	}
	nav := strings.Join(parts, "")

	var tabs []string
	for _, t := range m.state.Tabs {
		if t.ID == m.state.ActiveTab {
			tabs = append(tabs, navActiveStyle.Render(t.Name))
		} else {
			tabs = append(tabs, navStyle.Render(t.Name))
		}
	}
	return nav + "   " + strings.Join(tabs, "")
}

// renderDashboard shows every subject of the active book and the item grid
// of the selected one.
func (m Model) renderDashboard() string {
	subjects := m.state.ActiveBook()
	if len(subjects) == 0 {
		return dimStyle.Render("no subjects in this book")
	}
	today := schedule.FormatDate(time.Now())

	var b strings.Builder
	for i, sub := range subjects {
		line := fmt.Sprintf("%-14s", sub.Name)
		studied, due := 0, 0
		for num := 1; num <= sub.Max; num++ {
			rec := sub.Record(num)
			if rec.Level > 0 {
				studied++
			}
			if schedule.IsDue(rec, today) {
				due++
			}
		}
		line += fmt.Sprintf(" %3d/%-3d studied", studied, sub.Max)
		if due > 0 {
			line += dueStyle.Render(fmt.Sprintf("  %d due", due))
		}
		if !sub.ExtractEnabled {
			line += dimStyle.Render("  [excluded]")
		}
		if i == m.subjectIdx {
			b.WriteString(cursorStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderItemGrid(subjects[m.subjectIdx], today))
	return b.String()
}

// renderItemGrid draws the selected subject's items, ten per row.
func (m Model) renderItemGrid(sub types.Subject, today string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(sub.Name))
	rec := sub.Record(m.itemNum)
	b.WriteString(dimStyle.Render(fmt.Sprintf("  item %d · level %d", m.itemNum, rec.Level)))
	if rec.NextDate != "" {
		b.WriteString(dimStyle.Render(" · next " + rec.NextDate))
	}
	if rec.Topic != "" {
		b.WriteString(dimStyle.Render(" · " + rec.Topic))
	}
	b.WriteString("\n")

	for num := 1; num <= sub.Max; num++ {
		r := sub.Record(num)
		cell := fmt.Sprintf("%3d", num)
		switch {
		case r.Mastered:
			cell = masteredStyle.Render(cell)
		case schedule.IsDue(r, today):
			cell = dueStyle.Render(cell)
		case r.Weight < 1:
			cell = focusStyle.Render(cell)
		case r.Level == 0:
			cell = dimStyle.Render(cell)
		}
		if num == m.itemNum {
			cell = cursorStyle.Render(fmt.Sprintf("%3d", num))
		}
		b.WriteString(cell)
		b.WriteString(" ")
		if num%10 == 0 {
			b.WriteString("\n")
		}
	}
	if sub.Max%10 != 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderPicks() string {
	title := "🎯 Today's mission"
	if m.pickttl == "focus" {
		title = "🔥 Focus mission"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	for _, p := range m.picks {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color))
		b.WriteString(fmt.Sprintf("%s %s: no. %d\n", style.Render("["+p.Label+"]"), p.Subject, p.Num))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("press any key to dismiss"))
	return overlayStyle.Render(b.String())
}

func (m Model) renderSchedule() string {
	today := schedule.FormatDate(time.Now())
	days := report.DueSchedule(m.state, today, 14)
	if len(days) == 0 {
		return dimStyle.Render("nothing scheduled in the next two weeks")
	}
	var b strings.Builder
	for _, day := range days {
		header := day.Date
		if day.Date == today {
			header += " (today)"
		}
		b.WriteString(titleStyle.Render(header))
		b.WriteString("\n")
		for _, item := range day.Items {
			line := fmt.Sprintf("  %s · %s · no.%d (Lv.%d)", item.Book, item.Subject, item.Num, item.Level)
			if item.Overdue {
				b.WriteString(dueStyle.Render(line + "  overdue"))
			} else {
				b.WriteString(line)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderStats() string {
	today := schedule.FormatDate(time.Now())
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-10s %-14s %8s %8s %8s %6s %5s\n", "book", "subject", "studied", "mastered", "focus", "due", "resets"))
	for _, st := range report.Stats(m.state, today) {
		b.WriteString(fmt.Sprintf("%-10s %-14s %5d/%-3d %8d %8d %6d %5d\n",
			st.Book, st.Subject, st.Studied, st.Total, st.Mastered, st.Focus, st.Due, st.Resets))
	}
	return b.String()
}

func (m Model) renderLogs() string {
	if len(m.state.Logs) == 0 {
		return dimStyle.Render("no study events yet")
	}
	var b strings.Builder
	for i, log := range m.state.Logs {
		line := fmt.Sprintf("%s %s  %s · %s · no.%d → Lv.%d", log.Date, log.Time, log.Book, log.Subject, log.Num, log.Level)
		if i == m.entryIdx {
			b.WriteString(cursorStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderHistory() string {
	if len(m.state.History) == 0 {
		return dimStyle.Render("no extractions yet")
	}
	var b strings.Builder
	for i, h := range m.state.History {
		line := fmt.Sprintf("%s  %s", h.Time, h.Result)
		if i == m.entryIdx {
			b.WriteString(cursorStyle.Render("▸ " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) helpLine() string {
	switch m.view {
	case viewDashboard:
		return "↑↓ subject · ←→ item · enter level-up · y backdate · w weight · m mastered · r reset · x exclude · e extract · f focus · tab book · q quit"
	case viewLogs:
		return "↑↓ select · d delete · C clear all · 1-5 views · q quit"
	case viewHistory:
		return "↑↓ select · d delete · 1-5 views · q quit"
	default:
		return "1-5 views · tab book · q quit"
	}
}
