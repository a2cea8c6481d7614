package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/danbi/ebbing/internal/types"
)

// AddBook creates a new book pre-populated with the default subjects and
// switches to it.
func AddBook(s types.AppState, name string, now time.Time) (types.AppState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, ErrEmptyName
	}

	out := s.Clone()
	id := newTabID(out, now)
	out.Tabs = append(out.Tabs, types.Tab{ID: id, Name: name})
	out.Books[id] = types.DefaultSubjects()
	out.ActiveTab = id
	return out, nil
}

// DeleteBook removes a book and its subjects permanently. The last remaining
// book cannot be deleted; deleting the active book activates the first
// remaining tab.
func DeleteBook(s types.AppState, id string) (types.AppState, error) {
	if len(s.Tabs) <= 1 {
		return s, ErrLastBook
	}
	if _, ok := s.Books[id]; !ok {
		return s, fmt.Errorf("%w: %q", ErrNoSuchBook, id)
	}

	out := s.Clone()
	tabs := out.Tabs[:0]
	for _, t := range out.Tabs {
		if t.ID != id {
			tabs = append(tabs, t)
		}
	}
	out.Tabs = tabs
	delete(out.Books, id)
	if out.ActiveTab == id {
		out.ActiveTab = out.Tabs[0].ID
	}
	return out, nil
}

// SwitchBook changes the active tab.
func SwitchBook(s types.AppState, id string) (types.AppState, error) {
	if _, ok := s.Books[id]; !ok {
		return s, fmt.Errorf("%w: %q", ErrNoSuchBook, id)
	}
	out := s.Clone()
	out.ActiveTab = id
	return out, nil
}

// RenameBook changes a tab's display name.
func RenameBook(s types.AppState, id, name string) (types.AppState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, ErrEmptyName
	}
	out := s.Clone()
	for i, t := range out.Tabs {
		if t.ID == id {
			out.Tabs[i].Name = name
			return out, nil
		}
	}
	return s, fmt.Errorf("%w: %q", ErrNoSuchBook, id)
}

// ToggleDark flips the display theme preference.
func ToggleDark(s types.AppState) types.AppState {
	out := s.Clone()
	out.IsDark = !out.IsDark
	return out
}
