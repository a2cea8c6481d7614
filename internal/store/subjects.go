package store

import (
	"strings"

	"github.com/danbi/ebbing/internal/types"
)

// AddSubject appends a new subject to the active book with default settings.
func AddSubject(s types.AppState, name string) (types.AppState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, ErrEmptyName
	}
	out := s.Clone()
	subjects := out.Books[out.ActiveTab]
	out.Books[out.ActiveTab] = append(subjects, types.Subject{
		Name:           name,
		Color:          types.Palette[len(subjects)%len(types.Palette)],
		Max:            50,
		Records:        map[int]types.Record{},
		ExtractEnabled: true,
	})
	return out, nil
}

// RenameSubject changes a subject's display name.
func RenameSubject(s types.AppState, idx int, name string) (types.AppState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s, ErrEmptyName
	}
	if _, err := activeSubject(s, idx); err != nil {
		return s, err
	}
	out := s.Clone()
	out.Books[out.ActiveTab][idx].Name = name
	return out, nil
}

// DeleteSubject removes a subject and its records permanently.
func DeleteSubject(s types.AppState, idx int) (types.AppState, error) {
	if _, err := activeSubject(s, idx); err != nil {
		return s, err
	}
	out := s.Clone()
	subjects := out.Books[out.ActiveTab]
	out.Books[out.ActiveTab] = append(subjects[:idx], subjects[idx+1:]...)
	return out, nil
}

// SetMax resizes a subject's item range. Records above the new max stay in
// the map but become invisible to extraction and reports until max grows.
func SetMax(s types.AppState, idx, max int) (types.AppState, error) {
	if max < 1 {
		return s, ErrBadMax
	}
	if _, err := activeSubject(s, idx); err != nil {
		return s, err
	}
	out := s.Clone()
	out.Books[out.ActiveTab][idx].Max = max
	return out, nil
}

// SetColor changes a subject's display tag. The engine never interprets it.
func SetColor(s types.AppState, idx int, color string) (types.AppState, error) {
	if _, err := activeSubject(s, idx); err != nil {
		return s, err
	}
	out := s.Clone()
	out.Books[out.ActiveTab][idx].Color = color
	return out, nil
}

// ToggleExtractEnabled flips a subject's participation in extraction.
func ToggleExtractEnabled(s types.AppState, idx int) (types.AppState, error) {
	if _, err := activeSubject(s, idx); err != nil {
		return s, err
	}
	out := s.Clone()
	out.Books[out.ActiveTab][idx].ExtractEnabled = !out.Books[out.ActiveTab][idx].ExtractEnabled
	return out, nil
}

// ResetSubject wipes every record of a subject. This is a full wipe, not a
// per-item reset: no record survives to carry a resetCount.
func ResetSubject(s types.AppState, idx int) (types.AppState, error) {
	if _, err := activeSubject(s, idx); err != nil {
		return s, err
	}
	out := s.Clone()
	out.Books[out.ActiveTab][idx].Records = map[int]types.Record{}
	return out, nil
}
