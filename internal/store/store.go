// Package store holds the structural operations on AppState. Every operation
// takes a snapshot and returns a new one; on a validation rejection the input
// is returned unchanged alongside a sentinel error.
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/danbi/ebbing/internal/types"
)

var (
	// ErrLastBook rejects deleting the only remaining book.
	ErrLastBook = errors.New("at least one book must remain")
	// ErrEmptyName rejects blank book or subject names.
	ErrEmptyName = errors.New("name must not be empty")
	// ErrNoSuchBook means the tab id references no book.
	ErrNoSuchBook = errors.New("no such book")
	// ErrNoSuchSubject means the subject index is out of range for the active book.
	ErrNoSuchSubject = errors.New("no such subject")
	// ErrBadRange rejects a batch range outside 1..max or with start > end.
	ErrBadRange = errors.New("invalid item range")
	// ErrBadMax rejects a non-positive item count.
	ErrBadMax = errors.New("max must be positive")
	// ErrNoSuchEntry means a ledger index is out of range.
	ErrNoSuchEntry = errors.New("no such entry")
)

// activeSubject validates idx against the active book and returns the
// cloned state's subject slice for mutation.
func activeSubject(s types.AppState, idx int) ([]types.Subject, error) {
	subjects := s.Books[s.ActiveTab]
	if idx < 0 || idx >= len(subjects) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrNoSuchSubject, idx, len(subjects))
	}
	return subjects, nil
}

// newTabID generates a unique tab id in the "tab_<unix-millis>" form. Two
// adds within the same millisecond get a bumped stamp instead of colliding.
func newTabID(s types.AppState, now time.Time) string {
	ms := now.UnixMilli()
	for {
		id := fmt.Sprintf("tab_%d", ms)
		if _, exists := s.Books[id]; !exists {
			return id
		}
		ms++
	}
}
