// Package syncer keeps the in-memory AppState consistent with durable
// storage. It owns the single working copy: mutations go through Apply,
// reads through State, and every accepted mutation arms (or re-arms) a
// debounced write-back carrying the latest snapshot.
//
// Until the initial load completes the write-back path is suppressed.
// Writing before then would clobber the stored state with defaults.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/danbi/ebbing/internal/applog"
	"github.com/danbi/ebbing/internal/types"
)

// DefaultDebounce is how long a quiet period must last before a write-back.
const DefaultDebounce = time.Second

// Storage is the durable boundary the syncer writes through. Load returns
// (nil, nil) when the owner has no saved state.
type Storage interface {
	Load(ctx context.Context, owner string) (*types.AppState, error)
	Save(ctx context.Context, owner string, state types.AppState) error
}

// Syncer serializes mutations of one AppState and debounces persistence.
type Syncer struct {
	storage Storage
	owner   string
	delay   time.Duration

	mu    sync.Mutex
	state types.AppState
	ready bool
	timer *time.Timer
}

// New creates a Syncer seeded with the default state. delay <= 0 selects
// DefaultDebounce.
func New(storage Storage, owner string, delay time.Duration) *Syncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Syncer{
		storage: storage,
		owner:   owner,
		delay:   delay,
		state:   types.DefaultState(),
	}
}

// Start performs the initial load. Stored state replaces the in-memory
// default entirely; absence or a read failure keeps the default. Either
// way the syncer becomes Ready and write-backs are armed from then on.
// Mutations applied before Start completes stay in memory only.
func (s *Syncer) Start(ctx context.Context) {
	loaded, err := s.storage.Load(ctx, s.owner)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err != nil:
		applog.Error("sync.load", err, "owner", s.owner)
	case loaded != nil:
		s.state = *loaded
		applog.Info("sync.loaded", "owner", s.owner)
	default:
		applog.Info("sync.fresh", "owner", s.owner)
	}
	s.ready = true
}

// Ready reports whether the initial load has completed.
func (s *Syncer) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// State returns a snapshot of the working copy.
func (s *Syncer) State() types.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Apply runs a transformation against the current state. On success the
// result becomes the working copy and a debounced write-back is scheduled;
// on error the working copy is untouched and the error is returned as-is.
// The in-memory update never waits for storage.
func (s *Syncer) Apply(fn func(types.AppState) (types.AppState, error)) (types.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := fn(s.state.Clone())
	if err != nil {
		return s.state.Clone(), err
	}
	s.state = next
	s.scheduleLocked()
	return next.Clone(), nil
}

// scheduleLocked arms the debounce timer, cancelling any pending one so a
// burst of edits coalesces into a single save of the final state. No-op
// while still loading. Caller holds mu.
func (s *Syncer) scheduleLocked() {
	if !s.ready {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, s.writeBack)
}

// writeBack persists the latest state. Failures are logged, never raised:
// memory stays the source of truth until the next debounce cycle.
func (s *Syncer) writeBack() {
	s.mu.Lock()
	s.timer = nil
	snapshot := s.state.Clone()
	s.mu.Unlock()

	if err := s.storage.Save(context.Background(), s.owner, snapshot); err != nil {
		applog.Error("sync.save", err, "owner", s.owner)
		return
	}
	applog.Info("sync.saved", "owner", s.owner)
}

// Flush cancels any pending debounce and saves immediately if a write was
// pending or force is set. Intended for shutdown.
func (s *Syncer) Flush(force bool) {
	s.mu.Lock()
	pending := s.timer != nil
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	ready := s.ready
	s.mu.Unlock()

	if ready && (pending || force) {
		s.writeBack()
	}
}
