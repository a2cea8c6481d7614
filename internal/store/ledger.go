package store

import (
	"fmt"

	"github.com/danbi/ebbing/internal/types"
)

// AppendHistory prepends an extraction result and trims to the cap.
func AppendHistory(s types.AppState, entry types.HistoryEntry) types.AppState {
	out := s.Clone()
	out.History = append([]types.HistoryEntry{entry}, out.History...)
	if len(out.History) > types.MaxHistory {
		out.History = out.History[:types.MaxHistory]
	}
	return out
}

// DeleteHistory removes one extraction entry by index.
func DeleteHistory(s types.AppState, idx int) (types.AppState, error) {
	if idx < 0 || idx >= len(s.History) {
		return s, fmt.Errorf("%w: history index %d", ErrNoSuchEntry, idx)
	}
	out := s.Clone()
	out.History = append(out.History[:idx], out.History[idx+1:]...)
	return out, nil
}

// DeleteLog removes one study event by index.
func DeleteLog(s types.AppState, idx int) (types.AppState, error) {
	if idx < 0 || idx >= len(s.Logs) {
		return s, fmt.Errorf("%w: log index %d", ErrNoSuchEntry, idx)
	}
	out := s.Clone()
	out.Logs = append(out.Logs[:idx], out.Logs[idx+1:]...)
	return out, nil
}

// ClearLogs drops every study event.
func ClearLogs(s types.AppState) types.AppState {
	out := s.Clone()
	out.Logs = []types.LogEntry{}
	return out
}
