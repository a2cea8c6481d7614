package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/danbi/ebbing/internal/backup"
	"github.com/danbi/ebbing/internal/extract"
	"github.com/danbi/ebbing/internal/store"
	"github.com/danbi/ebbing/internal/types"
)

// Dispatch maps a named action onto the engine and returns the structured
// outcome. Every rejection comes back as OK=false with a reason; the state
// in memory is untouched on rejection.
func (s *Server) Dispatch(msg ActionMsg) ReplyMsg {
	now := time.Now()

	apply := func(fn func(types.AppState) (types.AppState, error)) ReplyMsg {
		next, err := s.sync.Apply(fn)
		if err != nil {
			return ReplyMsg{ID: msg.ID, OK: false, Error: err.Error()}
		}
		return s.withState(ReplyMsg{ID: msg.ID, OK: true}, next)
	}

	switch msg.Action {
	case "state":
		return s.withState(ReplyMsg{ID: msg.ID, OK: true}, s.sync.State())

	case "levelUp":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.LevelUp(st, msg.Subject, msg.Num, msg.DaysAgo, now)
		})
	case "batchLevelUp":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.BatchLevelUp(st, msg.Subject, msg.Start, msg.End, now)
		})
	case "resetRecord":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.ResetRecord(st, msg.Subject, msg.Num)
		})
	case "toggleMastered":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.ToggleMastered(st, msg.Subject, msg.Num)
		})
	case "toggleWeight":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.ToggleWeight(st, msg.Subject, msg.Num)
		})
	case "setTopic":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.SetTopic(st, msg.Subject, msg.Num, msg.Topic)
		})

	case "addBook":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.AddBook(st, msg.Name, now)
		})
	case "deleteBook":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.DeleteBook(st, msg.BookID)
		})
	case "switchBook":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.SwitchBook(st, msg.BookID)
		})
	case "renameBook":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.RenameBook(st, msg.BookID, msg.Name)
		})
	case "toggleDark":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.ToggleDark(st), nil
		})

	case "addSubject":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.AddSubject(st, msg.Name)
		})
	case "renameSubject":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.RenameSubject(st, msg.Subject, msg.Name)
		})
	case "deleteSubject":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.DeleteSubject(st, msg.Subject)
		})
	case "setMax":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.SetMax(st, msg.Subject, msg.Max)
		})
	case "setColor":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.SetColor(st, msg.Subject, msg.Color)
		})
	case "toggleExtract":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.ToggleExtractEnabled(st, msg.Subject)
		})
	case "resetSubject":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.ResetSubject(st, msg.Subject)
		})

	case "deleteLog":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.DeleteLog(st, msg.Index)
		})
	case "clearLogs":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.ClearLogs(st), nil
		})
	case "deleteHistory":
		return apply(func(st types.AppState) (types.AppState, error) {
			return store.DeleteHistory(st, msg.Index)
		})

	case "extractDaily":
		return s.extractDaily(msg, now)
	case "extractWeighted":
		picks, err := s.engine.Weighted(s.sync.State())
		if err != nil {
			return ReplyMsg{ID: msg.ID, OK: false, Error: err.Error()}
		}
		return ReplyMsg{ID: msg.ID, OK: true, Picks: picks}

	case "export":
		token, err := backup.Encode(s.sync.State())
		if err != nil {
			return ReplyMsg{ID: msg.ID, OK: false, Error: err.Error()}
		}
		return ReplyMsg{ID: msg.ID, OK: true, Token: token}
	case "import":
		restored, err := backup.Decode(msg.Token)
		if err != nil {
			return ReplyMsg{ID: msg.ID, OK: false, Error: err.Error()}
		}
		return apply(func(types.AppState) (types.AppState, error) {
			return restored.Clone(), nil
		})

	default:
		return ReplyMsg{ID: msg.ID, OK: false, Error: fmt.Sprintf("unknown action %q", msg.Action)}
	}
}

func (s *Server) extractDaily(msg ActionMsg, now time.Time) ReplyMsg {
	var picks []extract.Pick
	next, err := s.sync.Apply(func(st types.AppState) (types.AppState, error) {
		out, p, err := s.engine.Daily(st, now)
		if err != nil {
			return st, err
		}
		picks = p
		return out, nil
	})
	if err != nil {
		return ReplyMsg{ID: msg.ID, OK: false, Error: err.Error()}
	}
	return s.withState(ReplyMsg{ID: msg.ID, OK: true, Picks: picks}, next)
}

func (s *Server) withState(reply ReplyMsg, state types.AppState) ReplyMsg {
	raw, err := json.Marshal(state)
	if err != nil {
		return ReplyMsg{ID: reply.ID, OK: false, Error: err.Error()}
	}
	reply.State = raw
	return reply
}
