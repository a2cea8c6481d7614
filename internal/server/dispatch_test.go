package server

import (
	"context"
	"encoding/json"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/danbi/ebbing/internal/extract"
	"github.com/danbi/ebbing/internal/syncer"
	"github.com/danbi/ebbing/internal/types"
)

// memStorage is an in-memory Storage for dispatch tests.
type memStorage struct {
	state *types.AppState
}

func (m *memStorage) Load(ctx context.Context, owner string) (*types.AppState, error) {
	return m.state, nil
}

func (m *memStorage) Save(ctx context.Context, owner string, state types.AppState) error {
	m.state = &state
	return nil
}

func testServer(t *testing.T) *Server {
	t.Helper()
	sy := syncer.New(&memStorage{}, "test", time.Hour)
	sy.Start(context.Background())
	engine := extract.New(rand.New(rand.NewSource(7)))
	return New(0, sy, engine)
}

func decodeState(t *testing.T, reply ReplyMsg) types.AppState {
	t.Helper()
	if !reply.OK {
		t.Fatalf("reply not OK: %s", reply.Error)
	}
	var st types.AppState
	if err := json.Unmarshal(reply.State, &st); err != nil {
		t.Fatalf("decode reply state: %v", err)
	}
	return st
}

func TestDispatchLevelUp(t *testing.T) {
	s := testServer(t)
	reply := s.Dispatch(ActionMsg{ID: "1", Action: "levelUp", Subject: 0, Num: 3})

	st := decodeState(t, reply)
	if rec := st.ActiveBook()[0].Record(3); rec.Level != 1 {
		t.Errorf("level = %d", rec.Level)
	}
	if len(st.Logs) != 1 {
		t.Errorf("logs = %d", len(st.Logs))
	}
	if reply.ID != "1" {
		t.Errorf("reply id = %q", reply.ID)
	}
}

func TestDispatchRejectionCarriesReason(t *testing.T) {
	s := testServer(t)
	reply := s.Dispatch(ActionMsg{Action: "batchLevelUp", Subject: 0, Start: 9, End: 3})

	if reply.OK {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(reply.Error, "range") {
		t.Errorf("error = %q", reply.Error)
	}
	// State unchanged.
	if st := s.sync.State(); len(st.Logs) != 0 {
		t.Error("rejected action mutated state")
	}
}

func TestDispatchUnknownAction(t *testing.T) {
	s := testServer(t)
	reply := s.Dispatch(ActionMsg{Action: "frobnicate"})
	if reply.OK || !strings.Contains(reply.Error, "frobnicate") {
		t.Errorf("reply = %+v", reply)
	}
}

func TestDispatchExtractDaily(t *testing.T) {
	s := testServer(t)
	reply := s.Dispatch(ActionMsg{Action: "extractDaily"})

	st := decodeState(t, reply)
	if len(reply.Picks) != len(types.DefaultSubjectNames) {
		t.Errorf("picks = %d, want one per subject", len(reply.Picks))
	}
	for _, p := range reply.Picks {
		if p.Label != extract.LabelNew {
			t.Errorf("pick label = %q on a fresh state", p.Label)
		}
	}
	if len(st.History) != 1 {
		t.Errorf("history entries = %d", len(st.History))
	}
}

func TestDispatchExtractWeightedEmpty(t *testing.T) {
	s := testServer(t)
	reply := s.Dispatch(ActionMsg{Action: "extractWeighted"})
	if reply.OK {
		t.Fatal("expected no-focus-items rejection")
	}
}

func TestDispatchExportImportRoundTrip(t *testing.T) {
	s := testServer(t)
	s.Dispatch(ActionMsg{Action: "toggleDark"})
	s.Dispatch(ActionMsg{Action: "levelUp", Subject: 1, Num: 9})

	exported := s.Dispatch(ActionMsg{Action: "export"})
	if !exported.OK || exported.Token == "" {
		t.Fatalf("export failed: %+v", exported)
	}

	// Wipe, then restore.
	s.Dispatch(ActionMsg{Action: "clearLogs"})
	s.Dispatch(ActionMsg{Action: "toggleDark"})

	restored := s.Dispatch(ActionMsg{Action: "import", Token: exported.Token})
	st := decodeState(t, restored)
	if !st.IsDark || len(st.Logs) != 1 {
		t.Errorf("import did not restore state: dark=%v logs=%d", st.IsDark, len(st.Logs))
	}
}

func TestDispatchImportRejectsBadToken(t *testing.T) {
	s := testServer(t)
	before := s.sync.State()
	reply := s.Dispatch(ActionMsg{Action: "import", Token: "garbage!!"})
	if reply.OK {
		t.Fatal("expected rejection")
	}
	after := s.sync.State()
	if len(after.Tabs) != len(before.Tabs) || after.IsDark != before.IsDark {
		t.Error("failed import mutated state")
	}
}

func TestDispatchBookLifecycle(t *testing.T) {
	s := testServer(t)

	st := decodeState(t, s.Dispatch(ActionMsg{Action: "addBook", Name: "기출문제"}))
	if len(st.Tabs) != 3 || st.ActiveTab != st.Tabs[2].ID {
		t.Fatalf("addBook state: %+v", st.Tabs)
	}
	newID := st.Tabs[2].ID

	st = decodeState(t, s.Dispatch(ActionMsg{Action: "deleteBook", BookID: newID}))
	if len(st.Tabs) != 2 {
		t.Errorf("deleteBook left %d tabs", len(st.Tabs))
	}
	if st.ActiveTab != st.Tabs[0].ID {
		t.Errorf("active tab = %q", st.ActiveTab)
	}
}
