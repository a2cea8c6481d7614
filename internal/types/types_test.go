package types

import "testing"

func TestRecordAccessorMaterializesZero(t *testing.T) {
	sub := Subject{Name: "x", Max: 10, Records: map[int]Record{
		3: {Level: 2, Weight: 0.5},
	}}

	rec := sub.Record(3)
	if rec.Level != 2 || rec.Weight != 0.5 {
		t.Errorf("existing record not returned: %+v", rec)
	}

	zero := sub.Record(7)
	if zero.Level != 0 || zero.Weight != 1 || zero.ResetCount != 0 {
		t.Errorf("expected zero record, got %+v", zero)
	}
	if _, ok := sub.Records[7]; ok {
		t.Error("accessor must not materialize entries into the map")
	}
}

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	if len(s.Tabs) != 2 {
		t.Fatalf("expected 2 tabs, got %d", len(s.Tabs))
	}
	if s.ActiveTab != s.Tabs[0].ID {
		t.Errorf("active tab %q should be first tab %q", s.ActiveTab, s.Tabs[0].ID)
	}
	for id, subjects := range s.Books {
		if len(subjects) != len(DefaultSubjectNames) {
			t.Errorf("book %q: expected %d subjects, got %d", id, len(DefaultSubjectNames), len(subjects))
		}
		for _, sub := range subjects {
			if sub.Max != 50 || !sub.ExtractEnabled || sub.Records == nil {
				t.Errorf("book %q subject %q not default-initialized: %+v", id, sub.Name, sub)
			}
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := DefaultState()
	s.Books["basic"][0].Records[1] = Record{Level: 3, Weight: 1}
	s.Logs = append(s.Logs, LogEntry{Num: 1, Level: 3})

	c := s.Clone()
	c.Books["basic"][0].Records[1] = Record{Level: 9, Weight: 0.5}
	c.Books["basic"][1].Name = "changed"
	c.Tabs[0].Name = "changed"
	c.Logs[0].Level = 99

	if got := s.Books["basic"][0].Records[1].Level; got != 3 {
		t.Errorf("record leaked through clone: level %d", got)
	}
	if s.Books["basic"][1].Name == "changed" {
		t.Error("subject slice leaked through clone")
	}
	if s.Tabs[0].Name == "changed" {
		t.Error("tab slice leaked through clone")
	}
	if s.Logs[0].Level == 99 {
		t.Error("log slice leaked through clone")
	}
}
