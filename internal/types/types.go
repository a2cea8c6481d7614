package types

// Record is the per-item learning state.
type Record struct {
	Level      int     `json:"level"`
	Weight     float64 `json:"weight"` // 1 normal, 0.5 focus
	Topic      string  `json:"topic"`
	LastDate   string  `json:"lastDate,omitempty"` // ISO "2006-01-02"; empty = never studied
	NextDate   string  `json:"nextDate,omitempty"` // empty = not scheduled
	Mastered   bool    `json:"mastered,omitempty"`
	ResetCount int     `json:"resetCount"`
}

// ZeroRecord is the implicit state of an item that was never touched.
func ZeroRecord() Record {
	return Record{Level: 0, Weight: 1, Topic: "", ResetCount: 0}
}

// Subject is a named collection of numbered items sharing one range 1..Max.
type Subject struct {
	Name           string         `json:"name"`
	Color          string         `json:"color"`
	Max            int            `json:"max"`
	Records        map[int]Record `json:"records"`
	ExtractEnabled bool           `json:"extractEnabled"`
}

// Record returns the record for item num, materializing the zero record when
// the map has no entry. It never mutates the subject.
func (s Subject) Record(num int) Record {
	if rec, ok := s.Records[num]; ok {
		return rec
	}
	return ZeroRecord()
}

// Tab identifies a book in the navigation order.
type Tab struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LogEntry is one study (level-up) event.
type LogEntry struct {
	Date    string `json:"date"`
	Time    string `json:"time"` // HH:MM
	Book    string `json:"book"`
	Subject string `json:"subject"`
	Num     int    `json:"num"`
	Level   int    `json:"level"`
}

// HistoryEntry is one successful daily-extraction run.
type HistoryEntry struct {
	Time   string `json:"time"` // HH:MM
	Result string `json:"result"`
}

// MaxLogs and MaxHistory bound the two ledgers (most-recent-first).
const (
	MaxLogs    = 100
	MaxHistory = 10
)

// AppState is the complete application snapshot. Store operations never
// mutate an AppState in place; they clone, change the clone, and return it.
type AppState struct {
	ActiveTab string               `json:"activeTab"`
	Tabs      []Tab                `json:"tabs"`
	Books     map[string][]Subject `json:"books"`
	History   []HistoryEntry       `json:"history"`
	Logs      []LogEntry           `json:"logs"`
	IsDark    bool                 `json:"isDark"`
}

// DefaultSubjectNames are the subjects every new book starts with.
var DefaultSubjectNames = []string{"노동법 1", "노동법 2", "인사노무관리", "행정쟁송법", "노동경제학"}

// Palette is the rotating default color set for new subjects.
var Palette = []string{"#0984e3", "#d63031", "#00b894", "#6c5ce7", "#fdcb6e", "#fab1a0", "#00cec9", "#636e72"}

// DefaultSubjects builds the canonical starting subject list.
func DefaultSubjects() []Subject {
	subjects := make([]Subject, 0, len(DefaultSubjectNames))
	for i, name := range DefaultSubjectNames {
		subjects = append(subjects, Subject{
			Name:           name,
			Color:          Palette[i%len(Palette)],
			Max:            50,
			Records:        map[int]Record{},
			ExtractEnabled: true,
		})
	}
	return subjects
}

// DefaultState is the state a fresh install starts from: two books, each with
// the default subjects.
func DefaultState() AppState {
	return AppState{
		ActiveTab: "basic",
		Tabs: []Tab{
			{ID: "basic", Name: "기본서"},
			{ID: "case", Name: "사례집"},
		},
		Books: map[string][]Subject{
			"basic": DefaultSubjects(),
			"case":  DefaultSubjects(),
		},
		History: []HistoryEntry{},
		Logs:    []LogEntry{},
	}
}

// Clone returns a deep copy. Callers hold snapshots across store operations,
// so shared maps or slices would leak edits between snapshots.
func (s AppState) Clone() AppState {
	out := s
	out.Tabs = append([]Tab(nil), s.Tabs...)
	out.History = append([]HistoryEntry(nil), s.History...)
	out.Logs = append([]LogEntry(nil), s.Logs...)
	out.Books = make(map[string][]Subject, len(s.Books))
	for id, subjects := range s.Books {
		cp := make([]Subject, len(subjects))
		for i, sub := range subjects {
			cp[i] = sub
			cp[i].Records = make(map[int]Record, len(sub.Records))
			for num, rec := range sub.Records {
				cp[i].Records[num] = rec
			}
		}
		out.Books[id] = cp
	}
	return out
}

// ActiveBook returns the subjects of the active tab. The slice aliases the
// state; treat it as read-only.
func (s AppState) ActiveBook() []Subject {
	return s.Books[s.ActiveTab]
}

// ActiveTabName returns the display name of the active tab.
func (s AppState) ActiveTabName() string {
	for _, t := range s.Tabs {
		if t.ID == s.ActiveTab {
			return t.Name
		}
	}
	return ""
}
