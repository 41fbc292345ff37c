package session

import (
	"sync"
	"time"

	"go-csv-aggregator/internal/dataset"
	"go-csv-aggregator/internal/pipeline"
)

// Ingest states shown next to the upload button.
const (
	IngestDefault = "default"
	IngestOK      = "ok"
	IngestFailed  = "failed"
)

// DefaultStatusMessage is shown until the first upload.
const DefaultStatusMessage = "No file loaded, using penguins as default"

// IngestStatus reports the outcome of the latest upload.
type IngestStatus struct {
	State   string `json:"state"`
	Message string `json:"message"`
}

// Selection holds the aggregation controls of a session.
type Selection struct {
	GroupBy  []string          `json:"group_by"`
	Values   []string          `json:"values"`
	Function pipeline.Function `json:"function"`
}

// Session is one browser's isolated state: the input and result datasets
// plus the widget values. All access goes through a Dispatcher, which
// serialises actions on the session.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	input     dataset.Dataset
	result    dataset.Dataset
	roles     []dataset.ColumnRole
	filename  string
	status    IngestStatus
	selection Selection
}

// State is a read-only snapshot of a session.
type State struct {
	ID          string       `json:"id"`
	Filename    string       `json:"filename"`
	Status      IngestStatus `json:"status"`
	Categorical []string     `json:"categorical_columns"`
	Numeric     []string     `json:"numeric_columns"`
	Selection   Selection    `json:"selection"`
	InputRows   int          `json:"input_rows"`
	ResultRows  int          `json:"result_rows"`
	Functions   []string     `json:"functions"`
}

// New creates a session whose input starts as a private copy of initial.
func New(id string, initial dataset.Dataset) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		input:     initial.Clone(),
		result:    dataset.Empty(),
		status:    IngestStatus{State: IngestDefault, Message: DefaultStatusMessage},
		selection: Selection{GroupBy: []string{}, Values: []string{}, Function: pipeline.Mean},
	}
	s.roles = dataset.Roles(s.input)
	return s
}

// snapshot must be called with mu held.
func (s *Session) snapshot() State {
	functions := make([]string, len(pipeline.Functions))
	for i, f := range pipeline.Functions {
		functions[i] = string(f)
	}
	return State{
		ID:          s.ID,
		Filename:    s.filename,
		Status:      s.status,
		Categorical: dataset.NamesWithRole(s.roles, dataset.Categorical),
		Numeric:     dataset.NamesWithRole(s.roles, dataset.Numeric),
		Selection: Selection{
			GroupBy:  append([]string{}, s.selection.GroupBy...),
			Values:   append([]string{}, s.selection.Values...),
			Function: s.selection.Function,
		},
		InputRows:  s.input.Len(),
		ResultRows: s.result.Len(),
		Functions:  functions,
	}
}

// Snapshot returns the current state of the session.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}
