package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-csv-aggregator/internal/dataset"
	"go-csv-aggregator/internal/pipeline"
	"go-csv-aggregator/pkg/logger"
)

// EventKind names a user action.
type EventKind string

const (
	EventUpload         EventKind = "upload"
	EventSelectGrouping EventKind = "select_grouping"
	EventSelectValues   EventKind = "select_values"
	EventSelectFunction EventKind = "select_function"
	EventSubmit         EventKind = "submit"
)

// Event is a user action applied to a session.
type Event struct {
	Kind     EventKind
	Upload   pipeline.Upload
	Columns  []string
	Function string
}

// Target selects one of the two datasets of a session.
type Target string

const (
	TargetInput  Target = "input"
	TargetResult Target = "result"
)

var (
	ErrUnknownEvent     = errors.New("unknown event")
	ErrUnknownTarget    = errors.New("unknown dataset target")
	ErrInvalidSelection = errors.New("invalid column selection")
)

// ParseTarget validates a dataset target name.
func ParseTarget(name string) (Target, error) {
	switch Target(name) {
	case TargetInput, TargetResult:
		return Target(name), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTarget, name)
}

// Recorder keeps the activity log of sessions.
type Recorder interface {
	SaveSessionLog(ctx context.Context, sessionID, stage, level, message string, details map[string]interface{}) error
}

// Dispatcher applies events to sessions and recomputes what depends on
// them:
//
//	upload  -> input -> roles -> selection options
//	select  -> selection
//	submit  -> (input, selection) -> result
//
// Views and downloads read the datasets without changing them.
type Dispatcher struct {
	logger   logger.Logger
	recorder Recorder
}

func NewDispatcher(l logger.Logger, recorder Recorder) *Dispatcher {
	return &Dispatcher{logger: l, recorder: recorder}
}

// Dispatch applies ev to s and returns the resulting state. Upload never
// fails: a bad file becomes an empty input with a failed ingest status.
func (d *Dispatcher) Dispatch(ctx context.Context, s *Session, ev Event) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch ev.Kind {
	case EventUpload:
		d.upload(ctx, s, ev.Upload)
	case EventSelectGrouping:
		err = d.selectColumns(s, ev.Columns, dataset.Categorical)
	case EventSelectValues:
		err = d.selectColumns(s, ev.Columns, dataset.Numeric)
	case EventSelectFunction:
		err = d.selectFunction(s, ev.Function)
	case EventSubmit:
		err = d.submit(ctx, s)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
	return s.snapshot(), err
}

func (d *Dispatcher) upload(ctx context.Context, s *Session, u pipeline.Upload) {
	start := time.Now()
	ds, err := pipeline.IngestUpload(u)

	// the upload replaces the input even when it failed
	s.input = ds
	s.filename = u.Filename
	s.roles = dataset.Roles(ds)
	s.selection.GroupBy = keepWithRole(s.selection.GroupBy, s.roles, dataset.Categorical)
	s.selection.Values = keepWithRole(s.selection.Values, s.roles, dataset.Numeric)

	details := map[string]interface{}{
		"session_id":  s.ID,
		"filename":    u.Filename,
		"records":     ds.Len(),
		"columns":     len(ds.Columns()),
		"duration_ms": time.Since(start).Milliseconds(),
	}

	if err != nil {
		s.status = IngestStatus{State: IngestFailed, Message: fmt.Sprintf("Could not read %s: %v", displayName(u.Filename), err)}
		details["error"] = err
		d.logger.Error("ingest", "Upload could not be parsed, using empty dataset", details)
		d.record(ctx, s.ID, "ingest", "error", "Upload could not be parsed", map[string]interface{}{
			"filename": u.Filename,
			"error":    err.Error(),
		})
		return
	}

	s.status = IngestStatus{State: IngestOK, Message: displayName(u.Filename)}
	d.logger.Info("ingest", "Upload parsed", details)
	d.record(ctx, s.ID, "ingest", "info", "Upload parsed", map[string]interface{}{
		"filename": u.Filename,
		"records":  ds.Len(),
		"columns":  ds.Columns(),
	})
}

func (d *Dispatcher) selectColumns(s *Session, columns []string, role dataset.Role) error {
	allowed := dataset.NamesWithRole(s.roles, role)
	for _, c := range columns {
		if !contains(allowed, c) {
			return fmt.Errorf("%w: %q is not a %s column", ErrInvalidSelection, c, role)
		}
	}

	chosen := dedupe(columns)
	if role == dataset.Categorical {
		s.selection.GroupBy = chosen
	} else {
		s.selection.Values = chosen
	}
	return nil
}

func (d *Dispatcher) selectFunction(s *Session, name string) error {
	fn, err := pipeline.ParseFunction(name)
	if err != nil {
		return err
	}
	s.selection.Function = fn
	return nil
}

func (d *Dispatcher) submit(ctx context.Context, s *Session) error {
	start := time.Now()
	req := pipeline.AggregationRequest{
		GroupBy:  s.selection.GroupBy,
		Values:   s.selection.Values,
		Function: s.selection.Function,
	}

	result, err := pipeline.Aggregate(s.input, req)
	details := map[string]interface{}{
		"session_id":  s.ID,
		"group_by":    req.GroupBy,
		"values":      req.Values,
		"function":    req.Function,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	if err != nil {
		details["error"] = err
		d.logger.Warn("aggregation", "Aggregation rejected", details)
		d.record(ctx, s.ID, "aggregation", "warning", "Aggregation rejected", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}

	s.result = result
	details["groups"] = result.Len()
	d.logger.Info("aggregation", "Aggregation complete", details)
	d.record(ctx, s.ID, "aggregation", "info", "Aggregation complete", map[string]interface{}{
		"group_by": req.GroupBy,
		"values":   req.Values,
		"function": string(req.Function),
		"groups":   result.Len(),
	})
	return nil
}

// View renders one page of a session dataset.
func (d *Dispatcher) View(s *Session, target Target, opts pipeline.ViewOptions) (pipeline.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.dataset(target)
	if err != nil {
		return pipeline.Table{}, err
	}
	return pipeline.Present(ds, opts)
}

// Download exports a session dataset as a CSV file.
func (d *Dispatcher) Download(ctx context.Context, s *Session, target Target) (pipeline.ExportResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ds, err := s.dataset(target)
	if err != nil {
		return pipeline.ExportResult{}, err
	}

	filename := pipeline.InputFilename
	if target == TargetResult {
		filename = pipeline.ResultFilename
	}

	res, err := pipeline.Export(ds, filename)
	if err != nil {
		d.logger.Error("export", "Export failed", map[string]interface{}{
			"session_id": s.ID,
			"target":     target,
			"error":      err,
		})
		return pipeline.ExportResult{}, err
	}

	d.record(ctx, s.ID, "export", "info", "Dataset downloaded", map[string]interface{}{
		"filename": res.Filename,
		"records":  res.RecordCount,
	})
	return res, nil
}

func (s *Session) dataset(target Target) (dataset.Dataset, error) {
	switch target {
	case TargetInput:
		return s.input, nil
	case TargetResult:
		return s.result, nil
	}
	return dataset.Empty(), fmt.Errorf("%w: %q", ErrUnknownTarget, target)
}

func (d *Dispatcher) record(ctx context.Context, sessionID, stage, level, message string, details map[string]interface{}) {
	if d.recorder == nil {
		return
	}
	if err := d.recorder.SaveSessionLog(ctx, sessionID, stage, level, message, details); err != nil {
		d.logger.Warn("session", "Failed to record session activity", map[string]interface{}{
			"session_id": sessionID,
			"stage":      stage,
			"error":      err.Error(),
		})
	}
}

func displayName(filename string) string {
	if filename == "" {
		return "upload"
	}
	return filename
}

func keepWithRole(columns []string, roles []dataset.ColumnRole, role dataset.Role) []string {
	allowed := dataset.NamesWithRole(roles, role)
	kept := []string{}
	for _, c := range columns {
		if contains(allowed, c) {
			kept = append(kept, c)
		}
	}
	return kept
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func dedupe(columns []string) []string {
	out := []string{}
	for _, c := range columns {
		if !contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}
