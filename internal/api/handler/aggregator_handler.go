package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"go-csv-aggregator/internal/model"
	"go-csv-aggregator/internal/pipeline"
	"go-csv-aggregator/internal/session"
	"go-csv-aggregator/internal/store"
	"go-csv-aggregator/internal/web"
	"go-csv-aggregator/pkg/logger"
)

// SessionCookie carries the session id between requests.
const SessionCookie = "aggregator_session"

const (
	defaultLogLimit = 100
	maxLogLimit     = 1000
)

// LogStore is the read side of the activity log.
type LogStore interface {
	GetSessionLogs(ctx context.Context, sessionID string, limit int) ([]store.SessionLog, error)
	CountSessions(ctx context.Context) (int, error)
}

// Handler serves the aggregator UI and its JSON API.
type Handler struct {
	sessions       *session.Manager
	dispatcher     *session.Dispatcher
	logs           LogStore
	validate       *validator.Validate
	logger         logger.Logger
	maxUploadBytes int64
	pageSize       int
}

func New(sessions *session.Manager, dispatcher *session.Dispatcher, logs LogStore, l logger.Logger, maxUploadBytes int64, pageSize int) *Handler {
	if pageSize <= 0 {
		pageSize = pipeline.DefaultPageSize
	}
	return &Handler{
		sessions:       sessions,
		dispatcher:     dispatcher,
		logs:           logs,
		validate:       validator.New(),
		logger:         l,
		maxUploadBytes: maxUploadBytes,
		pageSize:       pageSize,
	}
}

// Index renders the single page UI.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.session(w, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := web.Render(w, web.Page{
		Title:     "CSV Aggregator",
		PageSize:  h.pageSize,
		Functions: functionNames(),
	})
	if err != nil {
		h.logger.Error("http", "Failed to render index", map[string]interface{}{"error": err})
	}
}

// GetSession returns the caller's session state
// @Summary Get session state
// @Description Return the widget state of the caller's session, creating a session when none exists
// @Tags session
// @Produce json
// @Success 200 {object} session.State "Session state"
// @Router /session [get]
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	writeJSON(w, http.StatusOK, s.Snapshot())
}

// Upload replaces the session input with an uploaded CSV file
// @Summary Upload a CSV file
// @Description Accepts a multipart form with a "file" field or a JSON body carrying a base64 data URL. A file that cannot be parsed yields an empty input and a failed ingest status, not an error.
// @Tags session
// @Accept json
// @Accept mpfd
// @Produce json
// @Param upload body model.UploadRequest false "Data URL upload"
// @Param file formData file false "CSV file"
// @Success 200 {object} session.State "Session state after the upload"
// @Failure 400 {object} model.ErrorResponse "Invalid request payload"
// @Failure 413 {object} model.ErrorResponse "Upload too large"
// @Router /session/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	var upload pipeline.Upload
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		u, err := readMultipartUpload(r, h.maxUploadBytes)
		if err != nil {
			h.writeRequestError(w, err)
			return
		}
		upload = u
	} else {
		var req model.UploadRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.writeRequestError(w, fmt.Errorf("invalid JSON payload: %w", err))
			return
		}
		if err := h.validate.Struct(req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		upload = pipeline.Upload{Filename: req.Filename, Contents: req.Contents}
	}

	state, err := h.dispatcher.Dispatch(r.Context(), s, session.Event{Kind: session.EventUpload, Upload: upload})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func readMultipartUpload(r *http.Request, maxBytes int64) (pipeline.Upload, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return pipeline.Upload{}, fmt.Errorf("invalid multipart payload: %w", err)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return pipeline.Upload{}, fmt.Errorf("file field is required: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return pipeline.Upload{}, fmt.Errorf("failed to read upload: %w", err)
	}
	return pipeline.Upload{Filename: header.Filename, Raw: data}, nil
}

// Select updates the aggregation controls
// @Summary Update aggregation controls
// @Description Set the grouping columns, value columns and aggregation function. Omitted fields keep their current value.
// @Tags session
// @Accept json
// @Produce json
// @Param selection body model.SelectRequest true "Selection"
// @Success 200 {object} session.State "Session state"
// @Failure 400 {object} model.ErrorResponse "Invalid selection"
// @Router /session/select [post]
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	req, err := h.decodeSelect(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	state, err := h.applySelection(r.Context(), s, req)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Aggregate runs the aggregation and stores the result
// @Summary Submit the aggregation
// @Description Optionally applies a selection first, then aggregates the input into the session result. An empty value selection clears the result.
// @Tags session
// @Accept json
// @Produce json
// @Param selection body model.SelectRequest false "Selection to apply before submitting"
// @Success 200 {object} session.State "Session state"
// @Failure 400 {object} model.ErrorResponse "Invalid selection"
// @Router /session/aggregate [post]
func (h *Handler) Aggregate(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	req, err := h.decodeSelect(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := h.applySelection(r.Context(), s, req); err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	state, err := h.dispatcher.Dispatch(r.Context(), s, session.Event{Kind: session.EventSubmit})
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// decodeSelect reads an optional SelectRequest; an empty body is allowed.
func (h *Handler) decodeSelect(r *http.Request) (model.SelectRequest, error) {
	var req model.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, fmt.Errorf("invalid JSON payload: %w", err)
	}
	if err := h.validate.Struct(req); err != nil {
		return req, err
	}
	return req, nil
}

func (h *Handler) applySelection(ctx context.Context, s *session.Session, req model.SelectRequest) (session.State, error) {
	var events []session.Event
	if req.GroupBy != nil {
		events = append(events, session.Event{Kind: session.EventSelectGrouping, Columns: *req.GroupBy})
	}
	if req.Values != nil {
		events = append(events, session.Event{Kind: session.EventSelectValues, Columns: *req.Values})
	}
	if req.Function != nil {
		events = append(events, session.Event{Kind: session.EventSelectFunction, Function: *req.Function})
	}

	state := s.Snapshot()
	for _, ev := range events {
		var err error
		if state, err = h.dispatcher.Dispatch(ctx, s, ev); err != nil {
			return state, err
		}
	}
	return state, nil
}

// GetTable returns one page of the input or result dataset
// @Summary Get a table page
// @Description Return one page of the input or aggregated dataset, optionally sorted by a column
// @Tags tables
// @Produce json
// @Param target path string true "input or result"
// @Param page query int false "Zero based page index"
// @Param sort query string false "Column to sort by"
// @Param dir query string false "asc or desc"
// @Success 200 {object} pipeline.Table "Table page"
// @Failure 400 {object} model.ErrorResponse "Invalid query"
// @Failure 404 {object} model.ErrorResponse "Unknown table"
// @Router /session/tables/{target} [get]
func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	target, err := session.ParseTarget(lastSegment(r.URL.Path))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	opts, err := h.viewOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	table, err := h.dispatcher.View(s, target, opts)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

func (h *Handler) viewOptions(r *http.Request) (pipeline.ViewOptions, error) {
	q := r.URL.Query()
	opts := pipeline.ViewOptions{PageSize: h.pageSize, SortBy: q.Get("sort")}

	if p := q.Get("page"); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil {
			return opts, fmt.Errorf("%w: %q", pipeline.ErrInvalidPage, p)
		}
		opts.Page = page
	}

	switch strings.ToLower(q.Get("dir")) {
	case "", "asc":
	case "desc":
		opts.Descending = true
	default:
		return opts, fmt.Errorf("invalid sort direction %q", q.Get("dir"))
	}
	return opts, nil
}

// Download returns the input or result dataset as a CSV attachment
// @Summary Download a dataset
// @Description Export the input (download-inp.csv) or aggregated (download-agg.csv) dataset. An empty dataset downloads as an empty file.
// @Tags tables
// @Produce text/csv
// @Param target path string true "input or result"
// @Success 200 {file} file "CSV file"
// @Failure 404 {object} model.ErrorResponse "Unknown table"
// @Failure 500 {object} model.ErrorResponse "Export failed"
// @Router /session/download/{target} [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	target, err := session.ParseTarget(lastSegment(r.URL.Path))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	res, err := h.dispatcher.Download(r.Context(), s, target)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(res.Data)
}

// GetLogs returns the activity log of the caller's session
// @Summary Get session logs
// @Description Retrieve the most recent activity entries of the caller's session
// @Tags session
// @Produce json
// @Param limit query int false "Maximum number of entries (default 100)"
// @Success 200 {object} map[string]interface{} "Session logs"
// @Failure 400 {object} model.ErrorResponse "Invalid limit"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /session/logs [get]
func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	s := h.session(w, r)

	limit := defaultLogLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", l))
			return
		}
		limit = min(n, maxLogLimit)
	}

	logs, err := h.logs.GetSessionLogs(r.Context(), s.ID, limit)
	if err != nil {
		h.logger.Error("http", "Failed to retrieve session logs", map[string]interface{}{
			"session_id": s.ID,
			"error":      err,
		})
		writeError(w, http.StatusInternalServerError, errors.New("failed to retrieve logs"))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": s.ID,
		"logs":       logs,
		"count":      len(logs),
	})
}

// Health reports liveness. It is also mounted at /healthz for probes.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{} "Service healthy"
// @Failure 503 {object} map[string]interface{} "Store unavailable"
// @Router /healthz [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":          "ok",
		"active_sessions": h.sessions.Count(),
		"time":            time.Now().UTC(),
	}

	total, err := h.logs.CountSessions(r.Context())
	if err != nil {
		resp["status"] = "degraded"
		resp["error"] = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp["total_sessions"] = total
	writeJSON(w, http.StatusOK, resp)
}

// session resolves the caller's session from the cookie, starting a new
// one when the cookie is missing or the session has expired.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	var id string
	if c, err := r.Cookie(SessionCookie); err == nil {
		id = c.Value
	}

	s, created := h.sessions.GetOrCreate(r.Context(), id)
	if created {
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    s.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return s
}

func (h *Handler) writeRequestError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", tooLarge.Limit))
		return
	}
	writeError(w, http.StatusBadRequest, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrUnknownTarget):
		return http.StatusNotFound
	case errors.Is(err, session.ErrInvalidSelection),
		errors.Is(err, session.ErrUnknownEvent),
		errors.Is(err, pipeline.ErrUnknownColumn),
		errors.Is(err, pipeline.ErrOverlappingColumns),
		errors.Is(err, pipeline.ErrUnsupportedFunction),
		errors.Is(err, pipeline.ErrInvalidPage):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func lastSegment(path string) string {
	path = strings.TrimSuffix(path, "/")
	return path[strings.LastIndex(path, "/")+1:]
}

func functionNames() []string {
	names := make([]string, len(pipeline.Functions))
	for i, f := range pipeline.Functions {
		names[i] = string(f)
	}
	return names
}
