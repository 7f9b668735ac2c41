// Package surveyd implements the survey daemon HTTP API.
//
// The daemon exposes the start/stop/stream surface used by the local
// UI: a run starts with floor plan coordinates, is observed through
// the websocket event stream, and its outcome is stored as a survey
// point. The API additionally serves the stored points, their CSV
// export, per-network summaries, and a minimal floor plan image
// store.
package surveyd

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wifimap/survey-cli/internal/database"
	"github.com/wifimap/survey-cli/internal/model"
	"github.com/wifimap/survey-cli/internal/must"
	"github.com/wifimap/survey-cli/internal/survey"
	"github.com/wifimap/survey-cli/internal/wsstream"
)

// maxAPIBodySize is the maximum acceptable body size for incoming
// API requests.
const maxAPIBodySize = 1 << 20

// maxFloorplanBodySize is the maximum acceptable floor plan size.
const maxFloorplanBodySize = 8 << 20

// Handler implements the survey daemon HTTP API. The zero value is
// not usable; construct with [NewHandler] and serve it through the
// mux returned by [NewServeMux].
type Handler struct {
	// BaseLogger is the MANDATORY logger to use.
	BaseLogger model.Logger

	// Hub is the MANDATORY hub streaming progress events.
	Hub *wsstream.Hub

	// MaxFloorplanBody is the MANDATORY maximum acceptable floor
	// plan body size.
	MaxFloorplanBody int64

	// Run is the MANDATORY function running a survey. It is
	// [survey.Runner.Run] in production and a mock in tests.
	Run func(ctx context.Context, settings *model.MeasurementSettings) (*model.SurveyResult, error)

	// Settings is the MANDATORY base settings of daemon runs.
	Settings *model.MeasurementSettings

	// Store is the MANDATORY survey point store.
	Store model.SurveyStore

	// active is the in-progress run, if any.
	active *runState

	// floorplan is the uploaded floor plan, if any.
	floorplan *floorplanState

	// mu protects active and floorplan.
	mu sync.Mutex
}

// NewHandler constructs a [Handler] with production defaults.
func NewHandler(logger model.Logger, runner *survey.Runner, store model.SurveyStore,
	settings *model.MeasurementSettings, hub *wsstream.Hub) *Handler {
	return &Handler{
		BaseLogger:       model.ValidLoggerOrDefault(logger),
		Hub:              hub,
		MaxFloorplanBody: maxFloorplanBodySize,
		Run:              runner.Run,
		Settings:         settings,
		Store:            store,
		active:           nil,
		floorplan:        nil,
		mu:               sync.Mutex{},
	}
}

// NewServeMux creates the daemon's [http.ServeMux].
func NewServeMux(handler *Handler, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/survey/start", handler.start)
	mux.HandleFunc("POST /api/v1/survey/stop", handler.stop)
	mux.HandleFunc("GET /api/v1/survey/events", handler.events)
	mux.HandleFunc("GET /api/v1/points", handler.listPoints)
	mux.HandleFunc("DELETE /api/v1/points/{token}", handler.deletePoint)
	mux.HandleFunc("GET /api/v1/points/export", handler.exportPoints)
	mux.HandleFunc("GET /api/v1/summary", handler.summarize)
	mux.HandleFunc("PUT /api/v1/floorplan", handler.putFloorplan)
	mux.HandleFunc("GET /api/v1/floorplan", handler.getFloorplan)
	mux.Handle("GET /metrics", metrics)
	return mux
}

// runState tracks the in-progress run.
type runState struct {
	cancel context.CancelFunc
	token  string
}

// floorplanState is the uploaded floor plan.
type floorplanState struct {
	contentType string
	data        []byte
}

// startRequest is the request body of the start endpoint. The
// settings override the daemon's base settings when present.
type startRequest struct {
	X        float64                    `json:"x"`
	Y        float64                    `json:"y"`
	Settings *model.MeasurementSettings `json:"settings"`
}

// startResponse is the response body of the start endpoint.
type startResponse struct {
	Token string `json:"token"`
}

// apiError is the shape of every error response.
type apiError struct {
	Error string `json:"error"`
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	data := must.MarshalJSON(v)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(data)
}

// start starts a survey run in the background.
func (h *Handler) start(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxAPIBodySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "cannot read the request body"})
		return
	}
	var req startRequest
	if err := json.Unmarshal(data, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "cannot parse the request body"})
		return
	}
	settings := req.Settings
	if settings == nil {
		settings = h.Settings
	}

	h.mu.Lock()
	if h.active != nil {
		h.mu.Unlock()
		writeJSON(w, http.StatusConflict, apiError{Error: "a measurement is already running"})
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	state := &runState{cancel: cancel, token: uuid.NewString()}
	h.active = state
	h.mu.Unlock()

	go h.runAndStore(ctx, cancel, settings, req.X, req.Y)
	writeJSON(w, http.StatusAccepted, startResponse{Token: state.token})
}

// runAndStore runs a survey and persists its outcome. Cancelled and
// failed runs are not stored: a run that cannot vouch for its numbers
// leaves no point behind.
func (h *Handler) runAndStore(ctx context.Context, cancel context.CancelFunc,
	settings *model.MeasurementSettings, x, y float64) {
	metricRunsInflight.Inc()
	defer func() {
		h.mu.Lock()
		h.active = nil
		h.mu.Unlock()
		cancel()
		metricRunsInflight.Dec()
	}()

	started := time.Now()
	result, err := h.Run(ctx, settings)
	metricRunDurationSeconds.Observe(time.Since(started).Seconds())

	if err != nil {
		metricRunsCount.WithLabelValues("error").Inc()
		h.BaseLogger.Warnf("surveyd: run failed: %s", err.Error())
		return
	}
	if result.Status != "" {
		metricRunsCount.WithLabelValues("aborted").Inc()
		h.BaseLogger.Infof("surveyd: run not stored: %s", result.Status)
		return
	}
	metricRunsCount.WithLabelValues("ok").Inc()
	point := model.NewSurveyPointFromResult(result, x, y)
	if err := h.Store.CreatePoint(point); err != nil {
		h.BaseLogger.Warnf("surveyd: cannot store the point: %s", err.Error())
		return
	}
	h.BaseLogger.Infof("surveyd: stored point %s", point.Token)
}

// stop cancels the in-progress run. The cancellation takes effect at
// the run's next checkpoint, not immediately.
func (h *Handler) stop(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	active := h.active
	h.mu.Unlock()
	if active == nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "no measurement is running"})
		return
	}
	active.cancel()
	writeJSON(w, http.StatusOK, startResponse{Token: active.token})
}

// events serves the websocket event stream.
func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	metricWebsocketClients.Inc()
	defer metricWebsocketClients.Dec()
	h.Hub.ServeHTTP(w, r)
}

// listPointsResponse is the response body of the points endpoint.
type listPointsResponse struct {
	Points []*model.SurveyPoint `json:"points"`
}

// listPoints serves the stored points, oldest first.
func (h *Handler) listPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.Store.ListPoints()
	if err != nil {
		h.BaseLogger.Warnf("surveyd: cannot list points: %s", err.Error())
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "cannot list points"})
		return
	}
	writeJSON(w, http.StatusOK, listPointsResponse{Points: points})
}

// deletePoint removes the point named by the path token.
func (h *Handler) deletePoint(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeletePoint(r.PathValue("token"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "no such point"})
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// exportPoints serves the stored points as a CSV download.
func (h *Handler) exportPoints(w http.ResponseWriter, r *http.Request) {
	points, err := h.Store.ListPoints()
	if err != nil {
		h.BaseLogger.Warnf("surveyd: cannot list points: %s", err.Error())
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "cannot list points"})
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="survey.csv"`)
	if err := database.WriteCSV(w, points); err != nil {
		h.BaseLogger.Warnf("surveyd: cannot export points: %s", err.Error())
	}
}

// summaryResponse is the response body of the summary endpoint.
type summaryResponse struct {
	Networks []*model.SSIDSummary `json:"networks"`
}

// summarize serves the per-network summaries.
func (h *Handler) summarize(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.Store.SummarizeBySSID()
	if err != nil {
		h.BaseLogger.Warnf("surveyd: cannot summarize points: %s", err.Error())
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "cannot summarize points"})
		return
	}
	writeJSON(w, http.StatusOK, summaryResponse{Networks: summaries})
}

// putFloorplan stores the floor plan image.
func (h *Handler) putFloorplan(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, h.MaxFloorplanBody+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "cannot read the request body"})
		return
	}
	if int64(len(data)) > h.MaxFloorplanBody {
		writeJSON(w, http.StatusRequestEntityTooLarge, apiError{Error: "the floor plan is too large"})
		return
	}
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.mu.Lock()
	h.floorplan = &floorplanState{contentType: contentType, data: data}
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, struct{}{})
}

// getFloorplan serves the stored floor plan image.
func (h *Handler) getFloorplan(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	floorplan := h.floorplan
	h.mu.Unlock()
	if floorplan == nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "no floor plan"})
		return
	}
	w.Header().Set("Content-Type", floorplan.contentType)
	w.Write(floorplan.data)
}
