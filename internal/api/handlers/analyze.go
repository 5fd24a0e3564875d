package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/niveshquant/quantfolio/internal/pipeline"
	"github.com/niveshquant/quantfolio/pkg/logger"
)

// AnalyzeRequest selects the snapshot and date for an on-demand run.
// Every field is optional; an empty body runs the configured defaults.
type AnalyzeRequest struct {
	Snapshot string `json:"snapshot,omitempty"`
	Date     string `json:"date,omitempty"` // YYYY-MM-DD
	DryRun   bool   `json:"dryRun,omitempty"`
}

// AnalyzeResponse summarizes a completed run.
type AnalyzeResponse struct {
	Status          string   `json:"status"`
	RunID           string   `json:"runId"`
	WeekID          string   `json:"weekId"`
	MarketCondition string   `json:"marketCondition"`
	Positions       int      `json:"positions"`
	CashPercent     float64  `json:"cashPercent"`
	Warnings        []string `json:"warnings,omitempty"`
	Stages          []string `json:"completedStages"`
	DurationMS      int64    `json:"durationMs"`
}

// AnalyzeHandler triggers pipeline runs over HTTP.
type AnalyzeHandler struct {
	runner          *pipeline.Runner
	defaultSnapshot string
	hub             *Hub
	logger          *logger.Logger
}

// NewAnalyzeHandler creates an analyze handler. hub may be nil when no
// websocket endpoint is mounted.
func NewAnalyzeHandler(runner *pipeline.Runner, defaultSnapshot string, hub *Hub, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		runner:          runner,
		defaultSnapshot: defaultSnapshot,
		hub:             hub,
		logger:          log,
	}
}

// Run executes the weekly pipeline synchronously and returns the run
// summary. The server write timeout is sized for this.
func (h *AnalyzeHandler) Run(w http.ResponseWriter, r *http.Request) {
	req, cleanup, status, err := h.parseRequest(r)
	if err != nil {
		respondError(w, status, err.Error())
		return
	}
	defer cleanup()

	runCfg := pipeline.RunConfig{
		SnapshotPath: req.Snapshot,
		RunID:        pipeline.GenerateRunID(),
		DryRun:       req.DryRun,
	}
	if runCfg.SnapshotPath == "" {
		runCfg.SnapshotPath = h.defaultSnapshot
	}
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q, want YYYY-MM-DD", req.Date))
			return
		}
		runCfg.Date = date
	}

	h.logger.WithFields(map[string]interface{}{
		"run_id":   runCfg.RunID,
		"snapshot": runCfg.SnapshotPath,
		"dry_run":  runCfg.DryRun,
	}).Info("Starting analysis run via API")

	h.broadcast("run_started", map[string]interface{}{
		"runId":    runCfg.RunID,
		"snapshot": runCfg.SnapshotPath,
	})

	result, err := h.runner.Run(r.Context(), runCfg)
	if err != nil {
		h.logger.WithError(err).WithField("run_id", runCfg.RunID).Error("Analysis run failed")
		h.broadcast("run_failed", map[string]interface{}{
			"runId": runCfg.RunID,
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("analysis failed: %v", err))
		return
	}

	resp := AnalyzeResponse{
		Status:          "completed",
		RunID:           result.RunID,
		WeekID:          result.WeekID,
		MarketCondition: string(result.Breadth.Condition),
		Positions:       result.Recommendation.Allocation.Count(),
		CashPercent:     result.Recommendation.Allocation.CashPercent,
		Warnings:        result.Warnings,
		Stages:          result.CompletedStages,
		DurationMS:      result.Duration.Milliseconds(),
	}

	h.broadcast("run_completed", resp)

	respondJSON(w, http.StatusOK, resp)
}

// parseRequest reads run parameters from either a JSON body or a
// multipart form carrying the snapshot CSV itself. Uploads are spooled
// to a temp file so the loader can read them by path; cleanup removes
// that file once the run finishes.
func (h *AnalyzeHandler) parseRequest(r *http.Request) (AnalyzeRequest, func(), int, error) {
	noop := func() {}

	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if contentType != "multipart/form-data" {
		var req AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			return AnalyzeRequest{}, noop, http.StatusBadRequest, errors.New("invalid request body")
		}
		return req, noop, http.StatusOK, nil
	}

	file, header, err := r.FormFile("snapshot")
	if err != nil {
		return AnalyzeRequest{}, noop, http.StatusBadRequest, errors.New("multipart request needs a snapshot file field")
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "snapshot-*.csv")
	if err != nil {
		return AnalyzeRequest{}, noop, http.StatusInternalServerError, fmt.Errorf("spool upload: %w", err)
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return AnalyzeRequest{}, noop, http.StatusInternalServerError, fmt.Errorf("spool upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return AnalyzeRequest{}, noop, http.StatusInternalServerError, fmt.Errorf("spool upload: %w", err)
	}

	h.logger.WithFields(map[string]interface{}{
		"filename": header.Filename,
		"bytes":    header.Size,
	}).Debug("Snapshot uploaded")

	dryRun, _ := strconv.ParseBool(r.FormValue("dryRun"))
	req := AnalyzeRequest{
		Snapshot: tmp.Name(),
		Date:     r.FormValue("date"),
		DryRun:   dryRun,
	}
	return req, func() { os.Remove(tmp.Name()) }, http.StatusOK, nil
}

func (h *AnalyzeHandler) broadcast(eventType string, data interface{}) {
	if h.hub != nil {
		h.hub.Broadcast(eventType, data)
	}
}
