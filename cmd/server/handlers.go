package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"trading-journal-go/internal/config"
	"trading-journal-go/internal/importer"
	"trading-journal-go/internal/stats"
	"trading-journal-go/internal/store"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log     *zap.Logger
	cfg     *config.Config
	imports *importer.Service
	trades  *store.TradeRepository
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, cfg *config.Config, imports *importer.Service, trades *store.TradeRepository) *APIHandler {
	return &APIHandler{log: log, cfg: cfg, imports: imports, trades: trades}
}

// userID extracts the owner identity. Session verification lives in an
// upstream layer; this placeholder header stands in for it.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return "local"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ImportsHandler accepts a CSV upload (POST, multipart field "file") or
// returns the caller's import history (GET).
func (h *APIHandler) ImportsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleUpload(w, r)
	case http.MethodGet:
		h.handleHistory(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *APIHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.cfg.Import.MaxFileBytes); err != nil {
		http.Error(w, "invalid multipart request", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(io.LimitReader(file, h.cfg.Import.MaxFileBytes+1))
	if err != nil {
		http.Error(w, "could not read upload", http.StatusBadRequest)
		return
	}
	if int64(len(fileBytes)) > h.cfg.Import.MaxFileBytes {
		http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
		return
	}

	result, err := h.imports.ProcessUpload(r.Context(), userID(r), fileBytes, header.Filename)
	if err != nil {
		h.log.Error("Failed to process upload", zap.Error(err))
		http.Error(w, "import failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.imports.GetImportHistory(r.Context(), userID(r), h.cfg.Import.HistoryLimit)
	if err != nil {
		h.log.Error("Failed to get import history", zap.Error(err))
		http.Error(w, "failed to get import history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// ImportStatusHandler returns one import job by id: GET /api/imports/{id}.
func (h *APIHandler) ImportStatusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	importID := strings.TrimPrefix(r.URL.Path, "/api/imports/")
	if importID == "" {
		http.Error(w, "missing import id", http.StatusBadRequest)
		return
	}

	job, err := h.imports.GetImportStatus(r.Context(), importID)
	if errors.Is(err, store.ErrJobNotFound) {
		http.Error(w, "import not found", http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.Error("Failed to get import status", zap.Error(err))
		http.Error(w, "failed to get import status", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// StatsHandler computes statistics for the caller's trades over a
// lookback period: GET /api/stats?period=today|7d|30d|all.
func (h *APIHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "all"
	}
	since, ok := periodCutoff(period, time.Now())
	if !ok {
		http.Error(w, "unknown period", http.StatusBadRequest)
		return
	}

	trades, err := h.trades.ListByUser(r.Context(), userID(r), since)
	if err != nil {
		h.log.Error("Failed to get trades for statistics", zap.Error(err))
		http.Error(w, "failed to compute statistics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats.Compute(trades, period))
}

// periodCutoff maps a period label to the inclusive lower time bound of
// the trade set. A zero time means no bound.
func periodCutoff(period string, now time.Time) (time.Time, bool) {
	switch period {
	case "all":
		return time.Time{}, true
	case "today":
		year, month, day := now.Date()
		return time.Date(year, month, day, 0, 0, 0, 0, now.Location()), true
	case "7d":
		return now.AddDate(0, 0, -7), true
	case "30d":
		return now.AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}

// HealthHandler reports liveness.
func (h *APIHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "OK\n")
}
