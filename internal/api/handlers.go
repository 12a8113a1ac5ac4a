package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/skyfpv/propwash/internal/config"
	"github.com/skyfpv/propwash/internal/crawler"
	"github.com/skyfpv/propwash/internal/metadata"
	"github.com/skyfpv/propwash/internal/pipeline"
	"github.com/skyfpv/propwash/internal/storage/sqlite"
	"github.com/skyfpv/propwash/pkg/logger"
)

// videoExtensions the API accepts for analysis requests.
var videoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".mkv": true,
}

// Handler holds the services the API fronts.
type Handler struct {
	pipeline *pipeline.Pipeline
	crawler  *crawler.Crawler
	history  *sqlite.AnalysisStorage
	config   *config.Config
	logger   *logger.Logger
}

// NewHandler creates a new API handler
func NewHandler(p *pipeline.Pipeline, c *crawler.Crawler, history *sqlite.AnalysisStorage, cfg *config.Config, log *logger.Logger) *Handler {
	return &Handler{
		pipeline: p,
		crawler:  c,
		history:  history,
		config:   cfg,
		logger:   log.Named("api-handler"),
	}
}

// AnalyzeVideo handles POST /api/v1/analyze.
func (h *Handler) AnalyzeVideo(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		h.writeError(w, http.StatusBadRequest, "path is required")
		return
	}
	if !videoExtensions[strings.ToLower(filepath.Ext(req.Path))] {
		h.writeError(w, http.StatusBadRequest, "not a video file: "+req.Path)
		return
	}

	h.logger.Info("Received analysis request",
		logger.String("path", req.Path),
		logger.Bool("force", req.Force))

	meta, err := h.pipeline.AnalyzeVideo(r.Context(), req.Path, req.Force)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrSidecarExists):
			h.writeError(w, http.StatusConflict, err.Error()+" (use force=true to re-analyze)")
		case strings.Contains(err.Error(), "video not found"):
			h.writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.writeError(w, http.StatusInternalServerError, "analysis failed: "+err.Error())
		}
		return
	}

	h.writeJSON(w, http.StatusOK, AnalyzeResponse{
		Status:              "complete",
		Path:                req.Path,
		Sidecar:             metadata.SidecarPath(req.Path),
		DurationSeconds:     meta.Source.DurationSeconds,
		Tags:                meta.Tags,
		HighlightsCount:     len(meta.Highlights),
		StaticSegmentsCount: len(meta.StaticSegments),
		QualityScore:        meta.Quality.OverallScore,
	})
}

// GetStatus handles GET /api/v1/status.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	connected := h.pipeline.Healthy(r.Context())

	status := "healthy"
	if !connected {
		status = "degraded"
	}

	completed, err := h.history.CountByStatus(sqlite.StatusComplete)
	if err != nil {
		h.logger.Warn("Failed to count completed runs", logger.Error(err))
	}
	failed, err := h.history.CountByStatus(sqlite.StatusFailed)
	if err != nil {
		h.logger.Warn("Failed to count failed runs", logger.Error(err))
	}

	h.writeJSON(w, http.StatusOK, StatusResponse{
		Status:          status,
		VisionConnected: connected,
		VisionModel:     h.config.Vision.Model,
		CompletedRuns:   completed,
		FailedRuns:      failed,
		Crawler:         h.crawler.Status(),
	})
}

// GetHealth handles GET /api/v1/health.
func (h *Handler) GetHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, HealthResponse{Healthy: true})
}

// GetVideoMetadata handles GET /api/v1/metadata?path=... and returns an
// existing sidecar without re-analyzing.
func (h *Handler) GetVideoMetadata(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		h.writeError(w, http.StatusBadRequest, "path query parameter is required")
		return
	}
	if !metadata.SidecarExists(path) {
		h.writeError(w, http.StatusNotFound, "metadata not found for: "+path)
		return
	}

	meta, err := metadata.ReadSidecar(path)
	if err != nil {
		h.logger.Error("Failed to read sidecar", logger.Error(err))
		h.writeError(w, http.StatusInternalServerError, "error reading metadata")
		return
	}
	h.writeJSON(w, http.StatusOK, meta)
}

// GetRecentAnalyses handles GET /api/v1/analyses.
func (h *Handler) GetRecentAnalyses(w http.ResponseWriter, _ *http.Request) {
	records, err := h.history.Recent(50)
	if err != nil {
		h.logger.Error("Failed to query analysis history", logger.Error(err))
		h.writeError(w, http.StatusInternalServerError, "error reading history")
		return
	}
	if records == nil {
		records = []*sqlite.AnalysisRecord{}
	}
	h.writeJSON(w, http.StatusOK, records)
}

// TriggerCrawler handles POST /api/v1/crawler/trigger.
func (h *Handler) TriggerCrawler(w http.ResponseWriter, _ *http.Request) {
	if !h.config.Crawler.Enabled {
		h.writeError(w, http.StatusBadRequest, "crawler is not enabled")
		return
	}

	queued := h.crawler.Trigger()
	h.writeJSON(w, http.StatusOK, CrawlerTriggerResponse{
		Triggered:    true,
		VideosQueued: queued,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode response", logger.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg})
}
