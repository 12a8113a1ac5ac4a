package api

import (
	"github.com/skyfpv/propwash/internal/crawler"
)

// AnalyzeRequest asks for one video to be analyzed.
type AnalyzeRequest struct {
	Path  string `json:"path"`
	Force bool   `json:"force"`
}

// AnalyzeResponse summarizes a completed analysis.
type AnalyzeResponse struct {
	Status              string   `json:"status"`
	Path                string   `json:"path"`
	Sidecar             string   `json:"sidecar"`
	DurationSeconds     float64  `json:"duration_seconds"`
	Tags                []string `json:"tags"`
	HighlightsCount     int      `json:"highlights_count"`
	StaticSegmentsCount int      `json:"static_segments_count"`
	QualityScore        int      `json:"quality_score"`
}

// StatusResponse reports service state.
type StatusResponse struct {
	Status          string         `json:"status"`
	VisionConnected bool           `json:"vision_connected"`
	VisionModel     string         `json:"vision_model"`
	CompletedRuns   int            `json:"completed_runs"`
	FailedRuns      int            `json:"failed_runs"`
	Crawler         crawler.Status `json:"crawler"`
}

// HealthResponse is the liveness probe body.
type HealthResponse struct {
	Healthy bool `json:"healthy"`
}

// CrawlerTriggerResponse reports a manual crawler run.
type CrawlerTriggerResponse struct {
	Triggered    bool `json:"triggered"`
	VideosQueued int  `json:"videos_queued"`
}

// ErrorResponse carries an error message to the client.
type ErrorResponse struct {
	Error string `json:"error"`
}
