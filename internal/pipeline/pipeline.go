// Package pipeline orchestrates one full analysis run: probe the video,
// sample frames, detect static segments, classify frames with the vision
// model, aggregate the derived metadata and write the sidecar.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/skyfpv/propwash/internal/analysis"
	"github.com/skyfpv/propwash/internal/config"
	"github.com/skyfpv/propwash/internal/metadata"
	"github.com/skyfpv/propwash/internal/storage/sqlite"
	"github.com/skyfpv/propwash/internal/video"
	"github.com/skyfpv/propwash/internal/vision"
	"github.com/skyfpv/propwash/pkg/logger"
)

// ErrSidecarExists is returned when a video already has a sidecar and the
// caller did not ask to re-analyze.
var ErrSidecarExists = errors.New("sidecar already exists")

// Pipeline runs video analyses. Concurrent calls are capped by a semaphore
// sized from config; everything inside a run operates on that run's own
// snapshot of frames and records.
type Pipeline struct {
	cfg        *config.Config
	vision     *vision.Client
	extractor  *video.Extractor
	scorer     *video.SimilarityScorer
	static     *analysis.StaticDetector
	highlights *analysis.HighlightDetector
	history    *sqlite.AnalysisStorage
	logger     *logger.Logger
	slots      chan struct{}
}

// New creates a pipeline wired from config.
func New(cfg *config.Config, visionClient *vision.Client, history *sqlite.AnalysisStorage, log *logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		vision:     visionClient,
		extractor:  video.NewExtractor(cfg.Analysis.FrameSampleInterval, cfg.Analysis.MaxFramesPerVideo, log),
		scorer:     video.NewSimilarityScorer(),
		static:     analysis.NewStaticDetector(cfg.Analysis.StaticThreshold, cfg.Analysis.MinStaticDuration, log),
		highlights: analysis.NewHighlightDetector(cfg.Analysis.HighlightScoreThreshold, cfg.Analysis.HighlightMinDuration, log),
		history:    history,
		logger:     log.Named("pipeline"),
		slots:      make(chan struct{}, cfg.Analysis.MaxConcurrentAnalyses),
	}
}

// Healthy reports whether the vision endpoint is reachable.
func (p *Pipeline) Healthy(ctx context.Context) bool {
	return p.vision.Healthy(ctx)
}

// AnalyzeVideo analyzes one video and writes its sidecar. Unless force is
// set, an existing sidecar short-circuits with ErrSidecarExists.
func (p *Pipeline) AnalyzeVideo(ctx context.Context, videoPath string, force bool) (*metadata.VideoMetadata, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return nil, fmt.Errorf("video not found: %w", err)
	}
	if metadata.SidecarExists(videoPath) && !force {
		return nil, fmt.Errorf("%w: %s", ErrSidecarExists, metadata.SidecarPath(videoPath))
	}

	// Acquire an analysis slot.
	select {
	case p.slots <- struct{}{}:
		defer func() { <-p.slots }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	p.logger.Info("Starting analysis", logger.String("video", videoPath))
	started := time.Now()

	meta, err := p.run(ctx, videoPath, started)
	if err != nil {
		p.logger.Error("Analysis failed",
			logger.String("video", videoPath),
			logger.Error(err))
		p.recordFailure(videoPath, err)
		return nil, err
	}

	p.logger.Info("Analysis complete",
		logger.String("video", videoPath),
		logger.Duration("took", time.Since(started)),
		logger.Int("tags", len(meta.Tags)),
		logger.Int("highlights", len(meta.Highlights)),
		logger.Int("static_segments", len(meta.StaticSegments)))

	return meta, nil
}

func (p *Pipeline) run(ctx context.Context, videoPath string, started time.Time) (*metadata.VideoMetadata, error) {
	// Stage 1: probe source metadata.
	source, err := video.Probe(videoPath)
	if err != nil {
		return nil, fmt.Errorf("probe stage: %w", err)
	}
	p.logger.Info("Probed video",
		logger.Float64("duration_sec", source.DurationSeconds),
		logger.Int("width", source.Resolution[0]),
		logger.Int("height", source.Resolution[1]),
		logger.String("codec", source.Codec),
		logger.String("source_type", string(source.SourceType)))

	// Stage 2: sample frames into a temp dir owned by this run.
	frameDir, err := os.MkdirTemp("", "propwash_frames_")
	if err != nil {
		return nil, fmt.Errorf("failed to create frame dir: %w", err)
	}
	defer os.RemoveAll(frameDir)

	frames, err := p.extractor.Extract(videoPath, frameDir)
	if err != nil {
		return nil, fmt.Errorf("extraction stage: %w", err)
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("extraction stage: no frames extracted")
	}

	// Stage 3: static segment detection over the dissimilarity series.
	series, err := p.scorer.Series(frames)
	if err != nil {
		return nil, fmt.Errorf("similarity stage: %w", err)
	}
	if err := analysis.CheckMonotonic(series); err != nil {
		return nil, fmt.Errorf("similarity stage: %w", err)
	}
	staticSegments := p.static.Detect(series, source.DurationSeconds)

	// Stage 4: per-frame semantic analysis. Sequential on purpose: local
	// vision models serialize badly under parallel requests.
	records := make([]metadata.FrameAnalysis, 0, len(frames))
	for i, frame := range frames {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.logger.Debug("Analyzing frame",
			logger.Int("index", i+1),
			logger.Int("total", len(frames)),
			logger.Float64("timestamp", frame.Timestamp))
		records = append(records, p.vision.AnalyzeFrame(ctx, frame))
	}
	if err := analysis.CheckAligned(len(frames), len(records)); err != nil {
		return nil, fmt.Errorf("vision stage: %w", err)
	}
	if err := analysis.CheckRecords(records); err != nil {
		return nil, fmt.Errorf("vision stage: %w", err)
	}

	// Stage 5: aggregation. The four outputs are independent of each other.
	tags := analysis.ExtractTags(records, p.cfg.Analysis.TagFrequencyThreshold)
	highlights := p.highlights.Detect(records)
	quality := analysis.AssessQuality(records)

	// Stage 6: flight summary. A failure here degrades, it does not fail
	// the run.
	summary, err := p.vision.GenerateSummary(ctx, records)
	if err != nil {
		p.logger.Warn("Summary generation failed", logger.Error(err))
		summary = ""
	}

	meta := &metadata.VideoMetadata{
		SchemaVersion:   metadata.SchemaVersion,
		AnalyzedAt:      time.Now().UTC(),
		AnalyzerVersion: config.Version,
		VisionModel:     p.vision.Model(),
		Source:          source,
		Analysis: metadata.AnalysisMetadata{
			FramesAnalyzed:          len(frames),
			AnalysisDurationSeconds: time.Since(started).Seconds(),
		},
		Tags:           tags,
		Summary:        summary,
		StaticSegments: staticSegments,
		Highlights:     highlights,
		FrameAnalysis:  records,
		Quality:        quality,
	}

	// Stage 7: persist the sidecar, then the history row.
	if err := metadata.WriteSidecar(videoPath, meta); err != nil {
		return nil, fmt.Errorf("sidecar stage: %w", err)
	}

	if p.history != nil {
		_, err := p.history.Record(&sqlite.AnalysisRecord{
			VideoPath:          videoPath,
			SidecarPath:        metadata.SidecarPath(videoPath),
			Status:             sqlite.StatusComplete,
			FramesAnalyzed:     len(frames),
			DurationSeconds:    source.DurationSeconds,
			AnalysisSeconds:    meta.Analysis.AnalysisDurationSeconds,
			TagCount:           len(tags),
			HighlightCount:     len(highlights),
			StaticSegmentCount: len(staticSegments),
			QualityScore:       quality.OverallScore,
			CreatedAt:          time.Now().UTC(),
		})
		if err != nil {
			p.logger.Warn("Failed to record analysis history", logger.Error(err))
		}
	}

	return meta, nil
}

func (p *Pipeline) recordFailure(videoPath string, cause error) {
	if p.history == nil {
		return
	}
	_, err := p.history.Record(&sqlite.AnalysisRecord{
		VideoPath:   videoPath,
		SidecarPath: metadata.SidecarPath(videoPath),
		Status:      sqlite.StatusFailed,
		Error:       cause.Error(),
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		p.logger.Warn("Failed to record analysis failure", logger.Error(err))
	}
}
