// Package crawler periodically scans a footage library for videos without
// sidecars and feeds them through the analysis pipeline.
package crawler

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/skyfpv/propwash/internal/config"
	"github.com/skyfpv/propwash/internal/metadata"
	"github.com/skyfpv/propwash/internal/pipeline"
	"github.com/skyfpv/propwash/pkg/logger"
)

// videoExtensions are the file types the crawler picks up.
var videoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
	".mkv": true,
}

// Analyzer is the slice of the pipeline the crawler needs.
type Analyzer interface {
	AnalyzeVideo(ctx context.Context, videoPath string, force bool) (*metadata.VideoMetadata, error)
}

// Status is a point-in-time snapshot of crawler state.
type Status struct {
	Enabled       bool       `json:"enabled"`
	LastRun       *time.Time `json:"last_run,omitempty"`
	VideosFound   int        `json:"videos_found"`
	VideosPending int        `json:"videos_pending"`
}

// Crawler walks the library root on a timer.
type Crawler struct {
	cfg      config.CrawlerConfig
	analyzer Analyzer
	logger   *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	lastRun *time.Time
	found   int
	pending int
}

// New creates a crawler over the configured library root.
func New(ctx context.Context, cfg config.CrawlerConfig, analyzer Analyzer, log *logger.Logger) *Crawler {
	crawlCtx, cancel := context.WithCancel(ctx)
	return &Crawler{
		cfg:      cfg,
		analyzer: analyzer,
		logger:   log.Named("crawler"),
		ctx:      crawlCtx,
		cancel:   cancel,
	}
}

// Start launches the scan loop. Disabled crawlers start nothing.
func (c *Crawler) Start() {
	if !c.cfg.Enabled {
		c.logger.Info("Crawler is disabled, not starting")
		return
	}

	c.logger.Info("Starting crawler",
		logger.String("root", c.cfg.Root),
		logger.Int("interval_seconds", c.cfg.IntervalSeconds))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ticker := time.NewTicker(time.Duration(c.cfg.IntervalSeconds) * time.Second)
		defer ticker.Stop()

		// First pass right away rather than waiting a full interval.
		c.runScan()

		for {
			select {
			case <-c.ctx.Done():
				c.logger.Info("Crawler loop stopped")
				return
			case <-ticker.C:
				c.runScan()
			}
		}
	}()
}

// Stop cancels the loop and waits for an in-flight scan to finish.
func (c *Crawler) Stop() {
	c.cancel()
	c.wg.Wait()
}

// Trigger runs one scan synchronously and returns how many videos were
// queued. Used by the manual API endpoint.
func (c *Crawler) Trigger() int {
	return c.runScan()
}

// Status returns the current crawler state.
func (c *Crawler) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Enabled:       c.cfg.Enabled,
		LastRun:       c.lastRun,
		VideosFound:   c.found,
		VideosPending: c.pending,
	}
}

// runScan walks the root once and analyzes everything unprocessed.
func (c *Crawler) runScan() int {
	candidates, err := findCandidates(c.cfg.Root)
	if err != nil {
		c.logger.Error("Library scan failed",
			logger.String("root", c.cfg.Root),
			logger.Error(err))
		return 0
	}

	now := time.Now().UTC()
	c.mu.Lock()
	c.lastRun = &now
	c.found = len(candidates)
	c.pending = len(candidates)
	c.mu.Unlock()

	c.logger.Info("Library scan complete",
		logger.Int("unanalyzed", len(candidates)))

	queued := len(candidates)
	for i, path := range candidates {
		if c.ctx.Err() != nil {
			return queued
		}

		if _, err := c.analyzer.AnalyzeVideo(c.ctx, path, false); err != nil {
			// Another caller may have produced the sidecar since the scan.
			if !errors.Is(err, pipeline.ErrSidecarExists) {
				c.logger.Error("Crawler analysis failed",
					logger.String("video", path),
					logger.Error(err))
			}
		}

		c.mu.Lock()
		c.pending = len(candidates) - i - 1
		c.mu.Unlock()

		// Give the vision backend room to breathe between videos.
		if c.cfg.PauseSeconds > 0 && i < len(candidates)-1 {
			select {
			case <-c.ctx.Done():
				return queued
			case <-time.After(time.Duration(c.cfg.PauseSeconds) * time.Second):
			}
		}
	}

	return queued
}

// findCandidates returns, in walk order, every video under root that has no
// sidecar yet.
func findCandidates(root string) ([]string, error) {
	var candidates []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !videoExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if metadata.SidecarExists(path) {
			return nil
		}
		candidates = append(candidates, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}
