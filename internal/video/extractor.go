package video

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/skyfpv/propwash/pkg/logger"
)

// frameScaleWidth is the width frames are scaled to for analysis; the vision
// model gains nothing from full resolution and similarity scoring downsamples
// further anyway.
const frameScaleWidth = 1280

// Frame is one sampled frame written to disk, owned by the caller for the
// duration of a single analysis run.
type Frame struct {
	Timestamp float64 // seconds from the start of the video
	Path      string
}

// Extractor samples frames out of a video at a fixed interval using ffmpeg.
type Extractor struct {
	SampleInterval float64 // seconds between samples
	MaxFrames      int
	logger         *logger.Logger
}

// NewExtractor creates a frame extractor.
func NewExtractor(sampleInterval float64, maxFrames int, log *logger.Logger) *Extractor {
	return &Extractor{
		SampleInterval: sampleInterval,
		MaxFrames:      maxFrames,
		logger:         log.Named("frame-extractor"),
	}
}

// Extract samples frames from the video into outDir and returns them in
// timestamp order. Timestamps are derived from the sample interval, matching
// the fps filter's selection cadence.
func (e *Extractor) Extract(videoPath, outDir string) ([]Frame, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create frame dir: %w", err)
	}

	e.logger.Info("Extracting frames",
		logger.String("video", videoPath),
		logger.Float64("interval_sec", e.SampleInterval),
		logger.Int("max_frames", e.MaxFrames))

	fps := fmt.Sprintf("%g", 1.0/e.SampleInterval)
	pattern := filepath.Join(outDir, "frame_%04d.jpg")

	err := ffmpeg.Input(videoPath).
		Filter("fps", ffmpeg.Args{fps}).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:-1", frameScaleWidth)}).
		Output(pattern, ffmpeg.KwArgs{
			"qscale:v": 2,
			"frames:v": e.MaxFrames,
			"vsync":    "vfr",
		}).
		OverWriteOutput().
		Silent(true).
		Run()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg frame extraction failed: %w", err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list frame dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "frame_") && strings.HasSuffix(entry.Name(), ".jpg") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	frames := make([]Frame, 0, len(names))
	for i, name := range names {
		frames = append(frames, Frame{
			Timestamp: float64(i) * e.SampleInterval,
			Path:      filepath.Join(outDir, name),
		})
	}

	e.logger.Info("Extracted frames", logger.Int("count", len(frames)))
	return frames, nil
}
