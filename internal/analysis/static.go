package analysis

import (
	"github.com/skyfpv/propwash/internal/metadata"
	"github.com/skyfpv/propwash/pkg/logger"
)

// edgeWindowSeconds is how close to either end of the video a static run must
// sit to be attributed to pre-arm or post-landing footage.
const edgeWindowSeconds = 30.0

// endOfSeriesConfidence is used when a run closes only because the footage
// ended, so there is no exit dissimilarity to derive confidence from.
const endOfSeriesConfidence = 0.9

// StaticDetector finds stretches of visually frozen footage in a
// dissimilarity series and classifies each by its position in the video.
type StaticDetector struct {
	Threshold   float64 // dissimilarity below this means "static"
	MinDuration float64 // seconds a run must last to be reported
	logger      *logger.Logger
}

// NewStaticDetector creates a static detector with the given thresholds.
func NewStaticDetector(threshold, minDuration float64, log *logger.Logger) *StaticDetector {
	return &StaticDetector{
		Threshold:   threshold,
		MinDuration: minDuration,
		logger:      log.Named("static-detector"),
	}
}

// Detect scans a frame-aligned dissimilarity series (sample i holds frame i's
// timestamp and its visual difference to frame i-1) and returns the static
// segments. Run starts are anchored at the previous sample so the segment
// covers the transition into stillness.
func (d *StaticDetector) Detect(series []Sample, videoDuration float64) []metadata.StaticSegment {
	if len(series) < 2 {
		d.logger.Warn("Not enough samples for static detection",
			logger.Int("samples", len(series)))
		return nil
	}

	runs := SegmentRuns(series, func(v float64) bool { return v < d.Threshold }, RunOptions{
		Start:       AnchorPrevious,
		End:         AnchorCurrent,
		MinDuration: d.MinDuration,
	})

	segments := make([]metadata.StaticSegment, 0, len(runs))
	for _, run := range runs {
		seg := metadata.StaticSegment{
			Start:      run.Start,
			End:        run.End,
			Reason:     d.classify(run, videoDuration),
			Confidence: d.confidence(series, run),
		}
		segments = append(segments, seg)

		d.logger.Info("Detected static segment",
			logger.String("reason", string(seg.Reason)),
			logger.Float64("start", seg.Start),
			logger.Float64("end", seg.End),
			logger.Float64("confidence", seg.Confidence))
	}

	return segments
}

// classify attributes a static run to a cause purely by position: the first
// 30 seconds are pre-arm, the last 30 post-landing, everything between is
// treated as a DVR freeze. Precedence matters when the windows overlap on
// short videos.
func (d *StaticDetector) classify(run Run, videoDuration float64) metadata.StaticReason {
	if run.Start < edgeWindowSeconds {
		return metadata.ReasonPreArm
	}
	if run.End > videoDuration-edgeWindowSeconds {
		return metadata.ReasonPostLand
	}
	return metadata.ReasonDVRFreeze
}

// confidence derives segment confidence from the dissimilarity that closed
// the run: clamp(1 - exitDiff/threshold, 0, 1). Runs closed by the end of the
// series have no exit sample and get a fixed 0.9.
func (d *StaticDetector) confidence(series []Sample, run Run) float64 {
	if run.Exit < 0 {
		return endOfSeriesConfidence
	}
	conf := 1.0 - series[run.Exit].Value/d.Threshold
	if conf < 0 {
		conf = 0
	}
	if conf > 1 {
		conf = 1
	}
	return conf
}
