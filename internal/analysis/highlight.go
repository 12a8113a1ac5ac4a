package analysis

import (
	"github.com/skyfpv/propwash/internal/metadata"
	"github.com/skyfpv/propwash/pkg/logger"
)

// maxHighlightTags caps how many tags a single highlight carries.
const maxHighlightTags = 5

// HighlightDetector finds runs of sustained high interest scores and
// summarizes each into a highlight.
type HighlightDetector struct {
	ScoreThreshold int     // interest score at or above this is "interesting"
	MinDuration    float64 // seconds a run must span to become a highlight
	logger         *logger.Logger
}

// NewHighlightDetector creates a highlight detector with the given thresholds.
func NewHighlightDetector(scoreThreshold int, minDuration float64, log *logger.Logger) *HighlightDetector {
	return &HighlightDetector{
		ScoreThreshold: scoreThreshold,
		MinDuration:    minDuration,
		logger:         log.Named("highlights"),
	}
}

// Detect scans the frame analyses in order and returns one highlight per run
// of consecutive frames scoring at or above the threshold that spans at least
// MinDuration. Unlike static runs, a highlight starts at the first
// interesting frame and ends at the last one.
func (d *HighlightDetector) Detect(records []metadata.FrameAnalysis) []metadata.Highlight {
	if len(records) == 0 {
		return nil
	}

	series := make([]Sample, len(records))
	for i, r := range records {
		series[i] = Sample{Timestamp: r.Timestamp, Value: float64(clampScore(r.InterestScore))}
	}

	runs := SegmentRuns(series, func(v float64) bool { return v >= float64(d.ScoreThreshold) }, RunOptions{
		Start:       AnchorCurrent,
		End:         AnchorPrevious,
		MinDuration: d.MinDuration,
	})

	highlights := make([]metadata.Highlight, 0, len(runs))
	for _, run := range runs {
		h := buildHighlight(run, records)
		highlights = append(highlights, h)

		d.logger.Info("Detected highlight",
			logger.Float64("start", h.Start),
			logger.Float64("end", h.End),
			logger.Int("score", h.Score),
			logger.Strings("tags", h.Tags))
	}

	return highlights
}

// buildHighlight summarizes the member frames of one run: the score is the
// floor of the mean interest score (a run of [7,8] scores 7, not 8), the tags
// are the five most frequent environment/style tags, and the description
// comes from the earliest of the highest-scoring frames.
func buildHighlight(run Run, records []metadata.FrameAnalysis) metadata.Highlight {
	sum := 0
	tags := newTally()
	best := run.Members[0]

	for _, idx := range run.Members {
		r := records[idx]
		sum += clampScore(r.InterestScore)

		for _, tag := range r.Environment {
			tags.add(tag)
		}
		if r.FlightStyle.Taggable() {
			tags.add(string(r.FlightStyle))
		}

		if clampScore(r.InterestScore) > clampScore(records[best].InterestScore) {
			best = idx
		}
	}

	top := tags.ranked()
	if len(top) > maxHighlightTags {
		top = top[:maxHighlightTags]
	}

	return metadata.Highlight{
		Start:       run.Start,
		End:         run.End,
		Score:       sum / len(run.Members),
		Description: records[best].Description,
		Tags:        top,
	}
}

// clampScore re-clamps an interest score into [1,10]. The classifier already
// guarantees the range; this guards against records that bypassed it.
func clampScore(score int) int {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}
