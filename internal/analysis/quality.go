package analysis

import (
	"strings"

	"github.com/skyfpv/propwash/internal/metadata"
)

// significantIssueRatio is the share of frames an issue must appear in before
// it affects the overall score.
const significantIssueRatio = 0.1

// signalLossIntervalSeconds is the approximate span attributed to a single
// frame reporting signal loss. Intervals from neighboring frames are emitted
// individually, never merged.
const signalLossIntervalSeconds = 1.0

// AssessQuality derives a deductive 1-10 quality score from the free-form
// issue strings the classifier attached to each frame. Issue strings are
// matched by case-insensitive substring; the category precedence below is a
// persisted behavior, reordering it changes scores.
func AssessQuality(records []metadata.FrameAnalysis) metadata.QualityMetadata {
	if len(records) == 0 {
		return metadata.DefaultQuality()
	}

	issues := newTally()
	dvrArtifacts := false
	signalLoss := []metadata.TimeRange{}

	for _, r := range records {
		for _, issue := range r.QualityIssues {
			issues.add(issue)

			lower := strings.ToLower(issue)
			if strings.Contains(lower, "dvr") || strings.Contains(lower, "artifact") {
				dvrArtifacts = true
			}
			if strings.Contains(lower, "signal") || strings.Contains(lower, "loss") {
				signalLoss = append(signalLoss, metadata.TimeRange{
					Start: r.Timestamp,
					End:   r.Timestamp + signalLossIntervalSeconds,
				})
			}
		}
	}

	threshold := int(float64(len(records)) * significantIssueRatio)
	if threshold < 1 {
		threshold = 1
	}
	significant := issues.atLeast(threshold)

	score := 10
	for _, issue := range significant {
		score -= deductionFor(issue)
	}
	if score < 1 {
		score = 1
	}
	if score > 10 {
		score = 10
	}

	if significant == nil {
		significant = []string{}
	}

	return metadata.QualityMetadata{
		OverallScore:         score,
		Issues:               significant,
		DVRArtifactsDetected: dvrArtifacts,
		SignalLossSegments:   signalLoss,
	}
}

// deductionFor maps an issue string to its score penalty. The first matching
// category wins; an unmatched issue costs nothing.
func deductionFor(issue string) int {
	lower := strings.ToLower(issue)
	switch {
	case strings.Contains(lower, "blur"):
		return 2
	case strings.Contains(lower, "artifact"), strings.Contains(lower, "dvr"):
		return 3
	case strings.Contains(lower, "signal"), strings.Contains(lower, "loss"):
		return 4
	case strings.Contains(lower, "fog"), strings.Contains(lower, "weather"):
		return 1
	default:
		return 0
	}
}
