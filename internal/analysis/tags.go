package analysis

import "github.com/skyfpv/propwash/internal/metadata"

// ExtractTags tallies every environment tag and taggable flight style across
// the frame analyses and keeps those seen in at least
// floor(len(records) * frequencyThreshold) frames. The result is ordered by
// descending frequency; ties keep first-seen order, so the extraction is
// deterministic and idempotent for a given record sequence.
func ExtractTags(records []metadata.FrameAnalysis, frequencyThreshold float64) []string {
	if len(records) == 0 {
		return []string{}
	}

	counts := newTally()
	for _, r := range records {
		for _, tag := range r.Environment {
			counts.add(tag)
		}
		if r.FlightStyle.Taggable() {
			counts.add(string(r.FlightStyle))
		}
	}

	thresholdCount := int(float64(len(records)) * frequencyThreshold)

	tags := []string{}
	for _, tag := range counts.ranked() {
		if counts.count(tag) >= thresholdCount {
			tags = append(tags, tag)
		}
	}
	return tags
}
