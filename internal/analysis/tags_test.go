package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skyfpv/propwash/internal/metadata"
)

func taggedRecord(style metadata.FlightStyle, env ...string) metadata.FrameAnalysis {
	return metadata.FrameAnalysis{
		Environment:   env,
		FlightStyle:   style,
		InterestScore: 5,
	}
}

func TestExtractTagsFrequencyThreshold(t *testing.T) {
	records := []metadata.FrameAnalysis{
		taggedRecord(metadata.StyleFreestyle, "outdoor", "forest"),
		taggedRecord(metadata.StyleFreestyle, "outdoor", "forest"),
		taggedRecord(metadata.StyleFreestyle, "outdoor"),
		taggedRecord(metadata.StyleCruising, "outdoor"),
		taggedRecord(metadata.StyleCruising, "outdoor", "river"),
	}

	// threshold count = floor(5 * 0.4) = 2: river (1) drops out.
	tags := ExtractTags(records, 0.4)
	assert.Equal(t, []string{"outdoor", "freestyle", "forest", "cruising"}, tags)
}

func TestExtractTagsExcludesUninformativeStyles(t *testing.T) {
	records := []metadata.FrameAnalysis{
		taggedRecord(metadata.StyleUnknown, "outdoor"),
		taggedRecord(metadata.StyleStationary, "outdoor"),
		taggedRecord(metadata.StyleUnknown, "outdoor"),
	}
	tags := ExtractTags(records, 0.1)
	assert.Equal(t, []string{"outdoor"}, tags)
}

func TestExtractTagsStableTieOrder(t *testing.T) {
	records := []metadata.FrameAnalysis{
		taggedRecord(metadata.StyleUnknown, "field", "urban"),
		taggedRecord(metadata.StyleUnknown, "field", "urban"),
	}
	tags := ExtractTags(records, 0.5)
	// Equal counts keep first-observed order.
	assert.Equal(t, []string{"field", "urban"}, tags)
}

func TestExtractTagsIdempotent(t *testing.T) {
	records := []metadata.FrameAnalysis{
		taggedRecord(metadata.StyleRacing, "outdoor", "gate"),
		taggedRecord(metadata.StyleRacing, "outdoor"),
		taggedRecord(metadata.StyleRacing, "gate", "outdoor"),
	}
	first := ExtractTags(records, 0.2)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ExtractTags(records, 0.2))
	}
}

func TestExtractTagsEmptyInput(t *testing.T) {
	assert.Equal(t, []string{}, ExtractTags(nil, 0.2))
	assert.Equal(t, []string{}, ExtractTags([]metadata.FrameAnalysis{}, 0.2))
}

func TestExtractTagsZeroThresholdCountKeepsEverything(t *testing.T) {
	// floor(2 * 0.2) = 0, so every observed tag qualifies.
	records := []metadata.FrameAnalysis{
		taggedRecord(metadata.StyleUnknown, "outdoor"),
		taggedRecord(metadata.StyleUnknown, "forest"),
	}
	tags := ExtractTags(records, 0.2)
	assert.Equal(t, []string{"outdoor", "forest"}, tags)
}
