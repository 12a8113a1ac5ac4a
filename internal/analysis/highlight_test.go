package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfpv/propwash/internal/metadata"
	"github.com/skyfpv/propwash/pkg/logger"
)

func record(ts float64, score int) metadata.FrameAnalysis {
	return metadata.FrameAnalysis{
		Timestamp:     ts,
		Description:   fmt.Sprintf("frame at %.1fs", ts),
		FlightStyle:   metadata.StyleUnknown,
		InterestScore: score,
	}
}

func TestHighlightDetectorSingleRun(t *testing.T) {
	// Ten records, three consecutive scoring 8 from 4.0s to 9.0s: exactly one
	// highlight spanning [4.0, 9.0].
	d := NewHighlightDetector(7, 5.0, logger.Nop())

	records := []metadata.FrameAnalysis{
		record(0, 3), record(2, 4),
		record(4, 8), record(6.5, 8), record(9, 8),
		record(11, 5), record(13, 4), record(15, 3), record(17, 2), record(19, 5),
	}
	highlights := d.Detect(records)
	require.Len(t, highlights, 1)
	assert.Equal(t, 4.0, highlights[0].Start)
	assert.Equal(t, 9.0, highlights[0].End)
	assert.Equal(t, 8, highlights[0].Score)
}

func TestHighlightScoreIsFlooredMean(t *testing.T) {
	cases := []struct {
		scores []int
		want   int
	}{
		{[]int{7, 8}, 7},
		{[]int{6, 9, 8}, 7},
		{[]int{8, 8, 8}, 8},
		{[]int{7, 7, 9}, 7},
	}
	for _, tc := range cases {
		run := Run{Members: make([]int, len(tc.scores))}
		records := make([]metadata.FrameAnalysis, len(tc.scores))
		for i, s := range tc.scores {
			run.Members[i] = i
			records[i] = record(float64(i), s)
		}
		run.Start = 0
		run.End = float64(len(tc.scores) - 1)

		h := buildHighlight(run, records)
		assert.Equal(t, tc.want, h.Score, "scores %v", tc.scores)
	}
}

func TestHighlightDescriptionFromBestFrame(t *testing.T) {
	records := []metadata.FrameAnalysis{
		record(0, 7), record(2, 9), record(4, 9), record(6, 8),
	}
	run := Run{Start: 0, End: 6, Members: []int{0, 1, 2, 3}}

	h := buildHighlight(run, records)
	// Ties on the top score resolve to the earliest frame.
	assert.Equal(t, "frame at 2.0s", h.Description)
}

func TestHighlightTags(t *testing.T) {
	mk := func(ts float64, style metadata.FlightStyle, env ...string) metadata.FrameAnalysis {
		r := record(ts, 8)
		r.FlightStyle = style
		r.Environment = env
		return r
	}
	records := []metadata.FrameAnalysis{
		mk(0, metadata.StyleFreestyle, "outdoor", "forest", "river", "cliff", "trail", "bridge"),
		mk(2, metadata.StyleFreestyle, "outdoor", "forest"),
		mk(4, metadata.StyleStationary, "outdoor"),
		mk(6, metadata.StyleUnknown, "outdoor"),
	}
	run := Run{Start: 0, End: 6, Members: []int{0, 1, 2, 3}}

	h := buildHighlight(run, records)
	require.Len(t, h.Tags, 5)
	// outdoor x4, forest x2, freestyle x2, then first-seen order for the
	// single-count environment tags. Stationary and unknown styles never tally.
	assert.Equal(t, []string{"outdoor", "forest", "freestyle", "river", "cliff"}, h.Tags)
}

func TestHighlightMinDurationFilter(t *testing.T) {
	d := NewHighlightDetector(7, 5.0, logger.Nop())

	// High scores spanning only 4 seconds: no highlight.
	records := []metadata.FrameAnalysis{
		record(0, 3), record(2, 9), record(4, 9), record(6, 9), record(8, 2),
	}
	assert.Empty(t, d.Detect(records))
}

func TestHighlightRunClosedByEndOfRecords(t *testing.T) {
	d := NewHighlightDetector(7, 5.0, logger.Nop())

	records := []metadata.FrameAnalysis{
		record(0, 2), record(2, 8), record(4, 8), record(6, 8), record(8, 8),
	}
	highlights := d.Detect(records)
	require.Len(t, highlights, 1)
	assert.Equal(t, 2.0, highlights[0].Start)
	assert.Equal(t, 8.0, highlights[0].End)
}

func TestHighlightDetectorEmptyInput(t *testing.T) {
	d := NewHighlightDetector(7, 5.0, logger.Nop())
	assert.Empty(t, d.Detect(nil))
}

func TestHighlightScoreReclamped(t *testing.T) {
	d := NewHighlightDetector(7, 1.0, logger.Nop())

	// A record that bypassed the producer's clamp still lands in [1,10].
	records := []metadata.FrameAnalysis{
		record(0, 2), record(1, 25), record(2, 25), record(3, 25), record(4, 2),
	}
	highlights := d.Detect(records)
	require.Len(t, highlights, 1)
	assert.Equal(t, 10, highlights[0].Score)
}
