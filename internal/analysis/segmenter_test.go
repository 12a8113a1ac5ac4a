package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func below(threshold float64) func(float64) bool {
	return func(v float64) bool { return v < threshold }
}

func TestSegmentRunsBasics(t *testing.T) {
	opts := RunOptions{Start: AnchorCurrent, End: AnchorCurrent, MinDuration: 1.0}

	t.Run("empty and single-sample series yield nothing", func(t *testing.T) {
		assert.Nil(t, SegmentRuns(nil, below(1), opts))
		assert.Nil(t, SegmentRuns([]Sample{{0, 0.5}}, below(1), opts))
	})

	t.Run("run bounded on both sides", func(t *testing.T) {
		series := []Sample{
			{0, 9}, {1, 0.1}, {2, 0.1}, {3, 0.1}, {4, 9}, {5, 9},
		}
		runs := SegmentRuns(series, below(1), opts)
		require.Len(t, runs, 1)
		assert.Equal(t, 1.0, runs[0].Start)
		assert.Equal(t, 4.0, runs[0].End)
		assert.Equal(t, []int{1, 2, 3}, runs[0].Members)
		assert.Equal(t, 4, runs[0].Exit)
	})

	t.Run("run open at end of series closes at last sample", func(t *testing.T) {
		series := []Sample{{0, 9}, {1, 0.1}, {2, 0.1}, {3, 0.1}}
		runs := SegmentRuns(series, below(1), opts)
		require.Len(t, runs, 1)
		assert.Equal(t, 1.0, runs[0].Start)
		assert.Equal(t, 3.0, runs[0].End)
		assert.Equal(t, -1, runs[0].Exit)
	})

	t.Run("short runs are discarded and state resets", func(t *testing.T) {
		series := []Sample{
			{0, 9}, {1, 0.1}, {1.5, 9}, // 0.5s run, below the floor
			{2, 0.1}, {4, 0.1}, {5, 9}, // 2s run, kept
		}
		runs := SegmentRuns(series, below(1), opts)
		require.Len(t, runs, 1)
		assert.Equal(t, 2.0, runs[0].Start)
		assert.Equal(t, 5.0, runs[0].End)
	})
}

func TestSegmentRunsAnchoring(t *testing.T) {
	series := []Sample{{0, 9}, {2, 0.1}, {4, 0.1}, {6, 9}}

	t.Run("previous-sample start anchoring", func(t *testing.T) {
		runs := SegmentRuns(series, below(1), RunOptions{Start: AnchorPrevious, End: AnchorCurrent})
		require.Len(t, runs, 1)
		assert.Equal(t, 0.0, runs[0].Start)
		assert.Equal(t, 6.0, runs[0].End)
	})

	t.Run("previous-sample end anchoring", func(t *testing.T) {
		runs := SegmentRuns(series, below(1), RunOptions{Start: AnchorCurrent, End: AnchorPrevious})
		require.Len(t, runs, 1)
		assert.Equal(t, 2.0, runs[0].Start)
		assert.Equal(t, 4.0, runs[0].End)
	})

	t.Run("previous anchor at series head falls back to first sample", func(t *testing.T) {
		head := []Sample{{0, 0.1}, {1, 0.1}, {2, 9}}
		runs := SegmentRuns(head, below(1), RunOptions{Start: AnchorPrevious, End: AnchorCurrent})
		require.Len(t, runs, 1)
		assert.Equal(t, 0.0, runs[0].Start)
	})
}

func TestSegmentRunsInvariants(t *testing.T) {
	// Alternating noisy signal: every emitted run must satisfy the duration
	// floor, be ordered, and never overlap.
	series := []Sample{
		{0, 0.5}, {1, 0.01}, {2, 0.01}, {3, 0.5}, {4, 0.01},
		{5, 0.5}, {6, 0.01}, {7, 0.01}, {8, 0.01}, {9, 0.5}, {10, 0.01},
	}
	runs := SegmentRuns(series, below(0.02), RunOptions{
		Start:       AnchorCurrent,
		End:         AnchorCurrent,
		MinDuration: 1.0,
	})
	require.NotEmpty(t, runs)

	for i, run := range runs {
		assert.GreaterOrEqual(t, run.End-run.Start, 1.0, "run %d violates duration floor", i)
		if i > 0 {
			assert.GreaterOrEqual(t, run.Start, runs[i-1].End, "run %d overlaps predecessor", i)
		}
	}
}

func TestNonMemberSentinel(t *testing.T) {
	// The sentinel must fail any threshold predicate, however large.
	assert.False(t, below(math.MaxFloat64)(NonMember()))
}

func TestCheckMonotonic(t *testing.T) {
	assert.NoError(t, CheckMonotonic([]Sample{{0, 0}, {1, 0}, {1, 0}, {2, 0}}))
	assert.Error(t, CheckMonotonic([]Sample{{0, 0}, {2, 0}, {1, 0}}))
	assert.NoError(t, CheckMonotonic(nil))
}
