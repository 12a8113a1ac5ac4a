// Package analysis turns per-frame signals into derived video metadata:
// static segments, highlights, tags and a quality assessment. Everything here
// is a pure, synchronous transformation over already-materialized sequences.
package analysis

import (
	"fmt"
	"math"
)

// Sample is one point of a numeric time series.
type Sample struct {
	Timestamp float64
	Value     float64
}

// Anchor selects which sample's timestamp marks a run boundary at a
// membership transition.
type Anchor int

const (
	// AnchorCurrent uses the transition sample itself.
	AnchorCurrent Anchor = iota
	// AnchorPrevious uses the sample immediately before the transition.
	AnchorPrevious
)

// RunOptions configures run detection. Static detection anchors run starts at
// the previous sample (capturing the transition into stillness) and ends at
// the first moving sample; highlight detection anchors starts at the first
// interesting sample and ends at the last one. The asymmetry is intentional
// and callers must not unify it: doing so shifts segment boundaries.
type RunOptions struct {
	Start       Anchor
	End         Anchor
	MinDuration float64
}

// Run is a maximal contiguous stretch of member samples.
type Run struct {
	Start   float64
	End     float64
	Members []int // indices into the series, in order
	// Exit is the index of the non-member sample that closed the run, or
	// -1 when the series ended while still inside the run.
	Exit int
}

// SegmentRuns scans the series once and returns every run of consecutive
// member samples whose anchored span lasts at least MinDuration. Runs come
// back in start order and never overlap. A series with fewer than two
// samples yields nothing.
func SegmentRuns(series []Sample, isMember func(float64) bool, opts RunOptions) []Run {
	if len(series) < 2 {
		return nil
	}

	var runs []Run
	inRun := false
	var start float64
	var members []int

	for i, s := range series {
		if isMember(s.Value) {
			if !inRun {
				inRun = true
				start = anchorTimestamp(series, i, opts.Start)
				members = []int{i}
			} else {
				members = append(members, i)
			}
			continue
		}

		if inRun {
			end := anchorTimestamp(series, i, opts.End)
			if end-start >= opts.MinDuration {
				runs = append(runs, Run{Start: start, End: end, Members: members, Exit: i})
			}
			inRun = false
			members = nil
		}
	}

	// Series ended while still in a run: close at the final sample and apply
	// the same duration floor.
	if inRun {
		end := series[len(series)-1].Timestamp
		if end-start >= opts.MinDuration {
			runs = append(runs, Run{Start: start, End: end, Members: members, Exit: -1})
		}
	}

	return runs
}

// anchorTimestamp resolves a run boundary at transition index i. An
// AnchorPrevious boundary at the very first sample has no predecessor and
// falls back to the sample itself.
func anchorTimestamp(series []Sample, i int, anchor Anchor) float64 {
	if anchor == AnchorPrevious && i > 0 {
		return series[i-1].Timestamp
	}
	return series[i].Timestamp
}

// NonMember is a sentinel value that fails any threshold-style membership
// predicate. The pipeline uses it for the first sample of a dissimilarity
// series, which has no preceding frame to compare against.
func NonMember() float64 {
	return math.Inf(1)
}

// CheckMonotonic rejects a series whose timestamps decrease. Out-of-order
// input is a programming error at the boundary, not something the scan
// tolerates silently.
func CheckMonotonic(series []Sample) error {
	for i := 1; i < len(series); i++ {
		if series[i].Timestamp < series[i-1].Timestamp {
			return fmt.Errorf("series timestamps not monotonic at index %d: %.3f < %.3f",
				i, series[i].Timestamp, series[i-1].Timestamp)
		}
	}
	return nil
}
