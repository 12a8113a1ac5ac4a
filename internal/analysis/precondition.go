package analysis

import (
	"fmt"

	"github.com/skyfpv/propwash/internal/metadata"
)

// CheckRecords rejects a frame-analysis sequence with decreasing timestamps.
func CheckRecords(records []metadata.FrameAnalysis) error {
	for i := 1; i < len(records); i++ {
		if records[i].Timestamp < records[i-1].Timestamp {
			return fmt.Errorf("frame analyses not in timestamp order at index %d: %.3f < %.3f",
				i, records[i].Timestamp, records[i-1].Timestamp)
		}
	}
	return nil
}

// CheckAligned rejects mismatched frame and record counts. The classifier is
// contracted to return exactly one record per sampled frame; anything else is
// a bug upstream, not something aggregation should paper over.
func CheckAligned(frames, records int) error {
	if frames != records {
		return fmt.Errorf("frame/record count mismatch: %d frames, %d records", frames, records)
	}
	return nil
}
