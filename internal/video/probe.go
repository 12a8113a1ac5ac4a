// Package video covers the frame-level collaborators of the analysis engine:
// probing source files, sampling frames and scoring visual dissimilarity.
package video

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/skyfpv/propwash/internal/metadata"
)

// onboardMinHeight is the vertical resolution at or above which footage is
// assumed to come from an onboard HD camera rather than a DVR. Analog DVR
// recordings are typically 480p/720p.
const onboardMinHeight = 1080

// Probe extracts source metadata from a video file using ffprobe.
func Probe(videoPath string) (metadata.SourceMetadata, error) {
	var src metadata.SourceMetadata

	info, err := os.Stat(videoPath)
	if err != nil {
		return src, fmt.Errorf("failed to stat video: %w", err)
	}

	raw, err := ffmpeg.Probe(videoPath)
	if err != nil {
		return src, fmt.Errorf("ffprobe failed for %s: %w", videoPath, err)
	}

	stream := gjson.Get(raw, `streams.#(codec_type=="video")`)
	if !stream.Exists() {
		return src, fmt.Errorf("no video stream found in %s", videoPath)
	}

	src.Filename = filepath.Base(videoPath)
	src.FileSizeBytes = info.Size()
	src.DurationSeconds = gjson.Get(raw, "format.duration").Float()
	src.Codec = stream.Get("codec_name").String()
	src.Framerate = parseFramerate(stream.Get("r_frame_rate").String())

	width := int(stream.Get("width").Int())
	height := int(stream.Get("height").Int())
	src.Resolution = [2]int{width, height}

	switch {
	case height >= onboardMinHeight:
		src.SourceType = metadata.SourceOnboard
	case height > 0:
		src.SourceType = metadata.SourceDVR
	default:
		src.SourceType = metadata.SourceUnknown
	}

	if ct := gjson.Get(raw, "format.tags.creation_time").String(); ct != "" {
		if parsed, err := time.Parse(time.RFC3339, ct); err == nil {
			src.CreationTime = &parsed
		}
	}

	return src, nil
}

// parseFramerate converts ffprobe's "num/den" rational into a float; "0/1"
// and malformed values come back as 0.
func parseFramerate(rate string) float64 {
	parts := strings.SplitN(rate, "/", 2)
	num, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0
	}
	if len(parts) == 1 {
		return num
	}
	den, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || den == 0 {
		return 0
	}
	return num / den
}
