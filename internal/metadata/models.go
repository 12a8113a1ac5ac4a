// Package metadata defines the sidecar schema written next to each analyzed
// video. Field names and value ranges are a persisted contract; changing them
// requires bumping SchemaVersion.
package metadata

import "time"

// SchemaVersion identifies the sidecar document layout.
const SchemaVersion = "1.0"

// SourceType classifies where the footage came from.
type SourceType string

const (
	SourceOnboard SourceType = "onboard"
	SourceDVR     SourceType = "dvr"
	SourceUnknown SourceType = "unknown"
)

// StaticReason classifies why a segment contains no meaningful flight.
type StaticReason string

const (
	ReasonPreArm    StaticReason = "pre-arm"
	ReasonPostLand  StaticReason = "post-land"
	ReasonDVRFreeze StaticReason = "dvr-freeze"
	// ReasonSignalLoss and ReasonUnknown are produced by the quality
	// assessment path, never by positional classification.
	ReasonSignalLoss StaticReason = "signal-loss"
	ReasonUnknown    StaticReason = "unknown"
)

// FlightStyle is the closed vocabulary the classifier prompt is contracted to
// return. Anything else parses to StyleUnknown.
type FlightStyle string

const (
	StyleTakeoff    FlightStyle = "takeoff"
	StyleLanding    FlightStyle = "landing"
	StyleCruising   FlightStyle = "cruising"
	StyleProximity  FlightStyle = "proximity"
	StyleFreestyle  FlightStyle = "freestyle"
	StyleRacing     FlightStyle = "racing"
	StyleCinematic  FlightStyle = "cinematic"
	StyleStationary FlightStyle = "stationary"
	StyleUnknown    FlightStyle = "unknown"
)

var flightStyles = map[FlightStyle]bool{
	StyleTakeoff:    true,
	StyleLanding:    true,
	StyleCruising:   true,
	StyleProximity:  true,
	StyleFreestyle:  true,
	StyleRacing:     true,
	StyleCinematic:  true,
	StyleStationary: true,
	StyleUnknown:    true,
}

// ParseFlightStyle maps a classifier-reported style onto the closed vocabulary.
func ParseFlightStyle(s string) FlightStyle {
	style := FlightStyle(s)
	if flightStyles[style] {
		return style
	}
	return StyleUnknown
}

// Taggable reports whether the style should count toward tag frequencies.
// Unknown and stationary carry no information about the flight.
func (f FlightStyle) Taggable() bool {
	return f != StyleUnknown && f != StyleStationary && f != ""
}

// SourceMetadata describes the source video file.
type SourceMetadata struct {
	Filename        string     `json:"filename"`
	DurationSeconds float64    `json:"duration_seconds"`
	Resolution      [2]int     `json:"resolution"`
	Framerate       float64    `json:"framerate"`
	Codec           string     `json:"codec"`
	FileSizeBytes   int64      `json:"file_size_bytes"`
	CreationTime    *time.Time `json:"creation_time,omitempty"`
	SourceType      SourceType `json:"source_type"`
}

// AnalysisMetadata describes the analysis run itself.
type AnalysisMetadata struct {
	FramesAnalyzed          int     `json:"frames_analyzed"`
	AnalysisDurationSeconds float64 `json:"analysis_duration_seconds"`
}

// StaticSegment is a time interval with no meaningful flight activity.
type StaticSegment struct {
	Start      float64      `json:"start"`
	End        float64      `json:"end"`
	Reason     StaticReason `json:"reason"`
	Confidence float64      `json:"confidence"`
}

// Highlight is a time interval of sustained high interest.
type Highlight struct {
	Start       float64  `json:"start"`
	End         float64  `json:"end"`
	Score       int      `json:"score"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

// FrameAnalysis is the semantic record the vision model produces for one
// sampled frame.
type FrameAnalysis struct {
	Timestamp     float64     `json:"timestamp"`
	Description   string      `json:"description"`
	Environment   []string    `json:"environment"`
	FlightStyle   FlightStyle `json:"flight_style"`
	InterestScore int         `json:"interest_score"`
	QualityIssues []string    `json:"quality_issues"`
}

// TimeRange is a closed interval in video time.
type TimeRange struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// QualityMetadata is the deductive quality assessment for a whole video.
type QualityMetadata struct {
	OverallScore         int         `json:"overall_score"`
	Issues               []string    `json:"issues"`
	DVRArtifactsDetected bool        `json:"dvr_artifacts_detected"`
	SignalLossSegments   []TimeRange `json:"signal_loss_segments"`
}

// DefaultQuality is the neutral assessment used when no frames were analyzed.
func DefaultQuality() QualityMetadata {
	return QualityMetadata{
		OverallScore:       5,
		Issues:             []string{},
		SignalLossSegments: []TimeRange{},
	}
}

// VideoMetadata is the complete sidecar document.
type VideoMetadata struct {
	SchemaVersion   string    `json:"schema_version"`
	AnalyzedAt      time.Time `json:"analyzed_at"`
	AnalyzerVersion string    `json:"analyzer_version"`
	VisionModel     string    `json:"vision_model"`

	Source   SourceMetadata   `json:"source"`
	Analysis AnalysisMetadata `json:"analysis"`

	Tags    []string `json:"tags"`
	Summary string   `json:"summary"`

	StaticSegments []StaticSegment `json:"static_segments"`
	Highlights     []Highlight     `json:"highlights"`
	FrameAnalysis  []FrameAnalysis `json:"frame_analysis"`

	Quality QualityMetadata `json:"quality"`

	Custom map[string]any `json:"custom,omitempty"`
}
