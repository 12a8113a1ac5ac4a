package vision

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/skyfpv/propwash/internal/metadata"
)

// neutralScore is the interest score assigned when the model gave none or the
// response could not be parsed.
const neutralScore = 5

// parseFrameResponse turns the model's JSON reply into a frame analysis.
// Vision models frequently return slightly malformed or partial JSON, so
// every field is read leniently and missing pieces fall back to neutral
// defaults rather than failing the frame.
func parseFrameResponse(timestamp float64, raw string) metadata.FrameAnalysis {
	if !gjson.Valid(raw) {
		// Some models wrap the object in prose or code fences; take the
		// outermost braces if a JSON object is buried in there.
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start < 0 || end <= start || !gjson.Valid(raw[start:end+1]) {
			return fallbackAnalysis(timestamp, "Unable to analyze frame")
		}
		raw = raw[start : end+1]
	}

	result := gjson.Parse(raw)
	if !result.IsObject() {
		return fallbackAnalysis(timestamp, "Unable to analyze frame")
	}

	analysis := metadata.FrameAnalysis{
		Timestamp:     timestamp,
		Description:   result.Get("description").String(),
		Environment:   stringList(result.Get("environment")),
		FlightStyle:   metadata.ParseFlightStyle(result.Get("flight_style").String()),
		InterestScore: neutralScore,
		QualityIssues: stringList(result.Get("quality_issues")),
	}

	if score := result.Get("interest_score"); score.Exists() {
		analysis.InterestScore = clamp(int(score.Int()), 1, 10)
	}
	return analysis
}

// fallbackAnalysis is the neutral record for a frame the model could not
// describe; it scores mid-range so it neither creates nor breaks highlights.
func fallbackAnalysis(timestamp float64, description string) metadata.FrameAnalysis {
	return metadata.FrameAnalysis{
		Timestamp:     timestamp,
		Description:   description,
		Environment:   []string{},
		FlightStyle:   metadata.StyleUnknown,
		InterestScore: neutralScore,
		QualityIssues: []string{},
	}
}

// errorAnalysis marks a frame whose request failed outright.
func errorAnalysis(timestamp float64) metadata.FrameAnalysis {
	a := fallbackAnalysis(timestamp, "Error analyzing frame")
	a.QualityIssues = []string{"analysis-error"}
	return a
}

func stringList(value gjson.Result) []string {
	list := []string{}
	for _, item := range value.Array() {
		if s := item.String(); s != "" {
			list = append(list, s)
		}
	}
	return list
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
