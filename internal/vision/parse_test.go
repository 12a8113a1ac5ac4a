package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skyfpv/propwash/internal/metadata"
)

func TestParseFrameResponseWellFormed(t *testing.T) {
	raw := `{
		"description": "Fast pass between trees over a river",
		"environment": ["outdoor", "forest", "river"],
		"flight_style": "proximity",
		"interest_score": 8,
		"quality_issues": ["blur"]
	}`
	a := parseFrameResponse(12.0, raw)

	assert.Equal(t, 12.0, a.Timestamp)
	assert.Equal(t, "Fast pass between trees over a river", a.Description)
	assert.Equal(t, []string{"outdoor", "forest", "river"}, a.Environment)
	assert.Equal(t, metadata.StyleProximity, a.FlightStyle)
	assert.Equal(t, 8, a.InterestScore)
	assert.Equal(t, []string{"blur"}, a.QualityIssues)
}

func TestParseFrameResponseClampsScore(t *testing.T) {
	assert.Equal(t, 10, parseFrameResponse(0, `{"interest_score": 99}`).InterestScore)
	assert.Equal(t, 1, parseFrameResponse(0, `{"interest_score": -3}`).InterestScore)
	assert.Equal(t, 1, parseFrameResponse(0, `{"interest_score": 0}`).InterestScore)
}

func TestParseFrameResponseMissingFields(t *testing.T) {
	a := parseFrameResponse(3.5, `{"description": "just sky"}`)

	assert.Equal(t, neutralScore, a.InterestScore)
	assert.Equal(t, metadata.StyleUnknown, a.FlightStyle)
	assert.Empty(t, a.Environment)
	assert.Empty(t, a.QualityIssues)
}

func TestParseFrameResponseUnknownStyle(t *testing.T) {
	a := parseFrameResponse(0, `{"flight_style": "barrel-rolling"}`)
	assert.Equal(t, metadata.StyleUnknown, a.FlightStyle)
}

func TestParseFrameResponseMalformed(t *testing.T) {
	for _, raw := range []string{"", "not json at all", "[1,2,3]", `"a string"`} {
		a := parseFrameResponse(7.0, raw)
		assert.Equal(t, 7.0, a.Timestamp)
		assert.Equal(t, neutralScore, a.InterestScore)
		assert.Equal(t, "Unable to analyze frame", a.Description)
	}
}

func TestParseFrameResponseFencedJSON(t *testing.T) {
	raw := "```json\n{\"description\": \"bando entry\", \"interest_score\": 9}\n```"
	a := parseFrameResponse(0, raw)

	assert.Equal(t, "bando entry", a.Description)
	assert.Equal(t, 9, a.InterestScore)
}

func TestErrorAnalysisShape(t *testing.T) {
	a := errorAnalysis(42.0)
	assert.Equal(t, 42.0, a.Timestamp)
	assert.Equal(t, neutralScore, a.InterestScore)
	assert.Equal(t, []string{"analysis-error"}, a.QualityIssues)
	assert.Equal(t, metadata.StyleUnknown, a.FlightStyle)
}
