// Package vision talks to the vision model that turns sampled frames into
// semantic analysis records. Any OpenAI-compatible chat-completions endpoint
// works; a local Ollama instance is the usual deployment.
package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/skyfpv/propwash/internal/metadata"
	"github.com/skyfpv/propwash/internal/video"
	"github.com/skyfpv/propwash/pkg/logger"
)

// maxSummaryFrames caps how many frame descriptions feed the flight summary.
const maxSummaryFrames = 50

// Config holds the vision endpoint settings.
type Config struct {
	BaseURL        string
	APIKey         string
	Model          string
	TimeoutSeconds int
	Temperature    float64
}

// Client is the vision-model client.
type Client struct {
	api         openai.Client
	model       string
	temperature float64
	logger      *logger.Logger
}

// NewClient creates a vision client for the configured endpoint.
func NewClient(cfg Config, log *logger.Logger) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:         openai.NewClient(opts...),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		logger:      log.Named("vision"),
	}
}

// Model returns the configured model name, for stamping into sidecars.
func (c *Client) Model() string {
	return c.model
}

// Healthy reports whether the endpoint answers a model listing.
func (c *Client) Healthy(ctx context.Context) bool {
	_, err := c.api.Models.List(ctx)
	if err != nil {
		c.logger.Warn("Vision endpoint health check failed", logger.Error(err))
		return false
	}
	return true
}

// AnalyzeFrame runs one frame through the model and returns its semantic
// record. It never fails: any transport or parse problem yields a neutral
// record (mid-range score, "analysis-error" issue) so downstream aggregation
// always sees one record per frame.
func (c *Client) AnalyzeFrame(ctx context.Context, frame video.Frame) metadata.FrameAnalysis {
	imageURL, err := encodeFrame(frame.Path)
	if err != nil {
		c.logger.Error("Failed to encode frame",
			logger.Float64("timestamp", frame.Timestamp),
			logger.Error(err))
		return errorAnalysis(frame.Timestamp)
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(framePrompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: imageURL,
				}),
			}),
		},
		Temperature: openai.Float(c.temperature),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{Type: "json_object"},
		},
	})
	if err != nil {
		c.logger.Error("Frame analysis request failed",
			logger.Float64("timestamp", frame.Timestamp),
			logger.Error(err))
		return errorAnalysis(frame.Timestamp)
	}
	if len(resp.Choices) == 0 {
		c.logger.Warn("Frame analysis returned no choices",
			logger.Float64("timestamp", frame.Timestamp))
		return errorAnalysis(frame.Timestamp)
	}

	analysis := parseFrameResponse(frame.Timestamp, resp.Choices[0].Message.Content)

	c.logger.Debug("Analyzed frame",
		logger.Float64("timestamp", frame.Timestamp),
		logger.Int("interest_score", analysis.InterestScore),
		logger.String("flight_style", string(analysis.FlightStyle)))

	return analysis
}

// GenerateSummary asks the model for a short flight summary built from the
// per-frame descriptions.
func (c *Client) GenerateSummary(ctx context.Context, analyses []metadata.FrameAnalysis) (string, error) {
	if len(analyses) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(summaryPrompt)
	for i, a := range analyses {
		if i >= maxSummaryFrames {
			break
		}
		fmt.Fprintf(&sb, "- [%.1fs] %s\n", a.Timestamp, a.Description)
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(sb.String()),
		},
		Temperature: openai.Float(0.5),
	})
	if err != nil {
		return "", fmt.Errorf("summary request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summary request returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// encodeFrame loads a JPEG frame and packs it into a data URL.
func encodeFrame(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read frame: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}
