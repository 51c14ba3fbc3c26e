// Package llm talks to an OpenAI-compatible chat completions endpoint (Groq by
// default) for chat, tool calling and image analysis.
package llm

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/thomasfsr/fitgenius/src/fitness"
)

const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "moonshotai/kimi-k2-instruct-0905"
	DefaultVisionModel = "meta-llama/llama-4-scout-17b-16e-instruct"
)

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	VisionModel string
}

func NewClient(cfg Config, opts ...option.RequestOption) openai.Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	opts = append([]option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
	}, opts...)
	return openai.NewClient(opts...)
}

// Vision sends an image plus a text prompt to a vision-capable model.
type Vision struct {
	client    openai.Client
	model     string
	maxTokens int64
}

func NewVision(client openai.Client, model string) *Vision {
	if model == "" {
		model = DefaultVisionModel
	}
	return &Vision{client: client, model: model, maxTokens: 2000}
}

// Analyze returns the model's text answer for the base64 image and prompt.
func (v *Vision) Analyze(ctx context.Context, prompt, mediaType, imageB64 string) (string, error) {
	if mediaType == "" {
		mediaType = "image/jpeg"
	}
	chat, err := v.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(v.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: fmt.Sprintf("data:%s;base64,%s", mediaType, imageB64),
				}),
				openai.TextContentPart(prompt),
			}),
		},
		MaxCompletionTokens: openai.Int(v.maxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("vision request failed: %w", err)
	}
	if len(chat.Choices) == 0 {
		return "", errors.New("vision model returned no choices")
	}
	return chat.Choices[0].Message.Content, nil
}

// DecodeImage decodes base64 image data, accepting an optional data URL
// prefix. It returns the raw bytes, the bare base64 payload and the media
// type found in the prefix, if any.
func DecodeImage(s string) ([]byte, string, string, error) {
	var mediaType string
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(header, ";base64") {
			return nil, "", "", fitness.InvalidInput("decode image", "malformed data URL")
		}
		mediaType = strings.TrimSuffix(header, ";base64")
		s = payload
	}
	if s == "" {
		return nil, "", "", fitness.InvalidInput("decode image", "image data is empty")
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, "", "", fitness.InvalidInput("decode image", "image data is not valid base64: %v", err)
	}
	return data, s, mediaType, nil
}

// BodyAnalysisPrompt builds the assessment request for a body photo.
func BodyAnalysisPrompt(info fitness.UserProfile) string {
	var b strings.Builder
	b.WriteString("Analyze this body image and provide a detailed assessment:\n\n")
	b.WriteString("User Info:\n")
	fmt.Fprintf(&b, "- Age: %s\n", orUnknown(info.Age > 0, fmt.Sprint(info.Age)))
	fmt.Fprintf(&b, "- Gender: %s\n", orUnknown(info.Sex != "", info.Sex))
	fmt.Fprintf(&b, "- Height: %s\n", orUnknown(info.HeightCm > 0, fmt.Sprintf("%gcm", info.HeightCm)))
	fmt.Fprintf(&b, "- Weight: %s\n", orUnknown(info.WeightKg > 0, fmt.Sprintf("%gkg", info.WeightKg)))
	b.WriteString(`
Please analyze:
1. Overall body composition (estimated body fat %)
2. Muscle development by body part (shoulders, chest, arms, core, legs)
3. Posture assessment
4. Areas needing improvement
5. Current fitness level estimate (beginner/intermediate/advanced)

Provide specific, actionable insights.`)
	return b.String()
}

func orUnknown(ok bool, v string) string {
	if !ok {
		return "unknown"
	}
	return v
}
