package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/rcliao/record-and-post/internal/model"
)

// Anthropic serves text requests through the Claude Messages API.
type Anthropic struct {
	client    anthropic.Client
	ready     bool
	maxTokens int64
}

// NewAnthropic creates a Claude provider. An empty apiKey is reported as
// ErrConfiguration on the first call.
func NewAnthropic(apiKey, baseURL string, maxTokens int64) *Anthropic {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	a := &Anthropic{maxTokens: maxTokens}
	if apiKey == "" {
		return a
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	a.client = anthropic.NewClient(opts...)
	a.ready = true
	return a
}

func (a *Anthropic) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	if !a.ready {
		return "", fmt.Errorf("%w: anthropic API key is missing (set ANTHROPIC_API_KEY)", ErrConfiguration)
	}

	contents := req.Contents
	if len(req.Schema) > 0 && len(contents) > 0 {
		last := contents[len(contents)-1]
		last.Text += "\n\nOutput ONLY a valid JSON object with the string fields: " +
			strings.Join(req.Schema, ", ") + ". No markdown, no explanations."
		contents = append(contents[:len(contents)-1:len(contents)-1], last)
	}

	var messages []anthropic.MessageParam
	for _, c := range contents {
		block := anthropic.NewTextBlock(c.Text)
		if c.Role == model.RoleModel {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: a.maxTokens,
		Messages:  messages,
	})
	if err != nil {
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := sb.String()
	if len(req.Schema) > 0 {
		return extractJSON(text)
	}
	return text, nil
}

var errNoImages = errors.New("anthropic: image generation not supported")

func (a *Anthropic) GenerateImage(ctx context.Context, modelID, prompt string) (*Image, error) {
	return nil, errNoImages
}

// extractJSON finds the first complete JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
