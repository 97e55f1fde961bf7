package genai

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	googleai "google.golang.org/genai"

	"github.com/rcliao/record-and-post/internal/model"
)

// Gemini calls the Gemini API through the Google Gen AI SDK.
type Gemini struct {
	baseURL string
	apiKey  string
	timeout time.Duration

	once   sync.Once
	client *googleai.Client
	err    error
}

// NewGemini creates a Gemini provider. An empty apiKey is reported as
// ErrConfiguration on the first call.
func NewGemini(apiKey, baseURL string, timeout time.Duration) *Gemini {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Gemini{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		timeout: timeout,
	}
}

// sdk builds the client on first use.
func (g *Gemini) sdk(ctx context.Context) (*googleai.Client, error) {
	if g.apiKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is missing (set API_KEY or GEMINI_API_KEY)", ErrConfiguration)
	}
	g.once.Do(func() {
		g.client, g.err = googleai.NewClient(ctx, &googleai.ClientConfig{
			APIKey:      g.apiKey,
			Backend:     googleai.BackendGeminiAPI,
			HTTPClient:  &http.Client{Timeout: g.timeout},
			HTTPOptions: googleai.HTTPOptions{BaseURL: g.baseURL},
		})
	})
	if g.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, g.err)
	}
	return g.client, nil
}

func (g *Gemini) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	contents := make([]*googleai.Content, 0, len(req.Contents))
	for _, c := range req.Contents {
		role := googleai.RoleUser
		if c.Role == model.RoleModel {
			role = googleai.RoleModel
		}
		contents = append(contents, googleai.NewContentFromText(c.Text, googleai.Role(role)))
	}

	var config *googleai.GenerateContentConfig
	if len(req.Schema) > 0 {
		props := make(map[string]*googleai.Schema, len(req.Schema))
		for _, name := range req.Schema {
			props[name] = &googleai.Schema{Type: googleai.TypeString}
		}
		config = &googleai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   &googleai.Schema{Type: googleai.TypeObject, Properties: props},
		}
	}

	resp, err := g.generate(ctx, req.Model, contents, config)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, p := range firstParts(resp) {
		if !p.Thought {
			sb.WriteString(p.Text)
		}
	}
	return sb.String(), nil
}

func (g *Gemini) GenerateImage(ctx context.Context, modelID, prompt string) (*Image, error) {
	contents := []*googleai.Content{googleai.NewContentFromText(prompt, googleai.RoleUser)}

	resp, err := g.generate(ctx, modelID, contents, nil)
	if err != nil {
		return nil, err
	}
	for _, p := range firstParts(resp) {
		if p.InlineData != nil && len(p.InlineData.Data) > 0 {
			return &Image{
				MIME: p.InlineData.MIMEType,
				Data: base64.StdEncoding.EncodeToString(p.InlineData.Data),
			}, nil
		}
	}
	return nil, nil
}

func (g *Gemini) generate(ctx context.Context, modelID string, contents []*googleai.Content, config *googleai.GenerateContentConfig) (*googleai.GenerateContentResponse, error) {
	client, err := g.sdk(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := client.Models.GenerateContent(ctx, modelID, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	return resp, nil
}

func firstParts(resp *googleai.GenerateContentResponse) []*googleai.Part {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	return resp.Candidates[0].Content.Parts
}
