package genai

import (
	"context"
	"strings"
)

// Router sends claude-* text models to Claude and everything else,
// including all image requests, to Gemini.
type Router struct {
	Gemini    Provider
	Anthropic Provider
}

func (r *Router) text(modelID string) Provider {
	if r.Anthropic != nil && strings.HasPrefix(modelID, "claude-") {
		return r.Anthropic
	}
	return r.Gemini
}

func (r *Router) GenerateText(ctx context.Context, req TextRequest) (string, error) {
	return r.text(req.Model).GenerateText(ctx, req)
}

func (r *Router) GenerateImage(ctx context.Context, modelID, prompt string) (*Image, error) {
	return r.Gemini.GenerateImage(ctx, modelID, prompt)
}
