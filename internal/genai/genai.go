// Package genai is the gateway to hosted generative-AI providers: article
// drafting, image prompts, header images and transcript Q&A.
package genai

import (
	"context"
	"errors"

	"github.com/rcliao/record-and-post/internal/model"
)

var (
	// ErrGenerationFailed wraps every provider failure not covered by a fallback.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrConfiguration is returned at first use when a provider has no credential.
	ErrConfiguration = errors.New("provider not configured")
)

// Content is one turn of a provider conversation.
type Content struct {
	Role model.ChatRole
	Text string
}

// TextRequest asks a provider for a text completion.
type TextRequest struct {
	Model    string
	Contents []Content
	// Schema, when set, requests a JSON object response with these string
	// properties.
	Schema []string
}

// Image is an inline image returned by a provider.
type Image struct {
	MIME string
	// Data is the base64-encoded payload.
	Data string
}

// DataURI renders the image as data:<mime>;base64,<payload>.
func (i *Image) DataURI() string {
	return "data:" + i.MIME + ";base64," + i.Data
}

// Provider generates text and images.
type Provider interface {
	GenerateText(ctx context.Context, req TextRequest) (string, error)
	// GenerateImage returns nil, nil when the response has no image part.
	GenerateImage(ctx context.Context, modelID, prompt string) (*Image, error)
}

// UserText builds a single-turn user request.
func UserText(text string) []Content {
	return []Content{{Role: model.RoleUser, Text: text}}
}
