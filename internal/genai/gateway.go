package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/rcliao/record-and-post/internal/logging"
	"github.com/rcliao/record-and-post/internal/model"
)

const (
	ImagePromptModel = "gemini-2.5-flash"
	ImageModel       = "gemini-2.5-flash-image"

	articleTranscriptLimit = 30000
	chatTranscriptLimit    = 15000

	DefaultHashtags    = "#SessionInsights"
	DefaultTakeaway    = "Summary unavailable."
	DefaultImagePrompt = "Modern corporate meeting abstract vector"
	ChatAcknowledgment = "Understood. I am ready to answer questions about the transcript."
)

var articleSchema = []string{"title", "content", "takeaway", "hashtags"}

// ArticleResult is the structured article returned by the provider.
type ArticleResult struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Takeaway string `json:"takeaway"`
	Hashtags string `json:"hashtags"`
}

// Gateway runs the content operations against a Provider. It keeps no
// state between calls and never retries.
type Gateway struct {
	provider Provider
	log      logging.Logger
}

func NewGateway(p Provider, log logging.Logger) *Gateway {
	if log == nil {
		log = logging.Nop()
	}
	return &Gateway{provider: p, log: log}
}

// GenerateArticle turns a transcript into a titled article with takeaway
// and hashtags.
func (g *Gateway) GenerateArticle(ctx context.Context, modelID, transcript string, cfg model.ArticleConfig) (*ArticleResult, error) {
	prompt := articlePrompt(truncate(transcript, articleTranscriptLimit), cfg)

	text, err := g.text(ctx, "article", TextRequest{
		Model:    modelID,
		Contents: UserText(prompt),
		Schema:   articleSchema,
	})
	if err != nil {
		return nil, err
	}

	res, err := parseArticle(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return res, nil
}

// GenerateImagePrompt asks for a short visual description for a header image.
func (g *Gateway) GenerateImagePrompt(ctx context.Context, title, overview string) (string, error) {
	prompt := fmt.Sprintf("Create a 3-4 word visual description for a blog header image based on this title: \"%s\" and overview: \"%s\".\n"+
		"The style should be modern flat vector art, purple and orange color palette.\n"+
		"Output ONLY the description.", title, overview)

	text, err := g.text(ctx, "image_prompt", TextRequest{
		Model:    ImagePromptModel,
		Contents: UserText(prompt),
	})
	if err != nil {
		return "", err
	}
	if text = strings.TrimSpace(text); text == "" {
		return DefaultImagePrompt, nil
	}
	return text, nil
}

// GenerateBlogImage returns a data URI for the generated image, "" when the
// provider returned no image, or a deterministic placeholder URL when the
// provider call fails. Only a missing credential is returned as an error.
func (g *Gateway) GenerateBlogImage(ctx context.Context, prompt string) (string, error) {
	reqID := uuid.NewString()
	start := time.Now()

	img, err := g.provider.GenerateImage(ctx, ImageModel, prompt)
	if errors.Is(err, ErrConfiguration) {
		return "", err
	}
	if err != nil {
		g.log.Warn(ctx, "image generation failed, using placeholder",
			"request_id", reqID, "error", err, "duration", time.Since(start))
		return PlaceholderImageURL(prompt), nil
	}
	g.log.Debug(ctx, "image generated", "request_id", reqID, "found", img != nil, "duration", time.Since(start))
	if img == nil {
		return "", nil
	}
	return img.DataURI(), nil
}

// PlaceholderImageURL is the stand-in image for a prompt.
func PlaceholderImageURL(prompt string) string {
	return "https://picsum.photos/seed/" + encodeURIComponent(prompt) + "/800/400"
}

// ChatWithSession answers message about transcript given the prior turns.
func (g *Gateway) ChatWithSession(ctx context.Context, modelID, transcript string, history []model.ChatMessage, message string) (string, error) {
	contents := []Content{
		{Role: model.RoleUser, Text: "You are a helpful assistant answering questions about this transcript: " + truncate(transcript, chatTranscriptLimit)},
		{Role: model.RoleModel, Text: ChatAcknowledgment},
	}
	for _, m := range history {
		contents = append(contents, Content{Role: m.Role, Text: m.Text})
	}
	contents = append(contents, Content{Role: model.RoleUser, Text: message})

	return g.text(ctx, "chat", TextRequest{Model: modelID, Contents: contents})
}

func (g *Gateway) text(ctx context.Context, op string, req TextRequest) (string, error) {
	reqID := uuid.NewString()
	start := time.Now()
	log := g.log.With("op", op, "request_id", reqID, "model", req.Model)

	text, err := g.provider.GenerateText(ctx, req)
	if errors.Is(err, ErrConfiguration) {
		return "", err
	}
	if err != nil {
		log.Error(ctx, "generation failed", "error", err, "duration", time.Since(start))
		return "", fmt.Errorf("%w: %s: %w", ErrGenerationFailed, op, err)
	}
	log.Debug(ctx, "generation done", "chars", len(text), "duration", time.Since(start))
	return text, nil
}

func articlePrompt(transcript string, cfg model.ArticleConfig) string {
	return fmt.Sprintf(`You are an expert content editor. Transform the following transcript into a structured article.

Transcript:
"%s"

Configuration:
- Style: %s
- Tone: %s
- Length: %s
- Audience: %s

Format Guidelines:
1. Title: A catchy H1-style title (Plain text).
2. Content:
   - Start with a 150-200 word overview.
   - Use H2 (##) for sub-topics.
   - Do NOT include the "Final Takeaway" here.
3. Takeaway:
   - This MUST be separate.
   - First, write a brief summary paragraph of the article's main points and final thoughts (approx 50-75 words).
   - Then, list 3-5 key bullet points.
4. Hashtags: Add 3 relevant hashtags.

Return the result as a JSON object.`, transcript, cfg.Style, cfg.Tone, cfg.Length, cfg.Audience)
}

func parseArticle(text string) (*ArticleResult, error) {
	var raw struct {
		Title    string          `json:"title"`
		Content  string          `json:"content"`
		Takeaway string          `json:"takeaway"`
		Hashtags json.RawMessage `json:"hashtags"`
	}
	if strings.TrimSpace(text) == "" {
		text = "{}"
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parse article: %w", err)
	}

	res := &ArticleResult{
		Title:    raw.Title,
		Content:  raw.Content,
		Takeaway: raw.Takeaway,
		Hashtags: hashtagsString(raw.Hashtags),
	}
	if strings.TrimSpace(res.Hashtags) == "" {
		res.Hashtags = DefaultHashtags
	}
	if strings.TrimSpace(res.Takeaway) == "" {
		res.Takeaway = DefaultTakeaway
	}
	return res, nil
}

// hashtagsString accepts either a string or an array of strings.
func hashtagsString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, " ")
	}
	return ""
}

// truncate keeps the first n characters of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// uriComponentUnescaper restores the marks QueryEscape escapes but
// encodeURIComponent leaves alone.
var uriComponentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes s for use as a single URL path segment, leaving
// A-Z a-z 0-9 and - _ . ! ~ * ' ( ) unescaped.
func encodeURIComponent(s string) string {
	return uriComponentUnescaper.Replace(url.QueryEscape(s))
}
