package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/record-and-post/internal/model"
)

// generateRequest is the part of the generateContent body the tests inspect.
type generateRequest struct {
	Contents []struct {
		Role  string `json:"role"`
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig *struct {
		ResponseMIMEType string `json:"responseMimeType"`
		ResponseSchema   *struct {
			Type       string `json:"type"`
			Properties map[string]struct {
				Type string `json:"type"`
			} `json:"properties"`
		} `json:"responseSchema"`
	} `json:"generationConfig"`
}

func TestGeminiGenerateText(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "k", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"title\":"},{"text":"\"T\"}"}]}}]}`))
	}))
	defer srv.Close()

	g := NewGemini("k", srv.URL, time.Second)
	text, err := g.GenerateText(context.Background(), TextRequest{
		Model: "gemini-2.5-flash",
		Contents: []Content{
			{Role: model.RoleUser, Text: "q"},
			{Role: model.RoleModel, Text: "a"},
		},
		Schema: []string{"title"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"T"}`, text)

	require.Len(t, got.Contents, 2)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Equal(t, "q", got.Contents[0].Parts[0].Text)
	assert.Equal(t, "model", got.Contents[1].Role)
	require.NotNil(t, got.GenerationConfig)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMIMEType)
	require.NotNil(t, got.GenerationConfig.ResponseSchema)
	assert.Equal(t, "OBJECT", got.GenerationConfig.ResponseSchema.Type)
	assert.Equal(t, "STRING", got.GenerationConfig.ResponseSchema.Properties["title"].Type)
}

func TestGeminiGenerateImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/gemini-2.5-flash-image:generateContent", r.URL.Path)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"here"},{"inlineData":{"mimeType":"image/png","data":"QUJD"}}]}}]}`))
	}))
	defer srv.Close()

	img, err := NewGemini("k", srv.URL, time.Second).GenerateImage(context.Background(), ImageModel, "p")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, "data:image/png;base64,QUJD", img.DataURI())
}

func TestGeminiGenerateImageNoInline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`))
	}))
	defer srv.Close()

	img, err := NewGemini("k", srv.URL, time.Second).GenerateImage(context.Background(), ImageModel, "p")
	require.NoError(t, err)
	assert.Nil(t, img)
}

func TestGeminiHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":429,"message":"quota"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewGemini("k", srv.URL, time.Second).GenerateText(context.Background(), TextRequest{Model: "m", Contents: UserText("q")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestGeminiMissingKey(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	g := NewGemini("", srv.URL, time.Second)
	_, err := g.GenerateText(context.Background(), TextRequest{Model: "m", Contents: UserText("q")})
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = g.GenerateImage(context.Background(), ImageModel, "p")
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Zero(t, calls)
}
