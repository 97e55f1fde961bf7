package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/record-and-post/internal/model"
	"github.com/rcliao/record-and-post/internal/recorder"
)

func TestRenderStatus(t *testing.T) {
	line := renderStatus(recorder.Status{
		State:          recorder.Recording,
		ElapsedSeconds: 75,
		Committed:      "hello there",
		Tentative:      "gene",
	})
	assert.Contains(t, line, "REC")
	assert.Contains(t, line, "01:15")
	assert.Contains(t, line, "hello there")
	assert.Contains(t, line, "gene")

	paused := renderStatus(recorder.Status{State: recorder.Paused, ElapsedSeconds: 3})
	assert.Contains(t, paused, "PAUSED")
	assert.Contains(t, paused, "00:03")
}

func TestRenderSessionHidesDataURI(t *testing.T) {
	out := renderSession(&model.Session{
		ID:           "01J",
		Title:        "Standup",
		CreatedAt:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Participants: []string{"Me", "Ana"},
		ImageURL:     "data:image/png;base64,AAAA",
	})
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "Me, Ana")
	assert.Contains(t, out, "(inline image)")
	assert.NotContains(t, out, "base64")
}

func TestValidCloudModel(t *testing.T) {
	assert.True(t, validCloudModel("gemini-2.5-flash"))
	assert.True(t, validCloudModel("gemini-3-pro-preview"))
	assert.True(t, validCloudModel("claude-sonnet-4-5"))
	assert.False(t, validCloudModel("gpt-4"))
	assert.False(t, validCloudModel(""))
}

func TestFormatTotal(t *testing.T) {
	assert.Equal(t, "0h00m00s", formatTotal(0))
	assert.Equal(t, "1h01m05s", formatTotal(3665))
}
