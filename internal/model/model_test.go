package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParticipants(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"Alice, Bob ,,  Carol", []string{"Alice", "Bob", "Carol"}},
		{"", nil},
		{" , ", nil},
		{"Me", []string{"Me"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseParticipants(tt.in), "input %q", tt.in)
	}
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "00:00", FormatSeconds(0))
	assert.Equal(t, "01:05", FormatSeconds(65))
	assert.Equal(t, "00:00", FormatSeconds(-3))
}

func TestParseArticleConfig(t *testing.T) {
	cfg, err := ParseArticleConfig("", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultArticleConfig(), cfg)

	cfg, err = ParseArticleConfig("Casual", "Direct", "short", "Experts")
	require.NoError(t, err)
	assert.Equal(t, StyleCasual, cfg.Style)
	assert.Equal(t, ToneDirect, cfg.Tone)
	assert.Equal(t, LengthShort, cfg.Length)
	assert.Equal(t, AudienceExperts, cfg.Audience)

	_, err = ParseArticleConfig("Poetic", "", "", "")
	assert.Error(t, err)
	_, err = ParseArticleConfig("", "", "epic", "")
	assert.Error(t, err)
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, ProviderCloud, s.Provider)
	assert.Equal(t, "gemini-2.5-flash", s.Model)
	assert.Empty(t, s.LocalModelID)
	assert.False(t, s.OnboardingComplete)

	_, err := ParseProvider("edge")
	assert.Error(t, err)
}
