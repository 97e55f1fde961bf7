package model

import "fmt"

type ArticleStyle string

const (
	StyleProfessional ArticleStyle = "Professional"
	StyleCasual       ArticleStyle = "Casual"
	StyleTechnical    ArticleStyle = "Technical"
)

type ArticleTone string

const (
	ToneFormal   ArticleTone = "Formal"
	ToneFriendly ArticleTone = "Friendly"
	ToneDirect   ArticleTone = "Direct"
)

type ArticleLength string

const (
	LengthShort  ArticleLength = "Short (~300 words)"
	LengthMedium ArticleLength = "Medium (~600 words)"
	LengthLong   ArticleLength = "Long (~1000 words)"
)

type ArticleAudience string

const (
	AudienceGeneral   ArticleAudience = "General"
	AudienceExperts   ArticleAudience = "Experts"
	AudienceBeginners ArticleAudience = "Beginners"
)

// ArticleConfig shapes a generated article.
type ArticleConfig struct {
	Style    ArticleStyle    `json:"style"`
	Tone     ArticleTone     `json:"tone"`
	Length   ArticleLength   `json:"length"`
	Audience ArticleAudience `json:"audience"`
}

// DefaultArticleConfig returns Professional, Formal, Medium, General.
func DefaultArticleConfig() ArticleConfig {
	return ArticleConfig{
		Style:    StyleProfessional,
		Tone:     ToneFormal,
		Length:   LengthMedium,
		Audience: AudienceGeneral,
	}
}

// ParseArticleConfig builds a config from user-supplied names. Length accepts
// either the full label or its first word ("short", "medium", "long").
func ParseArticleConfig(style, tone, length, audience string) (ArticleConfig, error) {
	cfg := DefaultArticleConfig()

	switch ArticleStyle(style) {
	case "":
	case StyleProfessional, StyleCasual, StyleTechnical:
		cfg.Style = ArticleStyle(style)
	default:
		return cfg, fmt.Errorf("invalid style %q", style)
	}

	switch ArticleTone(tone) {
	case "":
	case ToneFormal, ToneFriendly, ToneDirect:
		cfg.Tone = ArticleTone(tone)
	default:
		return cfg, fmt.Errorf("invalid tone %q", tone)
	}

	switch length {
	case "":
	case string(LengthShort), "Short", "short":
		cfg.Length = LengthShort
	case string(LengthMedium), "Medium", "medium":
		cfg.Length = LengthMedium
	case string(LengthLong), "Long", "long":
		cfg.Length = LengthLong
	default:
		return cfg, fmt.Errorf("invalid length %q", length)
	}

	switch ArticleAudience(audience) {
	case "":
	case AudienceGeneral, AudienceExperts, AudienceBeginners:
		cfg.Audience = ArticleAudience(audience)
	default:
		return cfg, fmt.Errorf("invalid audience %q", audience)
	}

	return cfg, nil
}
