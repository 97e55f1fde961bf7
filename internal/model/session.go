// Package model defines the core recording and publishing data types.
package model

import (
	"fmt"
	"strings"
	"time"
)

// EmptyTranscript replaces the transcript of a capture that produced no speech.
const EmptyTranscript = "(No speech detected)"

// DefaultParticipant is the sole participant of a freshly captured session.
const DefaultParticipant = "Me"

// Session is one captured recording and everything derived from it.
type Session struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	CreatedAt       time.Time `json:"created_at"`
	DurationSeconds int       `json:"duration_seconds"`
	Transcript      string    `json:"transcript"`
	Audio           []byte    `json:"audio,omitempty"`
	AudioMIME       string    `json:"audio_mime,omitempty"`
	Article         string    `json:"article,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	Participants    []string  `json:"participants"`
	Location        string    `json:"location,omitempty"`
}

// HasArticle reports whether an article has been generated or written.
func (s *Session) HasArticle() bool {
	return strings.TrimSpace(s.Article) != ""
}

// FormatDuration renders the duration as MM:SS.
func (s *Session) FormatDuration() string {
	return FormatSeconds(s.DurationSeconds)
}

// FormatSeconds renders a second count as MM:SS.
func FormatSeconds(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}

// DefaultTitle is the title given to a session captured at t.
func DefaultTitle(t time.Time) string {
	return "Session " + t.Local().Format("15:04:05")
}

// ParseParticipants splits a comma-separated list, trimming entries and
// dropping empties.
func ParseParticipants(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ChatRole identifies who authored a chat turn.
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatMessage is one turn in a session Q&A conversation.
type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
