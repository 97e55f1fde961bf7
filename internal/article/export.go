package article

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rcliao/record-and-post/internal/model"
)

// Frontmatter is the YAML header of an exported session.
type Frontmatter struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	Date         string   `yaml:"date"`
	Duration     string   `yaml:"duration"`
	Participants []string `yaml:"participants,omitempty"`
	Location     string   `yaml:"location,omitempty"`
	Image        string   `yaml:"image,omitempty"`
}

// Export renders a session as markdown with YAML frontmatter. The body is
// the article when present, else the transcript. Inline data-URI images are
// left out of the header.
func Export(s *model.Session) ([]byte, error) {
	fm := Frontmatter{
		ID:           s.ID,
		Title:        s.Title,
		Date:         s.CreatedAt.UTC().Format(time.RFC3339),
		Duration:     s.FormatDuration(),
		Participants: s.Participants,
		Location:     s.Location,
	}
	if !strings.HasPrefix(s.ImageURL, "data:") {
		fm.Image = s.ImageURL
	}

	data, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	body := s.Transcript
	if s.HasArticle() {
		body = s.Article
	}
	return []byte(fmt.Sprintf("---\n%s---\n\n%s\n", data, strings.TrimSpace(body))), nil
}

// Parse splits an exported document into its frontmatter and body. Content
// without frontmatter is returned whole as the body.
func Parse(content string) (*Frontmatter, string, error) {
	fmText, body, ok := splitFrontmatter(content)
	if !ok {
		return nil, strings.TrimSpace(content), nil
	}
	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(fmText), &fm); err != nil {
		return nil, "", fmt.Errorf("parsing frontmatter YAML: %w", err)
	}
	return &fm, body, nil
}

// splitFrontmatter splits content into YAML frontmatter and markdown body.
func splitFrontmatter(content string) (string, string, bool) {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "---") {
		return "", "", false
	}

	rest := content[3:]
	if len(rest) > 0 && rest[0] == '\n' {
		rest = rest[1:]
	} else if len(rest) > 1 && rest[0] == '\r' && rest[1] == '\n' {
		rest = rest[2:]
	}

	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", "", false
	}

	fm := rest[:idx]
	body := rest[idx+4:]
	return fm, strings.TrimSpace(body), true
}
