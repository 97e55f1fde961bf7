// Package article assembles generated articles into markdown and exports
// sessions as markdown documents with YAML frontmatter.
package article

import (
	"strings"

	"github.com/rcliao/record-and-post/internal/genai"
)

// DefaultHashtags is used when a result carries no hashtags at all.
const DefaultHashtags = "#RecordAndPost"

// Assemble renders a generated article as markdown: an H1 title, the body,
// an optional block-quoted "Final Takeaway" section and a hashtag line. The
// body is written as returned.
func Assemble(r genai.ArticleResult) string {
	hashtags := strings.TrimSpace(r.Hashtags)
	if hashtags == "" {
		hashtags = DefaultHashtags
	}

	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(strings.TrimSpace(r.Title))
	sb.WriteString("\n\n")
	sb.WriteString(r.Content)
	sb.WriteString("\n\n")

	if takeaway := strings.TrimSpace(r.Takeaway); takeaway != "" {
		sb.WriteString("> ## Final Takeaway\n> ")
		sb.WriteString(strings.ReplaceAll(takeaway, "\n", "\n> "))
		sb.WriteString("\n\n")
	}

	sb.WriteString(hashtags)
	sb.WriteString("\n")
	return sb.String()
}
