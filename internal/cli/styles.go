package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/rcliao/record-and-post/internal/model"
	"github.com/rcliao/record-and-post/internal/recorder"
)

var (
	colorRed    = lipgloss.Color("#FF0000")
	colorYellow = lipgloss.Color("#FFFF00")
	colorCyan   = lipgloss.Color("#00FFFF")
	colorGreen  = lipgloss.Color("#00FF00")
	colorGray   = lipgloss.Color("#666666")
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	labelStyle     = lipgloss.NewStyle().Foreground(colorGray)
	recordingStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	pausedStyle    = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	partialStyle   = lipgloss.NewStyle().Foreground(colorYellow)
	readyStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	errorStyle     = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	modelTurnStyle = lipgloss.NewStyle().Foreground(colorCyan)
)

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// renderStatus is the one-line live view of a recording.
func renderStatus(st recorder.Status) string {
	var dot string
	switch st.State {
	case recorder.Recording:
		dot = recordingStyle.Render("● REC")
	case recorder.Paused:
		dot = pausedStyle.Render("❚❚ PAUSED")
	default:
		dot = labelStyle.Render("○ " + st.State.String())
	}

	line := fmt.Sprintf("%s %s", dot, model.FormatSeconds(st.ElapsedSeconds))
	text := strings.TrimSpace(st.Committed)
	if st.Tentative != "" {
		if text != "" {
			text += " "
		}
		text += partialStyle.Render(st.Tentative)
	}
	if text != "" {
		line += "  " + text
	}
	return line
}

func renderSession(s *model.Session) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(s.Title))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("id:"), s.ID)
	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("date:"), s.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("duration:"), s.FormatDuration())
	if len(s.Participants) > 0 {
		fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("participants:"), strings.Join(s.Participants, ", "))
	}
	if s.Location != "" {
		fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("location:"), s.Location)
	}
	if s.ImageURL != "" {
		image := s.ImageURL
		if strings.HasPrefix(image, "data:") {
			image = "(inline image)"
		}
		fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render("image:"), image)
	}
	return sb.String()
}

func renderSessionLine(s *model.Session) string {
	mark := " "
	if s.HasArticle() {
		mark = readyStyle.Render("✎")
	}
	return fmt.Sprintf("%s %s  %s  %s  %s", mark, s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"),
		s.FormatDuration(), s.Title)
}

func renderModel(m model.LocalModel, selected bool) string {
	var status string
	switch m.Status {
	case model.ModelReady:
		status = readyStyle.Render("ready")
	case model.ModelDownloading:
		status = partialStyle.Render(fmt.Sprintf("downloading %3.0f%%", m.Progress))
	default:
		status = labelStyle.Render("available")
	}
	mark := " "
	if selected {
		mark = titleStyle.Render("*")
	}
	return fmt.Sprintf("%s %-36s %-16s %-8s %s", mark, m.ID, m.Name, m.Size, status)
}
