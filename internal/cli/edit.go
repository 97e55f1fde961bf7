package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/record-and-post/internal/article"
	"github.com/rcliao/record-and-post/internal/model"
	"github.com/rcliao/record-and-post/internal/workspace"
)

func init() {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a session's transcript, article or metadata",
	}

	transcript := &cobra.Command{
		Use:   "transcript <id>",
		Short: "Replace the transcript (from --file or stdin)",
		Args:  cobra.ExactArgs(1),
		Run:   runEditTranscript,
	}
	transcript.Flags().String("file", "", "Read the new text from this file")

	art := &cobra.Command{
		Use:   "article <id>",
		Short: "Replace the article markdown (from --file or stdin)",
		Long:  "Replace the article markdown. A frontmatter header, as written by export, is stripped. Empty input removes the article.",
		Args:  cobra.ExactArgs(1),
		Run:   runEditArticle,
	}
	art.Flags().String("file", "", "Read the new markdown from this file")

	meta := &cobra.Command{
		Use:   "meta <id>",
		Short: "Change title, location or participants",
		Args:  cobra.ExactArgs(1),
		Run:   runEditMeta,
	}
	meta.Flags().String("title", "", "New title")
	meta.Flags().String("location", "", "New location")
	meta.Flags().String("participants", "", "Comma-separated participants")

	cmd.AddCommand(transcript, art, meta)
	RootCmd.AddCommand(cmd)
}

func runEditTranscript(cmd *cobra.Command, args []string) {
	file, _ := cmd.Flags().GetString("file")
	text, err := readInput(file)
	if err != nil {
		exitErr("read input", err)
	}

	a := openApp(cmd.Context())
	defer a.Close()

	sess, err := a.ws.UpdateTranscript(cmd.Context(), args[0], strings.TrimSpace(text))
	if err != nil {
		exitErr("edit transcript", err)
	}
	printEdited(sess)
}

func runEditArticle(cmd *cobra.Command, args []string) {
	file, _ := cmd.Flags().GetString("file")
	text, err := readInput(file)
	if err != nil {
		exitErr("read input", err)
	}
	_, body, err := article.Parse(text)
	if err != nil {
		exitErr("parse article", err)
	}

	a := openApp(cmd.Context())
	defer a.Close()

	sess, err := a.ws.UpdateArticle(cmd.Context(), args[0], body)
	if err != nil {
		exitErr("edit article", err)
	}
	printEdited(sess)
}

func runEditMeta(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()

	cur, err := a.store.Get(cmd.Context(), args[0])
	if err != nil {
		exitErr("edit meta", err)
	}

	// Unset flags keep the current values.
	md := workspace.Metadata{
		Title:        cur.Title,
		Location:     cur.Location,
		Participants: strings.Join(cur.Participants, ", "),
	}
	if cmd.Flags().Changed("title") {
		md.Title, _ = cmd.Flags().GetString("title")
	}
	if cmd.Flags().Changed("location") {
		md.Location, _ = cmd.Flags().GetString("location")
	}
	if cmd.Flags().Changed("participants") {
		md.Participants, _ = cmd.Flags().GetString("participants")
	}

	sess, err := a.ws.UpdateMetadata(cmd.Context(), cur.ID, md)
	if err != nil {
		exitErr("edit meta", err)
	}
	printEdited(sess)
}

func printEdited(sess *model.Session) {
	if textOutput() {
		fmt.Print(renderSession(sess))
		return
	}
	fmt.Printf(`{"ok":true,"id":%q}`+"\n", sess.ID)
}
