package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		Run:   runShow,
	}

	cmd.Flags().Bool("transcript", false, "Print only the transcript")
	cmd.Flags().Bool("article", false, "Print only the article")
	cmd.Flags().String("save-audio", "", "Write the recorded audio to this path")

	RootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) {
	onlyTranscript, _ := cmd.Flags().GetBool("transcript")
	onlyArticle, _ := cmd.Flags().GetBool("article")
	audioPath, _ := cmd.Flags().GetString("save-audio")

	a := openApp(cmd.Context())
	defer a.Close()

	sess, err := a.ws.SelectSession(cmd.Context(), args[0])
	if err != nil {
		exitErr("show", err)
	}

	if audioPath != "" {
		if len(sess.Audio) == 0 {
			exitErr("save audio", fmt.Errorf("session %s has no audio", sess.ID))
		}
		if err := os.WriteFile(audioPath, sess.Audio, 0o644); err != nil {
			exitErr("save audio", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %d bytes (%s) to %s\n", len(sess.Audio), sess.AudioMIME, audioPath)
	}

	switch {
	case onlyTranscript:
		fmt.Println(sess.Transcript)
	case onlyArticle:
		if !sess.HasArticle() {
			exitErr("show", fmt.Errorf("session %s has no article", sess.ID))
		}
		fmt.Println(sess.Article)
	case textOutput():
		fmt.Print(renderSession(sess))
		fmt.Println()
		if sess.HasArticle() {
			fmt.Println(sess.Article)
		} else {
			fmt.Println(sess.Transcript)
		}
	default:
		sess.Audio = nil
		printJSON(sess)
	}
}
