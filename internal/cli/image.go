package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/record-and-post/internal/workspace"
)

func init() {
	cmd := &cobra.Command{
		Use:   "image <id>",
		Short: "Regenerate a session's header image",
		Long:  "Regenerate the header image from a custom prompt, or from the title and article when no prompt is given.",
		Args:  cobra.ExactArgs(1),
		Run:   runImage,
	}

	cmd.Flags().StringP("prompt", "p", "", "Custom image description")

	RootCmd.AddCommand(cmd)
}

func runImage(cmd *cobra.Command, args []string) {
	customPrompt, _ := cmd.Flags().GetString("prompt")

	a := openApp(cmd.Context())
	defer a.Close()

	sess, err := a.ws.RegenerateImage(cmd.Context(), args[0], customPrompt)
	if errors.Is(err, workspace.ErrNoImage) {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Could not generate image. Try a different prompt."))
		os.Exit(1)
	}
	if err != nil {
		exitErr("image", err)
	}

	if textOutput() {
		fmt.Println(sess.ImageURL)
		return
	}
	fmt.Printf(`{"ok":true,"id":%q,"image_url":%q}`+"\n", sess.ID, sess.ImageURL)
}
