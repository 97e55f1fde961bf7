package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/record-and-post/internal/genai"
	"github.com/rcliao/record-and-post/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "article <id>",
		Short: "Generate an article and header image from a session transcript",
		Long: `Draft a markdown article from the transcript, then derive a header image.
Both replace any previous article and image. On failure nothing is changed.`,
		Args: cobra.ExactArgs(1),
		Run:  runArticle,
	}

	cmd.Flags().String("style", "", "Professional, Casual or Technical")
	cmd.Flags().String("tone", "", "Formal, Friendly or Direct")
	cmd.Flags().String("length", "", "Short, Medium or Long")
	cmd.Flags().String("audience", "", "General, Experts or Beginners")

	RootCmd.AddCommand(cmd)
}

func runArticle(cmd *cobra.Command, args []string) {
	style, _ := cmd.Flags().GetString("style")
	tone, _ := cmd.Flags().GetString("tone")
	length, _ := cmd.Flags().GetString("length")
	audience, _ := cmd.Flags().GetString("audience")

	cfg, err := model.ParseArticleConfig(style, tone, length, audience)
	if err != nil {
		exitErr("article config", err)
	}

	a := openApp(cmd.Context())
	defer a.Close()

	if stdoutIsTerminal() {
		fmt.Fprintln(os.Stderr, labelStyle.Render("Generating article..."))
	}
	sess, err := a.ws.GenerateArticle(cmd.Context(), args[0], cfg)
	if errors.Is(err, genai.ErrConfiguration) {
		exitErr("article", fmt.Errorf("%w (set GEMINI_API_KEY)", err))
	}
	if err != nil {
		exitErr("article", err)
	}

	if textOutput() {
		fmt.Print(renderSession(sess))
		fmt.Println()
		fmt.Println(sess.Article)
		return
	}
	sess.Audio = nil
	printJSON(sess)
}
