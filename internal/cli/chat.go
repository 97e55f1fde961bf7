package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "chat <id>",
		Short: "Ask questions about a session transcript",
		Long: `Ask questions about a transcript. With --message each message is sent in
order and the replies printed; otherwise questions are read from stdin, one
per line. The conversation is not saved.`,
		Args: cobra.ExactArgs(1),
		Run:  runChat,
	}

	cmd.Flags().StringArrayP("message", "m", nil, "Message to send (repeatable)")

	RootCmd.AddCommand(cmd)
}

func runChat(cmd *cobra.Command, args []string) {
	messages, _ := cmd.Flags().GetStringArray("message")
	ctx := cmd.Context()

	a := openApp(ctx)
	defer a.Close()

	chat, err := a.ws.OpenChat(ctx, args[0])
	if err != nil {
		exitErr("chat", err)
	}

	if len(messages) > 0 {
		for _, m := range messages {
			reply, ok := chat.Send(ctx, m)
			if ok && textOutput() {
				fmt.Println(reply)
			}
		}
		if !textOutput() {
			printJSON(chat.History())
		}
		return
	}

	if stdinIsTerminal() {
		fmt.Fprintln(os.Stderr, labelStyle.Render("Ask about this session. Ctrl-D to quit."))
	}
	prompt("> ")
	for line := range readLines(ctx, os.Stdin) {
		if reply, ok := chat.Send(ctx, line); ok {
			fmt.Println(modelTurnStyle.Render(reply))
		}
		prompt("> ")
	}
}
