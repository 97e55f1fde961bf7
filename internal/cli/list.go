package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/record-and-post/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		Run:   runList,
	}

	cmd.Flags().IntP("limit", "l", 0, "Max results (0 for all)")
	cmd.Flags().Bool("ids-only", false, "Only output session ids")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	idsOnly, _ := cmd.Flags().GetBool("ids-only")

	a := openApp(cmd.Context())
	defer a.Close()

	sessions, err := a.store.List(cmd.Context(), store.ListParams{Limit: limit, OmitAudio: true})
	if err != nil {
		exitErr("list", err)
	}

	switch {
	case idsOnly:
		for _, s := range sessions {
			fmt.Println(s.ID)
		}
	case textOutput():
		if len(sessions) == 0 {
			fmt.Println(labelStyle.Render("No recordings yet."))
		}
		for i := range sessions {
			fmt.Println(renderSessionLine(&sessions[i]))
		}
	default:
		if sessions == nil {
			fmt.Println("[]")
			return
		}
		printJSON(sessions)
	}
}
