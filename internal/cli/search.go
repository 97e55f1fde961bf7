package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/record-and-post/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search sessions by keyword",
		Long:  "Search session titles, transcripts and articles for matching text.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().IntP("limit", "l", 20, "Max results")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	a := openApp(cmd.Context())
	defer a.Close()

	sessions, err := a.store.Search(cmd.Context(), store.SearchParams{
		Query:     query,
		Limit:     limit,
		OmitAudio: true,
	})
	if err != nil {
		exitErr("search", err)
	}

	if textOutput() {
		for i := range sessions {
			fmt.Println(renderSessionLine(&sessions[i]))
		}
		return
	}
	if sessions == nil {
		fmt.Println("[]")
		return
	}
	printJSON(sessions)
}
