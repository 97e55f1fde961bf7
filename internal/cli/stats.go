package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()

	stats, err := a.store.Stats(cmd.Context(), a.cfg.DBPath)
	if err != nil {
		exitErr("stats", err)
	}

	if textOutput() {
		fmt.Printf("%s %s (%s)\n", labelStyle.Render("database:"), stats.DBPath, stats.DBSize)
		fmt.Printf("%s %d (%d with article, %d with image)\n", labelStyle.Render("sessions:"),
			stats.Sessions, stats.WithArticle, stats.WithImage)
		fmt.Printf("%s %s\n", labelStyle.Render("recorded:"), formatTotal(stats.TotalSeconds))
		fmt.Printf("%s %s\n", labelStyle.Render("audio:"), stats.AudioSize)
		return
	}
	printJSON(stats)
}

func formatTotal(sec int) string {
	return fmt.Sprintf("%dh%02dm%02ds", sec/3600, sec%3600/60, sec%60)
}
