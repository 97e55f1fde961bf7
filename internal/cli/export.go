package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/record-and-post/internal/article"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Export sessions",
		Long: `Export one session as markdown with YAML frontmatter, or every session as
JSON when no id is given. The JSON form is what import reads back.`,
		Args: cobra.MaximumNArgs(1),
		Run:  runExport,
	}

	cmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	out, _ := cmd.Flags().GetString("out")

	a := openApp(cmd.Context())
	defer a.Close()

	var data []byte
	if len(args) == 1 {
		sess, err := a.store.Get(cmd.Context(), args[0])
		if err != nil {
			exitErr("export", err)
		}
		data, err = article.Export(sess)
		if err != nil {
			exitErr("export", err)
		}
	} else {
		sessions, err := a.store.ExportAll(cmd.Context())
		if err != nil {
			exitErr("export", err)
		}
		if sessions == nil {
			data = []byte("[]\n")
		} else {
			data = append(mustJSON(sessions), '\n')
		}
	}

	if out == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		exitErr("write export", err)
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", out)
}
