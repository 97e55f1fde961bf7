package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/record-and-post/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import sessions from JSON",
		Long:  "Import sessions from JSON (stdin or file). Expects the format produced by export. Existing ids are replaced.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var path string
	if len(args) == 1 {
		path = args[0]
	}
	data, err := readInput(path)
	if err != nil {
		exitErr("read input", err)
	}

	var sessions []model.Session
	if err := json.Unmarshal([]byte(data), &sessions); err != nil {
		exitErr("parse json", err)
	}

	a := openApp(cmd.Context())
	defer a.Close()

	imported, err := a.store.Import(cmd.Context(), sessions)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", imported)
}
