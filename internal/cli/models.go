package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage on-device models",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the model catalog",
		Run:   runModelsList,
	}

	download := &cobra.Command{
		Use:   "download <id>",
		Short: "Download a model",
		Args:  cobra.ExactArgs(1),
		Run:   runModelsDownload,
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a downloaded model",
		Args:  cobra.ExactArgs(1),
		Run:   runModelsDelete,
	}

	sel := &cobra.Command{
		Use:   "select <id>",
		Short: "Use a downloaded model",
		Args:  cobra.ExactArgs(1),
		Run:   runModelsSelect,
	}

	cmd.AddCommand(list, download, del, sel)
	RootCmd.AddCommand(cmd)
}

func runModelsList(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()

	models := a.registry(cmd.Context()).List()
	if !textOutput() {
		printJSON(models)
		return
	}
	selected := a.ws.Settings().LocalModelID
	for _, m := range models {
		fmt.Println(renderModel(m, m.ID == selected))
	}
}

func runModelsDownload(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	id := args[0]

	a := openApp(ctx)
	defer a.Close()

	reg := a.registry(ctx)
	done, err := reg.Download(ctx, id)
	if err != nil {
		exitErr("download", err)
	}

	live := stdoutIsTerminal()
	ticker := time.NewTicker(a.cfg.Models.DownloadTick)
	defer ticker.Stop()

wait:
	for {
		select {
		case <-done:
			break wait
		case <-ticker.C:
			if live {
				m, _ := reg.Get(id)
				fmt.Fprintf(os.Stderr, "\r\033[K%s", renderModel(m, false))
			}
		}
	}
	reg.Wait()
	if live {
		fmt.Fprintln(os.Stderr)
	}

	m, err := reg.Get(id)
	if err != nil {
		exitErr("download", err)
	}
	if ctx.Err() != nil {
		exitErr("download", ctx.Err())
	}
	if textOutput() {
		fmt.Println(renderModel(m, false))
		return
	}
	printJSON(m)
}

func runModelsDelete(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()

	if err := a.registry(cmd.Context()).Delete(cmd.Context(), args[0]); err != nil {
		exitErr("delete model", err)
	}
	fmt.Printf(`{"ok":true,"id":%q}`+"\n", args[0])
}

func runModelsSelect(cmd *cobra.Command, args []string) {
	a := openApp(cmd.Context())
	defer a.Close()

	if err := a.registry(cmd.Context()).Select(cmd.Context(), args[0]); err != nil {
		exitErr("select model", err)
	}
	fmt.Printf(`{"ok":true,"local_model_id":%q}`+"\n", args[0])
}
