// Package cli implements the recpost CLI commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/record-and-post/internal/config"
	"github.com/rcliao/record-and-post/internal/genai"
	"github.com/rcliao/record-and-post/internal/localmodel"
	"github.com/rcliao/record-and-post/internal/logging"
	"github.com/rcliao/record-and-post/internal/store"
	"github.com/rcliao/record-and-post/internal/workspace"
)

var (
	dbPath     string
	configPath string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "recpost",
	Short: "Record voice memos and turn them into posts",
	Long:  "Capture audio with a live transcript, keep sessions in SQLite, and draft articles, header images and Q&A with a hosted AI model.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $RECPOST_DB or ~/.recpost/recpost.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $RECPOST_CONFIG or ~/.recpost/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

// app is everything a command needs, built once per invocation.
type app struct {
	cfg     *config.Config
	log     logging.Logger
	logFile io.Closer
	store   *store.SQLiteStore
	ws      *workspace.Workspace
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg
}

func openApp(ctx context.Context) *app {
	cfg := loadConfig()
	out, logFile := logging.Output(os.Stderr, cfg.Log.File)
	log := logging.New(out, cfg.Log.Level, cfg.Log.Format)

	s, err := store.NewSQLiteStore(ctx, cfg.DBPath)
	if err != nil {
		exitErr("open store", err)
	}

	provider := &genai.Router{
		Gemini:    genai.NewGemini(cfg.Gemini.APIKey, cfg.Gemini.BaseURL, cfg.Gemini.Timeout),
		Anthropic: genai.NewAnthropic(cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL, cfg.Anthropic.MaxTokens),
	}
	ws := workspace.New(s, genai.NewGateway(provider, log), workspace.Options{Logger: log})
	if err := ws.Open(ctx); err != nil {
		s.Close()
		exitErr("open workspace", err)
	}

	log.Debug(ctx, "app ready", "db", cfg.DBPath)
	return &app{cfg: cfg, log: log, logFile: logFile, store: s, ws: ws}
}

func (a *app) registry(ctx context.Context) *localmodel.Registry {
	r, err := localmodel.NewRegistry(ctx, a.store, a.ws, localmodel.Options{
		Tick:   a.cfg.Models.DownloadTick,
		Logger: a.log,
	})
	if err != nil {
		exitErr("load models", err)
	}
	return r
}

func (a *app) Close() {
	a.store.Close()
	a.logFile.Close()
}

func textOutput() bool {
	return formatFlag == "text"
}

func mustJSON(v any) []byte {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		exitErr("encode json", err)
	}
	return b
}

func printJSON(v any) {
	fmt.Println(string(mustJSON(v)))
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
