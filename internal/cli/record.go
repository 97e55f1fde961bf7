package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcliao/record-and-post/internal/capture"
	"github.com/rcliao/record-and-post/internal/recorder"
)

func init() {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a new session",
		Long: `Record audio from the capture device into a new session.

When audio comes from a file or device node, stdin takes commands:
  p  pause    r  resume    s  stop and save    (empty line) status
When audio comes from stdin ("-"), recording runs until the stream ends or
Ctrl-C is pressed.`,
		Run: runRecord,
	}

	cmd.Flags().String("device", "", "Audio source path, - for stdin (default from config)")
	cmd.Flags().String("feed", "", "NDJSON transcript event source (default from config)")
	cmd.Flags().StringSlice("formats", nil, "MIME types the device produces (default from config)")

	RootCmd.AddCommand(cmd)
}

func runRecord(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	a := openApp(ctx)
	defer a.Close()

	device := &capture.FileDevice{Path: a.cfg.Capture.Device, Formats: a.cfg.Capture.Formats}
	if v, _ := cmd.Flags().GetString("device"); v != "" {
		device.Path = v
	}
	if v, _ := cmd.Flags().GetStringSlice("formats"); len(v) > 0 {
		device.Formats = v
	}

	opts := recorder.Options{Logger: a.log}
	feedPath := a.cfg.Capture.TranscriptFeed
	if v, _ := cmd.Flags().GetString("feed"); v != "" {
		feedPath = v
	}
	if feedPath != "" {
		opts.Feed = capture.NewFileFeed(feedPath)
	}

	ctrl := recorder.New(device, opts)
	if err := ctrl.Start(ctx); err != nil {
		var capErr *capture.Error
		if errors.As(err, &capErr) {
			fmt.Fprintln(os.Stderr, errorStyle.Render(capErr.Error()))
			os.Exit(1)
		}
		exitErr("start recording", err)
	}

	if device.Path == "-" {
		waitForStream(ctx, ctrl)
	} else {
		controlLoop(ctx, ctrl)
	}

	capt, err := ctrl.Stop()
	if err != nil {
		exitErr("stop recording", err)
	}

	// The command context may already be cancelled by Ctrl-C.
	sess, err := a.ws.FinishRecording(context.WithoutCancel(ctx), capt)
	if err != nil {
		exitErr("save session", err)
	}

	if textOutput() {
		fmt.Print(renderSession(sess))
		fmt.Println()
		fmt.Println(sess.Transcript)
		return
	}
	sess.Audio = nil
	printJSON(sess)
}

// waitForStream records until the source ends or the context is cancelled.
func waitForStream(ctx context.Context, ctrl *recorder.Controller) {
	select {
	case <-ctrl.StreamEnded():
	case <-ctx.Done():
	}
}

// controlLoop reads p/r/s commands from stdin and shows a live status line
// while recording. It returns when the user stops, stdin ends, the source
// runs out or the context is cancelled.
func controlLoop(ctx context.Context, ctrl *recorder.Controller) {
	lines := readLines(ctx, os.Stdin)
	live := stdoutIsTerminal()

	var tick <-chan time.Time
	if live {
		t := time.NewTicker(time.Second)
		defer t.Stop()
		tick = t.C
	}

	show := func() {
		if live {
			fmt.Fprintf(os.Stderr, "\r\033[K%s", renderStatus(ctrl.Status()))
			return
		}
		fmt.Fprintln(os.Stderr, renderStatus(ctrl.Status()))
	}
	defer func() {
		if live {
			fmt.Fprintln(os.Stderr)
		}
	}()

	show()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ctrl.StreamEnded():
			return
		case <-tick:
			show()
		case line, ok := <-lines:
			if !ok {
				return
			}
			switch line {
			case "p", "pause":
				if err := ctrl.Pause(); err != nil {
					fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
				}
			case "r", "resume":
				if err := ctrl.Resume(); err != nil {
					fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
				}
			case "s", "stop", "q":
				return
			case "", "status":
			default:
				fmt.Fprintln(os.Stderr, "commands: p (pause), r (resume), s (stop)")
			}
			show()
		}
	}
}
