package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dyluth/roadlog/internal/config"
	"github.com/dyluth/roadlog/internal/printer"
	"github.com/dyluth/roadlog/internal/watch"
	"github.com/spf13/cobra"
)

var watchOutputFormat string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream obstacle changes as they happen",
	Long: `Stream obstacle creations, edits and removals made by any roadlog
process sharing the same Redis backend and namespace.

Output Formats:
  default - Human-readable output with timestamps and emojis
  json    - Line-delimited JSON events for programmatic processing

Examples:
  roadlog watch
  roadlog watch --output=json > events.jsonl`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutputFormat, "output", "o", "default", "Output format (default or json)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	var outputFormat watch.OutputFormat
	switch watchOutputFormat {
	case "default":
		outputFormat = watch.OutputFormatDefault
	case "json":
		outputFormat = watch.OutputFormatJSON
	default:
		return printer.Error(
			"invalid output format",
			fmt.Sprintf("Unknown format: %s", watchOutputFormat),
			[]string{"Valid formats: default, json"},
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.backend.Redis == nil {
		return printer.Error(
			"watch requires the redis backend",
			fmt.Sprintf("The %s backend does not publish change events.", s.cfg.Storage.Backend),
			[]string{fmt.Sprintf("Set storage.backend to %q in %s", config.BackendRedis, configPath)},
		)
	}

	sub, err := s.backend.Redis.Subscribe(ctx)
	if err != nil {
		return printer.Error("subscription failed", err.Error(), nil)
	}
	defer sub.Close()

	if outputFormat == watch.OutputFormatDefault {
		printer.Step("Watching obstacle changes (Ctrl+C to stop)\n")
	}
	return watch.StreamEvents(ctx, sub, outputFormat, printer.Out(), s.logger)
}
