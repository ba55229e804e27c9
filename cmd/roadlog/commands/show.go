package commands

import (
	"context"
	"fmt"

	"github.com/dyluth/roadlog/internal/printer"
	"github.com/dyluth/roadlog/internal/report"
	"github.com/dyluth/roadlog/internal/resolver"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one obstacle as JSON",
	Long: `Show the complete record of one obstacle as pretty-printed JSON.

The ID may be shortened to its last digits (at least 4) when they are unique.

Examples:
  roadlog show 1718000001234
  roadlog show 1234`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	id, err := resolveObstacleID(ctx, s, args[0])
	if err != nil {
		return err
	}

	if err := report.ShowObstacle(ctx, s.store, id, printer.Out()); err != nil {
		if report.IsNotFound(err) {
			return printer.Error(err.Error(), "The obstacle was removed while it was being read.", nil)
		}
		return fmt.Errorf("failed to show obstacle: %w", err)
	}
	return nil
}

// resolveObstacleID turns a full or shortened ID into a full one, printing a formatted error if it can't.
func resolveObstacleID(ctx context.Context, s *session, ref string) (string, error) {
	id, err := resolver.ResolveObstacleID(s.store.List(ctx), ref)
	if err == nil {
		return id, nil
	}

	if resolver.IsAmbiguousError(err) {
		printer.Printf("%s\n", resolver.FormatAmbiguousError(err.(*resolver.AmbiguousError)))
		return "", fmt.Errorf("ambiguous short ID")
	}
	return "", printer.Error(
		fmt.Sprintf("obstacle '%s' not found", ref),
		"No recorded obstacle has this ID.",
		[]string{"List recorded obstacles:\n  roadlog list"},
	)
}
