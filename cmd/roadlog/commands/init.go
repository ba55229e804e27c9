package commands

import (
	"fmt"

	"github.com/dyluth/roadlog/internal/printer"
	"github.com/dyluth/roadlog/internal/scaffold"
	"github.com/spf13/cobra"
)

var (
	forceInit   bool
	initBackend string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a roadlog.yml",
	Long: `Create a commented roadlog.yml at the --config path.

Use --backend to choose where obstacles are stored (sqlite, redis or memory).
Use --force to overwrite an existing file.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing roadlog.yml")
	initCmd.Flags().StringVar(&initBackend, "backend", "sqlite", "Storage backend: sqlite, redis or memory")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if !forceInit {
		if err := scaffold.CheckExisting(configPath); err != nil {
			return err
		}
	}

	if err := scaffold.Initialize(configPath, scaffold.Options{Backend: initBackend}, forceInit); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	printer.Success("Created %s\n", configPath)
	printer.Info("\nNext steps:\n")
	printer.Info("  1. Set a location source in %s\n", configPath)
	printer.Info("  2. Record an obstacle: roadlog add Pothole -d \"Deep hole\"\n")
	return nil
}
