package commands

import (
	"context"
	"fmt"

	"github.com/dyluth/roadlog/internal/config"
	"github.com/dyluth/roadlog/internal/geo"
	"github.com/dyluth/roadlog/internal/kvstore"
	"github.com/dyluth/roadlog/internal/logging"
	"github.com/dyluth/roadlog/internal/printer"
	"github.com/dyluth/roadlog/pkg/obstacle"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	version string
	commit  string
	date    string

	configPath string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "roadlog",
	Short: "Roadlog - record obstacles along your route",
	Long: `Roadlog keeps a log of road obstacles (potholes, roadworks, floods...)
tagged with the position they were recorded at, and a directory of
emergency numbers.

Obstacles are stored on the device (SQLite by default) or in Redis
when several devices share one log.`,
	Version: version,
	// Show help instead of silently succeeding when no subcommand is given
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to roadlog.yml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// session is what every store-backed command needs: configuration, logger, the opened
// backend and a store on top of it. Close releases the backend.
type session struct {
	cfg     *config.RoadlogConfig
	logger  *zap.Logger
	backend *kvstore.Backend
	store   *obstacle.Store
}

func openSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Level, verbose)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	backend, err := kvstore.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Sync()
		return nil, printer.ErrorWithContext(
			"storage unavailable",
			fmt.Sprintf("Could not open the %s backend: %v", cfg.Storage.Backend, err),
			storageContext(cfg.Storage),
			[]string{
				fmt.Sprintf("Check the storage section of %s", configPath),
				"Use the sqlite backend for a single device",
			},
		)
	}

	store, err := obstacle.NewStore(backend.KV,
		obstacle.WithKey(obstacle.StorageKey(cfg.Storage.Namespace)),
		obstacle.WithLogger(logger),
		obstacle.WithPublisher(backend.Publisher()),
	)
	if err != nil {
		backend.Close()
		logger.Sync()
		return nil, fmt.Errorf("failed to create obstacle store: %w", err)
	}

	logger.Debug("Opened obstacle store",
		zap.String("backend", cfg.Storage.Backend),
		zap.String("key", store.Key()))

	return &session{cfg: cfg, logger: logger, backend: backend, store: store}, nil
}

func (s *session) Close() {
	if err := s.backend.Close(); err != nil {
		s.logger.Warn("Failed to close storage", zap.Error(err))
	}
	s.logger.Sync()
}

// locator returns the configured position source, or nil when none is configured.
func (s *session) locator() geo.Locator {
	return geo.FromConfig(s.cfg.Location)
}

// loadConfig reads --config. A missing default file means built-in defaults;
// an explicitly named file must exist.
func loadConfig(cmd *cobra.Command) (*config.RoadlogConfig, error) {
	var (
		cfg *config.RoadlogConfig
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadOrDefault(configPath)
	}
	if err != nil {
		return nil, printer.Error(
			"failed to load configuration",
			err.Error(),
			[]string{fmt.Sprintf("Fix or remove %s", configPath)},
		)
	}
	return cfg, nil
}

func storageContext(s config.StorageConfig) map[string]string {
	ctx := map[string]string{"Backend": s.Backend}
	switch s.Backend {
	case config.BackendSQLite:
		ctx["Path"] = s.Path
	case config.BackendRedis:
		ctx["Redis URL"] = s.RedisURL
	}
	if s.Namespace != "" {
		ctx["Namespace"] = s.Namespace
	}
	return ctx
}
