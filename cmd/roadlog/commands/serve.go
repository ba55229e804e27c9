package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dyluth/roadlog/internal/api"
	"github.com/dyluth/roadlog/internal/printer"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the obstacle log over HTTP",
	Long: `Serve the obstacle log and the emergency numbers as a JSON HTTP API.

Routes:
  GET    /health
  GET    /obstacles          (?name=GLOB&since=T&until=T&near=LAT,LON&radius_km=R)
  GET    /obstacles/{id}
  POST   /obstacles          {"name": ..., "description": ..., "latitude": ..., "longitude": ...}
  PUT    /obstacles/{id}
  DELETE /obstacles/{id}
  GET    /contacts

The listen address defaults to server.addr in roadlog.yml (":8080").`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx, cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	addr := s.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(s.store, s.cfg.Contacts, s.locator(), s.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("Serving obstacle API", zap.String("addr", addr))
	printer.Step("Listening on %s (Ctrl+C to stop)\n", addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return printer.Error("server failed", err.Error(), []string{"Choose another address with --addr"})
		}
		return nil
	case <-ctx.Done():
	}

	printer.Info("Shutting down gracefully...\n")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
