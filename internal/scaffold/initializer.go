package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/dyluth/roadlog/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

// Options selects what the generated roadlog.yml contains.
type Options struct {
	Backend string // sqlite, redis or memory
}

// Initialize writes a commented roadlog.yml to path.
// If force is true, an existing file is replaced.
func Initialize(path string, opts Options, force bool) error {
	if opts.Backend == "" {
		opts.Backend = config.BackendSQLite
	}
	switch opts.Backend {
	case config.BackendSQLite, config.BackendRedis, config.BackendMemory:
	default:
		return fmt.Errorf("invalid backend: %s (must be 'sqlite', 'redis', or 'memory')", opts.Backend)
	}

	if force {
		if err := handleForce(path); err != nil {
			return err
		}
	} else if err := CheckExisting(path); err != nil {
		return err
	}

	content, err := renderConfig(opts)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return validateCreatedFile(path)
}

// handleForce removes an existing config file if --force was specified
func handleForce(path string) error {
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("⚠️  Removing existing %s...\n", path)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

func renderConfig(opts Options) ([]byte, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/roadlog.yml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to read roadlog.yml template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, opts); err != nil {
		return nil, fmt.Errorf("failed to render roadlog.yml template: %w", err)
	}
	return buf.Bytes(), nil
}

// validateCreatedFile loads the written file through the same path the CLI uses.
func validateCreatedFile(path string) error {
	if _, err := config.Load(path); err != nil {
		return fmt.Errorf("created %s is not a valid configuration: %w", path, err)
	}
	return nil
}
