// pydb - generic CRUD data-access layer
//
// This is the admin entry point for pydb. It opens (and optionally
// bootstraps or rebuilds) the configured SQLite store, verifies it is
// healthy, and reports the tables it contains with their row counts.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dlg1206/pydb/internal/infrastructure/config"
	"github.com/dlg1206/pydb/internal/infrastructure/logging"
	"github.com/dlg1206/pydb/internal/store"
	"github.com/dlg1206/pydb/internal/store/sqlite"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// tableMaster is SQLite's catalogue of schema objects.
const tableMaster store.Table = "sqlite_master"

// options holds the command-line overrides applied on top of the config file.
type options struct {
	configPath string
	schemaDir  string
	rebuild    bool
}

func main() {
	opts := options{}
	flag.StringVar(&opts.configPath, "config", getConfigPath(), "path to the YAML configuration file")
	flag.StringVar(&opts.schemaDir, "schema", "", "DDL directory override for schema bootstrap")
	flag.BoolVar(&opts.rebuild, "rebuild", false, "delete the store file and rebuild it from the schema")
	flag.Parse()

	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context, opts options) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting pydb", "version", version, "commit", commit)

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", opts.configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	schemaDir := cfg.Database.SchemaDir
	if opts.schemaDir != "" {
		schemaDir = opts.schemaDir
	}

	s, err := sqlite.Open(ctx, sqlite.Config{
		Path:         cfg.Database.Path,
		SchemaDir:    schemaDir,
		ForceRebuild: opts.rebuild || cfg.Database.ForceRebuild,
		WALMode:      cfg.Database.WALMode,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}, log)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		log.Info("closing store")
		if closeErr := s.Close(); closeErr != nil {
			log.Error("error closing store", "error", closeErr)
		}
	}()
	log.Info("store opened", "path", s.Path())

	if err := s.HealthCheck(ctx); err != nil {
		return fmt.Errorf("store health check: %w", err)
	}

	return reportTables(ctx, s, log)
}

// reportTables logs every user table in the store with its row count.
func reportTables(ctx context.Context, s *sqlite.Store, log *logging.Logger) error {
	rows, err := s.Select(ctx, tableMaster,
		[]string{"name"},
		[]store.ColumnValue{{Column: "type", Value: "table"}},
		true,
	)
	if err != nil {
		return fmt.Errorf("listing tables: %w", err)
	}

	var tables []store.Table
	for _, row := range rows {
		name, ok := row[0].(string)
		if !ok || name == "" {
			continue
		}
		// Internal bookkeeping tables (sqlite_sequence etc.) are not ours.
		if strings.HasPrefix(name, "sqlite_") {
			continue
		}
		tables = append(tables, store.Table(name))
	}

	if len(tables) == 0 {
		log.Info("store contains no user tables")
		return nil
	}

	for table := range logging.Progress(log, tables, "inspecting tables", "tables") {
		tableRows, err := s.Select(ctx, table, nil, nil, true)
		if err != nil {
			return fmt.Errorf("counting rows in %s: %w", table, err)
		}
		log.Info("table", "name", table, "rows", len(tableRows))
	}
	return nil
}

// getConfigPath returns the config file path from the environment or default.
func getConfigPath() string {
	if path := os.Getenv("PYDB_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
