package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/dlg1206/pydb/internal/infrastructure/logging"
	"github.com/dlg1206/pydb/internal/store"
)

// Store configuration constants.
const (
	// storeExtension is appended to the store path when missing.
	storeExtension = ".db"

	// dirPermissions is the permission mode for the store directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for the store file.
	filePermissions = 0600

	// msPerSecond converts seconds to milliseconds.
	msPerSecond = 1000

	// connectionTimeout is the timeout for verifying store connectivity.
	connectionTimeout = 5 * time.Second

	// connMaxIdleTime is how long idle connections are kept open.
	connMaxIdleTime = 30 * time.Minute
)

// Config contains SQLite store configuration options.
// These map to the database section of config.yaml.
type Config struct {
	// Path is the filesystem path to the SQLite store file.
	// The ".db" extension is appended if missing; the directory is created
	// if it doesn't exist.
	Path string

	// SchemaDir is an optional directory of DDL scripts. When the store file
	// is being created (first open or forced rebuild) every *.sql file under
	// it, recursively, is executed in lexicographic path order. Empty means
	// deferred schema: an empty store file is created.
	SchemaDir string

	// SchemaFS optionally supplies the DDL scripts as a filesystem (for
	// example an embed.FS compiled into the binary). Takes precedence over
	// SchemaDir.
	SchemaFS fs.FS

	// ForceRebuild deletes an existing store file and rebuilds it from the
	// schema source.
	ForceRebuild bool

	// WALMode enables Write-Ahead Logging for better concurrent access.
	WALMode bool

	// BusyTimeout is the maximum time to wait for a database lock (seconds).
	BusyTimeout int
}

// Store is the file-backed SQLite variant of the CRUD adapter.
type Store struct {
	*store.Store
	path string
}

// Path returns the filesystem path to the store file.
func (s *Store) Path() string {
	return s.path
}

// Open creates a SQLite-backed store with the specified configuration.
//
// If the store file already exists and rebuild is not forced it is used as
// is and the schema source is ignored. Otherwise the file is (re)created
// and, when a schema source is configured, bootstrapped from it; a failed
// bootstrap removes the partially created file so no ambiguous empty store
// is left behind.
//
// Every connection carries the foreign-key pragma and busy timeout via the
// DSN, so the settings apply across the whole pool.
//
// Parameters:
//   - ctx: Context for connection verification and schema bootstrap
//   - cfg: Store configuration
//   - log: Logger (nil discards)
//
// Returns:
//   - *Store: Connected store ready for use
//   - error: store.ErrSchemaBootstrap on schema problems, otherwise the
//     underlying open/connect error
func Open(ctx context.Context, cfg Config, log *logging.Logger) (*Store, error) {
	if log == nil {
		log = logging.Discard()
	}

	path := cfg.Path
	if !strings.HasSuffix(path, storeExtension) {
		path += storeExtension
	}

	_, statErr := os.Stat(path)
	exists := statErr == nil

	var schemaFS fs.FS
	if exists && !cfg.ForceRebuild {
		log.Debug("using existing store", "path", path)
	} else {
		var err error
		schemaFS, err = resolveSchemaSource(cfg)
		if err != nil {
			return nil, err
		}

		if cfg.ForceRebuild && exists {
			log.Warn("force rebuilding store", "path", path)
			if err := os.Remove(path); err != nil {
				return nil, fmt.Errorf("removing existing store: %w", err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	// Build connection string with pragmas
	// See: https://github.com/mattn/go-sqlite3#connection-string
	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_foreign_keys=on",
		path,
		cfg.BusyTimeout*msPerSecond,
	)
	if cfg.WALMode {
		connStr += "&_journal_mode=WAL&_synchronous=NORMAL"
	}

	sqlDB, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	// SQLite works best with a single writer, but multiple readers
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close() //nolint:errcheck // Best effort cleanup on error path
		if !exists {
			os.Remove(path) //nolint:errcheck // Best effort cleanup on error path
		}
		return nil, fmt.Errorf("verifying store connection: %w", err)
	}

	if schemaFS != nil {
		if err := applySchema(ctx, sqlDB, schemaFS, log); err != nil {
			sqlDB.Close()   //nolint:errcheck // Best effort cleanup on error path
			os.Remove(path) //nolint:errcheck // A half-built store must not survive
			return nil, err
		}
		log.Debug("store created", "path", path)
	}

	// Set file permissions (owner read/write only)
	_ = os.Chmod(path, filePermissions) //nolint:errcheck // Intentional: best effort

	return &Store{
		Store: store.New(sqlDB, Dialect{}, log),
		path:  path,
	}, nil
}

// resolveSchemaSource picks the configured schema filesystem, or nil for
// deferred schema. A configured directory that is missing or not a directory
// aborts construction.
func resolveSchemaSource(cfg Config) (fs.FS, error) {
	if cfg.SchemaFS != nil {
		return cfg.SchemaFS, nil
	}
	if cfg.SchemaDir == "" {
		return nil, nil
	}

	info, err := os.Stat(cfg.SchemaDir)
	if err != nil {
		return nil, fmt.Errorf("%w: schema directory %q: %w", store.ErrSchemaBootstrap, cfg.SchemaDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %q is not a directory", store.ErrSchemaBootstrap, cfg.SchemaDir)
	}
	return os.DirFS(cfg.SchemaDir), nil
}

// HealthCheck verifies the store is accessible and functioning.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//
// Returns:
//   - error: nil if healthy, error describing the issue otherwise
func (s *Store) HealthCheck(ctx context.Context) error {
	var result int
	if err := s.DB().QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("store health check failed: %w", err)
	}
	return nil
}
