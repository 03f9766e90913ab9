package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/dlg1206/pydb/internal/store"
)

const (
	tableUsers  store.Table = "users"
	tableOrders store.Table = "orders"
)

const usersDDL = `
	CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);
`

const ordersDDL = `
	CREATE TABLE orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL REFERENCES users(id),
		item TEXT NOT NULL
	);
`

// writeSchemaDir lays out DDL scripts in a fresh temp directory.
func writeSchemaDir(t *testing.T, scripts map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, ddl := range scripts {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatalf("creating schema subdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(ddl), 0600); err != nil {
			t.Fatalf("writing schema script: %v", err)
		}
	}
	return dir
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("creates store file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		s, err := Open(ctx, Config{Path: dbPath, BusyTimeout: 5}, nil)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close() //nolint:errcheck // Test cleanup

		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			t.Error("store file was not created")
		}
	})

	t.Run("appends db extension", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "test")

		s, err := Open(ctx, Config{Path: base, BusyTimeout: 5}, nil)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close() //nolint:errcheck // Test cleanup

		if s.Path() != base+".db" {
			t.Errorf("Path() = %q, want %q", s.Path(), base+".db")
		}
		if _, err := os.Stat(base + ".db"); os.IsNotExist(err) {
			t.Error("store file with .db extension was not created")
		}
	})

	t.Run("creates directory if not exists", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "subdir", "nested", "test.db")

		s, err := Open(ctx, Config{Path: dbPath, BusyTimeout: 5}, nil)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close() //nolint:errcheck // Test cleanup

		if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
			t.Error("store directory was not created")
		}
	})

	t.Run("reuses existing file without schema", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		schemaDir := writeSchemaDir(t, map[string]string{"001_users.sql": usersDDL})

		s, err := Open(ctx, Config{Path: dbPath, SchemaDir: schemaDir, BusyTimeout: 5}, nil)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if _, err := s.Insert(ctx, tableUsers, []store.ColumnValue{{Column: "name", Value: "alice"}}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}

		// Second open must keep the data even though no schema dir is given.
		s2, err := Open(ctx, Config{Path: dbPath, BusyTimeout: 5}, nil)
		if err != nil {
			t.Fatalf("reopen error = %v", err)
		}
		defer s2.Close() //nolint:errcheck // Test cleanup

		rows, err := s2.Select(ctx, tableUsers, []string{"name"}, nil, true)
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if len(rows) != 1 || rows[0][0] != "alice" {
			t.Errorf("rows = %v, want existing alice row", rows)
		}
	})
}

func TestOpen_SchemaBootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("applies scripts and tables query empty", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		schemaDir := writeSchemaDir(t, map[string]string{
			"001_users.sql":  usersDDL,
			"002_orders.sql": ordersDDL,
		})

		s, err := Open(ctx, Config{Path: dbPath, SchemaDir: schemaDir, BusyTimeout: 5}, nil)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close() //nolint:errcheck // Test cleanup

		for _, table := range []store.Table{tableUsers, tableOrders} {
			rows, err := s.Select(ctx, table, nil, nil, true)
			if err != nil {
				t.Fatalf("Select(%s) error = %v", table, err)
			}
			if len(rows) != 0 {
				t.Errorf("Select(%s) = %d rows, want 0", table, len(rows))
			}
		}
	})

	t.Run("recursive collection in lexicographic order", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		// The orders table references users; only lexicographic application
		// order makes this valid, since the users script sits in a
		// subdirectory that a naive traversal could visit last.
		schemaDir := writeSchemaDir(t, map[string]string{
			filepath.Join("00_base", "users.sql"): usersDDL,
			"10_orders.sql":                       ordersDDL,
		})

		s, err := Open(ctx, Config{Path: dbPath, SchemaDir: schemaDir, BusyTimeout: 5}, nil)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close() //nolint:errcheck // Test cleanup
	})

	t.Run("ignores non-sql files", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		schemaDir := writeSchemaDir(t, map[string]string{
			"001_users.sql": usersDDL,
			"README.md":     "# not sql",
		})

		s, err := Open(ctx, Config{Path: dbPath, SchemaDir: schemaDir, BusyTimeout: 5}, nil)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close() //nolint:errcheck // Test cleanup
	})

	t.Run("missing schema dir fails without leaving a file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")

		_, err := Open(ctx, Config{
			Path:      dbPath,
			SchemaDir: filepath.Join(t.TempDir(), "does-not-exist"),
		}, nil)
		if !errors.Is(err, store.ErrSchemaBootstrap) {
			t.Fatalf("Open() error = %v, want ErrSchemaBootstrap", err)
		}

		if _, statErr := os.Stat(dbPath); !os.IsNotExist(statErr) {
			t.Error("partial store file left on disk after failed bootstrap")
		}
	})

	t.Run("schema path that is a file fails", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		notADir := filepath.Join(t.TempDir(), "schema.sql")
		if err := os.WriteFile(notADir, []byte(usersDDL), 0600); err != nil {
			t.Fatalf("writing file: %v", err)
		}

		_, err := Open(ctx, Config{Path: dbPath, SchemaDir: notADir}, nil)
		if !errors.Is(err, store.ErrSchemaBootstrap) {
			t.Errorf("Open() error = %v, want ErrSchemaBootstrap", err)
		}
	})

	t.Run("broken script fails and removes partial file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		schemaDir := writeSchemaDir(t, map[string]string{
			"001_users.sql": usersDDL,
			"002_bad.sql":   "CREATE TABLE broken (;",
		})

		_, err := Open(ctx, Config{Path: dbPath, SchemaDir: schemaDir, BusyTimeout: 5}, nil)
		if !errors.Is(err, store.ErrSchemaBootstrap) {
			t.Fatalf("Open() error = %v, want ErrSchemaBootstrap", err)
		}

		if _, statErr := os.Stat(dbPath); !os.IsNotExist(statErr) {
			t.Error("partial store file left on disk after failed bootstrap")
		}
	})

	t.Run("embedded filesystem source", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "test.db")
		schemaFS := fstest.MapFS{
			"001_users.sql": &fstest.MapFile{Data: []byte(usersDDL)},
		}

		s, err := Open(ctx, Config{Path: dbPath, SchemaFS: schemaFS, BusyTimeout: 5}, nil)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close() //nolint:errcheck // Test cleanup

		rows, err := s.Select(ctx, tableUsers, nil, nil, true)
		if err != nil {
			t.Fatalf("Select() error = %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("got %d rows, want 0", len(rows))
		}
	})
}

func TestOpen_ForceRebuild(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	schemaDir := writeSchemaDir(t, map[string]string{"001_users.sql": usersDDL})

	s, err := Open(ctx, Config{Path: dbPath, SchemaDir: schemaDir, BusyTimeout: 5}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := s.Insert(ctx, tableUsers, []store.ColumnValue{{Column: "name", Value: "alice"}}); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	rebuilt, err := Open(ctx, Config{
		Path:         dbPath,
		SchemaDir:    schemaDir,
		ForceRebuild: true,
		BusyTimeout:  5,
	}, nil)
	if err != nil {
		t.Fatalf("Open() rebuild error = %v", err)
	}
	defer rebuilt.Close() //nolint:errcheck // Test cleanup

	rows, err := rebuilt.Select(ctx, tableUsers, nil, nil, true)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows after rebuild, want 0", len(rows))
	}
}

func TestOpen_ForeignKeysEnforced(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	schemaDir := writeSchemaDir(t, map[string]string{
		"001_users.sql":  usersDDL,
		"002_orders.sql": ordersDDL,
	})

	s, err := Open(ctx, Config{Path: dbPath, SchemaDir: schemaDir, BusyTimeout: 5}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close() //nolint:errcheck // Test cleanup

	// No user 42 exists, so the pragma must reject this insert.
	_, err = s.Insert(ctx, tableOrders, []store.ColumnValue{
		{Column: "user_id", Value: 42},
		{Column: "item", Value: "widget"},
	})
	if !errors.Is(err, store.ErrOperationFailed) {
		t.Errorf("Insert() error = %v, want ErrOperationFailed from foreign key", err)
	}
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Config{Path: filepath.Join(t.TempDir(), "test.db"), BusyTimeout: 5}, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close() //nolint:errcheck // Test cleanup

	if err := s.HealthCheck(ctx); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}
