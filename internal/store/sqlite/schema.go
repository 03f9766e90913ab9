package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/dlg1206/pydb/internal/infrastructure/logging"
	"github.com/dlg1206/pydb/internal/store"
)

// applySchema executes every *.sql script in fsys against db.
//
// Scripts are collected recursively and applied in lexicographic path order
// so that interdependent DDL (foreign keys) behaves the same on every
// platform, rather than depending on filesystem traversal order. Each file
// may contain multiple statements; the driver executes them as a batch.
func applySchema(ctx context.Context, db *sql.DB, fsys fs.FS, log *logging.Logger) error {
	var scripts []string
	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".sql") {
			return nil
		}
		scripts = append(scripts, path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: walking schema scripts: %w", store.ErrSchemaBootstrap, err)
	}

	sort.Strings(scripts)

	for script := range logging.Progress(log, scripts, "applying schema", "scripts") {
		data, err := fs.ReadFile(fsys, script)
		if err != nil {
			return fmt.Errorf("%w: reading %s: %w", store.ErrSchemaBootstrap, script, err)
		}
		if _, err := db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("%w: executing %s: %w", store.ErrSchemaBootstrap, script, err)
		}
		log.Debug("schema script applied", "script", script)
	}
	return nil
}
