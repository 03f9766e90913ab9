package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dlg1206/pydb/internal/infrastructure/logging"
)

// Store executes CRUD operations against a named table using an open
// database/sql handle. Connection pooling and statement execution are
// delegated to the underlying driver; Store owns statement construction and
// transaction discipline.
//
// Thread Safety:
//   - All methods are safe for concurrent use. Each operation acquires its
//     own connection (and transaction, for mutating operations) from the
//     pool and releases it on every exit path.
type Store struct {
	db      *sql.DB
	dialect Dialect
	log     *logging.Logger
}

// New creates a Store over an open database handle.
//
// Parameters:
//   - db: Open connection pool for the target backend
//   - dialect: Backend-specific statement/error behaviour
//   - log: Logger for debug/error records (nil discards)
func New(db *sql.DB, dialect Dialect, log *logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{
		db:      db,
		dialect: dialect,
		log:     log.With("component", "store", "backend", dialect.Name()),
	}
}

// DB exposes the underlying handle for callers that need driver-level
// access (health checks, raw DDL).
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}

// Insert adds one row to table, one bound parameter per value, column order
// preserved. The statement runs in its own transaction, committed on success
// and rolled back on any failure.
//
// A uniqueness violation returns ErrDuplicateEntry; any other execution
// failure returns ErrOperationFailed. Both wrap the driver error.
//
// Returns the backend-assigned autoincrement id, or 0 if the table does not
// use one.
func (s *Store) Insert(ctx context.Context, table Table, values []ColumnValue) (int64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("%w: inserting into %s: no values given", ErrOperationFailed, table)
	}

	query, args := buildInsert(table, values)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: beginning insert transaction: %w", ErrOperationFailed, err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		if s.dialect.IsDuplicate(err) {
			s.log.Debug("duplicate entry", "table", table, "error", err)
			return 0, fmt.Errorf("%w: inserting into %s: %w", ErrDuplicateEntry, table, err)
		}
		return 0, fmt.Errorf("%w: inserting into %s: %w", ErrOperationFailed, table, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: committing insert into %s: %w", ErrOperationFailed, table, err)
	}

	id, _ := result.LastInsertId() //nolint:errcheck // Both supported drivers report last insert id
	s.log.Debug("row inserted", "table", table, "columns", len(values), "id", id)
	return id, nil
}

// Select returns rows from table matching the predicate, in the order the
// backend yields them. An empty or nil columns slice selects *; an empty
// predicate selects every row. When fetchAll is false at most one row is
// returned, which makes existence checks cheap without a separate API.
//
// An empty result set returns an empty slice, never an error. Select is
// read-only and never commits or rolls back.
func (s *Store) Select(ctx context.Context, table Table, columns []string, where []ColumnValue, fetchAll bool) ([]Row, error) {
	query, args := buildSelect(table, columns, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: selecting from %s: %w", ErrOperationFailed, table, err)
	}
	defer rows.Close() //nolint:errcheck // Read-only cleanup

	columnNames, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: reading columns from %s: %w", ErrOperationFailed, table, err)
	}

	results := []Row{}
	for rows.Next() {
		row := make(Row, len(columnNames))
		scanTargets := make([]any, len(columnNames))
		for i := range row {
			scanTargets[i] = &row[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, fmt.Errorf("%w: scanning row from %s: %w", ErrOperationFailed, table, err)
		}
		results = append(results, row)

		if !fetchAll {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating rows from %s: %w", ErrOperationFailed, table, err)
	}
	return results, nil
}

// Update sets the given columns on every row matching the predicate. With
// amend true, each SET clause appends the bound value to the column's
// existing value (dialect concatenation) instead of replacing it.
//
// An empty sets slice is a no-op: no statement is issued and 0 is returned.
// Otherwise the statement runs in its own transaction, committed on success.
//
// Returns the number of rows actually changed; 0 means no row matched, which
// is a valid outcome and not an error.
func (s *Store) Update(ctx context.Context, table Table, sets, where []ColumnValue, amend bool) (int64, error) {
	if len(sets) == 0 {
		return 0, nil
	}

	query, args := buildUpdate(s.dialect, table, sets, where, amend)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: beginning update transaction: %w", ErrOperationFailed, err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: updating %s: %w", ErrOperationFailed, table, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: committing update of %s: %w", ErrOperationFailed, table, err)
	}

	affected, _ := result.RowsAffected() //nolint:errcheck // Both supported drivers report affected rows
	if affected > 0 {
		s.log.Debug("rows updated", "table", table, "affected", affected, "amend", amend)
	}
	return affected, nil
}

// Upsert writes values to the row identified by keys: it first attempts an
// update with keys as the predicate (never in amend mode), and if no row
// matched it inserts values merged with the key columns.
//
// The two statements are not atomic. Concurrent upserts on the same key can
// both observe "no row matched" and race to insert; the table's uniqueness
// constraint is the backstop, and the losing insert surfaces
// ErrDuplicateEntry rather than being swallowed.
func (s *Store) Upsert(ctx context.Context, table Table, keys, values []ColumnValue) error {
	affected, err := s.Update(ctx, table, values, keys, false)
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	merged := make([]ColumnValue, 0, len(values)+len(keys))
	merged = append(merged, values...)
	merged = append(merged, keys...)

	if _, err := s.Insert(ctx, table, merged); err != nil {
		return err
	}
	return nil
}
