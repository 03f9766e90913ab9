package store

// Table identifies a physical table or view. Callers declare their schema as
// typed constants so the set of referenced tables is closed at compile time:
//
//	const (
//	    TableUsers    store.Table = "users"
//	    TableSessions store.Table = "sessions"
//	)
//
// Table names are interpolated into SQL text and must never carry untrusted
// input.
type Table string

// ColumnValue pairs a column name with a value. Slices of ColumnValue keep
// the caller's column order, which the generated SQL preserves.
//
// In a predicate, a nil Value is the null sentinel: it renders as
// "column IS NULL" and contributes no bound parameter, since equality
// comparison against NULL never matches in SQL.
type ColumnValue struct {
	Column string
	Value  any
}

// Row is one result tuple from Select, ordered per the requested column list
// (or the table's natural column order when selecting *).
type Row []any

// Dialect supplies the backend-specific pieces of statement building and
// error classification. Both supported backends use ? placeholders, so the
// dialect only covers append-mode syntax and duplicate-key detection.
type Dialect interface {
	// Name identifies the backend ("sqlite", "mysql"). Used in log records.
	Name() string

	// AppendExpr returns the SET fragment that appends the bound parameter
	// to the column's existing value, e.g. "c = c || ?" for SQLite.
	AppendExpr(column string) string

	// IsDuplicate reports whether err is a uniqueness-constraint violation.
	IsDuplicate(err error) bool
}
