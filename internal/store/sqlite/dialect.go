package sqlite

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// Dialect implements store.Dialect for SQLite.
type Dialect struct{}

// Name identifies the backend.
func (Dialect) Name() string { return "sqlite" }

// AppendExpr renders append-mode assignment using SQLite's || operator.
func (Dialect) AppendExpr(column string) string {
	return column + " = " + column + " || ?"
}

// IsDuplicate reports whether err is a uniqueness-constraint violation.
// Other constraint classes (foreign key, not null, check) are not
// duplicates and surface as operation failures instead.
func (Dialect) IsDuplicate(err error) bool {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintRowID:
		return true
	}
	return false
}
