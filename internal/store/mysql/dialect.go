package mysql

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers for duplicate keys.
const (
	// erDupEntry is ER_DUP_ENTRY.
	erDupEntry = 1062

	// erDupEntryWithKeyName is ER_DUP_ENTRY_WITH_KEY_NAME.
	erDupEntryWithKeyName = 1586
)

// Dialect implements store.Dialect for MySQL.
type Dialect struct{}

// Name identifies the backend.
func (Dialect) Name() string { return "mysql" }

// AppendExpr renders append-mode assignment with CONCAT. MySQL treats || as
// logical OR unless PIPES_AS_CONCAT is enabled, so the operator form is not
// portable here.
func (Dialect) AppendExpr(column string) string {
	return column + " = CONCAT(" + column + ", ?)"
}

// IsDuplicate reports whether err is a duplicate-key violation.
func (Dialect) IsDuplicate(err error) bool {
	var merr *mysql.MySQLError
	if !errors.As(err, &merr) {
		return false
	}
	return merr.Number == erDupEntry || merr.Number == erDupEntryWithKeyName
}
