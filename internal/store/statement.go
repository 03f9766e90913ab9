package store

import (
	"fmt"
	"strings"
)

// buildInsert renders "INSERT INTO t (c1, ..., cN) VALUES (?, ..., ?)" with
// one placeholder per value, column order preserved.
func buildInsert(table Table, values []ColumnValue) (string, []any) {
	columns := make([]string, len(values))
	placeholders := make([]string, len(values))
	args := make([]any, len(values))

	for i, cv := range values {
		columns[i] = cv.Column
		placeholders[i] = "?"
		args[i] = cv.Value
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)
	return query, args
}

// buildSelect renders "SELECT c1, ..., cN FROM t" (or SELECT * when no
// columns are given) plus an optional WHERE clause.
func buildSelect(table Table, columns []string, where []ColumnValue) (string, []any) {
	columnList := "*"
	if len(columns) > 0 {
		columnList = strings.Join(columns, ", ")
	}

	query := fmt.Sprintf("SELECT %s FROM %s", columnList, table)
	clause, args := buildWhere(where)
	return query + clause, args
}

// buildUpdate renders "UPDATE t SET c1 = ?, ... [WHERE ...]". In amend mode
// each SET entry uses the dialect's append expression so the bound value is
// concatenated onto the existing one instead of replacing it.
func buildUpdate(d Dialect, table Table, sets, where []ColumnValue, amend bool) (string, []any) {
	setClauses := make([]string, len(sets))
	args := make([]any, 0, len(sets)+len(where))

	for i, cv := range sets {
		if amend {
			setClauses[i] = d.AppendExpr(cv.Column)
		} else {
			setClauses[i] = cv.Column + " = ?"
		}
		args = append(args, cv.Value)
	}

	query := fmt.Sprintf("UPDATE %s SET %s", table, strings.Join(setClauses, ", "))
	clause, whereArgs := buildWhere(where)
	return query + clause, append(args, whereArgs...)
}

// buildWhere renders " WHERE c1 = ? AND c2 IS NULL AND ..." from a predicate.
// Entries with a nil value render as IS NULL and bind no parameter. An empty
// predicate yields an empty clause.
func buildWhere(where []ColumnValue) (string, []any) {
	if len(where) == 0 {
		return "", nil
	}

	clauses := make([]string, len(where))
	args := make([]any, 0, len(where))

	for i, cv := range where {
		if cv.Value == nil {
			clauses[i] = cv.Column + " IS NULL"
			continue
		}
		clauses[i] = cv.Column + " = ?"
		args = append(args, cv.Value)
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}
