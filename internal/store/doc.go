// Package store provides a thin generic CRUD layer over database/sql.
//
// It translates structured insert/select/update/upsert requests into
// parameterised SQL and manages transaction lifecycle for every mutating
// operation. Backend-specific behaviour (append-mode concatenation syntax,
// duplicate-key error detection) is supplied by a Dialect implementation;
// the sqlite and mysql sub-packages provide the two supported backends.
//
// Security Considerations:
//   - All values are passed as bound parameters, never interpolated.
//   - Table and column identifiers are interpolated into SQL text and must
//     therefore come from trusted caller code (typed Table constants), never
//     from untrusted input.
//
// Usage:
//
//	const users store.Table = "users"
//
//	s, err := sqlite.Open(sqlite.Config{Path: "data/app.db"}, log)
//	if err != nil {
//	    log.Fatal("opening store", "error", err)
//	}
//	defer s.Close()
//
//	id, err := s.Insert(ctx, users, []store.ColumnValue{
//	    {Column: "name", Value: "alice"},
//	})
package store
