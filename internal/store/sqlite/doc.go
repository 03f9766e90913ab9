// Package sqlite provides the file-backed SQLite variant of the pydb store.
//
// This package manages:
//   - Store file creation with foreign-key enforcement and optional WAL mode
//   - Schema bootstrap from a directory (or embedded filesystem) of DDL
//     scripts, applied in lexicographic order at creation time only
//   - Forced rebuild (delete and recreate from schema)
//
// Security Considerations:
//   - All queries use parameterised statements (no SQL injection)
//   - Store file permissions are set to 0600 (owner read/write only)
//
// Usage:
//
//	s, err := sqlite.Open(ctx, sqlite.Config{
//	    Path:      "data/app.db",
//	    SchemaDir: "ddl",
//	}, log)
//	if err != nil {
//	    log.Fatal("opening store", "error", err)
//	}
//	defer s.Close()
package sqlite
