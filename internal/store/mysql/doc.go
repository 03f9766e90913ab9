// Package mysql provides the pooled MySQL variant of the pydb store.
//
// Connection pooling is delegated to database/sql; this package sizes the
// pool from configuration (conventionally the MYSQL_* environment variables)
// and supplies MySQL-specific statement behaviour: CONCAT-based append mode
// and duplicate-key error detection via the driver's error numbers.
package mysql
