// Package logging provides structured logging for pydb.
//
// It wraps log/slog with the level set the rest of the system expects:
// silent, debug, info, warn, error, and fatal. Fatal terminates the process
// after logging; silent suppresses everything. Loggers are constructed
// explicitly and passed to components rather than held in package-global
// state, which keeps the data layer testable.
//
// Progress offers a lightweight progress indicator around a slice for long
// iterations; it only emits records when the logger is at info level.
package logging
