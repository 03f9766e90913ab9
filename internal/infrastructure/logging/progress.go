package logging

import (
	"context"
	"iter"
	"log/slog"
)

// progressSteps is how many progress records a full iteration emits.
const progressSteps = 10

// Progress wraps a slice in a sequence that reports progress while the
// caller iterates. When the logger is filtering info records the items are
// yielded untouched with no overhead; otherwise a record is emitted at the
// start, at roughly every tenth of the way through, and on completion.
//
// Example:
//
//	for f := range logging.Progress(log, files, "loading schema", "files") {
//	    apply(f)
//	}
func Progress[T any](l *Logger, items []T, description, unit string) iter.Seq[T] {
	if l == nil || !l.Enabled(context.Background(), slog.LevelInfo) {
		return func(yield func(T) bool) {
			for _, item := range items {
				if !yield(item) {
					return
				}
			}
		}
	}

	return func(yield func(T) bool) {
		total := len(items)
		step := total / progressSteps
		if step < 1 {
			step = 1
		}

		l.Info(description, "total", total, "unit", unit)
		for i, item := range items {
			if !yield(item) {
				l.Info(description+" stopped", "done", i, "total", total, "unit", unit)
				return
			}
			if (i+1)%step == 0 && i+1 < total {
				l.Info(description, "done", i+1, "total", total, "unit", unit)
			}
		}
		l.Info(description+" complete", "total", total, "unit", unit)
	}
}
