package store

import "errors"

// Domain errors for the store package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, store.ErrDuplicateEntry) {
//	    // benign for this caller, carry on
//	}
var (
	// ErrDuplicateEntry is returned when a uniqueness constraint rejects an
	// insert. It is always propagated to the caller; callers that consider a
	// duplicate benign decide that themselves.
	ErrDuplicateEntry = errors.New("store: duplicate entry")

	// ErrOperationFailed is returned for any other execution failure
	// (connectivity, malformed statement, non-uniqueness constraint).
	ErrOperationFailed = errors.New("store: operation failed")

	// ErrSchemaBootstrap is returned when schema bootstrap fails at
	// store-creation time (missing or invalid DDL source, script failure).
	ErrSchemaBootstrap = errors.New("store: schema bootstrap failed")
)
