package sentinel

import "errors"

// Sentinel dependency errors. Stores and adapters return these (optionally wrapped)
// so services can translate them into domain errors exactly once.
var (
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a conditional update that matched no row because the
	// record moved to another status first.
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
	// ErrUnknownReference reports a write naming a party the directory does not hold.
	ErrUnknownReference = errors.New("unknown reference")
)
