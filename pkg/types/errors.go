package types

import "errors"

// Error kinds for storage initialization. Concrete errors wrap one of these
// together with the operation, the path and the underlying cause, so callers
// classify with errors.Is.
var (
	// ErrIO reports that the directory or the storage file could not be
	// created, opened or committed.
	ErrIO = errors.New("storage i/o error")

	// ErrSchema reports that an object in the storage file conflicts with
	// the expected layout.
	ErrSchema = errors.New("schema conflict")

	// ErrNotInitialized reports that an operation needs a fully initialized
	// storage file.
	ErrNotInitialized = errors.New("storage is not initialized")

	// ErrNotEmpty reports that a restore target already holds rows.
	ErrNotEmpty = errors.New("storage is not empty")

	// ErrSnapshot reports a snapshot directory that is incomplete, malformed
	// or disagrees with its manifest.
	ErrSnapshot = errors.New("invalid snapshot")
)
