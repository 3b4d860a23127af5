package domain

import "errors"

// Sentinel errors for the ledger core. Operations wrap these with
// fmt.Errorf("%w: ...") so callers can classify failures with errors.Is.
var (
	// ErrValidation marks rejected user input (name, amount, identity).
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks a reference to a nonexistent period, expense or
	// active-period pointer.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState marks an operation on a period in the wrong
	// lifecycle state.
	ErrInvalidState = errors.New("invalid state")

	// ErrSerialization marks a ledger that could not be encoded for storage.
	ErrSerialization = errors.New("serialization failed")

	// ErrCorruptData marks a stored document that exists but cannot be
	// decoded. Callers treat the document as absent and start empty.
	ErrCorruptData = errors.New("stored data is corrupt")

	// ErrRemoteRead and ErrRemoteWrite mark remote backend failures.
	// Both are non-fatal: the session degrades to local-only operation.
	ErrRemoteRead  = errors.New("remote read failed")
	ErrRemoteWrite = errors.New("remote write failed")

	// ErrAuth marks a rejected sign-in or an invalid session token.
	ErrAuth = errors.New("authentication failed")
)
