package domain

import "errors"

// Core error taxonomy. Services wrap these with context; the HTTP layer
// maps them to status codes.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrOutOfCapacity is returned by a reserve when no rooms of the
	// requested type are left. Recoverable by the caller.
	ErrOutOfCapacity = errors.New("no rooms available")

	// ErrInvalidRelease is returned when a release would push the available
	// count above the total. Signals a double-release bug, not a routine
	// condition; counters are left unchanged.
	ErrInvalidRelease = errors.New("release exceeds total rooms")

	// ErrInvalidTransition is returned when an operation is requested
	// against a status that does not permit it.
	ErrInvalidTransition = errors.New("operation not allowed in current status")

	// ErrWrongParty is returned when the acting user is neither the owner
	// nor the student of the agreement.
	ErrWrongParty = errors.New("actor is not a party to this agreement")

	// ErrAlreadySigned reports that the acting party has already signed.
	// Informational: the agreement is returned unchanged alongside it.
	ErrAlreadySigned = errors.New("party has already signed")

	// ErrConflict is returned when a second agreement is opened for a
	// booking that already has one, or when a version-guarded update loses
	// against a concurrent writer.
	ErrConflict = errors.New("conflicting update")
)
