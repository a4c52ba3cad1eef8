package service

import "errors"

// Sentinel errors shared by every service so both transports map failures to
// the same status codes. Wrap with fmt.Errorf("...: %w", Err...) for detail.
var (
	// ErrValidation covers malformed input: empty content, neither or both
	// of receiver/community set, bad identifiers.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound covers absent users, communities and messages.
	ErrNotFound = errors.New("not found")

	// ErrForbidden covers authenticated principals acting outside their
	// conversation: non-members sending to a community, non-senders deleting.
	ErrForbidden = errors.New("forbidden")
)
