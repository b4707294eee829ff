package annotate

import "errors"

var (
	// ErrStorage reports an unavailable persistent store (read, write or quota).
	ErrStorage = errors.New("annotation storage failure")

	// ErrNetwork reports an unreachable remote service or a non-success response.
	ErrNetwork = errors.New("annotation service unreachable")

	// ErrNotFound reports a delete of a record that is already gone.
	// Callers acknowledging records treat it as success.
	ErrNotFound = errors.New("annotation not found")

	// ErrSignedOut is returned by operations that need an active user.
	ErrSignedOut = errors.New("no user signed in")
)
