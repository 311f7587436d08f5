package store

import (
	"errors"
	"fmt"
)

// ErrAuth marks a 401/403 from the backend. It is routed to session
// invalidation by the caller and never retried or shown as a generic error.
var ErrAuth = errors.New("session invalid")

func IsAuth(err error) bool {
	return errors.Is(err, ErrAuth)
}

// FetchError is a failed read: transport failure, non-2xx status other than
// auth, or an unsuccessful envelope on a GET. A window load that hits one is
// aborted; no stale data survives.
type FetchError struct {
	Op     string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// MutationRejected is a server-side rejection of a move/create/edit. Message
// carries the server's text verbatim for the user; nothing was applied
// locally, so there is nothing to roll back.
type MutationRejected struct {
	Op      string
	Message string
}

func (e *MutationRejected) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Op, e.Message)
}
