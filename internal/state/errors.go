package state

import (
	"errors"

	"github.com/five82/booksite/internal/catalog"
)

var (
	// ErrBookNotFound is returned when an operation names an id that is not
	// in the local list.
	ErrBookNotFound = errors.New("book not found")
	// ErrInFlight is returned when a request for the same record is still
	// pending. Nothing is sent to the backend.
	ErrInFlight = errors.New("request already in flight")
	// ErrPasswordRequired is returned by a login attempt with an empty
	// password. Nothing is sent to the backend.
	ErrPasswordRequired = errors.New("password required")
)

// reachedBackend reports whether err came from a backend call rather than a
// local precondition.
func reachedBackend(err error) bool {
	return err != nil &&
		!errors.Is(err, ErrBookNotFound) &&
		!errors.Is(err, ErrInFlight) &&
		!errors.Is(err, ErrPasswordRequired) &&
		!errors.Is(err, catalog.ErrBookIDRequired)
}
