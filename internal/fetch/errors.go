package fetch

import (
	"errors"
	"fmt"
)

// ErrRobotsDisallowed is returned when robots.txt forbids fetching a URL
// for our user agent. It is wrapped in a permanent FetchError so the
// crawl records the page as skipped and moves on.
var ErrRobotsDisallowed = errors.New("disallowed by robots.txt")

// ErrorKind classifies a fetch failure.
type ErrorKind string

// Fetch failure classes.
//
// Transient failures exhausted the retry budget: timeouts, connection
// resets, 5xx responses, 429, and 408. Permanent failures fail on first
// sight: any other 4xx response means retrying cannot help.
const (
	Transient ErrorKind = "transient"
	Permanent ErrorKind = "permanent"
)

// FetchError describes why a page could not be fetched.
//
// Design decision: We carry the classification on the error rather than
// returning distinct error types because:
// 1. Callers only ever branch two ways, and errors.As gives them both
// 2. The attempt count and last status travel with the failure for
//    skip reporting
// 3. One type keeps the retry loop's bookkeeping in one place
type FetchError struct {
	// URL is the canonical URL that failed.
	URL string

	// Kind is the failure class.
	Kind ErrorKind

	// StatusCode is the last HTTP status seen, or 0 for transport-level
	// failures.
	StatusCode int

	// Attempts is how many network attempts were made.
	Attempts int

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s: %s", e.URL, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Attempts > 1 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is and errors.As.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Reason returns a short cause string for skip reporting, such as
// "permanent: status 404" or "transient: 3 attempts exhausted".
func (e *FetchError) Reason() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d", e.Kind, e.StatusCode)
	case e.Err != nil && errors.Is(e.Err, ErrRobotsDisallowed):
		return fmt.Sprintf("%s: robots.txt", e.Kind)
	default:
		return fmt.Sprintf("%s: %d attempts exhausted", e.Kind, e.Attempts)
	}
}

// IsTransient reports whether err is a transient fetch failure.
func IsTransient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == Transient
}

// IsPermanent reports whether err is a permanent fetch failure.
func IsPermanent(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == Permanent
}
