package framework

import (
	"errors"
	"fmt"
	"time"
)

// ErrSessionClosed is returned by waits and actions that were aborted because
// the owning browser session was closed before they could complete.
var ErrSessionClosed = errors.New("session closed")

// TimeoutError means a condition was never satisfied within its time budget.
// LastErr holds the most recent transient failure seen while polling, if any.
type TimeoutError struct {
	Budget  time.Duration
	LastErr error
}

func (e *TimeoutError) Error() string {
	if e.LastErr == nil {
		return fmt.Sprintf("condition not met within %s", e.Budget)
	}
	return fmt.Sprintf("condition not met within %s (last failure: %s)", e.Budget, e.LastErr)
}

func (e *TimeoutError) Unwrap() error { return e.LastErr }

// ElementNotFound means an element wait timed out before the element matched
// its condition.
type ElementNotFound struct {
	Locator string
	Cause   error
}

func (e *ElementNotFound) Error() string {
	return fmt.Sprintf("element not found: %q: %s", e.Locator, e.Cause)
}

func (e *ElementNotFound) Unwrap() error { return e.Cause }

// ActionFailed means an element action exhausted its retry budget.
type ActionFailed struct {
	Action   string
	Locator  string
	Attempts int
	LastErr  error
}

func (e *ActionFailed) Error() string {
	return fmt.Sprintf("%s on %q failed after %d attempts: %s",
		e.Action, e.Locator, e.Attempts, e.LastErr)
}

func (e *ActionFailed) Unwrap() error { return e.LastErr }

// AssertionMismatch is an expected-vs-actual content mismatch. It marks a
// scenario Failed, as opposed to the infrastructure errors above which mark
// it Errored.
type AssertionMismatch struct {
	Subject  string
	Expected string
	Actual   string
}

func (e *AssertionMismatch) Error() string {
	return fmt.Sprintf("%s: expected %q, got %q", e.Subject, e.Expected, e.Actual)
}

// IsAssertionFailure reports whether err represents an assertion mismatch
// rather than an infrastructure problem.
func IsAssertionFailure(err error) bool {
	var m *AssertionMismatch
	return errors.As(err, &m)
}
