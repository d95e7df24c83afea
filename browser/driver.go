package browser

import (
	"context"
	"errors"
	"time"
)

// Condition is the kind of readiness a WaitSpec demands of an element.
type Condition int

const (
	// Present requires the element to be attached to the page.
	Present Condition = iota
	// Visible additionally requires a nonzero rendered size.
	Visible
	// Clickable requires the element to be visible and accepting input.
	Clickable
	// TextMatch requires the element's text to contain WaitSpec.Text.
	TextMatch
)

func (c Condition) String() string {
	switch c {
	case Present:
		return "present"
	case Visible:
		return "visible"
	case Clickable:
		return "clickable"
	case TextMatch:
		return "text-match"
	}
	return "unknown"
}

// WaitSpec describes one element wait: what to look for, what state it must
// reach, and how long to keep polling. Zero Timeout/Interval fall back to
// the session defaults. WaitSpecs are values; they are never mutated.
type WaitSpec struct {
	Locator   string // CSS selector
	Condition Condition
	Text      string // expected substring, for TextMatch
	Timeout   time.Duration
	Interval  time.Duration
}

func ElementPresent(locator string) WaitSpec {
	return WaitSpec{Locator: locator, Condition: Present}
}

func ElementVisible(locator string) WaitSpec {
	return WaitSpec{Locator: locator, Condition: Visible}
}

func ElementClickable(locator string) WaitSpec {
	return WaitSpec{Locator: locator, Condition: Clickable}
}

func ElementText(locator, text string) WaitSpec {
	return WaitSpec{Locator: locator, Condition: TextMatch, Text: text}
}

// WithTimeout returns a copy of the spec with its own poll budget.
func (s WaitSpec) WithTimeout(d time.Duration) WaitSpec {
	s.Timeout = d
	return s
}

// ErrStale marks an action failure caused by the element being detached and
// reattached by a UI re-render. Actions failing this way are retried with a
// freshly resolved element; any other action failure is final.
var ErrStale = errors.New("stale element")

func IsStale(err error) bool { return errors.Is(err, ErrStale) }

// Element is a resolved page element. Handles may go stale when the page
// re-renders; callers retry through the Interactor rather than caching them.
type Element interface {
	Locator() string
	Click(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
	SelectOption(ctx context.Context, value string) error
	UploadFile(ctx context.Context, path string) error
	Text(ctx context.Context) (string, error)
}

// Driver is one browser automation backend. Query and AcceptAlert perform a
// single attempt; the Session layers polling on top, so a Driver error just
// means "not yet" unless the driver itself has died.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Query(ctx context.Context, spec WaitSpec) (Element, error)
	AcceptAlert(ctx context.Context) error
	Screenshot(ctx context.Context) ([]byte, error)
	Close() error
}
