package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// FakeDriver is an in-memory Driver used by harness tests and local scenario
// development: pages are maps of locators to scripted elements, and elements
// can be told to appear after a delay or to fail actions transiently. It
// ships as non-test code so scenario suites in other packages can use it.
type FakeDriver struct {
	mu            sync.Mutex
	url           string
	elements      map[string]*FakeElement
	pendingAlerts int
	alertsHandled int
	closed        bool
	closeCount    int

	// ScreenshotData is returned by Screenshot; tests inspect it to verify
	// artifact capture.
	ScreenshotData []byte
}

func NewFakeDriver() *FakeDriver {
	return &FakeDriver{
		elements:       make(map[string]*FakeElement),
		ScreenshotData: []byte("fake-screenshot"),
	}
}

// AddElement makes an element immediately available at the given locator.
func (d *FakeDriver) AddElement(locator string, el *FakeElement) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el.locator = locator
	d.elements[locator] = el
}

// AddElementAfter makes an element appear only once delay has elapsed,
// simulating AJAX-driven rendering.
func (d *FakeDriver) AddElementAfter(locator string, delay time.Duration, el *FakeElement) {
	d.mu.Lock()
	defer d.mu.Unlock()
	el.locator = locator
	el.appearsAt = time.Now().Add(delay)
	d.elements[locator] = el
}

// QueueAlert simulates a JavaScript dialog opening.
func (d *FakeDriver) QueueAlert() {
	d.mu.Lock()
	d.pendingAlerts++
	d.mu.Unlock()
}

// QueueAlertAfter opens a dialog once delay has elapsed.
func (d *FakeDriver) QueueAlertAfter(delay time.Duration) {
	time.AfterFunc(delay, d.QueueAlert)
}

func (d *FakeDriver) AlertsHandled() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.alertsHandled
}

// CloseCount reports how many times Close was called, for verifying the
// exactly-once teardown guarantee.
func (d *FakeDriver) CloseCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closeCount
}

func (d *FakeDriver) CurrentURL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

func (d *FakeDriver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.New("driver closed")
	}
	d.url = url
	return nil
}

func (d *FakeDriver) Query(ctx context.Context, spec WaitSpec) (Element, error) {
	d.mu.Lock()
	el := d.elements[spec.Locator]
	closed := d.closed
	d.mu.Unlock()

	if closed {
		return nil, errors.New("driver closed")
	}
	if el == nil {
		return nil, fmt.Errorf("no element matching %q", spec.Locator)
	}

	el.mu.Lock()
	defer el.mu.Unlock()
	if !el.appearsAt.IsZero() && time.Now().Before(el.appearsAt) {
		return nil, fmt.Errorf("no element matching %q", spec.Locator)
	}
	switch spec.Condition {
	case Visible, Clickable:
		if el.Hidden {
			return nil, fmt.Errorf("element %q not visible", spec.Locator)
		}
	case TextMatch:
		if !strings.Contains(el.TextContent, spec.Text) {
			return nil, fmt.Errorf("element %q text %q does not contain %q",
				spec.Locator, el.TextContent, spec.Text)
		}
	}
	return el, nil
}

func (d *FakeDriver) AcceptAlert(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errors.New("driver closed")
	}
	if d.pendingAlerts == 0 {
		return errors.New("no dialog open")
	}
	d.pendingAlerts--
	d.alertsHandled++
	return nil
}

func (d *FakeDriver) Screenshot(ctx context.Context) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, errors.New("driver closed")
	}
	return d.ScreenshotData, nil
}

func (d *FakeDriver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.closeCount++
	return nil
}

// FakeElement is a scripted element. TransientFailures makes the next N
// actions fail with ErrStale, simulating a re-render detaching the node.
type FakeElement struct {
	mu        sync.Mutex
	locator   string
	appearsAt time.Time

	Hidden            bool
	TextContent       string
	TransientFailures int
	ActionErr         error // non-transient failure returned by every action

	Clicks    int
	Keys      []string
	Selected  []string
	Uploads   []string
	TextReads int
}

func (e *FakeElement) Locator() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.locator
}

func (e *FakeElement) act(record func()) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.TransientFailures > 0 {
		e.TransientFailures--
		return fmt.Errorf("%w: node detached during re-render", ErrStale)
	}
	if e.ActionErr != nil {
		return e.ActionErr
	}
	record()
	return nil
}

func (e *FakeElement) Click(ctx context.Context) error {
	return e.act(func() { e.Clicks++ })
}

func (e *FakeElement) SendKeys(ctx context.Context, text string) error {
	return e.act(func() { e.Keys = append(e.Keys, text) })
}

func (e *FakeElement) SelectOption(ctx context.Context, value string) error {
	return e.act(func() { e.Selected = append(e.Selected, value) })
}

func (e *FakeElement) UploadFile(ctx context.Context, path string) error {
	return e.act(func() { e.Uploads = append(e.Uploads, path) })
}

func (e *FakeElement) Text(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.TextReads++
	return e.TextContent, nil
}

// SetText changes the element's content, e.g. to simulate a background
// schedule updating a status cell.
func (e *FakeElement) SetText(text string) {
	e.mu.Lock()
	e.TextContent = text
	e.mu.Unlock()
}
