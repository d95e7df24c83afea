package scenarios

import (
	"fmt"
	"strings"
	"time"

	"github.com/domainkeeper/e2e-harness/browser"
	"github.com/domainkeeper/e2e-harness/framework"
)

// Env is the read-only configuration shared by every scenario in a run.
type Env struct {
	BaseURL        string
	Headless       bool
	DefaultTimeout time.Duration
	PollInterval   time.Duration
	RetryCount     int
	Artifacts      *framework.ArtifactStore

	// NewDriver overrides the browser backend; nil means a real Chrome
	// instance. Harness tests substitute browser.FakeDriver here.
	NewDriver func(browser.Config) (browser.Driver, error)
}

func (e *Env) browserConfig() browser.Config {
	return browser.Config{
		BaseURL:        e.BaseURL,
		Headless:       e.Headless,
		DefaultTimeout: e.DefaultTimeout,
		PollInterval:   e.PollInterval,
	}
}

// T is the scenario-scoped handle: the framework context plus the browser
// session and interaction facade owned by this scenario. Because it embeds
// *framework.Context, testify's assert and require accept it directly.
type T struct {
	*framework.Context
	Session *browser.Session
	UI      *browser.Interactor

	env *Env
}

// wrap adapts a scenario body to the framework runner: it acquires the
// browser session first (acquisition failure means the scenario errors
// without ever running), registers teardown for every exit path, and only
// then hands control to the body.
func wrap(env *Env, body func(*T)) func(*framework.Context) {
	return func(c *framework.Context) {
		newDriver := env.NewDriver
		if newDriver == nil {
			newDriver = browser.NewChromeDriver
		}
		driver, err := newDriver(env.browserConfig())
		if err != nil {
			c.Abort(fmt.Errorf("acquiring browser session: %w", err))
		}

		t := &T{
			Context: c,
			Session: browser.NewSession(env.browserConfig(), driver, c.DebugLogger()),
			env:     env,
		}
		t.UI = browser.NewInteractor(t.Session, env.RetryCount, c.DebugLogger())
		c.Defer(t.close)

		c.MarkRunning()
		body(t)
	}
}

// close captures a failure screenshot best-effort and releases the session.
// A failed capture is logged but never masks the scenario's own outcome.
func (t *T) close() {
	if t.Failed() && !t.Session.Closed() {
		if data, err := t.Session.Screenshot(); err != nil {
			t.Debug("screenshot capture failed: %s", err)
		} else if t.env.Artifacts != nil {
			if path, err := t.env.Artifacts.SaveScreenshot(t.Name(), data); err != nil {
				t.Debug("saving screenshot failed: %s", err)
			} else {
				t.AttachArtifact(path)
			}
		}
	}
	if err := t.Session.Close(); err != nil {
		t.Debug("session close: %s", err)
	}
}

// MustNavigate opens a page or errors the scenario.
func (t *T) MustNavigate(path string) {
	if err := t.Session.Navigate(path); err != nil {
		t.Abort(err)
	}
}

// WaitForElement resolves an element or errors the scenario. Use it for
// elements the flow depends on; a missing one is an infrastructure problem,
// not an assertion failure.
func (t *T) WaitForElement(spec browser.WaitSpec) browser.Element {
	el, err := t.Session.FindElement(spec)
	if err != nil {
		t.Abort(err)
	}
	return el
}

func (t *T) MustClick(spec browser.WaitSpec) {
	if err := t.UI.Click(spec); err != nil {
		t.Abort(err)
	}
}

func (t *T) MustType(spec browser.WaitSpec, text string) {
	if err := t.UI.SendKeys(spec, text); err != nil {
		t.Abort(err)
	}
}

func (t *T) MustSelect(spec browser.WaitSpec, value string) {
	if err := t.UI.SelectOption(spec, value); err != nil {
		t.Abort(err)
	}
}

func (t *T) MustAcceptAlert() {
	if err := t.Session.AcceptAlert(0); err != nil {
		t.Abort(err)
	}
}

// AssertTextContains reads the element's text and fails the scenario (an
// assertion mismatch, not an error) when the expected content is absent.
func (t *T) AssertTextContains(spec browser.WaitSpec, expected string) {
	actual, err := t.UI.Text(spec)
	if err != nil {
		t.Abort(err)
	}
	if !strings.Contains(actual, expected) {
		t.Abort(&framework.AssertionMismatch{
			Subject:  spec.Locator,
			Expected: expected,
			Actual:   actual,
		})
	}
}

// AssertTextAppears polls until the element's text contains expected,
// failing the scenario as an assertion mismatch if it never does. This is
// the predicate-based replacement for sleeping through asynchronous UI or
// backend effects (AJAX refreshes, background schedule runs).
func (t *T) AssertTextAppears(locator, expected string, timeout time.Duration) {
	spec := browser.ElementText(locator, expected).WithTimeout(timeout)
	if _, err := t.Session.FindElement(spec); err != nil {
		t.Abort(&framework.AssertionMismatch{
			Subject:  locator,
			Expected: expected,
			Actual:   fmt.Sprintf("(not observed: %s)", err),
		})
	}
}
