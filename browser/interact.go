package browser

import (
	"context"

	"github.com/domainkeeper/e2e-harness/framework"
)

// DefaultRetryCount is the Interactor's attempt budget when none is
// configured.
const DefaultRetryCount = 2

// Interactor wraps element actions with a bounded retry policy: an action
// failing with ErrStale is retried against a freshly resolved element, up to
// the configured attempt budget. Non-transient failures are never retried.
// Every action is logged with its locator and outcome.
type Interactor struct {
	session     *Session
	maxAttempts int
	logger      framework.Logger
}

func NewInteractor(session *Session, retryCount int, logger framework.Logger) *Interactor {
	if retryCount < 1 {
		retryCount = DefaultRetryCount
	}
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Interactor{session: session, maxAttempts: retryCount, logger: logger}
}

func (i *Interactor) Click(spec WaitSpec) error {
	return i.do("click", spec, func(ctx context.Context, el Element) error {
		return el.Click(ctx)
	})
}

func (i *Interactor) SendKeys(spec WaitSpec, text string) error {
	return i.do("sendKeys", spec, func(ctx context.Context, el Element) error {
		return el.SendKeys(ctx, text)
	})
}

func (i *Interactor) SelectOption(spec WaitSpec, value string) error {
	return i.do("selectOption", spec, func(ctx context.Context, el Element) error {
		return el.SelectOption(ctx, value)
	})
}

func (i *Interactor) UploadFile(spec WaitSpec, path string) error {
	return i.do("uploadFile", spec, func(ctx context.Context, el Element) error {
		return el.UploadFile(ctx, path)
	})
}

// Text resolves the element and reads its text, with the same staleness
// retry as the mutating actions.
func (i *Interactor) Text(spec WaitSpec) (string, error) {
	var text string
	err := i.do("text", spec, func(ctx context.Context, el Element) error {
		var err error
		text, err = el.Text(ctx)
		return err
	})
	return text, err
}

func (i *Interactor) do(action string, spec WaitSpec, fn func(context.Context, Element) error) error {
	var lastErr error
	attempts := 0
	for attempts < i.maxAttempts {
		// Re-resolve on every attempt: a stale handle from before a
		// re-render is never reused.
		el, err := i.session.FindElement(spec)
		if err != nil {
			i.logger.Printf("%s %q: %s", action, spec.Locator, err)
			return err
		}
		attempts++

		err = fn(i.session.ctx, el)
		if err == nil {
			i.logger.Printf("%s %q: ok", action, spec.Locator)
			return nil
		}
		lastErr = err
		i.logger.Printf("%s %q failed (attempt %d/%d): %s",
			action, spec.Locator, attempts, i.maxAttempts, err)
		if !IsStale(err) {
			break
		}
	}
	return &framework.ActionFailed{
		Action:   action,
		Locator:  spec.Locator,
		Attempts: attempts,
		LastErr:  lastErr,
	}
}
