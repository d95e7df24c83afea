package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// chromeDriver drives a Chrome/Chromium instance over the DevTools protocol.
// One driver owns one browser tab; sessions never share a driver.
type chromeDriver struct {
	tab     context.Context
	cancels []context.CancelFunc
	dialogs chan struct{}
}

// NewChromeDriver launches a browser according to cfg. The process is
// started eagerly so a broken environment fails session acquisition rather
// than the first scenario step.
func NewChromeDriver(cfg Config) (Driver, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	tab, cancelTab := chromedp.NewContext(allocCtx)

	d := &chromeDriver{
		tab:     tab,
		cancels: []context.CancelFunc{cancelTab, cancelAlloc},
		dialogs: make(chan struct{}, 4),
	}

	// Dialog-opening events arrive asynchronously; buffer them so
	// AcceptAlert can be polled until one shows up.
	chromedp.ListenTarget(tab, func(ev interface{}) {
		if _, ok := ev.(*page.EventJavascriptDialogOpening); ok {
			select {
			case d.dialogs <- struct{}{}:
			default:
			}
		}
	})

	if err := chromedp.Run(tab); err != nil {
		d.Close()
		return nil, fmt.Errorf("starting browser: %w", err)
	}
	return d, nil
}

func (d *chromeDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	// The session context is checked here so a closed session aborts the
	// poll loop even though chromedp runs on the tab's own context.
	if err := ctx.Err(); err != nil {
		return err
	}
	return chromedp.Run(d.tab, actions...)
}

func (d *chromeDriver) Navigate(ctx context.Context, url string) error {
	return d.run(ctx, chromedp.Navigate(url))
}

func (d *chromeDriver) Query(ctx context.Context, spec WaitSpec) (Element, error) {
	var nodes []*cdp.Node
	if err := d.run(ctx, chromedp.Nodes(spec.Locator, &nodes, chromedp.ByQuery, chromedp.AtLeast(0))); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no element matching %q", spec.Locator)
	}

	el := &chromeElement{d: d, locator: spec.Locator}
	switch spec.Condition {
	case Visible, Clickable:
		var visible bool
		script := fmt.Sprintf(
			`(() => { const e = document.querySelector(%q); if (!e) return false;`+
				` const r = e.getBoundingClientRect(); return r.width > 0 && r.height > 0; })()`,
			spec.Locator)
		if err := d.run(ctx, chromedp.Evaluate(script, &visible)); err != nil {
			return nil, err
		}
		if !visible {
			return nil, fmt.Errorf("element %q not visible", spec.Locator)
		}
	case TextMatch:
		text, err := el.Text(ctx)
		if err != nil {
			return nil, err
		}
		if !strings.Contains(text, spec.Text) {
			return nil, fmt.Errorf("element %q text %q does not contain %q",
				spec.Locator, text, spec.Text)
		}
	}
	return el, nil
}

func (d *chromeDriver) AcceptAlert(ctx context.Context) error {
	select {
	case <-d.dialogs:
		return d.run(ctx, page.HandleJavaScriptDialog(true))
	default:
		return errors.New("no dialog open")
	}
}

func (d *chromeDriver) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := d.run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, err
	}
	return buf, nil
}

func (d *chromeDriver) Close() error {
	for _, cancel := range d.cancels {
		cancel()
	}
	return nil
}

type chromeElement struct {
	d       *chromeDriver
	locator string
}

func (e *chromeElement) Locator() string { return e.locator }

// classify maps node-gone failures to ErrStale so the Interactor re-resolves
// the element instead of giving up.
func (e *chromeElement) classify(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "could not find node") ||
		strings.Contains(msg, "node not found") ||
		strings.Contains(msg, "No node with given id") {
		return fmt.Errorf("%w: %s", ErrStale, err)
	}
	return err
}

func (e *chromeElement) Click(ctx context.Context) error {
	return e.classify(e.d.run(ctx, chromedp.Click(e.locator, chromedp.ByQuery, chromedp.NodeVisible)))
}

func (e *chromeElement) SendKeys(ctx context.Context, text string) error {
	return e.classify(e.d.run(ctx, chromedp.SendKeys(e.locator, text, chromedp.ByQuery)))
}

func (e *chromeElement) SelectOption(ctx context.Context, value string) error {
	return e.classify(e.d.run(ctx,
		chromedp.SetValue(e.locator, value, chromedp.ByQuery),
	))
}

func (e *chromeElement) UploadFile(ctx context.Context, path string) error {
	return e.classify(e.d.run(ctx, chromedp.SetUploadFiles(e.locator, []string{path}, chromedp.ByQuery)))
}

func (e *chromeElement) Text(ctx context.Context) (string, error) {
	var text string
	err := e.d.run(ctx, chromedp.Text(e.locator, &text, chromedp.ByQuery))
	return text, e.classify(err)
}
