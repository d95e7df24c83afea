package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/domainkeeper/e2e-harness/framework"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultWindowWidth  = 1280
	DefaultWindowHeight = 900
)

// Config is the read-only session configuration. It is shared safely across
// parallel scenarios; each scenario still gets its own Session.
type Config struct {
	BaseURL        string
	Headless       bool
	WindowWidth    int
	WindowHeight   int
	DefaultTimeout time.Duration
	PollInterval   time.Duration
}

func (c Config) withDefaults() Config {
	if c.WindowWidth == 0 {
		c.WindowWidth = DefaultWindowWidth
	}
	if c.WindowHeight == 0 {
		c.WindowHeight = DefaultWindowHeight
	}
	if c.DefaultTimeout == 0 {
		c.DefaultTimeout = DefaultTimeout
	}
	if c.PollInterval == 0 {
		c.PollInterval = framework.DefaultPollInterval
	}
	return c
}

// Session owns one browser automation handle for the duration of one
// scenario. It is an exclusively owned resource: acquired on scenario entry,
// released on every exit path, never shared or copied.
type Session struct {
	ID     string
	cfg    Config
	driver Driver
	logger framework.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	closeErr  error
}

// NewSession wraps an already-started driver. The session's context is
// canceled by Close, which aborts any in-flight element wait.
func NewSession(cfg Config, driver Driver, logger framework.Logger) *Session {
	if logger == nil {
		logger = framework.NullLogger()
	}
	id := uuid.New().String()[:8]
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		ID:     id,
		cfg:    cfg.withDefaults(),
		driver: driver,
		logger: framework.PrefixedLogger(logger, "session "+id+": "),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	return s.ctx.Err() != nil
}

// Navigate opens path resolved against the configured base URL. An absolute
// URL is used as-is.
func (s *Session) Navigate(path string) error {
	if s.Closed() {
		return framework.ErrSessionClosed
	}
	target := path
	if u, err := url.Parse(path); err == nil && !u.IsAbs() {
		joined, err := url.JoinPath(s.cfg.BaseURL, path)
		if err != nil {
			return fmt.Errorf("resolving %q against %q: %w", path, s.cfg.BaseURL, err)
		}
		target = joined
	}
	s.logger.Printf("navigate %s", target)
	return s.driver.Navigate(s.ctx, target)
}

// FindElement polls for an element satisfying the spec, using the session
// defaults for any unset timing. It fails with ElementNotFound when the
// budget runs out, or ErrSessionClosed if the session is closed mid-wait.
func (s *Session) FindElement(spec WaitSpec) (Element, error) {
	timeout := spec.Timeout
	if timeout == 0 {
		timeout = s.cfg.DefaultTimeout
	}
	interval := spec.Interval
	if interval == 0 {
		interval = s.cfg.PollInterval
	}

	el, err := framework.WaitFor(s.ctx, timeout, interval, func(ctx context.Context) (Element, error) {
		return s.driver.Query(ctx, spec)
	})
	if err != nil {
		if errors.Is(err, framework.ErrSessionClosed) {
			return nil, err
		}
		return nil, &framework.ElementNotFound{Locator: spec.Locator, Cause: err}
	}
	s.logger.Printf("found %q (%s)", spec.Locator, spec.Condition)
	return el, nil
}

// AcceptAlert waits for a dialog to open and accepts it. A dialog may not
// exist yet when first checked, so the check runs under the same polling
// discipline as element waits.
func (s *Session) AcceptAlert(timeout time.Duration) error {
	if timeout == 0 {
		timeout = s.cfg.DefaultTimeout
	}
	_, err := framework.WaitFor(s.ctx, timeout, s.cfg.PollInterval, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.driver.AcceptAlert(ctx)
	})
	if err == nil {
		s.logger.Printf("accepted dialog")
	}
	return err
}

// Screenshot captures the current page for failure diagnostics.
func (s *Session) Screenshot() ([]byte, error) {
	if s.Closed() {
		return nil, framework.ErrSessionClosed
	}
	return s.driver.Screenshot(s.ctx)
}

// Close releases the underlying browser handle. It is idempotent and safe to
// call from teardown regardless of how the scenario exited.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		s.closeErr = s.driver.Close()
		s.logger.Printf("closed")
	})
	return s.closeErr
}
