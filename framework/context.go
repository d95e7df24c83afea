package framework

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Scenario is one named end-to-end test case. Run receives a fresh Context;
// scenarios never share mutable state with each other.
type Scenario struct {
	Name string
	Run  func(*Context)
}

// Context carries the execution state of a single scenario run: its status,
// accumulated failures, captured debug output, and deferred teardown. It
// implements the Errorf/FailNow pair so testify's assert and require packages
// accept it (or a wrapper embedding it) in place of *testing.T.
type Context struct {
	name        string
	status      Status
	start       time.Time
	failed      bool
	errored     bool
	skipped     bool
	skipReason  string
	failures    []string
	artifacts   []string
	cleanups    []func()
	debugLogger CapturingLogger
	logger      ScenarioLogger
}

func newContext(name string, logger ScenarioLogger) *Context {
	return &Context{name: name, status: StatusPending, logger: logger}
}

func (c *Context) Name() string { return c.name }

// Status reports the scenario's current state; after run returns it holds the
// terminal status recorded in the Outcome.
func (c *Context) Status() Status { return c.status }

// MarkRunning records that setup (session acquisition) completed and the
// scenario body proper is executing. Failures before this point are always
// treated as infrastructure errors, never assertion failures.
func (c *Context) MarkRunning() {
	if c.status == StatusPending {
		c.status = StatusRunning
	}
}

// Errorf records an assertion failure and keeps the scenario running.
// Called by testify's assert functions.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	msg := fmt.Sprintf(format, args...)
	c.failures = append(c.failures, msg)
	c.logger.ScenarioError(c.name, fmt.Errorf("%s", msg))
}

// FailNow aborts the scenario body immediately. Called by testify's require
// functions after Errorf.
func (c *Context) FailNow() {
	panic(c)
}

// RecordError records err against the scenario. Assertion mismatches mark it
// Failed; anything else is an infrastructure error and marks it Errored.
func (c *Context) RecordError(err error) {
	if c.status == StatusRunning && IsAssertionFailure(err) {
		c.failed = true
	} else {
		c.errored = true
	}
	c.failures = append(c.failures, err.Error())
	c.logger.ScenarioError(c.name, err)
}

// Abort records err and stops the scenario body.
func (c *Context) Abort(err error) {
	c.RecordError(err)
	c.FailNow()
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Defer registers teardown to run when the scenario finishes, on every exit
// path. Registered functions run in reverse order, each at most once.
func (c *Context) Defer(f func()) {
	c.cleanups = append(c.cleanups, f)
}

// AttachArtifact records a diagnostic artifact reference (e.g. a screenshot
// path) for inclusion in the Outcome.
func (c *Context) AttachArtifact(ref string) {
	c.artifacts = append(c.artifacts, ref)
}

// Failed reports whether the scenario has recorded any failure or error so
// far; teardown hooks use it to decide whether to capture diagnostics.
func (c *Context) Failed() bool {
	return c.failed || c.errored
}

// Debug writes to the scenario's captured debug log, shown only when the
// run's logging options ask for it.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}

func (c *Context) run(body func(*Context)) Outcome {
	c.start = time.Now()

	func() {
		defer c.runCleanups()
		defer func() {
			if r := recover(); r != nil {
				if c.skipped {
					return
				}
				if _, ok := r.(*Context); ok {
					// FailNow: the failure is already recorded, unless the
					// body panicked on a bare Context with nothing logged.
					if len(c.failures) == 0 {
						c.errored = true
						c.failures = append(c.failures, "scenario aborted with no failure message")
					}
					return
				}
				c.errored = true
				err := fmt.Errorf("unexpected panic in scenario: %+v\n%s", r, string(debug.Stack()))
				c.failures = append(c.failures, err.Error())
				c.logger.ScenarioError(c.name, err)
			}
		}()
		body(c)
	}()

	switch {
	case c.skipped:
		c.status = StatusSkipped
	case c.errored:
		c.status = StatusErrored
	case c.failed:
		c.status = StatusFailed
	default:
		c.status = StatusPassed
	}

	return Outcome{
		Scenario:  c.name,
		Status:    c.status,
		Duration:  time.Since(c.start),
		Failures:  c.failures,
		Artifacts: c.artifacts,
	}
}

func (c *Context) runCleanups() {
	cleanups := c.cleanups
	c.cleanups = nil
	for i := len(cleanups) - 1; i >= 0; i-- {
		f := cleanups[i]
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.errored = true
					msg := fmt.Sprintf("panic during scenario teardown: %+v", r)
					c.failures = append(c.failures, msg)
					c.logger.ScenarioError(c.name, fmt.Errorf("%s", msg))
				}
			}()
			f()
		}()
	}
}
