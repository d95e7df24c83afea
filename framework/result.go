package framework

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Status is the terminal (or in-flight) state of one scenario execution.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusErrored Status = "errored"
	StatusSkipped Status = "skipped"
)

// Outcome is the result record of one scenario run. It is created once when
// the scenario finishes and never mutated afterwards.
type Outcome struct {
	Scenario  string        `json:"scenario"`
	Status    Status        `json:"status"`
	Duration  time.Duration `json:"duration"`
	Failures  []string      `json:"failures,omitempty"`
	Artifacts []string      `json:"artifacts,omitempty"`
}

// RunReport aggregates every Outcome of a run, in completion order.
type RunReport struct {
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	Outcomes  []Outcome     `json:"outcomes"`
}

// OK reports whether every scenario in the run passed (skips excluded).
func (r RunReport) OK() bool {
	for _, o := range r.Outcomes {
		if o.Status == StatusFailed || o.Status == StatusErrored {
			return false
		}
	}
	return true
}

func (r RunReport) count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// WriteJSON persists the report as the run's diagnostic record.
func (r RunReport) WriteJSON(dest io.Writer) error {
	enc := json.NewEncoder(dest)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// PrintResults writes the human-readable end-of-run summary: one line per
// failed or errored scenario, then the totals.
func PrintResults(dest io.Writer, r RunReport) {
	fmt.Fprintln(dest)
	for _, o := range r.Outcomes {
		switch o.Status {
		case StatusFailed, StatusErrored:
			fmt.Fprintf(dest, "%s: %s\n", o.Status, o.Scenario)
			for _, f := range o.Failures {
				fmt.Fprintf(dest, "  %s\n", f)
			}
		}
	}
	fmt.Fprintf(dest, "scenarios: %d passed, %d failed, %d errored, %d skipped (%.1fs)\n",
		r.count(StatusPassed), r.count(StatusFailed), r.count(StatusErrored),
		r.count(StatusSkipped), r.Duration.Seconds())
}
