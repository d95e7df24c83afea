package loadtest

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Latencies are recorded in microseconds, 1us to 10min, 3 significant
// figures.
func newLatencyHistogram() *hdrhistogram.Histogram {
	return hdrhistogram.New(1, int64(10*time.Minute/time.Microsecond), 3)
}

// UserMetrics is one virtual user's running totals. It is owned exclusively
// by that user's goroutine during the run, so recording needs no locking;
// the simulator merges all of them only after every user has stopped.
type UserMetrics struct {
	UserID string
	tasks  map[string]*taskAccumulator
}

type taskAccumulator struct {
	requests uint64
	failures uint64
	latency  *hdrhistogram.Histogram
}

func newUserMetrics(userID string) *UserMetrics {
	return &UserMetrics{UserID: userID, tasks: make(map[string]*taskAccumulator)}
}

func (m *UserMetrics) record(task string, latency time.Duration, ok bool) {
	acc := m.tasks[task]
	if acc == nil {
		acc = &taskAccumulator{latency: newLatencyHistogram()}
		m.tasks[task] = acc
	}
	acc.requests++
	if !ok {
		acc.failures++
	}
	acc.latency.RecordValue(int64(latency / time.Microsecond)) //nolint:errcheck
}

// Requests reports this user's total request count.
func (m *UserMetrics) Requests() uint64 {
	var n uint64
	for _, acc := range m.tasks {
		n += acc.requests
	}
	return n
}

// TaskSummary is the merged view of one task across all users.
type TaskSummary struct {
	Requests uint64        `json:"requests"`
	Failures uint64        `json:"failures"`
	P50      time.Duration `json:"p50"`
	P90      time.Duration `json:"p90"`
	P99      time.Duration `json:"p99"`
	Max      time.Duration `json:"max"`
}

// LoadReport is the aggregate result of a load run, produced once after the
// stop signal has propagated to every virtual user.
type LoadReport struct {
	Users    int                    `json:"users"`
	Duration time.Duration          `json:"duration"`
	Requests uint64                 `json:"requests"`
	Failures uint64                 `json:"failures"`
	Overall  TaskSummary            `json:"overall"`
	Tasks    map[string]TaskSummary `json:"tasks"`
}

// mergeMetrics combines per-user accumulators into the final report.
func mergeMetrics(users []*UserMetrics, duration time.Duration) LoadReport {
	merged := make(map[string]*taskAccumulator)
	for _, m := range users {
		for name, acc := range m.tasks {
			dst := merged[name]
			if dst == nil {
				dst = &taskAccumulator{latency: newLatencyHistogram()}
				merged[name] = dst
			}
			dst.requests += acc.requests
			dst.failures += acc.failures
			dst.latency.Merge(acc.latency)
		}
	}

	report := LoadReport{
		Users:    len(users),
		Duration: duration,
		Tasks:    make(map[string]TaskSummary, len(merged)),
	}
	overall := &taskAccumulator{latency: newLatencyHistogram()}
	for name, acc := range merged {
		report.Requests += acc.requests
		report.Failures += acc.failures
		report.Tasks[name] = summarize(acc)
		overall.requests += acc.requests
		overall.failures += acc.failures
		overall.latency.Merge(acc.latency)
	}
	report.Overall = summarize(overall)
	return report
}

func summarize(acc *taskAccumulator) TaskSummary {
	return TaskSummary{
		Requests: acc.requests,
		Failures: acc.failures,
		P50:      time.Duration(acc.latency.ValueAtQuantile(50)) * time.Microsecond,
		P90:      time.Duration(acc.latency.ValueAtQuantile(90)) * time.Microsecond,
		P99:      time.Duration(acc.latency.ValueAtQuantile(99)) * time.Microsecond,
		Max:      time.Duration(acc.latency.Max()) * time.Microsecond,
	}
}

// Print writes the human-readable load summary, one line per task.
func (r LoadReport) Print(dest io.Writer) {
	fmt.Fprintf(dest, "\nload run: %d users, %.1fs, %d requests (%d failed, %.2f%%)\n",
		r.Users, r.Duration.Seconds(), r.Requests, r.Failures, r.failureRate())
	if r.Requests > 0 {
		fmt.Fprintf(dest, "  overall: p50=%s p90=%s p99=%s max=%s\n",
			r.Overall.P50, r.Overall.P90, r.Overall.P99, r.Overall.Max)
	}

	names := make([]string, 0, len(r.Tasks))
	for name := range r.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		s := r.Tasks[name]
		fmt.Fprintf(dest, "  %-14s %7d reqs %6d failed  p50=%s p90=%s p99=%s max=%s\n",
			name, s.Requests, s.Failures, s.P50, s.P90, s.P99, s.Max)
	}
}

func (r LoadReport) failureRate() float64 {
	if r.Requests == 0 {
		return 0
	}
	return float64(r.Failures) / float64(r.Requests) * 100
}
