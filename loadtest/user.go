package loadtest

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/domainkeeper/e2e-harness/framework"
)

// VirtualUser is one simulated client. It owns its HTTP client, its RNG, and
// its metrics accumulator; nothing here is shared with other users.
type VirtualUser struct {
	id        string
	baseURL   string
	client    *http.Client
	tasks     map[string]Task
	choose    *chooser
	thinkTime time.Duration
	rng       *rand.Rand
	logger    framework.Logger
	metrics   *UserMetrics
}

// Run loops until ctx is canceled: draw a task by weight, execute it, record
// the result, think, repeat. An HTTP failure is recorded and the loop
// continues; only the stop signal ends it. Cancellation is observed at the
// iteration boundary and during think-time, so the user stops within one
// iteration's worst-case duration of the signal.
func (u *VirtualUser) Run(ctx context.Context) *UserMetrics {
	for {
		if ctx.Err() != nil {
			return u.metrics
		}

		name := u.choose.pick(u.rng)
		task := u.tasks[name]

		start := time.Now()
		err := task.Do(ctx, u.client, u.baseURL, u.id)
		elapsed := time.Since(start)
		u.metrics.record(name, elapsed, err == nil)
		if err != nil {
			u.logger.Printf("%s failed after %s: %s", name, elapsed, err)
		}

		if u.thinkTime > 0 {
			select {
			case <-ctx.Done():
				return u.metrics
			case <-time.After(u.thinkTime):
			}
		}
	}
}
