package loadtest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Users:   4,
		// Think-time keeps the request volume bounded so the recording
		// handler's buffer is never at risk of filling.
		Duration:       500 * time.Millisecond,
		ThinkTime:      50 * time.Millisecond,
		RequestTimeout: time.Second,
		Tasks:          DefaultTasks(),
		Weights:        TaskWeightTable{"addDomain": 1},
		Seed:           1,
	}
}

func TestSimulatorRecordsEveryRequestUnderItsTask(t *testing.T) {
	rh, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(rh)
	defer server.Close()

	report, err := NewSimulatorOrFail(t, testConfig(server.URL)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Users)
	require.Greater(t, report.Requests, uint64(0))
	// The stop signal may cancel one request per user mid-flight.
	assert.LessOrEqual(t, report.Failures, uint64(4))

	// Single-entry weight table: every request is an addDomain.
	require.Len(t, report.Tasks, 1)
	summary := report.Tasks["addDomain"]
	assert.Equal(t, report.Requests, summary.Requests)
	assert.InDelta(t, float64(report.Requests), float64(len(requestsCh)), 4)
	assert.Greater(t, summary.P99, time.Duration(0))
}

func TestSimulatorHTTPFailuresAreRecordedNotFatal(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(503))
	defer server.Close()

	report, err := NewSimulatorOrFail(t, testConfig(server.URL)).Run(context.Background())
	require.NoError(t, err, "request failures never abort the run")

	assert.Greater(t, report.Requests, uint64(0))
	assert.Equal(t, report.Requests, report.Failures)
}

func TestSimulatorStopSignalPropagatesToAllUsers(t *testing.T) {
	var after int64
	var stopped atomic.Bool
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if stopped.Load() {
			atomic.AddInt64(&after, 1)
		}
		w.WriteHeader(200)
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Users = 10
	_, err := NewSimulatorOrFail(t, cfg).Run(context.Background())
	require.NoError(t, err)
	stopped.Store(true)

	// Run has returned, so every user loop has exited; nothing may issue
	// another request afterwards.
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int64(0), atomic.LoadInt64(&after))
}

func TestSimulatorStopsWithinOneIterationOfTheSignal(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Duration = 10 * time.Second
	cfg.ThinkTime = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(300*time.Millisecond, cancel)

	start := time.Now()
	_, err := NewSimulatorOrFail(t, cfg).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 2*time.Second,
		"cancellation must not wait out the configured duration")
}

func TestSimulatorRampUpStaggersUserStarts(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Users = 4
	cfg.RampUp = 400 * time.Millisecond
	cfg.Duration = 600 * time.Millisecond

	sim := NewSimulatorOrFail(t, cfg)
	assert.Equal(t, time.Duration(0), sim.startDelay(0))
	assert.Equal(t, 100*time.Millisecond, sim.startDelay(1))
	assert.Equal(t, 300*time.Millisecond, sim.startDelay(3))

	report, err := sim.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, report.Users, "late starters still report metrics")
}

func TestSimulatorConfigValidation(t *testing.T) {
	base := testConfig("http://target.local")

	missingURL := base
	missingURL.BaseURL = ""
	_, err := NewSimulator(missingURL)
	assert.Error(t, err)

	noUsers := base
	noUsers.Users = 0
	_, err = NewSimulator(noUsers)
	assert.Error(t, err)

	unknownTask := base
	unknownTask.Weights = TaskWeightTable{"nonsense": 1}
	_, err = NewSimulator(unknownTask)
	assert.Error(t, err)

	zeroWeights := base
	zeroWeights.Weights = TaskWeightTable{"addDomain": 0}
	_, err = NewSimulator(zeroWeights)
	assert.Error(t, err)
}

func NewSimulatorOrFail(t *testing.T, cfg Config) *Simulator {
	t.Helper()
	sim, err := NewSimulator(cfg)
	require.NoError(t, err)
	return sim
}
