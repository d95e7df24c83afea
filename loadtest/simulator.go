package loadtest

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/domainkeeper/e2e-harness/framework"
)

const DefaultRequestTimeout = 10 * time.Second

// Config describes one load run.
type Config struct {
	BaseURL        string
	Users          int
	Duration       time.Duration
	RampUp         time.Duration // window over which user starts are staggered
	ThinkTime      time.Duration
	RequestTimeout time.Duration
	Tasks          []Task
	Weights        TaskWeightTable
	Logger         framework.Logger

	// Seed fixes the task-selection RNG for reproducible runs; zero means
	// time-seeded.
	Seed int64
}

// Simulator drives a pool of virtual users against the target. Users
// communicate results to the coordinator through a channel; there is no
// shared mutable state between them.
type Simulator struct {
	cfg    Config
	tasks  map[string]Task
	choose *chooser
}

func NewSimulator(cfg Config) (*Simulator, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("load config: base URL is required")
	}
	if cfg.Users < 1 {
		return nil, fmt.Errorf("load config: need at least one user, got %d", cfg.Users)
	}
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("load config: duration must be positive, got %s", cfg.Duration)
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = framework.NullLogger()
	}

	tasks := make(map[string]Task, len(cfg.Tasks))
	for _, t := range cfg.Tasks {
		tasks[t.Name] = t
	}
	for name := range cfg.Weights {
		if _, ok := tasks[name]; !ok {
			return nil, fmt.Errorf("load config: weight for unknown task %q", name)
		}
	}
	choose, err := newChooser(cfg.Weights)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &Simulator{cfg: cfg, tasks: tasks, choose: choose}, nil
}

// Run starts the user pool, optionally staggered over the ramp-up window,
// and stops every user when the run duration elapses or ctx is canceled,
// whichever comes first. It blocks until all users have stopped, then merges
// their metrics into the report.
func (s *Simulator) Run(ctx context.Context) (LoadReport, error) {
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Duration)
	defer cancel()

	seed := s.cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	start := time.Now()
	results := make(chan *UserMetrics, s.cfg.Users)
	var wg sync.WaitGroup

	for i := 0; i < s.cfg.Users; i++ {
		user := s.newUser(i, seed)
		delay := s.startDelay(i)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if delay > 0 {
				select {
				case <-runCtx.Done():
					results <- user.metrics
					return
				case <-time.After(delay):
				}
			}
			s.cfg.Logger.Printf("user %s started", user.id)
			results <- user.Run(runCtx)
		}()
	}

	wg.Wait()
	close(results)

	collected := make([]*UserMetrics, 0, s.cfg.Users)
	for m := range results {
		collected = append(collected, m)
	}
	report := mergeMetrics(collected, time.Since(start))
	return report, ctx.Err()
}

func (s *Simulator) newUser(index int, seed int64) *VirtualUser {
	id := uuid.New().String()[:8]
	return &VirtualUser{
		id:        id,
		baseURL:   s.cfg.BaseURL,
		client:    &http.Client{Timeout: s.cfg.RequestTimeout},
		tasks:     s.tasks,
		choose:    s.choose,
		thinkTime: s.cfg.ThinkTime,
		rng:       rand.New(rand.NewSource(seed + int64(index))),
		logger:    framework.PrefixedLogger(s.cfg.Logger, "user "+id+": "),
		metrics:   newUserMetrics(id),
	}
}

// startDelay spreads user starts evenly across the ramp-up window.
func (s *Simulator) startDelay(index int) time.Duration {
	if s.cfg.RampUp <= 0 || s.cfg.Users <= 1 {
		return 0
	}
	return s.cfg.RampUp * time.Duration(index) / time.Duration(s.cfg.Users)
}
