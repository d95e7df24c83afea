package framework

import (
	"sync"
	"time"
)

// RunConfig controls one invocation of the scenario set.
type RunConfig struct {
	Filter Filter
	Logger ScenarioLogger

	// Parallel is the number of scenarios executed concurrently. Values
	// below 2 mean sequential execution. Scenarios stay isolated either
	// way: each gets its own Context and owns its own Session.
	Parallel int
}

// RunScenarios executes the scenario set and aggregates every Outcome into a
// RunReport. Individual scenario failures and errors never abort the run;
// the report is always produced.
func RunScenarios(cfg RunConfig, scenarios []Scenario) RunReport {
	if cfg.Logger == nil {
		cfg.Logger = NullScenarioLogger()
	}

	started := time.Now()
	rep := &report{}

	if cfg.Parallel > 1 {
		sem := make(chan struct{}, cfg.Parallel)
		var wg sync.WaitGroup
		for _, s := range scenarios {
			wg.Add(1)
			go func(s Scenario) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				runOne(cfg, s, rep)
			}(s)
		}
		wg.Wait()
	} else {
		for _, s := range scenarios {
			runOne(cfg, s, rep)
		}
	}

	return RunReport{
		StartedAt: started,
		Duration:  time.Since(started),
		Outcomes:  rep.outcomes(),
	}
}

func runOne(cfg RunConfig, s Scenario, rep *report) {
	cfg.Logger.ScenarioStarted(s.Name)
	if cfg.Filter != nil && !cfg.Filter(s.Name) {
		cfg.Logger.ScenarioSkipped(s.Name, "excluded by filter parameters")
		rep.append(Outcome{Scenario: s.Name, Status: StatusSkipped})
		return
	}

	c := newContext(s.Name, cfg.Logger)
	outcome := c.run(s.Run)
	rep.append(outcome)
	if outcome.Status != StatusSkipped {
		cfg.Logger.ScenarioFinished(outcome, c.debugLogger.Output())
	} else {
		cfg.Logger.ScenarioSkipped(s.Name, c.skipReason)
	}
}

// report is the run-scoped outcome sequence. Parallel scenario workers
// append concurrently; it is only read after all workers have finished.
type report struct {
	lock     sync.Mutex
	recorded []Outcome
}

func (r *report) append(o Outcome) {
	r.lock.Lock()
	r.recorded = append(r.recorded, o)
	r.lock.Unlock()
}

func (r *report) outcomes() []Outcome {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]Outcome(nil), r.recorded...)
}
