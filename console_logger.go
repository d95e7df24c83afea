package main

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/domainkeeper/e2e-harness/framework"
)

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	skipColor = color.New(color.FgYellow)
)

// ConsoleScenarioLogger prints scenario progress to stdout. The lock keeps
// output from parallel scenarios from interleaving mid-block.
type ConsoleScenarioLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool

	lock sync.Mutex
}

func (c *ConsoleScenarioLogger) ScenarioStarted(name string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	fmt.Printf("[%s]\n", name)
}

func (c *ConsoleScenarioLogger) ScenarioError(name string, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Printf("  %s\n", line)
	}
}

func (c *ConsoleScenarioLogger) ScenarioFinished(outcome framework.Outcome, debugOutput framework.CapturedOutput) {
	c.lock.Lock()
	defer c.lock.Unlock()

	failed := outcome.Status != framework.StatusPassed
	switch outcome.Status {
	case framework.StatusPassed:
		passColor.Printf("  PASSED: %s (%.2fs)\n", outcome.Scenario, outcome.Duration.Seconds())
	case framework.StatusFailed:
		failColor.Printf("  FAILED: %s (%.2fs)\n", outcome.Scenario, outcome.Duration.Seconds())
	case framework.StatusErrored:
		failColor.Printf("  ERRORED: %s (%.2fs)\n", outcome.Scenario, outcome.Duration.Seconds())
	}
	for _, a := range outcome.Artifacts {
		fmt.Printf("    artifact: %s\n", a)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(os.Stdout, "    DEBUG ")
	}
}

func (c *ConsoleScenarioLogger) ScenarioSkipped(name string, reason string) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if reason == "" {
		skipColor.Printf("  SKIPPED: %s\n", name)
	} else {
		skipColor.Printf("  SKIPPED: %s (%s)\n", name, reason)
	}
}
