package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/domainkeeper/e2e-harness/framework"
	"github.com/domainkeeper/e2e-harness/loadtest"
	"github.com/domainkeeper/e2e-harness/scenarios"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	switch os.Args[1] {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "load":
		os.Exit(cmdLoad(os.Args[2:]))
	case "help", "-h", "--help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
}

func usage(dest *os.File) {
	fmt.Fprintln(dest, "usage:")
	fmt.Fprintln(dest, "  e2e-harness run  -url <base> [options]   run the UI scenario suite")
	fmt.Fprintln(dest, "  e2e-harness load -url <base> [options]   run the HTTP load simulation")
	fmt.Fprintln(dest, "run 'e2e-harness <command> -h' for command options")
}

func cmdRun(args []string) int {
	var p runParams
	if !p.Read(args) {
		return 2
	}

	artifacts, err := framework.NewArtifactStore(p.artifactsDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Println()
	fmt.Printf("Target: %s\n", p.baseURL)
	fmt.Printf("Equivalent command: %s\n", p.commandLine())
	fmt.Println()
	framework.PrintFilterDescription(os.Stdout, p.filters)

	env := &scenarios.Env{
		BaseURL:        p.baseURL,
		Headless:       p.headless,
		DefaultTimeout: p.timeout,
		RetryCount:     p.retries,
		Artifacts:      artifacts,
	}
	logger := &ConsoleScenarioLogger{
		DebugOutputOnFailure: p.debug || p.debugAll,
		DebugOutputOnSuccess: p.debugAll,
	}

	fmt.Println("Running scenario suite")
	report := scenarios.RunSuite(env, framework.RunConfig{
		Filter:   p.filters.AsFilter,
		Logger:   logger,
		Parallel: p.parallel,
	})

	framework.PrintResults(os.Stdout, report)
	if path, err := artifacts.SaveReport(report); err != nil {
		fmt.Fprintf(os.Stderr, "could not persist run report: %s\n", err)
	} else {
		fmt.Printf("run report: %s\n", path)
	}

	if !report.OK() {
		return 1
	}
	return 0
}

func cmdLoad(args []string) int {
	var p loadParams
	if !p.Read(args) {
		return 2
	}

	var logger framework.Logger = framework.NullLogger()
	if p.debug {
		logger = log.New(os.Stdout, "", log.LstdFlags)
	}

	cfg := loadtest.Config{
		BaseURL:        p.baseURL,
		Users:          p.users,
		Duration:       p.duration,
		RampUp:         p.rampUp,
		ThinkTime:      p.thinkTime,
		RequestTimeout: p.timeout,
		Tasks:          loadtest.DefaultTasks(),
		Weights:        loadtest.DefaultWeights(),
		Logger:         logger,
	}
	if p.profilePath != "" {
		profile, err := loadtest.LoadProfile(p.profilePath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		profile.Apply(&cfg)
	}

	sim, err := loadtest.NewSimulator(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	// An interrupt propagates to every virtual user as the stop signal.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("load run: %d users against %s for %s (ramp-up %s, think %s)\n",
		cfg.Users, cfg.BaseURL, cfg.Duration, cfg.RampUp, cfg.ThinkTime)

	report, err := sim.Run(ctx)
	report.Print(os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load run stopped early: %s\n", err)
		return 1
	}
	return 0
}
