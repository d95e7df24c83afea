package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alessio/shellescape"

	"github.com/domainkeeper/e2e-harness/browser"
	"github.com/domainkeeper/e2e-harness/framework"
)

const defaultBaseURL = "http://127.0.0.1:8080"

type runParams struct {
	baseURL      string
	headless     bool
	timeout      time.Duration
	retries      int
	parallel     int
	filters      framework.RegexFilters
	artifactsDir string
	debug        bool
	debugAll     bool
}

func (p *runParams) Read(args []string) bool {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	fs.StringVar(&p.baseURL, "url", defaultBaseURL, "base URL of the application under test")
	fs.BoolVar(&p.headless, "headless", true, "run the browser without a visible window")
	fs.DurationVar(&p.timeout, "timeout", browser.DefaultTimeout, "default poll timeout for element waits")
	fs.IntVar(&p.retries, "retries", browser.DefaultRetryCount, "attempt budget for element actions")
	fs.IntVar(&p.parallel, "parallel", 1, "number of scenarios to run concurrently")
	fs.Var(&p.filters.MustMatch, "run", "regex pattern(s) to select scenarios to run")
	fs.Var(&p.filters.MustNotMatch, "skip", "regex pattern(s) to select scenarios not to run")
	fs.StringVar(&p.artifactsDir, "artifacts", "artifacts", "directory for screenshots and run reports")
	fs.BoolVar(&p.debug, "debug", false, "enable debug logging for failed scenarios")
	fs.BoolVar(&p.debugAll, "debug-all", false, "enable debug logging for all scenarios")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if p.baseURL == "" {
		fmt.Fprintln(os.Stderr, "-url is required")
		fs.Usage()
		return false
	}
	return true
}

// commandLine reconstructs the invocation so a failed CI run can be
// reproduced by pasting one line.
func (p *runParams) commandLine() string {
	var b commandBuilder
	b.add("e2e-harness", "run", "-url", p.baseURL)
	if !p.headless {
		b.add("-headless=false")
	}
	b.add("-timeout", p.timeout.String())
	b.add("-retries", fmt.Sprintf("%d", p.retries))
	if p.parallel > 1 {
		b.add("-parallel", fmt.Sprintf("%d", p.parallel))
	}
	if p.artifactsDir != "artifacts" {
		b.add("-artifacts", p.artifactsDir)
	}
	return b.String()
}

type loadParams struct {
	baseURL     string
	users       int
	duration    time.Duration
	rampUp      time.Duration
	thinkTime   time.Duration
	timeout     time.Duration
	profilePath string
	debug       bool
}

func (p *loadParams) Read(args []string) bool {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	fs.StringVar(&p.baseURL, "url", defaultBaseURL, "base URL of the application under test")
	fs.IntVar(&p.users, "users", 10, "number of concurrent virtual users")
	fs.DurationVar(&p.duration, "duration", 30*time.Second, "how long the load run lasts")
	fs.DurationVar(&p.rampUp, "rampup", 0, "window over which virtual user starts are staggered")
	fs.DurationVar(&p.thinkTime, "think", 0, "delay between a virtual user's iterations")
	fs.DurationVar(&p.timeout, "timeout", 10*time.Second, "per-request HTTP timeout")
	fs.StringVar(&p.profilePath, "profile", "", "JSON load profile overriding these options")
	fs.BoolVar(&p.debug, "debug", false, "log every failed request")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if p.baseURL == "" {
		fmt.Fprintln(os.Stderr, "-url is required")
		fs.Usage()
		return false
	}
	return true
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
