// Package framework contains the low-level test harness infrastructure that
// is independent of what is being tested: the condition poller, the scenario
// execution state machine, result aggregation, filters, logging, and the
// artifact store.
//
// The general model is:
//
// 1. A run coordinator (RunScenarios) executes a set of named scenarios,
// sequentially or with bounded parallelism, and aggregates one Outcome per
// scenario into a RunReport. Scenario failures never abort the run.
//
// 2. Each scenario gets a Context that works like Go's *testing.T (it
// accumulates failures, supports FailNow/Skip via panic, and runs deferred
// teardown on every exit path) but lives outside the Go test runner, with
// debug output captured for post-mortem display.
//
// 3. Eventual consistency in the system under test is always bridged with
// WaitFor, a predicate poll with a timeout budget, rather than fixed delays.
//
// The domain-specific code (the browser session layer and the scenario
// suite) builds its own API on top of these pieces.
package framework
