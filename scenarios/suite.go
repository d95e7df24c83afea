package scenarios

import (
	"github.com/domainkeeper/e2e-harness/framework"
)

// Suite is the full scenario set for the application under test, in the
// order they run when execution is sequential.
func Suite(env *Env) []framework.Scenario {
	return []framework.Scenario{
		{Name: "auth/register new account", Run: wrap(env, testRegisterNewAccount)},
		{Name: "auth/login", Run: wrap(env, testLogin)},
		{Name: "auth/logout", Run: wrap(env, testLogout)},
		{Name: "domains/add domain", Run: wrap(env, testAddDomain)},
		{Name: "domains/delete domain", Run: wrap(env, testDeleteDomain)},
		{Name: "domains/refresh domain", Run: wrap(env, testRefreshDomain)},
		{Name: "schedule/set schedule", Run: wrap(env, testSetSchedule)},
		{Name: "schedule/stop schedule", Run: wrap(env, testStopSchedule)},
	}
}

// RunSuite executes the scenario set and returns the aggregated report.
func RunSuite(env *Env, cfg framework.RunConfig) framework.RunReport {
	return framework.RunScenarios(cfg, Suite(env))
}
