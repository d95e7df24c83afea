package scenarios

import (
	"time"

	"github.com/domainkeeper/e2e-harness/browser"
)

const (
	scheduleIntervalSelect = "#schedule-interval"
	scheduleSetButton      = "#schedule-set"
	scheduleStopButton     = "#schedule-stop"
	scheduleStateCell      = "#schedule-state"
	scheduleLastRunCell    = "#schedule-last-run"
)

// scheduleFireBudget bounds how long we wait for the background scheduler to
// execute at least once after being set to its shortest interval.
const scheduleFireBudget = 90 * time.Second

func testSetSchedule(t *T) {
	registerAndLogin(t)
	addDomain(t, uniqueDomain())

	t.MustNavigate("/schedule")
	t.MustSelect(browser.ElementVisible(scheduleIntervalSelect), "1m")
	t.MustClick(browser.ElementClickable(scheduleSetButton))
	t.AssertTextContains(browser.ElementVisible(flashMessage), "Schedule updated")
	t.AssertTextAppears(scheduleStateCell, "active", 0)

	// The scheduler runs in the background; the last-run cell is the
	// observable effect we poll for instead of sleeping out an interval.
	t.AssertTextAppears(scheduleLastRunCell, "20", scheduleFireBudget)
}

func testStopSchedule(t *T) {
	registerAndLogin(t)

	t.MustNavigate("/schedule")
	t.MustSelect(browser.ElementVisible(scheduleIntervalSelect), "1m")
	t.MustClick(browser.ElementClickable(scheduleSetButton))
	t.AssertTextAppears(scheduleStateCell, "active", 0)

	t.MustClick(browser.ElementClickable(scheduleStopButton))
	t.MustAcceptAlert()
	t.AssertTextAppears(scheduleStateCell, "stopped", 0)
}
