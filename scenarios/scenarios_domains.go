package scenarios

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/domainkeeper/e2e-harness/browser"
)

const (
	domainNameField     = "#domain-name"
	domainTypeSelect    = "#domain-type"
	domainAddButton     = "#domain-add"
	domainList          = "#domain-list"
	domainDeleteButton  = "#domain-list .delete"
	domainRefreshButton = "#domain-list .refresh"
	domainStatusCell    = "#domain-list .status"
)

func uniqueDomain() string {
	return fmt.Sprintf("e2e-%s.example.org", uuid.New().String()[:8])
}

// addDomain drives the add-domain form and waits for the new row to show up
// in the list, which refreshes asynchronously after submission.
func addDomain(t *T, name string) {
	t.MustNavigate("/domains")
	t.MustType(browser.ElementVisible(domainNameField), name)
	t.MustSelect(browser.ElementVisible(domainTypeSelect), "A")
	t.MustClick(browser.ElementClickable(domainAddButton))
	t.WaitForElement(browser.ElementText(domainList, name))
}

func testAddDomain(t *T) {
	registerAndLogin(t)
	name := uniqueDomain()
	addDomain(t, name)
	t.AssertTextContains(browser.ElementVisible(flashMessage), "Domain added")
}

func testDeleteDomain(t *T) {
	registerAndLogin(t)
	name := uniqueDomain()
	addDomain(t, name)

	// Deletion asks for confirmation in a popup that may not be open yet
	// when we first look for it.
	t.MustClick(browser.ElementClickable(domainDeleteButton))
	t.MustAcceptAlert()
	t.AssertTextContains(browser.ElementVisible(flashMessage), "Domain deleted")
}

func testRefreshDomain(t *T) {
	registerAndLogin(t)
	addDomain(t, uniqueDomain())

	t.MustClick(browser.ElementClickable(domainRefreshButton))
	// The status cell updates when the backend finishes the refresh.
	t.AssertTextAppears(domainStatusCell, "OK", 0)
}
