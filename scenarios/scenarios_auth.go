package scenarios

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/domainkeeper/e2e-harness/browser"
)

// Locators for the auth pages. These are data about the application under
// test, kept in one place per flow.
const (
	registerUsernameField = "#register-username"
	registerEmailField    = "#register-email"
	registerPasswordField = "#register-password"
	registerSubmitButton  = "#register-submit"

	loginUsernameField = "#login-username"
	loginPasswordField = "#login-password"
	loginSubmitButton  = "#login-submit"

	logoutLink   = "#logout"
	flashMessage = ".flash"
	pageHeading  = "h1"
)

type account struct {
	username string
	email    string
	password string
}

// newAccount generates credentials unique to this scenario run so repeated
// runs against the same deployment never collide.
func newAccount() account {
	tag := uuid.New().String()[:8]
	return account{
		username: "e2e-" + tag,
		email:    fmt.Sprintf("e2e-%s@example.com", tag),
		password: "pw-" + tag,
	}
}

// register fills in the registration form for a fresh account and submits.
func register(t *T, a account) {
	t.MustNavigate("/register")
	t.MustType(browser.ElementVisible(registerUsernameField), a.username)
	t.MustType(browser.ElementVisible(registerEmailField), a.email)
	t.MustType(browser.ElementVisible(registerPasswordField), a.password)
	t.MustClick(browser.ElementClickable(registerSubmitButton))
}

// login signs in with an existing account and waits for the landing page.
func login(t *T, a account) {
	t.MustNavigate("/login")
	t.MustType(browser.ElementVisible(loginUsernameField), a.username)
	t.MustType(browser.ElementVisible(loginPasswordField), a.password)
	t.MustClick(browser.ElementClickable(loginSubmitButton))
}

// registerAndLogin is the common preamble for scenarios that need an
// authenticated session.
func registerAndLogin(t *T) account {
	a := newAccount()
	register(t, a)
	login(t, a)
	t.WaitForElement(browser.ElementVisible(pageHeading))
	return a
}

func testRegisterNewAccount(t *T) {
	a := newAccount()
	register(t, a)
	t.AssertTextContains(browser.ElementVisible(flashMessage), "Account created")
}

func testLogin(t *T) {
	a := newAccount()
	register(t, a)
	login(t, a)
	t.AssertTextContains(browser.ElementVisible(pageHeading), "Welcome")
}

func testLogout(t *T) {
	registerAndLogin(t)
	t.MustClick(browser.ElementClickable(logoutLink))
	t.AssertTextContains(browser.ElementVisible(flashMessage), "Signed out")
}
