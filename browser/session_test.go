package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domainkeeper/e2e-harness/framework"
)

func newTestSession(d Driver) *Session {
	return NewSession(Config{
		BaseURL:        "http://app.local",
		DefaultTimeout: time.Second,
		PollInterval:   framework.MinPollInterval,
	}, d, framework.NullLogger())
}

func TestFindElementSucceedsWhenElementAppearsWithinTimeout(t *testing.T) {
	driver := NewFakeDriver()
	driver.AddElementAfter("#late", 200*time.Millisecond, &FakeElement{TextContent: "Welcome"})
	s := newTestSession(driver)
	defer s.Close()

	start := time.Now()
	el, err := s.FindElement(ElementPresent("#late").WithTimeout(2 * time.Second))
	require.NoError(t, err)

	text, err := el.Text(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Welcome", text)
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

func TestFindElementFailsWithElementNotFoundAfterTimeout(t *testing.T) {
	driver := NewFakeDriver()
	driver.AddElementAfter("#late", 2*time.Second, &FakeElement{})
	s := newTestSession(driver)
	defer s.Close()

	start := time.Now()
	_, err := s.FindElement(ElementPresent("#late").WithTimeout(300 * time.Millisecond))

	var notFound *framework.ElementNotFound
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "#late", notFound.Locator)

	var timeout *framework.TimeoutError
	assert.ErrorAs(t, err, &timeout, "the cause should carry the timeout")
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
	assert.Less(t, time.Since(start), time.Second)
}

func TestFindElementChecksCondition(t *testing.T) {
	driver := NewFakeDriver()
	status := &FakeElement{TextContent: "refreshing"}
	driver.AddElement("#hidden", &FakeElement{Hidden: true})
	driver.AddElement("#status", status)
	s := newTestSession(driver)
	defer s.Close()

	_, err := s.FindElement(ElementVisible("#hidden").WithTimeout(100 * time.Millisecond))
	var notFound *framework.ElementNotFound
	require.ErrorAs(t, err, &notFound)

	// The text condition is satisfied as soon as the page updates.
	go func() {
		time.Sleep(150 * time.Millisecond)
		status.SetText("status: OK")
	}()
	_, err = s.FindElement(ElementText("#status", "OK").WithTimeout(2 * time.Second))
	assert.NoError(t, err)
}

func TestFindElementFailsFastWhenSessionIsClosedMidWait(t *testing.T) {
	driver := NewFakeDriver()
	s := newTestSession(driver)

	go func() {
		time.Sleep(100 * time.Millisecond)
		s.Close()
	}()

	start := time.Now()
	_, err := s.FindElement(ElementPresent("#never").WithTimeout(10 * time.Second))
	require.ErrorIs(t, err, framework.ErrSessionClosed)
	assert.Less(t, time.Since(start), time.Second)
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	driver := NewFakeDriver()
	s := newTestSession(driver)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, driver.CloseCount())
	assert.True(t, s.Closed())
}

func TestNavigateResolvesAgainstBaseURL(t *testing.T) {
	driver := NewFakeDriver()
	s := newTestSession(driver)
	defer s.Close()

	require.NoError(t, s.Navigate("/login"))
	assert.Equal(t, "http://app.local/login", driver.CurrentURL())

	require.NoError(t, s.Navigate("https://elsewhere.example.com/x"))
	assert.Equal(t, "https://elsewhere.example.com/x", driver.CurrentURL())
}

func TestNavigateAfterCloseFails(t *testing.T) {
	driver := NewFakeDriver()
	s := newTestSession(driver)
	require.NoError(t, s.Close())

	err := s.Navigate("/login")
	assert.ErrorIs(t, err, framework.ErrSessionClosed)
}

func TestAcceptAlertWaitsForDialogToOpen(t *testing.T) {
	driver := NewFakeDriver()
	s := newTestSession(driver)
	defer s.Close()

	// The popup does not exist yet when first checked; the poller retries.
	driver.QueueAlertAfter(150 * time.Millisecond)
	require.NoError(t, s.AcceptAlert(2*time.Second))
	assert.Equal(t, 1, driver.AlertsHandled())
}

func TestAcceptAlertTimesOutWhenNoDialogOpens(t *testing.T) {
	driver := NewFakeDriver()
	s := newTestSession(driver)
	defer s.Close()

	err := s.AcceptAlert(200 * time.Millisecond)
	var timeout *framework.TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.EqualError(t, timeout.LastErr, "no dialog open")
}
