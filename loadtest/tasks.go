package loadtest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Task is one HTTP-level action a virtual user can perform against the
// target application. Do returns an error for transport failures and
// non-success statuses alike; the user loop records it and moves on.
type Task struct {
	Name string
	Do   func(ctx context.Context, client *http.Client, baseURL, userID string) error
}

// DefaultTasks is the task set for the application under test. Exact paths
// are owned by the application; weights are owned by the run configuration.
func DefaultTasks() []Task {
	return []Task{
		{Name: "register", Do: func(ctx context.Context, c *http.Client, base, user string) error {
			return postForm(ctx, c, base+"/register", url.Values{
				"username": {"load-" + user},
				"email":    {"load-" + user + "@example.com"},
				"password": {"pw-" + user},
			})
		}},
		{Name: "login", Do: func(ctx context.Context, c *http.Client, base, user string) error {
			return postForm(ctx, c, base+"/login", url.Values{
				"username": {"load-" + user},
				"password": {"pw-" + user},
			})
		}},
		{Name: "addDomain", Do: func(ctx context.Context, c *http.Client, base, user string) error {
			return postForm(ctx, c, base+"/domains/add", url.Values{
				"name": {"load-" + user + ".example.org"},
				"type": {"A"},
			})
		}},
		{Name: "deleteDomain", Do: func(ctx context.Context, c *http.Client, base, user string) error {
			return postForm(ctx, c, base+"/domains/delete", url.Values{
				"name": {"load-" + user + ".example.org"},
			})
		}},
		{Name: "refreshDomain", Do: func(ctx context.Context, c *http.Client, base, user string) error {
			return postForm(ctx, c, base+"/domains/refresh", url.Values{
				"name": {"load-" + user + ".example.org"},
			})
		}},
		{Name: "setSchedule", Do: func(ctx context.Context, c *http.Client, base, user string) error {
			return postForm(ctx, c, base+"/schedule/set", url.Values{
				"interval": {"1m"},
			})
		}},
		{Name: "stopSchedule", Do: func(ctx context.Context, c *http.Client, base, user string) error {
			return postForm(ctx, c, base+"/schedule/stop", nil)
		}},
	}
}

// DefaultWeights skews selection toward the read-mostly actions a real user
// mix would generate.
func DefaultWeights() TaskWeightTable {
	return TaskWeightTable{
		"register":      1,
		"login":         3,
		"addDomain":     3,
		"deleteDomain":  1,
		"refreshDomain": 2,
		"setSchedule":   1,
		"stopSchedule":  1,
	}
}

func postForm(ctx context.Context, client *http.Client, target string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target,
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	// Drain so the connection can be reused across iterations.
	io.Copy(io.Discard, resp.Body) //nolint:errcheck
	resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s returned status %d", target, resp.StatusCode)
	}
	return nil
}
