package loadtest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTasksCoverEveryDefaultWeight(t *testing.T) {
	names := map[string]bool{}
	for _, task := range DefaultTasks() {
		names[task.Name] = true
	}
	for name := range DefaultWeights() {
		assert.True(t, names[name], "weight refers to task %q", name)
	}
}

func TestTasksPostToTheirEndpoints(t *testing.T) {
	rh, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(rh)
	defer server.Close()

	client := &http.Client{Timeout: time.Second}
	expected := map[string]string{
		"register":      "/register",
		"login":         "/login",
		"addDomain":     "/domains/add",
		"deleteDomain":  "/domains/delete",
		"refreshDomain": "/domains/refresh",
		"setSchedule":   "/schedule/set",
		"stopSchedule":  "/schedule/stop",
	}

	for _, task := range DefaultTasks() {
		require.NoError(t, task.Do(context.Background(), client, server.URL, "u1"))
		info := <-requestsCh
		assert.Equal(t, http.MethodPost, info.Request.Method, task.Name)
		assert.Equal(t, expected[task.Name], info.Request.URL.Path, task.Name)
	}
}

func TestTaskReportsNonSuccessStatusAsError(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(500))
	defer server.Close()

	client := &http.Client{Timeout: time.Second}
	err := DefaultTasks()[0].Do(context.Background(), client, server.URL, "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
