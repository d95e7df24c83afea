package framework

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStoreWritesScreenshotsKeyedByScenario(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	path, err := store.SaveScreenshot("auth/login", []byte("png-bytes"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.Contains(t, filepath.Base(path), "auth-login")
}

func TestArtifactStoreSeparatesRuns(t *testing.T) {
	base := t.TempDir()
	s1, err := NewArtifactStore(base)
	require.NoError(t, err)
	s2, err := NewArtifactStore(base)
	require.NoError(t, err)
	assert.NotEqual(t, s1.Dir(), s2.Dir())
}

func TestArtifactStorePersistsRunReport(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	report := RunReport{
		StartedAt: time.Now(),
		Duration:  3 * time.Second,
		Outcomes: []Outcome{
			{Scenario: "auth/login", Status: StatusPassed, Duration: time.Second},
			{Scenario: "domains/add domain", Status: StatusFailed,
				Failures: []string{"h1: expected \"Welcome\", got \"Error\""}},
		},
	}

	path, err := store.SaveReport(report)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded RunReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Outcomes, 2)
	assert.Equal(t, StatusFailed, decoded.Outcomes[1].Status)
	assert.False(t, decoded.OK())
}
