package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunParamsDefaults(t *testing.T) {
	var p runParams
	require.True(t, p.Read([]string{"-url", "http://app.local"}))

	assert.Equal(t, "http://app.local", p.baseURL)
	assert.True(t, p.headless)
	assert.Equal(t, 1, p.parallel)
	assert.Equal(t, 10*time.Second, p.timeout)
}

func TestRunParamsFilters(t *testing.T) {
	var p runParams
	require.True(t, p.Read([]string{"-url", "http://app.local", "-run", "^auth", "-skip", "logout"}))

	filter := p.filters.AsFilter
	assert.True(t, filter("auth/login"))
	assert.False(t, filter("domains/add domain"))
	assert.False(t, filter("auth/logout"))
}

func TestRunParamsCommandLineIsShellSafe(t *testing.T) {
	var p runParams
	require.True(t, p.Read([]string{"-url", "http://app.local/base path"}))

	line := p.commandLine()
	assert.Contains(t, line, "e2e-harness run")
	assert.Contains(t, line, `'http://app.local/base path'`)
}

func TestLoadParamsDefaults(t *testing.T) {
	var p loadParams
	require.True(t, p.Read([]string{"-url", "http://app.local", "-users", "25", "-duration", "2m"}))

	assert.Equal(t, 25, p.users)
	assert.Equal(t, 2*time.Minute, p.duration)
	assert.Equal(t, time.Duration(0), p.thinkTime)
}
