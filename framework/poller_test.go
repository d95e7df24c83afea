package framework

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForReturnsValueOnceConditionIsMet(t *testing.T) {
	becomesTrueAt := time.Now().Add(150 * time.Millisecond)

	start := time.Now()
	v, err := WaitFor(context.Background(), time.Second, MinPollInterval,
		func(context.Context) (string, error) {
			if time.Now().Before(becomesTrueAt) {
				return "", errors.New("not yet")
			}
			return "ready", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "ready", v)
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 150*time.Millisecond-MinPollInterval)
	assert.Less(t, elapsed, 500*time.Millisecond)
}

func TestWaitForTimesOutWithLastTransientFailure(t *testing.T) {
	attempts := 0
	start := time.Now()
	_, err := WaitFor(context.Background(), 200*time.Millisecond, 50*time.Millisecond,
		func(context.Context) (int, error) {
			attempts++
			return 0, errors.New("still missing")
		})

	elapsed := time.Since(start)
	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.EqualError(t, timeout.LastErr, "still missing")
	assert.Greater(t, attempts, 1)
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	assert.Less(t, elapsed, 400*time.Millisecond)
}

func TestWaitForAttemptsPredicateAtLeastOnceOnZeroTimeout(t *testing.T) {
	attempts := 0
	v, err := WaitFor(context.Background(), 0, MinPollInterval,
		func(context.Context) (string, error) {
			attempts++
			return "immediate", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "immediate", v)
	assert.Equal(t, 1, attempts)
}

func TestWaitForZeroTimeoutStillTimesOutAfterOneAttempt(t *testing.T) {
	attempts := 0
	_, err := WaitFor(context.Background(), 0, MinPollInterval,
		func(context.Context) (string, error) {
			attempts++
			return "", errors.New("nope")
		})

	var timeout *TimeoutError
	require.ErrorAs(t, err, &timeout)
	assert.Equal(t, 1, attempts)
}

func TestWaitForFailsFastWhenContextIsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(100*time.Millisecond, cancel)

	start := time.Now()
	_, err := WaitFor(ctx, 10*time.Second, 50*time.Millisecond,
		func(context.Context) (int, error) {
			return 0, errors.New("not yet")
		})

	require.ErrorIs(t, err, ErrSessionClosed)
	assert.Less(t, time.Since(start), time.Second,
		"cancellation should not wait out the full timeout")
}

func TestWaitForClampsIntervalToAvoidBusySpin(t *testing.T) {
	attempts := 0
	_, err := WaitFor(context.Background(), 100*time.Millisecond, time.Nanosecond,
		func(context.Context) (int, error) {
			attempts++
			return 0, errors.New("never")
		})

	require.Error(t, err)
	// With the minimum interval enforced the attempt count stays bounded.
	assert.LessOrEqual(t, attempts, int(100*time.Millisecond/MinPollInterval)+2)
}
