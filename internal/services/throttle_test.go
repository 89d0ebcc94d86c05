package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEachRunsInOrderAndSpacesCalls(t *testing.T) {
	var got []int
	var stamps []time.Time

	err := Each(context.Background(), NewThrottle(20*time.Millisecond), []int{1, 2, 3}, func(i int) error {
		got = append(got, i)
		stamps = append(stamps, time.Now())
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, got)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[0]), 30*time.Millisecond)
}

func TestEachStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	err := Each(context.Background(), NewThrottle(0), []string{"a", "b", "c"}, func(string) error {
		calls++
		if calls == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestThrottleHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Each(ctx, NewThrottle(0), []int{1}, func(int) error {
		t.Fatal("fn must not run after cancellation")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelaysScale(t *testing.T) {
	half := DefaultDelays.Scale(0.5)
	assert.Equal(t, 50*time.Millisecond, half.Taxonomy)
	assert.Equal(t, 100*time.Millisecond, half.Posts)
	assert.Equal(t, Delays{}, DefaultDelays.Scale(0))
}
