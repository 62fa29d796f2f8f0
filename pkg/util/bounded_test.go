package util_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixmachan/dc-bot/pkg/util"
)

func TestBoundedReturnsResult(t *testing.T) {
	v, err, ok := util.Bounded(func() (int, error) { return 42, nil }, time.Second, nil)
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestBoundedPassesErrorThrough(t *testing.T) {
	boom := errors.New("boom")
	_, err, ok := util.Bounded(func() (int, error) { return 0, boom }, time.Second, nil)
	require.True(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestBoundedTimeoutDiscardsLateOutcome(t *testing.T) {
	release := make(chan struct{})
	discarded := make(chan int, 1)

	_, _, ok := util.Bounded(func() (int, error) {
		<-release
		return 7, nil
	}, 10*time.Millisecond, func(v int, _ error) {
		discarded <- v
	})
	require.False(t, ok)

	close(release)
	select {
	case v := <-discarded:
		assert.Equal(t, 7, v)
	case <-time.After(2 * time.Second):
		t.Fatal("late outcome was never discarded")
	}
}
