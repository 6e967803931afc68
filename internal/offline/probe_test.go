package offline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeChecker flips between healthy and failing under test control.
type fakeChecker struct {
	mu      sync.Mutex
	healthy bool
}

func (c *fakeChecker) Health(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.healthy {
		return nil
	}
	return errors.New("unreachable")
}

func (c *fakeChecker) set(healthy bool) {
	c.mu.Lock()
	c.healthy = healthy
	c.mu.Unlock()
}

func TestProberSeedsStateOnStart(t *testing.T) {
	checker := &fakeChecker{healthy: true}
	prober := NewProber(checker, time.Hour)
	prober.Start()
	defer prober.Close()

	assert.True(t, prober.Online())
}

func TestProberSeedingIsNotATransition(t *testing.T) {
	for _, healthy := range []bool{true, false} {
		checker := &fakeChecker{healthy: healthy}
		prober := NewProber(checker, time.Hour)

		var mu sync.Mutex
		notified := 0
		unsubscribe := prober.Subscribe(func(online bool) {
			mu.Lock()
			notified++
			mu.Unlock()
		})

		prober.Start()
		assert.Equal(t, healthy, prober.Online())

		mu.Lock()
		assert.Zero(t, notified)
		mu.Unlock()

		unsubscribe()
		prober.Close()
	}
}

func TestProberNotifiesOnFlip(t *testing.T) {
	checker := &fakeChecker{healthy: true}
	prober := NewProber(checker, 20*time.Millisecond)

	var mu sync.Mutex
	var flips []bool
	unsubscribe := prober.Subscribe(func(online bool) {
		mu.Lock()
		flips = append(flips, online)
		mu.Unlock()
	})
	defer unsubscribe()

	prober.Start()
	defer prober.Close()
	require.True(t, prober.Online())

	checker.set(false)
	require.Eventually(t, func() bool { return !prober.Online() }, waitFor, tick)

	checker.set(true)
	require.Eventually(t, func() bool { return prober.Online() }, waitFor, tick)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{false, true}, flips)
}

func TestProberUnsubscribeStopsDelivery(t *testing.T) {
	checker := &fakeChecker{healthy: true}
	prober := NewProber(checker, 20*time.Millisecond)

	var mu sync.Mutex
	flips := 0
	unsubscribe := prober.Subscribe(func(online bool) {
		mu.Lock()
		flips++
		mu.Unlock()
	})

	prober.Start()
	defer prober.Close()

	unsubscribe()
	checker.set(false)
	require.Eventually(t, func() bool { return !prober.Online() }, waitFor, tick)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, flips)
}
