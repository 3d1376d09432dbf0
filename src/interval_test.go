package libreorama

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// fakeClock drives IntervalTimer's nowFunc/sleepFunc deterministically. Sleep
// advances the clock by the requested duration plus a configurable jitter,
// standing in for the OS scheduler occasionally over- or under-sleeping.
type fakeClock struct {
	now    time.Time
	jitter []time.Duration
	call   int
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(d time.Duration) {
	j := time.Duration(0)
	if c.call < len(c.jitter) {
		j = c.jitter[c.call]
	}
	c.call++
	c.now = c.now.Add(d + j)
}

func newTestIntervalTimer(normal time.Duration, clock *fakeClock) *IntervalTimer {
	it := NewIntervalTimer(normal)
	it.nowFunc = clock.Now
	it.sleepFunc = clock.Sleep
	return it
}

// TestIntervalTimer_correctsForSchedulerJitter checks that across many
// ticks, scheduler over/under-sleeps in one iteration are compensated for
// in the next, so the mean realized period stays close to "normal" even
// though no single sleep call lasted exactly "normal".
func TestIntervalTimer_correctsForSchedulerJitter(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		normal := 50 * time.Millisecond
		const ticks = 100

		jitters := make([]time.Duration, ticks)
		for i := range jitters {
			ms := rapid.IntRange(-10, 10).Draw(t, "jitter_ms")
			jitters[i] = time.Duration(ms) * time.Millisecond
		}

		clock := &fakeClock{now: time.Unix(0, 0), jitter: jitters}
		it := newTestIntervalTimer(normal, clock)

		start := clock.now
		for i := 0; i < ticks; i++ {
			it.Wake()
			it.Sleep()
		}
		elapsed := clock.now.Sub(start)

		want := normal * ticks
		diff := elapsed - want
		if diff < 0 {
			diff = -diff
		}
		// Only the very last tick's jitter escapes correction (no later sleep
		// is left to compensate it); every earlier tick's jitter is offset
		// by the next sleep's shortened/lengthened duration.
		assert.LessOrEqual(t, diff, 10*time.Millisecond+normal)
	})
}

func TestIntervalTimer_firstSleepTargetsNormal(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	it := newTestIntervalTimer(20*time.Millisecond, clock)

	it.Wake()
	before := clock.now
	it.Sleep()

	assert.Equal(t, 20*time.Millisecond, clock.now.Sub(before))
}

func TestIntervalTimer_neverSleepsNegative(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	it := newTestIntervalTimer(10*time.Millisecond, clock)

	// Force a large positive jitter so the timer believes it overslept
	// drastically, then check the following sleep doesn't go negative.
	clock.jitter = []time.Duration{5 * time.Second}

	it.Wake()
	it.Sleep() // consumes the huge jittered sleep, sets goal small next time

	it.Wake()
	before := clock.now
	it.Sleep()

	assert.True(t, !clock.now.Before(before), "clock must never run backwards")
}
