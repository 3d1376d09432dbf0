package libreorama

import (
	"time"
)

/*------------------------------------------------------------------
 *
 * Purpose:	A drift-corrected monotonic interval timer: across many
 *		ticks the mean period converges to "normal" regardless of
 *		jitter in per-tick work time.
 *
 * Description:	Direct port of interval.c's interval_init/_wake/_sleep state
 *		machine (normal/wake_time/sleep_time/spent/goal/has_slept),
 *		using time.Time and time.Duration in place of manually
 *		normalized struct timespec arithmetic.
 *
 *------------------------------------------------------------------*/

// IntervalTimer implements the wake/sleep drift-correction state machine.
type IntervalTimer struct {
	normal    time.Duration
	wakeTime  time.Time
	sleepTime time.Time
	spent     time.Duration
	goal      time.Duration
	hasSlept  bool

	sleepFunc func(time.Duration)
	nowFunc   func() time.Time
}

// NewIntervalTimer constructs a timer targeting the given tick period.
func NewIntervalTimer(normal time.Duration) *IntervalTimer {
	return &IntervalTimer{
		normal:    normal,
		sleepFunc: time.Sleep,
		nowFunc:   time.Now,
	}
}

// Wake samples the clock at the start of a tick's work. On the first call
// it just records hasSlept; on later calls it measures time spent since the
// last Sleep call sampled the clock (the sleep itself included).
func (it *IntervalTimer) Wake() {
	it.wakeTime = it.nowFunc()
	if it.hasSlept {
		it.spent = it.wakeTime.Sub(it.sleepTime)
	} else {
		it.hasSlept = true
	}
}

// Sleep samples the clock, computes the drift-corrected sleep duration, and
// blocks for it.
func (it *IntervalTimer) Sleep() {
	it.sleepTime = it.nowFunc()
	sleepFor := (it.goal - it.spent) + it.normal
	it.goal = sleepFor
	if sleepFor > 0 {
		it.sleepFunc(sleepFor)
	}
}
