// Package sched provides a deterministic, virtual-time scheduler for
// narrative delays. Nothing runs in the background: beats fire only when the
// owner calls Advance, on the owner's goroutine.
package sched

import (
	"sort"
	"time"
)

type beat struct {
	due time.Duration
	seq int
	fn  func()
}

// Timeline is a queue of delayed callbacks measured against a virtual clock.
// The zero value is ready to use. Not safe for concurrent use.
type Timeline struct {
	now   time.Duration
	seq   int
	beats []beat
}

// Schedule registers fn to run once delay has elapsed on the timeline.
// Negative delays are treated as zero.
func (t *Timeline) Schedule(delay time.Duration, fn func()) {
	if delay < 0 {
		delay = 0
	}
	t.seq++
	t.beats = append(t.beats, beat{due: t.now + delay, seq: t.seq, fn: fn})
	sort.SliceStable(t.beats, func(i, j int) bool {
		if t.beats[i].due != t.beats[j].due {
			return t.beats[i].due < t.beats[j].due
		}
		return t.beats[i].seq < t.beats[j].seq
	})
}

// Advance moves the clock forward by d and runs every beat that became due,
// in due order. Beats scheduled by a running beat are measured from that
// beat's due time and fire in the same call if they fall inside the window.
// Returns the number of beats run.
func (t *Timeline) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := t.now + d
	fired := 0
	for len(t.beats) > 0 && t.beats[0].due <= target {
		b := t.beats[0]
		t.beats = t.beats[1:]
		t.now = b.due
		b.fn()
		fired++
	}
	t.now = target
	return fired
}

// Next returns the time remaining until the next beat is due.
func (t *Timeline) Next() (time.Duration, bool) {
	if len(t.beats) == 0 {
		return 0, false
	}
	return t.beats[0].due - t.now, true
}

// Len returns the number of pending beats.
func (t *Timeline) Len() int {
	return len(t.beats)
}

// Now returns the current virtual time.
func (t *Timeline) Now() time.Duration {
	return t.now
}
