package engine

import "sync/atomic"

// Clock is the monotonic revision counter of a Controller.
//
// Every dispatched event advances the clock by one, and each Snapshot
// carries the revision it was taken at. The event log stores revisions as
// its sequence numbers, so a replayed session reproduces them exactly.
//
// Clock uses atomic operations so a Snapshot's revision can be read while
// a different goroutine owns the Controller.
type Clock struct {
	rev atomic.Int64
}

// NewClock creates a clock at revision 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock at a given revision.
// Used to resume numbering after replaying a stored log.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.rev.Store(start)
	return c
}

// Next advances the clock and returns the new revision.
func (c *Clock) Next() int64 {
	return c.rev.Add(1)
}

// Current returns the latest revision without advancing.
func (c *Clock) Current() int64 {
	return c.rev.Load()
}
