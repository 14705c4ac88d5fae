// Package beacon measures the frequency of an infrared beacon from
// edge timestamps and reports when it matches the target band.
package beacon

import (
	"github.com/robotalks/rover.go/internal/syncutil"
)

// Ticks is a 32-bit timestamp in timer ticks, extended from the
// 16-bit hardware counter by a rollover count.
type Ticks uint32

// TicksMax is the maximum 32-bit timestamp, used for wraparound
// interval computation.
const TicksMax Ticks = 0xFFFFFFFF

// Counter16 abstracts the 16-bit free-running hardware counter
// behind the edge timer.
type Counter16 interface {
	// Read returns the current 16-bit count.
	Read() uint16
	// OverflowPending reports whether the counter wrapped since
	// the last ClearOverflow.
	OverflowPending() bool
	// ClearOverflow acknowledges a pending wrap.
	ClearOverflow()
}

// EdgeTimer extends a 16-bit counter to 32-bit monotonic edge
// timestamps. Two event sources feed it concurrently: OnEdge from
// the edge-capture path and OnOverflow from the counter-wrap path.
// Both contend for the rollover count, so the wrap may be observed
// by either first; OnEdge resolves a pending wrap itself when the
// captured low half shows the counter already wrapped, keeping
// timestamps monotonic regardless of which source ran first.
type EdgeTimer struct {
	lock      syncutil.Mutex
	ctr       Counter16
	rollovers uint16
}

// NewEdgeTimer creates an EdgeTimer over ctr.
func NewEdgeTimer(ctr Counter16) *EdgeTimer {
	return &EdgeTimer{ctr: ctr}
}

// OnEdge timestamps one qualifying edge. If a wrap is pending and
// the captured count is in the lower half of the range, the capture
// happened after the wrap but before OnOverflow ran, so the wrap is
// folded in here and acknowledged.
func (t *EdgeTimer) OnEdge() Ticks {
	t.lock.Lock()
	defer t.lock.Unlock()
	low := t.ctr.Read()
	if t.ctr.OverflowPending() && low < 0x8000 {
		t.rollovers++
		t.ctr.ClearOverflow()
	}
	return Ticks(uint32(t.rollovers)<<16 | uint32(low))
}

// OnOverflow counts one wrap of the 16-bit counter. The pending
// check guards against the wrap having been resolved by a
// concurrent OnEdge already.
func (t *EdgeTimer) OnOverflow() {
	t.lock.Lock()
	defer t.lock.Unlock()
	if t.ctr.OverflowPending() {
		t.rollovers++
		t.ctr.ClearOverflow()
	}
}
