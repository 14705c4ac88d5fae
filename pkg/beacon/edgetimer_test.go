package beacon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeCounter16 is a scriptable 16-bit counter.
type fakeCounter16 struct {
	count    uint16
	overflow bool
}

func (c *fakeCounter16) Read() uint16          { return c.count }
func (c *fakeCounter16) OverflowPending() bool { return c.overflow }
func (c *fakeCounter16) ClearOverflow()        { c.overflow = false }

// advance moves the counter forward, flagging a wrap.
func (c *fakeCounter16) advance(ticks uint32) {
	next := uint32(c.count) + ticks
	if next > 0xFFFF {
		c.overflow = true
	}
	c.count = uint16(next)
}

func TestEdgeTimerMonotonic(t *testing.T) {
	ctr := &fakeCounter16{}
	et := NewEdgeTimer(ctr)

	var prev Ticks
	for i := 0; i < 500; i++ {
		ctr.advance(876)
		if ctr.overflow && i%2 == 0 {
			// Overflow handler ran before the capture.
			et.OnOverflow()
		}
		ts := et.OnEdge()
		require.Greater(t, ts, prev, "edge %d", i)
		prev = ts
	}
}

func TestEdgeTimerResolvesPendingWrapOnEdge(t *testing.T) {
	ctr := &fakeCounter16{count: 0xFFF0}
	et := NewEdgeTimer(ctr)
	require.Equal(t, Ticks(0xFFF0), et.OnEdge())

	// Counter wrapped, capture fired before the overflow handler.
	ctr.advance(0x0020)
	ts := et.OnEdge()
	require.Equal(t, Ticks(0x00010010), ts)
	require.False(t, ctr.overflow, "wrap must be acknowledged")

	// A late overflow handler run must not double-count the wrap.
	et.OnOverflow()
	ctr.count = 0x0100
	require.Equal(t, Ticks(0x00010100), et.OnEdge())
}

func TestEdgeTimerUpperHalfCaptureNotPreResolved(t *testing.T) {
	// A capture in the upper half of the range with a wrap pending
	// means the capture happened before the wrap; the wrap belongs
	// to the overflow handler.
	ctr := &fakeCounter16{count: 0x9000, overflow: true}
	et := NewEdgeTimer(ctr)
	require.Equal(t, Ticks(0x9000), et.OnEdge())
	require.True(t, ctr.overflow)
	et.OnOverflow()
	ctr.count = 0x0010
	require.Equal(t, Ticks(0x00010010), et.OnEdge())
}
