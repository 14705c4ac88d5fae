package motion

import (
	"github.com/robotalks/rover.go/pkg/link"
)

// DefaultDeferralCapacity bounds the number of commands held while
// a maneuver is in flight.
const DefaultDeferralCapacity = 4

// DeferralQueue is a small bounded FIFO of commands captured while
// the supervisor is busy, replayed in arrival order once it returns
// to Stopped. Overflow drops the newest command and is reported by
// the caller.
type DeferralQueue struct {
	capacity int
	cmds     []link.Command
}

// NewDeferralQueue creates a queue bounded to capacity commands.
func NewDeferralQueue(capacity int) *DeferralQueue {
	if capacity <= 0 {
		capacity = DefaultDeferralCapacity
	}
	return &DeferralQueue{capacity: capacity}
}

// Push appends cmd, returning false when the queue is full and the
// command was dropped.
func (q *DeferralQueue) Push(cmd link.Command) bool {
	if len(q.cmds) >= q.capacity {
		return false
	}
	q.cmds = append(q.cmds, cmd)
	return true
}

// Pop removes and returns the oldest command.
func (q *DeferralQueue) Pop() (link.Command, bool) {
	if len(q.cmds) == 0 {
		return 0, false
	}
	cmd := q.cmds[0]
	q.cmds = q.cmds[1:]
	return cmd, true
}

// Len returns the number of queued commands.
func (q *DeferralQueue) Len() int {
	return len(q.cmds)
}
