package link

import (
	"github.com/robotalks/rover.go/internal/syncutil"
)

// Exchanger performs one leader-initiated byte exchange: out is
// clocked to the follower, the follower's byte for this exchange is
// returned.
type Exchanger interface {
	Exchange(out byte) (byte, error)
}

// Loopback connects a leader directly to an in-process Follower,
// modeling the transport's one-exchange transmit pipeline: the byte
// the follower computes during exchange n is physically clocked out
// during exchange n+1. The staging register preloads the committed
// command, matching the hardware's initial buffer load.
type Loopback struct {
	lock     syncutil.Mutex
	follower *Follower
	staged   byte
}

// NewLoopback creates a Loopback wired to follower.
func NewLoopback(follower *Follower) *Loopback {
	return &Loopback{
		follower: follower,
		staged:   byte(follower.Command()),
	}
}

// Exchange implements Exchanger.
func (lb *Loopback) Exchange(out byte) (byte, error) {
	lb.lock.Lock()
	defer lb.lock.Unlock()
	in := lb.staged
	lb.staged = lb.follower.Respond(out)
	return in, nil
}
