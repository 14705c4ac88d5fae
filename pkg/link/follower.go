package link

import (
	"github.com/robotalks/rover.go/internal/syncutil"
)

// FollowerState is the state of the follower reply machine.
type FollowerState int

const (
	// FollowerIdle repeats the committed command on every exchange.
	FollowerIdle FollowerState = iota
	// FollowerSendingFlag replies the 0xFF flag on the next exchange.
	FollowerSendingFlag
	// FollowerSendingValue replies the committed command once, then idles.
	FollowerSendingValue
)

// Follower is the follower-side reply state machine. SetCommand is
// called by the local command source; Respond is called from the
// transport's byte-exchange callback and computes the reply for one
// exchange. Respond does not model the transmit pipeline of the
// hardware: staging the reply for the next exchange is the
// transport's concern (see Loopback and serialport.Responder).
type Follower struct {
	lock    syncutil.Mutex
	state   FollowerState
	current Command
}

// NewFollower creates a Follower committed to CmdStop.
func NewFollower() *Follower {
	return &Follower{}
}

// SetCommand commits a command. A changed command arms the
// flag+value framing sequence; CmdStop always re-arms, even when the
// follower is already stopped, so the leader observes an explicit
// stop frame. A command committed while a frame is in flight is
// dropped: the reply stream never carries two consecutive flags,
// and the started frame always completes with its own value.
func (f *Follower) SetCommand(cmd Command) {
	f.lock.Lock()
	if f.state == FollowerIdle && (cmd != f.current || cmd == CmdStop) {
		f.current = cmd
		f.state = FollowerSendingFlag
	}
	f.lock.Unlock()
}

// Command returns the committed command.
func (f *Follower) Command() Command {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.current
}

// State returns the current reply state.
func (f *Follower) State() FollowerState {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.state
}

// Respond computes the reply byte for one exchange. The received
// query payload does not influence the reply; unexpected values from
// the leader are ignored.
func (f *Follower) Respond(received byte) byte {
	f.lock.Lock()
	defer f.lock.Unlock()
	switch f.state {
	case FollowerSendingFlag:
		f.state = FollowerSendingValue
		return FlagByte
	case FollowerSendingValue:
		f.state = FollowerIdle
		return byte(f.current)
	default:
		return byte(f.current)
	}
}
