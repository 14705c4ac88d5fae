package link

import (
	"fmt"

	fx "github.com/robotalks/rover.go/pkg/framework"
)

// Command is a single-byte maneuver command carried over the link.
type Command byte

// Command whitelist. Any byte outside this set is invalid and
// must be discarded by the receiver.
const (
	CmdStop         Command = 0x00
	CmdRotateCW90   Command = 0x02
	CmdRotateCW45   Command = 0x03
	CmdRotateCCW90  Command = 0x04
	CmdRotateCCW45  Command = 0x05
	CmdDriveFwdHalf Command = 0x08
	CmdDriveFwdFull Command = 0x09
	CmdDriveRevHalf Command = 0x10
	CmdDriveRevFull Command = 0x11
	CmdAlignBeacon  Command = 0x20
	CmdSearchTape   Command = 0x40
)

// Link byte values.
const (
	// FlagByte announces "a new command follows" on the next exchange.
	// It is reserved and never a valid command.
	FlagByte byte = 0xFF
	// QueryByte is the payload the leader clocks out on each poll.
	// The follower's reply is independent of it.
	QueryByte byte = 0xAA
)

var commandNames = map[Command]string{
	CmdStop:         "stop",
	CmdRotateCW90:   "rotate-cw-90",
	CmdRotateCW45:   "rotate-cw-45",
	CmdRotateCCW90:  "rotate-ccw-90",
	CmdRotateCCW45:  "rotate-ccw-45",
	CmdDriveFwdHalf: "drive-fwd-half",
	CmdDriveFwdFull: "drive-fwd-full",
	CmdDriveRevHalf: "drive-rev-half",
	CmdDriveRevFull: "drive-rev-full",
	CmdAlignBeacon:  "align-beacon",
	CmdSearchTape:   "search-tape",
}

// Valid checks the command against the whitelist.
func (c Command) Valid() bool {
	_, ok := commandNames[c]
	return ok
}

// String implements Stringer.
func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("invalid(0x%02x)", byte(c))
}

// ParseCommand resolves a maneuver name back to its command byte.
func ParseCommand(name string) (Command, bool) {
	for cmd, n := range commandNames {
		if n == name {
			return cmd, true
		}
	}
	return 0, false
}

// CommandNames lists all valid maneuver names.
func CommandNames() []string {
	names := make([]string, 0, len(commandNames))
	for _, n := range commandNames {
		names = append(names, n)
	}
	return names
}

// CommandMsg is posted into the control loop when the leader
// retrieves a freshly framed command from the link.
type CommandMsg struct {
	Command Command
}

// NewMessage implements Message.
func (m *CommandMsg) NewMessage() fx.Message { return &CommandMsg{} }
