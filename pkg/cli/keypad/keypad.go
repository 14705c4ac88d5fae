// Package keypad provides the single-letter maneuver console used
// on the follower board.
package keypad

import (
	"github.com/abiosoft/ishell"

	"github.com/robotalks/rover.go/pkg/link"
)

// Key bindings, one letter per maneuver.
var keyMap = []struct {
	key  string
	cmd  link.Command
	help string
}{
	{"s", link.CmdStop, "stop"},
	{"w", link.CmdDriveFwdFull, "drive forward, full speed"},
	{"q", link.CmdDriveFwdHalf, "drive forward, half speed"},
	{"x", link.CmdDriveRevFull, "drive reverse, full speed"},
	{"z", link.CmdDriveRevHalf, "drive reverse, half speed"},
	{"d", link.CmdRotateCW90, "rotate clockwise 90"},
	{"e", link.CmdRotateCW45, "rotate clockwise 45"},
	{"a", link.CmdRotateCCW90, "rotate counter-clockwise 90"},
	{"r", link.CmdRotateCCW45, "rotate counter-clockwise 45"},
	{"b", link.CmdAlignBeacon, "align with beacon"},
	{"t", link.CmdSearchTape, "search for tape"},
}

// Console is an ishell staging maneuvers on a Follower.
type Console struct {
	Shell    *ishell.Shell
	Follower *link.Follower
}

// New creates the console.
func New(f *link.Follower) *Console {
	c := &Console{
		Shell:    ishell.New(),
		Follower: f,
	}
	c.Shell.SetPrompt("rover> ")
	for _, binding := range keyMap {
		cmd, help := binding.cmd, binding.help
		c.Shell.AddCmd(&ishell.Cmd{
			Name: binding.key,
			Help: help,
			Func: func(ic *ishell.Context) {
				c.Follower.SetCommand(cmd)
				ic.Printf("staged: %v\n", cmd)
			},
		})
	}
	return c
}

// Run runs the console until exit.
func (c *Console) Run() {
	c.Shell.Run()
}
