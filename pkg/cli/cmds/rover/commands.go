// Package rover provides shell commands for driving the rover
// controller remotely.
package rover

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rover.go/pkg/cli/sh"
	"github.com/robotalks/rover.go/pkg/link"
	"github.com/robotalks/rover.go/pkg/telemetry/msgs"
)

var (
	// ManeuverCmd sends a named maneuver.
	ManeuverCmd = ishell.Cmd{
		Name:    "maneuver",
		Aliases: []string{"m"},
		Help:    "NAME (one of: " + maneuverNames() + ")",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("NAME required"))
				return
			}
			cmd, ok := link.ParseCommand(c.Args[0])
			if !ok {
				c.Err(fmt.Errorf("unknown maneuver %q, expect one of: %s", c.Args[0], maneuverNames()))
				return
			}
			sh.DoCommand(c, &msgs.ManeuverCmd{Command: uint32(cmd)})
		}),
	}

	// StopCmd stops the rover.
	StopCmd = ishell.Cmd{
		Name:    "stop",
		Aliases: []string{"s"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.ManeuverCmd{Command: uint32(link.CmdStop)})
		}),
	}

	// StateCmd queries the supervisor state.
	StateCmd = ishell.Cmd{
		Name:    "state",
		Aliases: []string{"st"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.StateQuery{})
		}),
	}
)

func maneuverNames() string {
	names := link.CommandNames()
	sort.Strings(names)
	return strings.Join(names, ", ")
}

func init() {
	sh.AddCmds(
		&ManeuverCmd,
		&StopCmd,
		&StateCmd,
	)
}
