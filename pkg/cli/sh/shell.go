// Package sh implements the interactive operator shell for rover
// controllers. Subcommand packages register their commands in init
// through AddCmds, so a main only needs a blank import and Main.
package sh

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"reflect"
	"time"

	"github.com/abiosoft/ishell"

	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/telemetry"
	env "github.com/robotalks/rover.go/pkg/telemetry/env/connector"
	"github.com/robotalks/rover.go/pkg/telemetry/msgs"
)

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "

	// CommandTimeout bounds the wait for a command reply.
	CommandTimeout = time.Second
)

// Shell is the operator shell. One rover connection is active at a
// time; its message loop runs in the background while ishell owns
// the terminal.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell   *ishell.Shell
	Config  *env.Config
	Session *Session
}

// Session is the state of one rover connection: the connection, the
// loop pumping it, and the cancel releasing both.
type Session struct {
	Ctx    context.Context
	Cancel func()
	Ref    telemetry.ControllerRef
	Loop   *fx.Loop
	Conn   telemetry.ControllerConn
}

var (
	evalOnly   bool
	outputJSON bool

	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluate arguments only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds registers shell commands. Command packages call this from
// their init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates the shell with all registered commands.
func New(conf *env.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom recovers the Shell inside a command func.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected guards a command func behind an active session.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Session == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// FormatInfo renders one discovered rover for display.
func FormatInfo(info telemetry.ControllerInfo) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "%s", info.Ref.Name())
	if info.Meta.Description != "" {
		fmt.Fprintf(&w, ": %s", info.Meta.Description)
	}
	return w.String()
}

// DoCommand sends a command over the active session, waits for the
// reply and prints it.
func DoCommand(c *ishell.Context, msg fx.Message) error {
	s := ShellFrom(c)
	if s.Session == nil {
		err := fmt.Errorf("not connected")
		c.Err(err)
		return err
	}
	f := s.Session.Conn.DoCommand(msg)
	select {
	case res := <-f.ResultChan():
		if res.Err != nil {
			c.Err(res.Err)
			return res.Err
		}
		return s.printResult(c, res.Msg)
	case <-time.After(CommandTimeout):
		c.Err(fmt.Errorf("command timeout"))
		return context.DeadlineExceeded
	}
}

func (s *Shell) printResult(c *ishell.Context, msg fx.Message) error {
	reply := msg.(msgs.SerializableMessage).Serializable()
	if s.OutputJSON {
		out, err := json.Marshal(reply)
		if err != nil {
			c.Err(err)
			return err
		}
		c.Println(string(out))
		return nil
	}
	if _, ok := msg.(*msgs.CommandOK); ok {
		c.Println("OK")
		return nil
	}
	name := reflect.Indirect(reflect.ValueOf(msg)).Type().Name()
	c.Printf("%s %s\n", name, reply.String())
	return nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// DiscoverControllers lists reachable rovers, optionally filtered.
func (s *Shell) DiscoverControllers(filter func(telemetry.ControllerInfo) bool) (telemetry.Connector, []telemetry.ControllerInfo, error) {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return nil, nil, err
	}
	infoList, err := connector.Discover(context.TODO())
	if err != nil {
		return connector, nil, err
	}
	if filter == nil {
		return connector, infoList, nil
	}
	items := infoList[:0]
	for _, info := range infoList {
		if filter(info) {
			items = append(items, info)
		}
	}
	return connector, items, nil
}

// SelectController discovers rovers and, when several match, asks
// the operator to pick one. A nil info with a nil error means none
// were found.
func (s *Shell) SelectController(filter func(telemetry.ControllerInfo) bool) (telemetry.Connector, *telemetry.ControllerInfo, error) {
	connector, infoList, err := s.DiscoverControllers(filter)
	if err != nil {
		return nil, nil, err
	}
	if len(infoList) == 0 {
		return connector, nil, nil
	}
	var index int
	if len(infoList) > 1 {
		if !s.Interactive {
			return nil, nil, fmt.Errorf("%d rovers discovered in non-interactive mode", len(infoList))
		}
		items := make([]string, len(infoList))
		for n, info := range infoList {
			items[n] = FormatInfo(info)
		}
		index = s.Shell.MultiChoice(items, "Which rover?")
	}
	return connector, &infoList[index], nil
}

// Connect opens a session to ref, replacing any active one.
func (s *Shell) Connect(ref telemetry.ControllerRef) error {
	connector, err := s.Config.NewConnector()
	if err != nil {
		return err
	}
	sess := &Session{Ref: ref}
	sess.Ctx, sess.Cancel = context.WithCancel(context.Background())
	if sess.Conn, err = connector.Connect(sess.Ctx, ref); err != nil {
		sess.Cancel()
		return err
	}
	sess.Loop = fx.NewLoop()
	if adder, ok := sess.Conn.(fx.LoopAdder); ok {
		sess.Loop.Add(adder)
	}
	s.Disconnect()
	s.Session = sess
	go sess.Loop.Run(sess.Ctx)
	s.Shell.SetPrompt(ref.Name() + " > ")
	return nil
}

// Disconnect closes the active session, if any.
func (s *Shell) Disconnect() {
	if s.Session == nil {
		return
	}
	s.Session.Cancel()
	s.Session = nil
	s.Shell.SetPrompt(unconnectedPrompt)
}

// Run processes args when present, otherwise enters the interactive
// shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.Ref.IsValid() {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.Ref.Name())
		}
		if err := s.Connect(s.Config.Ref); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.Ref.Name(), err)
		}
	}

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if !s.Interactive {
		log.Fatalln("command expected")
	}
	s.Shell.Run()
}

var (
	// DiscoverCmd lists reachable rovers.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			_, infoList, err := s.DiscoverControllers(nil)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if infoList == nil {
					infoList = []telemetry.ControllerInfo{}
				}
				out, err := json.Marshal(infoList)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(infoList) == 0 {
				c.Println("No rovers found")
				return
			}
			for _, info := range infoList {
				c.Println(FormatInfo(info))
			}
		},
	}

	// ConnectCmd opens a session, discovering when no full ref is given.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[TYPE [ID]]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var ref telemetry.ControllerRef
			if len(c.Args) >= 2 {
				ref.Type, ref.ID = c.Args[0], c.Args[1]
			} else {
				var filter func(telemetry.ControllerInfo) bool
				if len(c.Args) == 1 {
					filter = func(info telemetry.ControllerInfo) bool {
						return info.Ref.Type == c.Args[0]
					}
				}
				_, info, err := s.SelectController(filter)
				if err != nil {
					c.Err(err)
					return
				}
				if info == nil {
					c.Err(fmt.Errorf("no rover discovered"))
					return
				}
				ref = info.Ref
			}
			if err := s.Connect(ref); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd closes the active session.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main wires flags, env and the shell for a one-line main func.
func Main() {
	flag.Parse()
	New(env.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
