package motion

import (
	"flag"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rover.go/internal/syncutil"
	"github.com/robotalks/rover.go/pkg/beacon"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/link"
)

// State is the supervisor state.
type State int

// Supervisor states.
const (
	Stopped State = iota
	SimpleMoving
	SearchingForTape
	AligningWithBeacon
)

var stateNames = map[State]string{
	Stopped:            "stopped",
	SimpleMoving:       "simple-moving",
	SearchingForTape:   "searching-for-tape",
	AligningWithBeacon: "aligning-with-beacon",
}

// String implements Stringer.
func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(s))
}

// Strategy selects how commands arriving mid-maneuver are handled.
type Strategy int

const (
	// Preempt re-enters Stopped and re-dispatches the new command
	// immediately, aborting the in-flight maneuver.
	Preempt Strategy = iota
	// DeferAndReplay queues the new command and replays it, in
	// arrival order, once the in-flight maneuver completes.
	DeferAndReplay
)

// ParseStrategy resolves a strategy name.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "preempt":
		return Preempt, nil
	case "defer":
		return DeferAndReplay, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", name)
}

// String implements Stringer.
func (s Strategy) String() string {
	if s == DeferAndReplay {
		return "defer"
	}
	return "preempt"
}

// Default maneuver durations.
const (
	DefaultRotate90Duration    = 1500 * time.Millisecond
	DefaultRotate45Duration    = 750 * time.Millisecond
	DefaultDriveDuration       = 3 * time.Second
	DefaultBeaconAlignDuration = 5 * time.Second
	DefaultTapeSearchDuration  = 10 * time.Second
)

// Config defines supervisor parameters.
type Config struct {
	Rotate90    time.Duration
	Rotate45    time.Duration
	Drive       time.Duration
	BeaconAlign time.Duration
	TapeSearch  time.Duration
	Strategy    string
	DeferralCap int
}

// Default fills in default values.
func (c *Config) Default() *Config {
	c.Rotate90 = DefaultRotate90Duration
	c.Rotate45 = DefaultRotate45Duration
	c.Drive = DefaultDriveDuration
	c.BeaconAlign = DefaultBeaconAlignDuration
	c.TapeSearch = DefaultTapeSearchDuration
	c.Strategy = Preempt.String()
	c.DeferralCap = DefaultDeferralCapacity
	return c
}

// SetupFlags setup command line flags.
func (c *Config) SetupFlags() *Config {
	flag.DurationVar(&c.Rotate90, "motion-rotate90", c.Rotate90, "90 degree rotation duration")
	flag.DurationVar(&c.Rotate45, "motion-rotate45", c.Rotate45, "45 degree rotation duration")
	flag.DurationVar(&c.Drive, "motion-drive", c.Drive, "straight drive duration")
	flag.DurationVar(&c.BeaconAlign, "motion-align-timeout", c.BeaconAlign, "beacon alignment timeout")
	flag.DurationVar(&c.TapeSearch, "motion-search-timeout", c.TapeSearch, "tape search timeout")
	flag.StringVar(&c.Strategy, "motion-strategy", c.Strategy, "mid-maneuver command strategy (preempt|defer)")
	flag.IntVar(&c.DeferralCap, "motion-defer-cap", c.DeferralCap, "deferred command queue capacity")
	return c
}

// NewConfig creates Config with default values.
func NewConfig() *Config {
	return new(Config).Default()
}

// Maneuver timer tag prefixes. Each armed timer gets a unique tag
// so a timeout that raced with preemption can never be attributed
// to a newer maneuver.
const (
	moveTimer   = "motion/move"
	alignTimer  = "motion/align"
	searchTimer = "motion/search"
)

// TapeMsg is posted into the loop when the tape sensor asserts.
type TapeMsg struct {
}

// NewMessage implements Message.
func (m *TapeMsg) NewMessage() fx.Message { return &TapeMsg{} }

// StateChangedMsg is added whenever the supervisor transitions.
type StateChangedMsg struct {
	From  State
	To    State
	Cause string
}

// NewMessage implements Message.
func (m *StateChangedMsg) NewMessage() fx.Message { return &StateChangedMsg{} }

// ManeuverFailedMsg is added for reportable, non-fatal maneuver
// failures: expired search/align timeouts and deferral overflow.
type ManeuverFailedMsg struct {
	State  State
	Reason string
}

// NewMessage implements Message.
func (m *ManeuverFailedMsg) NewMessage() fx.Message { return &ManeuverFailedMsg{} }

// Supervisor dispatches link commands to timed maneuvers and reacts
// to sensor and timeout events. All transitions happen on the
// control loop; State is readable from other goroutines.
type Supervisor struct {
	Drive   Drive
	Sensors Sensors

	cfg      Config
	strategy Strategy
	timers   *fx.Timers
	deferred *DeferralQueue
	gen      uint64
	armedTag string

	lock  syncutil.RWMutex
	state State
}

// NewSupervisor creates a Supervisor with cfg.
func NewSupervisor(cfg Config, drive Drive, sensors Sensors) (*Supervisor, error) {
	strategy, err := ParseStrategy(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	return &Supervisor{
		Drive:    drive,
		Sensors:  sensors,
		cfg:      cfg,
		strategy: strategy,
		deferred: NewDeferralQueue(cfg.DeferralCap),
	}, nil
}

// MustNewSupervisor is like NewSupervisor but panics on bad config.
func MustNewSupervisor(cfg Config, drive Drive, sensors Sensors) *Supervisor {
	s, err := NewSupervisor(cfg, drive, sensors)
	if err != nil {
		panic(err)
	}
	return s
}

// State returns the current supervisor state.
func (s *Supervisor) State() State {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.state
}

// Deferred returns the number of commands waiting for replay.
func (s *Supervisor) Deferred() int {
	return s.deferred.Len()
}

// AddToLoop implements LoopAdder.
func (s *Supervisor) AddToLoop(l *fx.Loop) {
	s.timers = fx.NewTimers(l)
	l.AddController(fx.PrLvControl, s)
}

// Control implements Controller.
func (s *Supervisor) Control(ctx fx.ControlContext) error {
	ctx.Messages().ProcessMessages(fx.ProcessMessageFunc(
		func(mc fx.MessageProcessingContext) {
			switch msg := mc.CurrentMessage().(type) {
			case *link.CommandMsg:
				mc.MessageTaken()
				s.onCommand(mc, msg.Command)
			case *fx.TimeoutMsg:
				s.onTimeout(mc, msg.Tag)
			case *beacon.BeaconMsg:
				if s.state == AligningWithBeacon {
					mc.MessageTaken()
					s.disarmTimer()
					s.neutral()
					s.transition(mc, Stopped, "beacon detected")
					s.replay(mc)
				}
			case *TapeMsg:
				if s.state == SearchingForTape {
					mc.MessageTaken()
					s.disarmTimer()
					s.neutral()
					s.transition(mc, Stopped, "tape detected")
					s.replay(mc)
				}
			}
		}))
	return nil
}

func (s *Supervisor) onCommand(mc fx.MessageAppender, cmd link.Command) {
	if !cmd.Valid() {
		glog.Errorf("motion: invalid command 0x%02x ignored", byte(cmd))
		return
	}
	if s.state == Stopped {
		s.dispatch(mc, cmd)
		return
	}
	switch s.strategy {
	case DeferAndReplay:
		if !s.deferred.Push(cmd) {
			glog.Errorf("motion: deferred command queue full, %v dropped", cmd)
			mc.AddMessages(&ManeuverFailedMsg{State: s.state, Reason: "deferral overflow"})
			return
		}
		glog.V(1).Infof("motion: %v deferred", cmd)
	default:
		glog.V(1).Infof("motion: %v preempts %v", cmd, s.state)
		s.disarmTimer()
		s.transition(mc, Stopped, "preempted")
		s.dispatch(mc, cmd)
	}
}

// dispatch acts on a command from the Stopped state.
func (s *Supervisor) dispatch(mc fx.MessageAppender, cmd link.Command) {
	switch cmd {
	case link.CmdStop:
		s.neutral()
	case link.CmdRotateCW90:
		s.setMotion(FullSpeedTicks, FullSpeedTicks, Forward, Reverse)
		s.armTimer(moveTimer, s.cfg.Rotate90)
		s.transition(mc, SimpleMoving, cmd.String())
	case link.CmdRotateCW45:
		s.setMotion(FullSpeedTicks, FullSpeedTicks, Forward, Reverse)
		s.armTimer(moveTimer, s.cfg.Rotate45)
		s.transition(mc, SimpleMoving, cmd.String())
	case link.CmdRotateCCW90:
		s.setMotion(FullSpeedTicks, FullSpeedTicks, Reverse, Forward)
		s.armTimer(moveTimer, s.cfg.Rotate90)
		s.transition(mc, SimpleMoving, cmd.String())
	case link.CmdRotateCCW45:
		s.setMotion(FullSpeedTicks, FullSpeedTicks, Reverse, Forward)
		s.armTimer(moveTimer, s.cfg.Rotate45)
		s.transition(mc, SimpleMoving, cmd.String())
	case link.CmdDriveFwdHalf:
		s.setMotion(HalfSpeedTicks, HalfSpeedTicks, Forward, Forward)
		s.armTimer(moveTimer, s.cfg.Drive)
		s.transition(mc, SimpleMoving, cmd.String())
	case link.CmdDriveFwdFull:
		s.setMotion(FullSpeedTicks, FullSpeedTicks, Forward, Forward)
		s.armTimer(moveTimer, s.cfg.Drive)
		s.transition(mc, SimpleMoving, cmd.String())
	case link.CmdDriveRevHalf:
		s.setMotion(HalfSpeedTicks, HalfSpeedTicks, Reverse, Reverse)
		s.armTimer(moveTimer, s.cfg.Drive)
		s.transition(mc, SimpleMoving, cmd.String())
	case link.CmdDriveRevFull:
		s.setMotion(FullSpeedTicks, FullSpeedTicks, Reverse, Reverse)
		s.armTimer(moveTimer, s.cfg.Drive)
		s.transition(mc, SimpleMoving, cmd.String())
	case link.CmdAlignBeacon:
		s.transition(mc, AligningWithBeacon, cmd.String())
		if s.Sensors != nil && s.Sensors.BeaconPresent() {
			// Already aligned, complete without a motion pulse.
			s.neutral()
			s.transition(mc, Stopped, "beacon detected")
			s.replay(mc)
			return
		}
		s.setMotion(FullSpeedTicks, FullSpeedTicks, Forward, Reverse)
		s.armTimer(alignTimer, s.cfg.BeaconAlign)
	case link.CmdSearchTape:
		s.transition(mc, SearchingForTape, cmd.String())
		if s.Sensors != nil && s.Sensors.TapePresent() {
			// Already on tape, complete without a motion pulse.
			s.neutral()
			s.transition(mc, Stopped, "tape detected")
			s.replay(mc)
			return
		}
		s.setMotion(FullSpeedTicks, FullSpeedTicks, Forward, Forward)
		s.armTimer(searchTimer, s.cfg.TapeSearch)
	}
}

func (s *Supervisor) onTimeout(mc fx.MessageProcessingContext, tag string) {
	// A tag not matching the armed one belongs to a maneuver that
	// was already preempted or completed; leave it alone.
	if s.armedTag == "" || tag != s.armedTag {
		return
	}
	mc.MessageTaken()
	s.armedTag = ""
	switch s.state {
	case SimpleMoving:
		s.neutral()
		s.transition(mc, Stopped, "move complete")
	case SearchingForTape:
		glog.Errorf("motion: tape search failed: timeout")
		s.neutral()
		mc.AddMessages(&ManeuverFailedMsg{State: SearchingForTape, Reason: "timeout"})
		s.transition(mc, Stopped, "search timeout")
	case AligningWithBeacon:
		glog.Errorf("motion: beacon alignment failed: timeout")
		s.neutral()
		mc.AddMessages(&ManeuverFailedMsg{State: AligningWithBeacon, Reason: "timeout"})
		s.transition(mc, Stopped, "align timeout")
	default:
		return
	}
	s.replay(mc)
}

// replay re-dispatches deferred commands in arrival order until one
// of them leaves the Stopped state again.
func (s *Supervisor) replay(mc fx.MessageAppender) {
	for s.state == Stopped {
		cmd, ok := s.deferred.Pop()
		if !ok {
			return
		}
		glog.V(1).Infof("motion: replaying deferred %v", cmd)
		s.dispatch(mc, cmd)
	}
}

func (s *Supervisor) transition(mc fx.MessageAppender, to State, cause string) {
	s.lock.Lock()
	from := s.state
	s.state = to
	s.lock.Unlock()
	glog.V(1).Infof("motion: %v -> %v (%s)", from, to, cause)
	mc.AddMessages(&StateChangedMsg{From: from, To: to, Cause: cause})
}

// armTimer starts the maneuver timer under a unique tag. Only one
// maneuver timer is armed at a time.
func (s *Supervisor) armTimer(kind string, d time.Duration) {
	s.gen++
	s.armedTag = fmt.Sprintf("%s#%d", kind, s.gen)
	s.timers.Start(s.armedTag, d)
}

func (s *Supervisor) disarmTimer() {
	if s.armedTag != "" {
		s.timers.Stop(s.armedTag)
		s.armedTag = ""
	}
}

func (s *Supervisor) setMotion(speedLeft, speedRight uint16, dirLeft, dirRight Direction) {
	if err := s.Drive.SetMotion(speedLeft, speedRight, dirLeft, dirRight); err != nil {
		glog.Errorf("motion: drive error: %v", err)
	}
}

func (s *Supervisor) neutral() {
	if err := Neutral(s.Drive); err != nil {
		glog.Errorf("motion: drive error: %v", err)
	}
}
