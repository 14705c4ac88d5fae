// Package bot assembles the rover control stack: plant, beacon
// detector, motion supervisor and telemetry bridge, wired into one
// control loop.
package bot

import (
	"github.com/robotalks/rover.go/pkg/beacon"
	fx "github.com/robotalks/rover.go/pkg/framework"
	"github.com/robotalks/rover.go/pkg/motion"
	"github.com/robotalks/rover.go/pkg/sim"
	"github.com/robotalks/rover.go/pkg/telemetry"
	env "github.com/robotalks/rover.go/pkg/telemetry/env/controller"
)

// Controller is the rover controller. The plant is simulated; real
// motor and sensor implementations plug in through motion.Drive and
// motion.Sensors and live out of tree.
type Controller struct {
	Env        *env.Env
	Plant      *sim.Rover
	World      *sim.World
	Detector   *beacon.Detector
	Supervisor *motion.Supervisor
	Bridge     *telemetry.Bridge

	counter sim.VirtualCounter
	emitter *sim.Emitter
	tapeOn  bool
}

// NewController creates the controller.
func NewController(e *env.Env, conf *Config) *Controller {
	c := &Controller{Env: e}
	c.Plant = sim.NewRover()
	c.World = sim.NewWorld(c.Plant)
	c.World.Beacon = sim.Pos2D{X: conf.BeaconX, Y: conf.BeaconY}
	c.World.Tape = sim.Rect{
		Pos2D:  sim.Pos2D{X: conf.TapeX, Y: conf.TapeY},
		Size2D: sim.Size2D{CX: conf.TapeCX, CY: conf.TapeCY},
	}
	c.Detector = beacon.NewDetector(conf.Beacon, &c.counter)
	c.emitter = sim.NewEmitter(&c.counter, c.Detector, conf.Beacon, conf.SignalHz)
	c.emitter.Gate = c.World.BeaconPresent
	drive := &motion.LoggingDrive{Drive: c.Plant}
	c.Supervisor = motion.MustNewSupervisor(conf.Motion, drive, c.World)
	c.Bridge = telemetry.NewBridge(e.Registrar, c.Supervisor, c.Detector)
	return c
}

// Name implements Named.
func (c *Controller) Name() string {
	return c.Env.Config.Info.Ref.Name()
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.Add(c.Detector, c.Supervisor, c.Bridge, c.emitter)
	l.AddController(fx.PrLvSense, fx.ControlFunc(c.senseTape))
}

// senseTape posts a TapeMsg on the rising edge of the tape sensor.
func (c *Controller) senseTape(cc fx.ControlContext) error {
	on := c.World.TapePresent()
	if on && !c.tapeOn {
		cc.Messages().AddMessages(&motion.TapeMsg{})
	}
	c.tapeOn = on
	return nil
}
