package bot

import (
	"flag"

	"github.com/robotalks/rover.go/pkg/beacon"
	"github.com/robotalks/rover.go/pkg/motion"
	env "github.com/robotalks/rover.go/pkg/telemetry/env/controller"
)

// Config defines the configuration for the rover control stack.
type Config struct {
	Beacon beacon.Config
	Motion motion.Config

	// SignalHz is the true frequency of the simulated beacon tower.
	SignalHz float64
	// BeaconX/BeaconY place the tower on the floor.
	BeaconX, BeaconY float64
	// Tape strip placement.
	TapeX, TapeY, TapeCX, TapeCY float64
}

var defaultConfig = Config{
	SignalHz: beacon.DefaultTargetHz,
	BeaconX:  2,
	TapeX:    1, TapeY: -0.5, TapeCX: 0.5, TapeCY: 1,
}

func init() {
	defaultConfig.Beacon.Default()
	// The virtual capture timer counts unprescaled bus ticks.
	defaultConfig.Beacon.TimerPrescale = 1
	defaultConfig.Motion.Default()
}

// SetupFlags sets command line flags.
func SetupFlags() {
	defaultConfig.Beacon.SetupFlags()
	defaultConfig.Motion.SetupFlags()
	flag.Float64Var(&defaultConfig.SignalHz, "sim-beacon-hz", defaultConfig.SignalHz, "Simulated beacon signal frequency (Hz).")
	flag.Float64Var(&defaultConfig.BeaconX, "sim-beacon-x", defaultConfig.BeaconX, "Beacon tower X (m).")
	flag.Float64Var(&defaultConfig.BeaconY, "sim-beacon-y", defaultConfig.BeaconY, "Beacon tower Y (m).")
	flag.Float64Var(&defaultConfig.TapeX, "sim-tape-x", defaultConfig.TapeX, "Tape strip X (m).")
	flag.Float64Var(&defaultConfig.TapeY, "sim-tape-y", defaultConfig.TapeY, "Tape strip Y (m).")
	flag.Float64Var(&defaultConfig.TapeCX, "sim-tape-cx", defaultConfig.TapeCX, "Tape strip width (m).")
	flag.Float64Var(&defaultConfig.TapeCY, "sim-tape-cy", defaultConfig.TapeCY, "Tape strip height (m).")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewController creates the Controller.
func (c *Config) NewController(e *env.Env) *Controller {
	return NewController(e, c)
}
