package beacon

import (
	"flag"
)

// Default measurement parameters, matching the reference hardware:
// 20 MHz peripheral bus clock, timer prescale 256, capture on every
// 16th edge, 1427 Hz beacon with ±50 Hz tolerance.
const (
	DefaultBusClockHz     = 20000000
	DefaultTimerPrescale  = 256
	DefaultCaptureDivisor = 16
	DefaultTargetHz       = 1427
	DefaultToleranceHz    = 50
)

// Config defines beacon measurement parameters.
type Config struct {
	BusClockHz     uint
	TimerPrescale  uint
	CaptureDivisor uint
	TargetHz       float64
	ToleranceHz    float64
}

// Default fills in default values.
func (c *Config) Default() *Config {
	c.BusClockHz = DefaultBusClockHz
	c.TimerPrescale = DefaultTimerPrescale
	c.CaptureDivisor = DefaultCaptureDivisor
	c.TargetHz = DefaultTargetHz
	c.ToleranceHz = DefaultToleranceHz
	return c
}

// SetupFlags setup command line flags.
func (c *Config) SetupFlags() *Config {
	flag.UintVar(&c.BusClockHz, "beacon-bus-clock", c.BusClockHz, "peripheral bus clock in Hz")
	flag.UintVar(&c.TimerPrescale, "beacon-prescale", c.TimerPrescale, "edge timer prescale")
	flag.UintVar(&c.CaptureDivisor, "beacon-capture-div", c.CaptureDivisor, "capture every Nth edge")
	flag.Float64Var(&c.TargetHz, "beacon-target-hz", c.TargetHz, "target beacon frequency in Hz")
	flag.Float64Var(&c.ToleranceHz, "beacon-tolerance-hz", c.ToleranceHz, "beacon frequency tolerance in Hz")
	return c
}

// NewConfig creates Config with default values.
func NewConfig() *Config {
	return new(Config).Default()
}

// Estimator turns successive edge timestamps into a smoothed
// frequency estimate. Not safe for concurrent use; it is driven
// from a single control loop.
type Estimator struct {
	cfg      Config
	last     Ticks
	primed   bool
	first    bool
	smoothed float64
}

// NewEstimator creates an Estimator with cfg.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: cfg, first: true}
}

// OnEdge consumes one edge timestamp and returns the updated
// smoothed interval. The first timestamp only primes the previous
// sample and returns 0.
func (e *Estimator) OnEdge(ts Ticks) float64 {
	if !e.primed {
		e.primed = true
		e.last = ts
		return 0
	}
	var delta Ticks
	if ts >= e.last {
		delta = ts - e.last
	} else {
		delta = (TicksMax - e.last) + ts + 1
	}
	e.last = ts
	if e.first {
		e.smoothed = float64(delta)
		e.first = false
	} else {
		// Single-pole low-pass, 1:5 weight ratio.
		e.smoothed = (float64(delta) + 5*e.smoothed) / 6
	}
	return e.smoothed
}

// Smoothed returns the current smoothed interval in ticks.
func (e *Estimator) Smoothed() float64 {
	return e.smoothed
}

// Frequency converts the smoothed interval to Hz. Returns 0 before
// any interval is available.
func (e *Estimator) Frequency() float64 {
	return e.cfg.Frequency(e.smoothed)
}

// InBand reports whether the current estimate is within tolerance
// of the target frequency.
func (e *Estimator) InBand() bool {
	return e.cfg.InBand(e.Frequency())
}

// Frequency converts a smoothed interval in ticks to Hz.
func (c *Config) Frequency(smoothed float64) float64 {
	if smoothed == 0 {
		return 0
	}
	timerClock := float64(c.BusClockHz) / float64(c.TimerPrescale)
	return timerClock / (smoothed * float64(c.CaptureDivisor))
}

// InBand reports whether hz is within tolerance of the target.
func (c *Config) InBand(hz float64) bool {
	return hz >= c.TargetHz-c.ToleranceHz && hz <= c.TargetHz+c.ToleranceHz
}
