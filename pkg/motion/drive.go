// Package motion supervises timed open-loop maneuvers: rotations,
// straight drives, tape search and beacon alignment.
package motion

import (
	"github.com/golang/glog"
)

// Direction selects the rotation sense of one wheel.
type Direction int

// Wheel directions.
const (
	Forward Direction = iota
	Reverse
)

// String implements Stringer.
func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Wheel speeds in PWM duty ticks.
const (
	// HalfSpeedTicks is 50% duty cycle.
	HalfSpeedTicks uint16 = 1500
	// FullSpeedTicks is 100% duty cycle.
	FullSpeedTicks uint16 = 2000
)

// Drive is the motor actuation interface consumed by the
// supervisor.
type Drive interface {
	// SetMotion commands both wheels at once. Zero speed with any
	// direction is neutral.
	SetMotion(speedLeft, speedRight uint16, dirLeft, dirRight Direction) error
}

// Neutral commands d to a full stop.
func Neutral(d Drive) error {
	return d.SetMotion(0, 0, Forward, Forward)
}

// LoggingDrive wraps a Drive and logs every motion command.
type LoggingDrive struct {
	Drive Drive
}

// SetMotion implements Drive.
func (d *LoggingDrive) SetMotion(speedLeft, speedRight uint16, dirLeft, dirRight Direction) error {
	glog.V(1).Infof("motion: L=%d/%v R=%d/%v", speedLeft, dirLeft, speedRight, dirRight)
	if d.Drive == nil {
		return nil
	}
	return d.Drive.SetMotion(speedLeft, speedRight, dirLeft, dirRight)
}

// Sensors is the digital sensor interface consumed by the
// supervisor for the align/search entry optimization.
type Sensors interface {
	BeaconPresent() bool
	TapePresent() bool
}
