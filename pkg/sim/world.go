package sim

import (
	"math"

	"github.com/robotalks/rover.go/pkg/motion"
)

// DefaultBeaconFOV is the half-angle within which the rover's beacon
// sensor sees the tower.
const DefaultBeaconFOV = 10 * math.Pi / 180

// World models the floor the rover drives on: a beacon tower the
// sensor sees when facing it, and a marked tape strip. It implements
// motion.Sensors for the supervisor.
type World struct {
	Rover     *Rover
	Beacon    Pos2D
	BeaconFOV float64
	Tape      Rect
}

// NewWorld creates the world around a rover plant.
func NewWorld(rover *Rover) *World {
	return &World{
		Rover:     rover,
		BeaconFOV: DefaultBeaconFOV,
	}
}

// BeaconPresent implements Sensors. The sensor sees the tower when
// the rover's heading is within the field of view of the bearing to
// the tower.
func (w *World) BeaconPresent() bool {
	pose := w.Rover.Pose()
	bearing := Angle(math.Atan2(w.Beacon.Y-pose.Y, w.Beacon.X-pose.X))
	return math.Abs(pose.Orientation.Diff(bearing)) <= w.BeaconFOV
}

// TapePresent implements Sensors.
func (w *World) TapePresent() bool {
	return w.Tape.Contains(w.Rover.Pose().Pos2D)
}

var _ motion.Sensors = (*World)(nil)
