package sim

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rover.go/pkg/motion"
)

func newTestRover() (*Rover, func(d time.Duration)) {
	now := time.Unix(0, 0)
	r := NewRover()
	r.Now = func() time.Time { return now }
	r.lastTime = now
	advance := func(d time.Duration) { now = now.Add(d) }
	return r, advance
}

func TestRoverDriveStraight(t *testing.T) {
	r, advance := newTestRover()
	require.NoError(t, r.SetMotion(motion.FullSpeedTicks, motion.FullSpeedTicks, motion.Forward, motion.Forward))
	advance(time.Second)
	pose := r.Pose()
	require.InDelta(t, DefaultFullSpeed, pose.X, 1e-9)
	require.InDelta(t, 0, pose.Y, 1e-9)
	require.InDelta(t, 0, pose.Orientation.Radians(), 1e-9)
}

func TestRoverDriveHalfReverse(t *testing.T) {
	r, advance := newTestRover()
	require.NoError(t, r.SetMotion(motion.HalfSpeedTicks, motion.HalfSpeedTicks, motion.Reverse, motion.Reverse))
	advance(2 * time.Second)
	pose := r.Pose()
	require.InDelta(t, -2*DefaultFullSpeed*float64(motion.HalfSpeedTicks)/float64(motion.FullSpeedTicks), pose.X, 1e-9)
}

func TestRoverRotateInPlace(t *testing.T) {
	r, advance := newTestRover()
	// Left forward, right reverse turns clockwise.
	require.NoError(t, r.SetMotion(motion.FullSpeedTicks, motion.FullSpeedTicks, motion.Forward, motion.Reverse))
	advance(100 * time.Millisecond)
	pose := r.Pose()
	require.InDelta(t, 0, pose.X, 1e-9)
	require.InDelta(t, 0, pose.Y, 1e-9)
	w := -2 * DefaultFullSpeed / DefaultTrackWidth
	require.InDelta(t, w*0.1, pose.Orientation.Radians(), 1e-9)
}

func TestRoverArc(t *testing.T) {
	r, advance := newTestRover()
	require.NoError(t, r.SetMotion(0, motion.FullSpeedTicks, motion.Forward, motion.Forward))
	v := DefaultFullSpeed / 2
	w := DefaultFullSpeed / DefaultTrackWidth
	// Drive a quarter of the turn circle.
	quarter := time.Duration(float64(time.Second) * (math.Pi / 2) / w)
	advance(quarter)
	pose := r.Pose()
	radius := v / w
	require.InDelta(t, radius, pose.X, 1e-6)
	require.InDelta(t, radius, pose.Y, 1e-6)
	require.InDelta(t, math.Pi/2, pose.Orientation.Radians(), 1e-6)
}

func TestRoverStopFreezesPose(t *testing.T) {
	r, advance := newTestRover()
	require.NoError(t, r.SetMotion(motion.FullSpeedTicks, motion.FullSpeedTicks, motion.Forward, motion.Forward))
	advance(time.Second)
	require.NoError(t, motion.Neutral(r))
	advance(time.Hour)
	require.InDelta(t, DefaultFullSpeed, r.Pose().X, 1e-9)
}

func TestWorldSensors(t *testing.T) {
	r, _ := newTestRover()
	w := NewWorld(r)
	w.Beacon = Pos2D{X: 1, Y: 0}
	w.Tape = Rect{Pos2D: Pos2D{X: 2, Y: -1}, Size2D: Size2D{CX: 1, CY: 2}}

	require.True(t, w.BeaconPresent())
	require.False(t, w.TapePresent())

	r.SetPose(Pose2D{Orientation: AngleFromDegrees(90)})
	require.False(t, w.BeaconPresent())

	r.SetPose(Pose2D{Pos2D: Pos2D{X: 2.5, Y: 0}})
	require.True(t, w.TapePresent())
}
