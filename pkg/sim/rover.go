package sim

import (
	"math"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rover.go/internal/syncutil"
	"github.com/robotalks/rover.go/pkg/motion"
)

// Default rover geometry and speed mapping.
const (
	DefaultTrackWidth = 0.2 // meters between wheels
	DefaultFullSpeed  = 0.5 // meters/sec at full duty
)

// Rover is the differential-drive plant. It implements motion.Drive
// and integrates the pose lazily from the last motion change, so
// Pose is exact at any query time regardless of loop cadence.
type Rover struct {
	TrackWidth float64
	FullSpeed  float64
	Now        func() time.Time

	lock          syncutil.Mutex
	pose          Pose2D
	vLeft, vRight float64
	lastTime      time.Time
}

// NewRover creates the plant with defaults.
func NewRover() *Rover {
	r := &Rover{
		TrackWidth: DefaultTrackWidth,
		FullSpeed:  DefaultFullSpeed,
		Now:        time.Now,
	}
	r.lastTime = r.Now()
	return r
}

// SetMotion implements motion.Drive.
func (r *Rover) SetMotion(speedLeft, speedRight uint16, dirLeft, dirRight motion.Direction) error {
	now := r.Now()
	r.lock.Lock()
	defer r.lock.Unlock()
	r.integrate(now)
	r.vLeft = r.wheelSpeed(speedLeft, dirLeft)
	r.vRight = r.wheelSpeed(speedRight, dirRight)
	glog.V(2).Infof("plant: vl=%.3f vr=%.3f", r.vLeft, r.vRight)
	return nil
}

// Pose returns the pose estimated at the current time.
func (r *Rover) Pose() Pose2D {
	now := r.Now()
	r.lock.Lock()
	defer r.lock.Unlock()
	r.integrate(now)
	return r.pose
}

// SetPose places the rover, discarding accumulated motion.
func (r *Rover) SetPose(pose Pose2D) {
	now := r.Now()
	r.lock.Lock()
	defer r.lock.Unlock()
	r.pose = pose
	r.lastTime = now
}

func (r *Rover) wheelSpeed(duty uint16, dir motion.Direction) float64 {
	v := float64(duty) / float64(motion.FullSpeedTicks) * r.FullSpeed
	if dir == motion.Reverse {
		v = -v
	}
	return v
}

func (r *Rover) integrate(now time.Time) {
	dt := now.Sub(r.lastTime).Seconds()
	r.lastTime = now
	if dt <= 0 {
		return
	}
	v := (r.vLeft + r.vRight) / 2
	w := (r.vRight - r.vLeft) / r.TrackWidth
	theta := r.pose.Orientation.Radians()
	if math.Abs(w) < 1e-9 {
		r.pose.Pos2D = r.pose.Pos2D.Add(r.pose.Orientation.Project(v * dt))
		return
	}
	// Exact arc: radius v/w around the instantaneous center.
	theta2 := theta + w*dt
	radius := v / w
	r.pose.Pos2D = r.pose.Pos2D.Add(Pos2D{
		X: radius * (math.Sin(theta2) - math.Sin(theta)),
		Y: radius * (math.Cos(theta) - math.Cos(theta2)),
	})
	r.pose.Orientation = r.pose.Orientation.AddRadians(w * dt)
}
