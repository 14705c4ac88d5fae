// Package sim provides a software plant for the rover: a
// differential-drive pose integrator, a beacon edge source driving
// the detector, and a marked-tape floor model. It lets the whole
// control stack run in one process without hardware.
package sim

import "math"

// Pos2D defines the position in 2D.
type Pos2D struct {
	X, Y float64
}

// Add is a helper to add Pos2D.
func (p Pos2D) Add(p1 Pos2D) Pos2D {
	return Pos2D{X: p.X + p1.X, Y: p.Y + p1.Y}
}

// Size2D defines the rectangular size in 2D.
type Size2D struct {
	CX, CY float64
}

// Rect defines a rectangle in 2D.
type Rect struct {
	Pos2D
	Size2D
}

// Contains reports whether pos is inside the rectangle.
func (r Rect) Contains(pos Pos2D) bool {
	return pos.X >= r.X && pos.X <= r.X+r.CX &&
		pos.Y >= r.Y && pos.Y <= r.Y+r.CY
}

// Angle is an orientation in radians, normalized to (-Pi, Pi].
type Angle float64

// AngleFromDegrees creates Angle from degrees.
func AngleFromDegrees(d float64) Angle {
	return Angle(normalizeRadians(d * math.Pi / 180.0))
}

// AddRadians adds radians to current angle.
func (a Angle) AddRadians(r float64) Angle {
	return Angle(normalizeRadians(float64(a) + r))
}

// Radians gets angle in radians.
func (a Angle) Radians() float64 {
	return float64(a)
}

// Degrees gets angle in degrees.
func (a Angle) Degrees() float64 {
	return float64(a) * 180 / math.Pi
}

// Project projects distance into X and Y.
func (a Angle) Project(dist float64) Pos2D {
	return Pos2D{X: dist * math.Cos(float64(a)), Y: dist * math.Sin(float64(a))}
}

// Diff returns the smallest signed difference to a1 in radians.
func (a Angle) Diff(a1 Angle) float64 {
	return normalizeRadians(float64(a1) - float64(a))
}

// Pose2D defines the pose in 2D.
type Pose2D struct {
	Pos2D
	Orientation Angle
}

func normalizeRadians(r float64) float64 {
	if r >= 2*math.Pi || r <= -2*math.Pi {
		r = math.Remainder(r, 2*math.Pi)
	}
	if r > math.Pi {
		r -= 2 * math.Pi
	} else if r < -math.Pi {
		r += 2 * math.Pi
	}
	return r
}
