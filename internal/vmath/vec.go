package vmath

import "math"

// Vec3 is a world-space position or offset.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dist returns the euclidean distance between two points.
func Dist(a, b Vec3) float64 {
	return a.Sub(b).Length()
}

// OnRing returns the point at the given angle (radians) and radius from
// center, on the ground plane (Y preserved from center).
func OnRing(center Vec3, angle, radius float64) Vec3 {
	return Vec3{
		X: center.X + math.Cos(angle)*radius,
		Y: center.Y,
		Z: center.Z + math.Sin(angle)*radius,
	}
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp linearly interpolates from a to b by t in [0,1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
