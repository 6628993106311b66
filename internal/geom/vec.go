package geom

import "math"

// Vec is a 2D vector in world units (pixels).
type Vec struct {
	X, Y float64
}

func V(x, y float64) Vec { return Vec{X: x, Y: y} }

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y} }

func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y} }

func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y }

func (v Vec) LenSq() float64 { return v.X*v.X + v.Y*v.Y }

func (v Vec) Len() float64 { return math.Sqrt(v.LenSq()) }

func (v Vec) Abs() Vec { return Vec{math.Abs(v.X), math.Abs(v.Y)} }

// Normalize returns the unit vector along v. ok is false for a zero vector,
// in which case the zero vector is returned.
func (v Vec) Normalize() (n Vec, ok bool) {
	l := v.Len()
	if l == 0 {
		return Vec{}, false
	}
	return Vec{v.X / l, v.Y / l}, true
}

// Clamp limits each component of v to [lo, hi] of the matching component.
func (v Vec) Clamp(lo, hi Vec) Vec {
	return Vec{clamp(v.X, lo.X, hi.X), clamp(v.Y, lo.Y, hi.Y)}
}

// IsFinite reports whether neither component is NaN or Inf.
func (v Vec) IsFinite() bool {
	return finite(v.X) && finite(v.Y)
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
