package body

import (
	"fmt"
	"math"

	"github.com/san-kum/collidesim/internal/geom"
)

// Circle describes a disc body.
type Circle struct {
	Mass        float64
	Radius      float64
	Restitution float64
	Velocity    geom.Vec
	Center      geom.Vec
}

// Box describes an axis-aligned box body.
type Box struct {
	Min         geom.Vec
	Max         geom.Vec
	Velocity    geom.Vec
	Mass        float64
	Restitution float64
}

// Center returns the midpoint of the box.
func (b Box) Center() geom.Vec {
	return b.Min.Add(b.Max).Scale(0.5)
}

// HalfExtents returns half the width and half the height.
func (b Box) HalfExtents() geom.Vec {
	return b.Max.Sub(b.Min).Scale(0.5)
}

func (c Circle) validate() error {
	if !finite(c.Mass, c.Radius, c.Restitution) || !c.Velocity.IsFinite() || !c.Center.IsFinite() {
		return fmt.Errorf("circle: %w", ErrNonFinite)
	}
	if c.Mass < 0 {
		return fmt.Errorf("circle mass %g: %w", c.Mass, ErrInvalidMass)
	}
	if c.Radius <= 0 {
		return fmt.Errorf("circle radius %g: %w", c.Radius, ErrInvalidRadius)
	}
	if c.Restitution < 0 || c.Restitution > 1 {
		return fmt.Errorf("circle restitution %g: %w", c.Restitution, ErrInvalidRestitution)
	}
	return nil
}

func (b Box) validate() error {
	if !finite(b.Mass, b.Restitution) || !b.Min.IsFinite() || !b.Max.IsFinite() || !b.Velocity.IsFinite() {
		return fmt.Errorf("box: %w", ErrNonFinite)
	}
	if b.Mass < 0 {
		return fmt.Errorf("box mass %g: %w", b.Mass, ErrInvalidMass)
	}
	if b.Min.X > b.Max.X || b.Min.Y > b.Max.Y {
		return fmt.Errorf("box %v-%v: %w", b.Min, b.Max, ErrInvertedBox)
	}
	if b.Restitution < 0 || b.Restitution > 1 {
		return fmt.Errorf("box restitution %g: %w", b.Restitution, ErrInvalidRestitution)
	}
	return nil
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
