package body

import (
	"fmt"

	"github.com/san-kum/collidesim/internal/geom"
)

// Kind tags the live variant of an Object.
type Kind uint8

const (
	KindCircle Kind = iota + 1
	KindBox
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindBox:
		return "box"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Object is a single circle or box. Exactly one variant is live, selected by
// Kind; the inactive variant is never read. Objects are plain values, so a
// copied slice of Objects is an independent snapshot.
type Object struct {
	kind   Kind
	circle Circle
	box    Box
}

// NewCircle validates c and wraps it in an Object.
func NewCircle(c Circle) (Object, error) {
	if err := c.validate(); err != nil {
		return Object{}, err
	}
	return Object{kind: KindCircle, circle: c}, nil
}

// NewBox validates b and wraps it in an Object.
func NewBox(b Box) (Object, error) {
	if err := b.validate(); err != nil {
		return Object{}, err
	}
	return Object{kind: KindBox, box: b}, nil
}

// MustCircle is like NewCircle but panics on invalid input.
func MustCircle(c Circle) Object {
	o, err := NewCircle(c)
	if err != nil {
		panic(err)
	}
	return o
}

// MustBox is like NewBox but panics on invalid input.
func MustBox(b Box) Object {
	o, err := NewBox(b)
	if err != nil {
		panic(err)
	}
	return o
}

func (o Object) Kind() Kind { return o.kind }

// Circle returns the circle variant; ok is false for any other kind.
func (o Object) Circle() (Circle, bool) { return o.circle, o.kind == KindCircle }

// Box returns the box variant; ok is false for any other kind.
func (o Object) Box() (Box, bool) { return o.box, o.kind == KindBox }

func (o Object) Mass() float64 {
	switch o.kind {
	case KindCircle:
		return o.circle.Mass
	case KindBox:
		return o.box.Mass
	}
	panic(o.badKind())
}

// InvMass returns 1/mass, or 0 for a static (zero-mass) body.
func (o Object) InvMass() float64 {
	m := o.Mass()
	if m == 0 {
		return 0
	}
	return 1 / m
}

func (o Object) Restitution() float64 {
	switch o.kind {
	case KindCircle:
		return o.circle.Restitution
	case KindBox:
		return o.box.Restitution
	}
	panic(o.badKind())
}

func (o Object) Velocity() geom.Vec {
	switch o.kind {
	case KindCircle:
		return o.circle.Velocity
	case KindBox:
		return o.box.Velocity
	}
	panic(o.badKind())
}

func (o *Object) SetVelocity(v geom.Vec) {
	switch o.kind {
	case KindCircle:
		o.circle.Velocity = v
	case KindBox:
		o.box.Velocity = v
	default:
		panic(o.badKind())
	}
}

// Center returns the circle center or the box midpoint.
func (o Object) Center() geom.Vec {
	switch o.kind {
	case KindCircle:
		return o.circle.Center
	case KindBox:
		return o.box.Center()
	}
	panic(o.badKind())
}

// Translate moves the body by d. Both box corners move together, so the
// min <= max invariant holds.
func (o *Object) Translate(d geom.Vec) {
	switch o.kind {
	case KindCircle:
		o.circle.Center = o.circle.Center.Add(d)
	case KindBox:
		o.box.Min = o.box.Min.Add(d)
		o.box.Max = o.box.Max.Add(d)
	default:
		panic(o.badKind())
	}
}

// ApplyImpulse adds impulse/mass to the velocity. Static bodies are unaffected.
func (o *Object) ApplyImpulse(impulse geom.Vec) {
	if o.Mass() <= 0 {
		return
	}
	o.SetVelocity(o.Velocity().Add(impulse.Scale(o.InvMass())))
}

func (o Object) badKind() error {
	return fmt.Errorf("body: object has no live shape (%s)", o.kind)
}
