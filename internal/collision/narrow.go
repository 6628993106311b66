package collision

import (
	"errors"
	"fmt"

	"github.com/san-kum/collidesim/internal/body"
	"github.com/san-kum/collidesim/internal/geom"
)

// ErrUnreachablePair is the panic value for a pair outside {circle, box}².
var ErrUnreachablePair = errors.New("collision: unreachable shape pair")

// Overlaps reports whether a and b intersect. The result does not depend on
// argument order.
func Overlaps(a, b body.Object) bool {
	switch a.Kind() {
	case body.KindCircle:
		ca, _ := a.Circle()
		switch b.Kind() {
		case body.KindCircle:
			cb, _ := b.Circle()
			return CircleCircle(ca, cb)
		case body.KindBox:
			bb, _ := b.Box()
			return CircleBox(ca, bb)
		}
	case body.KindBox:
		ba, _ := a.Box()
		switch b.Kind() {
		case body.KindCircle:
			cb, _ := b.Circle()
			return CircleBox(cb, ba)
		case body.KindBox:
			bb, _ := b.Box()
			return BoxBox(ba, bb)
		}
	}
	panic(unreachable(a, b))
}

// BoxBox tests interval overlap on both axes. Boxes sharing only an edge are
// not excluded by either test and count as overlapping.
func BoxBox(a, b body.Box) bool {
	if a.Max.X < b.Min.X || a.Min.X > b.Max.X {
		return false
	}
	if a.Max.Y < b.Min.Y || a.Min.Y > b.Max.Y {
		return false
	}
	return true
}

// CircleCircle reports d² <= (r1+r2)².
func CircleCircle(a, b body.Circle) bool {
	r := a.Radius + b.Radius
	return a.Center.Sub(b.Center).LenSq() <= r*r
}

// CircleBox tests the circle center against the closest point of the box.
func CircleBox(c body.Circle, b body.Box) bool {
	closest := ClosestPoint(b, c.Center)
	return closest.Sub(c.Center).LenSq() <= c.Radius*c.Radius
}

// ClosestPoint returns the point of b nearest to p: the offset from the box
// center to p clamped to the half extents.
func ClosestPoint(b body.Box, p geom.Vec) geom.Vec {
	center := b.Center()
	half := b.HalfExtents()
	offset := p.Sub(center).Clamp(half.Scale(-1), half)
	return center.Add(offset)
}

func unreachable(a, b body.Object) error {
	return fmt.Errorf("%w: %s vs %s", ErrUnreachablePair, a.Kind(), b.Kind())
}
