package collision

import (
	"math"

	"github.com/san-kum/collidesim/internal/body"
	"github.com/san-kum/collidesim/internal/geom"
)

// Manifold is the contact data for one overlapping pair. A and B index the
// world's object slice; Normal is a unit vector from A toward B.
type Manifold struct {
	A, B        int
	Normal      geom.Vec
	Penetration float64
}

var defaultNormal = geom.V(1, 0)

// BuildManifold computes the contact between objs[i] and objs[j]. Call it only
// after Overlaps returned true for the pair.
func BuildManifold(objs []body.Object, i, j int) Manifold {
	a, b := objs[i], objs[j]
	m := Manifold{A: i, B: j}

	switch a.Kind() {
	case body.KindCircle:
		ca, _ := a.Circle()
		switch b.Kind() {
		case body.KindCircle:
			cb, _ := b.Circle()
			// CircleCircleContact points from B to A.
			n, pen := CircleCircleContact(ca, cb)
			m.Normal, m.Penetration = n.Scale(-1), pen
			return m
		case body.KindBox:
			bb, _ := b.Box()
			// CircleBoxContact points from the box (B) to the circle (A).
			n, pen := CircleBoxContact(ca, bb)
			m.Normal, m.Penetration = n.Scale(-1), pen
			return m
		}
	case body.KindBox:
		ba, _ := a.Box()
		switch b.Kind() {
		case body.KindCircle:
			cb, _ := b.Circle()
			m.Normal, m.Penetration = CircleBoxContact(cb, ba)
			return m
		case body.KindBox:
			bb, _ := b.Box()
			m.Normal, m.Penetration = BoxBoxContact(ba, bb)
			return m
		}
	}
	panic(unreachable(a, b))
}

// CircleBoxContact returns the normal from the closest box point toward the
// circle center and the penetration radius - distance. A circle center on
// the box surface or inside it yields the normal (1, 0).
func CircleBoxContact(c body.Circle, b body.Box) (geom.Vec, float64) {
	closest := ClosestPoint(b, c.Center)
	d := c.Center.Sub(closest)
	dist := d.Len()

	n, ok := d.Normalize()
	if !ok {
		n = defaultNormal
	}
	return n, c.Radius - dist
}

// CircleCircleContact returns normalize(a.Center - b.Center) and the
// penetration rA + rB - distance. Coincident centers yield the normal (1, 0).
func CircleCircleContact(a, b body.Circle) (geom.Vec, float64) {
	d := a.Center.Sub(b.Center)
	dist := d.Len()

	n, ok := d.Normalize()
	if !ok {
		n = defaultNormal
	}
	return n, a.Radius + b.Radius - dist
}

// BoxBoxContact resolves along X when the X overlap is strictly smaller, or
// when neither box moves vertically, and along Y otherwise. Resting stacks
// therefore separate sideways instead of popping upward. The normal follows
// the sign of the center offset on the chosen axis. Non-positive overlap on
// either axis reports (1, 0) with zero penetration.
func BoxBoxContact(a, b body.Box) (geom.Vec, float64) {
	n := b.Center().Sub(a.Center())
	ha, hb := a.HalfExtents(), b.HalfExtents()

	xOverlap := ha.X + hb.X - math.Abs(n.X)
	if xOverlap <= 0 {
		return defaultNormal, 0
	}
	yOverlap := ha.Y + hb.Y - math.Abs(n.Y)
	if yOverlap <= 0 {
		return defaultNormal, 0
	}

	if xOverlap < yOverlap || (a.Velocity.Y == 0 && b.Velocity.Y == 0) {
		return geom.V(sign(n.X), 0), xOverlap
	}
	return geom.V(0, sign(n.Y)), yOverlap
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
