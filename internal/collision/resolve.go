package collision

import (
	"fmt"
	"math"

	"github.com/san-kum/collidesim/internal/body"
)

// DefaultPercent is the share of penetration removed by positional correction.
const DefaultPercent = 0.8

// Response selects how circle/circle contacts are handled.
type Response uint8

const (
	// ResponseNone detects circle/circle contacts but leaves both bodies
	// untouched; the circles pass through each other.
	ResponseNone Response = iota
	// ResponseImpulse resolves circle/circle contacts like every other pair.
	ResponseImpulse
)

func (r Response) String() string {
	switch r {
	case ResponseNone:
		return "none"
	case ResponseImpulse:
		return "impulse"
	default:
		return fmt.Sprintf("response(%d)", uint8(r))
	}
}

// ParseResponse maps "none" or "impulse" to a Response.
func ParseResponse(s string) (Response, error) {
	switch s {
	case "", "none":
		return ResponseNone, nil
	case "impulse":
		return ResponseImpulse, nil
	}
	return ResponseNone, fmt.Errorf("collision: unknown circle response %q", s)
}

// Outcome describes what Resolve did with a manifold.
type Outcome uint8

const (
	OutcomeResolved Outcome = iota
	OutcomeSeparating
	OutcomeSkipped
	OutcomeStatic
)

func (o Outcome) String() string {
	switch o {
	case OutcomeResolved:
		return "resolved"
	case OutcomeSeparating:
		return "separating"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeStatic:
		return "static"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// Resolver applies impulse response and positional correction.
type Resolver struct {
	Percent        float64
	CircleResponse Response
}

func NewResolver() *Resolver {
	return &Resolver{Percent: DefaultPercent, CircleResponse: ResponseNone}
}

// Resolve updates the velocities of objs[m.A] and objs[m.B] and then pushes
// them apart. Separating pairs are left untouched.
func (r *Resolver) Resolve(objs []body.Object, m Manifold) Outcome {
	a, b := &objs[m.A], &objs[m.B]

	if a.Kind() == body.KindCircle && b.Kind() == body.KindCircle && r.CircleResponse == ResponseNone {
		return OutcomeSkipped
	}

	rv := b.Velocity().Sub(a.Velocity())
	velAlongNormal := rv.Dot(m.Normal)
	if velAlongNormal > 0 {
		return OutcomeSeparating
	}

	invSum := a.InvMass() + b.InvMass()
	if invSum == 0 {
		return OutcomeStatic
	}

	e := math.Min(a.Restitution(), b.Restitution())
	j := -(1 + e) * velAlongNormal / invSum
	impulse := m.Normal.Scale(j)

	a.ApplyImpulse(impulse.Scale(-1))
	b.ApplyImpulse(impulse)

	r.Correct(objs, m)
	return OutcomeResolved
}

// Correct moves A against the normal and B along it, each scaled by its
// inverse mass: correction = penetration / (mA + mB) * Percent * normal.
func (r *Resolver) Correct(objs []body.Object, m Manifold) {
	a, b := &objs[m.A], &objs[m.B]

	massSum := a.Mass() + b.Mass()
	if massSum == 0 {
		return
	}
	correction := m.Normal.Scale(m.Penetration / massSum * r.Percent)

	a.Translate(correction.Scale(-a.InvMass()))
	b.Translate(correction.Scale(b.InvMass()))
}
