package integrators

import "github.com/san-kum/collidesim/internal/body"

// Euler advances positions by velocity. Velocities are expressed in world
// units per tick, so the default step is one tick.
type Euler struct {
	Dt float64
}

func NewEuler() *Euler {
	return &Euler{Dt: 1}
}

// Step moves every object in place: circle centers and both box corners.
func (e *Euler) Step(objs []body.Object) {
	for i := range objs {
		v := objs[i].Velocity()
		if v.X == 0 && v.Y == 0 {
			continue
		}
		objs[i].Translate(v.Scale(e.Dt))
	}
}
