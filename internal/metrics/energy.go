package metrics

import (
	"math"

	"github.com/san-kum/collidesim/internal/body"
	"github.com/san-kum/collidesim/internal/geom"
)

// KineticEnergy sums ½·m·|v|² over every object. Static bodies contribute
// nothing.
func KineticEnergy(objs []body.Object) float64 {
	var e float64
	for _, o := range objs {
		e += 0.5 * o.Mass() * o.Velocity().LenSq()
	}
	return e
}

// Momentum sums m·v over every object.
func Momentum(objs []body.Object) geom.Vec {
	var p geom.Vec
	for _, o := range objs {
		p = p.Add(o.Velocity().Scale(o.Mass()))
	}
	return p
}

// Energy reports the kinetic energy at the last observed tick.
type Energy struct {
	name    string
	current float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "kinetic_energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(objs []body.Object, tick int64) {
	e.current = KineticEnergy(objs)
	e.samples++
}

func (e *Energy) Value() float64 { return e.current }

func (e *Energy) Reset() {
	e.current = 0
	e.samples = 0
}

// EnergyDrift is the largest relative change in kinetic energy seen since
// the first observation. Inelastic contacts make it grow.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(objs []body.Object, tick int64) {
	energy := KineticEnergy(objs)
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift is the largest |p - p0| seen since the first observation.
// Collisions between dynamic bodies keep it at zero; static bodies absorb
// momentum.
type MomentumDrift struct {
	name     string
	initial  geom.Vec
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(objs []body.Object, tick int64) {
	p := Momentum(objs)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = geom.Vec{}
	m.maxDrift = 0
	m.samples = 0
}
