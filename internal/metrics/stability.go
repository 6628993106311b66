package metrics

import (
	"github.com/san-kum/collidesim/internal/body"
)

// Stability is the share of ticks in which every object stayed inside the
// world bounds [0, width] x [0, height].
type Stability struct {
	name          string
	width, height float64
	violations    int
	samples       int
}

func NewStability(width, height float64) *Stability {
	return &Stability{
		name:   "stability",
		width:  width,
		height: height,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(objs []body.Object, tick int64) {
	s.samples++
	for _, o := range objs {
		c := o.Center()
		if c.X < 0 || c.X > s.width || c.Y < 0 || c.Y > s.height {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
