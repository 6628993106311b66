package storage

import (
	"strconv"
	"time"

	"github.com/san-kum/collidesim/internal/body"
)

// Sample is one object's kinematic state in one rendered frame.
type Sample struct {
	Frame  int     `json:"frame"`
	TimeMS float64 `json:"t_ms"`
	Object int     `json:"object"`
	Kind   string  `json:"kind"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
}

func (s Sample) record() []string {
	return []string{
		strconv.Itoa(s.Frame),
		formatFloat(s.TimeMS),
		strconv.Itoa(s.Object),
		s.Kind,
		formatFloat(s.X),
		formatFloat(s.Y),
		formatFloat(s.VX),
		formatFloat(s.VY),
	}
}

func parseSample(rec []string) (Sample, error) {
	var (
		s   Sample
		err error
	)
	if s.Frame, err = strconv.Atoi(rec[0]); err != nil {
		return s, err
	}
	if s.Object, err = strconv.Atoi(rec[2]); err != nil {
		return s, err
	}
	s.Kind = rec[3]

	fields := []struct {
		col int
		dst *float64
	}{{1, &s.TimeMS}, {4, &s.X}, {5, &s.Y}, {6, &s.VX}, {7, &s.VY}}
	for _, f := range fields {
		if *f.dst, err = strconv.ParseFloat(rec[f.col], 64); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Recorder turns frame snapshots into samples. It is not safe for concurrent
// use; feed it from the frame loop only.
type Recorder struct {
	frame   int
	samples []Sample
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Record(snap []body.Object, elapsed time.Duration) {
	ms := float64(elapsed) / float64(time.Millisecond)
	for i, o := range snap {
		c, v := o.Center(), o.Velocity()
		r.samples = append(r.samples, Sample{
			Frame:  r.frame,
			TimeMS: ms,
			Object: i,
			Kind:   o.Kind().String(),
			X:      c.X,
			Y:      c.Y,
			VX:     v.X,
			VY:     v.Y,
		})
	}
	r.frame++
}

func (r *Recorder) Frames() int { return r.frame }

func (r *Recorder) Samples() []Sample { return r.samples }
