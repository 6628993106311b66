package viz

import (
	"github.com/san-kum/collidesim/internal/body"
)

// Scene maps world coordinates onto a canvas. The world rectangle
// [0, Width] x [0, Height] fills the canvas; y grows downwards in both.
type Scene struct {
	Width, Height float64
	// VectorScale > 0 draws each velocity as a line from the object's
	// center, scaled by this many ticks.
	VectorScale float64
	canvas      *Canvas
}

// NewScene falls back to one world unit per sub-pixel when width or height
// is not positive.
func NewScene(canvas *Canvas, width, height float64) *Scene {
	if !(width > 0) {
		width = float64(canvas.Width * 2)
	}
	if !(height > 0) {
		height = float64(canvas.Height * 4)
	}
	return &Scene{Width: width, Height: height, canvas: canvas}
}

func (s *Scene) Canvas() *Canvas { return s.canvas }

func (s *Scene) scale() (sx, sy float64) {
	return float64(s.canvas.Width*2) / s.Width, float64(s.canvas.Height*4) / s.Height
}

// Draw clears the canvas and paints every object: filled rectangles for
// boxes, filled discs for circles.
func (s *Scene) Draw(objs []body.Object) {
	s.canvas.Clear()
	sx, sy := s.scale()
	for _, o := range objs {
		switch o.Kind() {
		case body.KindBox:
			b, _ := o.Box()
			s.canvas.FillRect(int(b.Min.X*sx), int(b.Min.Y*sy), int(b.Max.X*sx), int(b.Max.Y*sy))
		case body.KindCircle:
			c, _ := o.Circle()
			s.canvas.FillEllipse(c.Center.X*sx, c.Center.Y*sy, c.Radius*sx, c.Radius*sy)
		}
		if s.VectorScale > 0 {
			from := o.Center()
			to := from.Add(o.Velocity().Scale(s.VectorScale))
			s.canvas.DrawLine(int(from.X*sx), int(from.Y*sy), int(to.X*sx), int(to.Y*sy))
		}
	}
}
