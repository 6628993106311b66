package sim

import (
	"github.com/san-kum/collidesim/internal/collision"
	"github.com/san-kum/collidesim/internal/logging"
)

// ContactLogger writes one debug line per contact.
type ContactLogger struct {
	Log logging.Log
}

func (c ContactLogger) OnIntegrate(int64) {}

func (c ContactLogger) OnContact(tick int64, m collision.Manifold, out collision.Outcome) {
	c.Log.Debug("contact",
		logging.Int64("tick", tick),
		logging.Int("a", m.A),
		logging.Int("b", m.B),
		logging.Float("nx", m.Normal.X),
		logging.Float("ny", m.Normal.Y),
		logging.Float("penetration", m.Penetration),
		logging.String("outcome", out.String()),
	)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Integrate func(tick int64)
	Contact   func(tick int64, m collision.Manifold, out collision.Outcome)
}

func (f ObserverFuncs) OnIntegrate(tick int64) {
	if f.Integrate != nil {
		f.Integrate(tick)
	}
}

func (f ObserverFuncs) OnContact(tick int64, m collision.Manifold, out collision.Outcome) {
	if f.Contact != nil {
		f.Contact(tick, m, out)
	}
}
