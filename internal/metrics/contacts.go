package metrics

import (
	"sync/atomic"

	"github.com/san-kum/collidesim/internal/body"
	"github.com/san-kum/collidesim/internal/collision"
)

// Contacts counts resolved contacts. It is both a metric and a contact
// observer; the count is updated from the collision actor.
type Contacts struct {
	resolved atomic.Int64
	skipped  atomic.Int64
}

func NewContacts() *Contacts { return &Contacts{} }

func (c *Contacts) Name() string { return "resolved_contacts" }

func (c *Contacts) Observe([]body.Object, int64) {}

func (c *Contacts) OnIntegrate(int64) {}

func (c *Contacts) OnContact(_ int64, _ collision.Manifold, out collision.Outcome) {
	switch out {
	case collision.OutcomeResolved:
		c.resolved.Add(1)
	case collision.OutcomeSkipped:
		c.skipped.Add(1)
	}
}

func (c *Contacts) Value() float64 { return float64(c.resolved.Load()) }

// Skipped counts circle pairs that were detected but left to pass through.
func (c *Contacts) Skipped() int64 { return c.skipped.Load() }

func (c *Contacts) Reset() {
	c.resolved.Store(0)
	c.skipped.Store(0)
}
