package sim

import (
	"github.com/san-kum/collidesim/internal/body"
	"github.com/san-kum/collidesim/internal/collision"
	"github.com/san-kum/collidesim/internal/world"
)

// Scheduler runs the collision pass: every unordered pair, in index order,
// through the narrow phase and the resolver.
type Scheduler struct {
	resolver  *collision.Resolver
	observers []Observer
	tick      int64
}

func NewScheduler(r *collision.Resolver) *Scheduler {
	if r == nil {
		r = collision.NewResolver()
	}
	return &Scheduler{resolver: r}
}

func (s *Scheduler) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Tick holds the world lock for the whole detection and resolution pass.
func (s *Scheduler) Tick(w *world.World) TickStats {
	var stats TickStats
	w.Update(func(objs []body.Object) {
		stats = s.Pass(objs)
	})
	return stats
}

// Pass runs one collision pass over objs. The caller owns synchronisation.
func (s *Scheduler) Pass(objs []body.Object) TickStats {
	s.tick++
	var stats TickStats
	for i := 0; i < len(objs); i++ {
		for j := i + 1; j < len(objs); j++ {
			stats.Pairs++
			if !collision.Overlaps(objs[i], objs[j]) {
				continue
			}
			stats.Contacts++

			m := collision.BuildManifold(objs, i, j)
			out := s.resolver.Resolve(objs, m)
			if out == collision.OutcomeResolved {
				stats.Resolved++
			}
			for _, o := range s.observers {
				o.OnContact(s.tick, m, out)
			}
		}
	}
	return stats
}
