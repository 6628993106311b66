package sim

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/collidesim/internal/body"
	"github.com/san-kum/collidesim/internal/collision"
	"github.com/san-kum/collidesim/internal/integrators"
	"github.com/san-kum/collidesim/internal/logging"
	"github.com/san-kum/collidesim/internal/world"
)

// Engine runs the integrator and the collision scheduler as two paced
// actors over one shared World. An engine is single use: once stopped it
// cannot be restarted.
type Engine struct {
	cfg       Config
	world     *world.World
	flag      Flag
	integ     Integrator
	sched     *Scheduler
	metrics   []Metric
	observers []Observer
	log       logging.Log

	ticks          atomic.Int64
	collisionTicks atomic.Int64
	contacts       atomic.Int64
	resolved       atomic.Int64
	lag            atomic.Int64

	started atomic.Bool
	mu      sync.Mutex
	cancel  context.CancelFunc
}

type Option func(*Engine)

func WithIntegrator(i Integrator) Option { return func(e *Engine) { e.integ = i } }

func WithLogger(l logging.Log) Option { return func(e *Engine) { e.log = l } }

func New(objs []body.Object, cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	r := collision.NewResolver()
	r.Percent = cfg.Percent
	r.CircleResponse = cfg.CircleResponse

	e := &Engine{
		cfg:   cfg,
		world: world.New(objs),
		integ: integrators.NewEuler(),
		sched: NewScheduler(r),
		log:   logging.Provide(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log.Enabled(logging.LevelDebug) {
		e.AddObserver(ContactLogger{Log: e.log})
	}
	return e, nil
}

func (e *Engine) AddMetric(m Metric) { e.metrics = append(e.metrics, m) }

func (e *Engine) AddObserver(o Observer) {
	e.observers = append(e.observers, o)
	e.sched.AddObserver(o)
}

func (e *Engine) Config() Config { return e.cfg }

// Snapshot copies the world under its lock.
func (e *Engine) Snapshot() []body.Object { return e.world.Snapshot() }

func (e *Engine) Running() bool { return e.flag.Running() }

func (e *Engine) Stats() Stats {
	return Stats{
		Ticks:          e.ticks.Load(),
		CollisionTicks: e.collisionTicks.Load(),
		Contacts:       e.contacts.Load(),
		Resolved:       e.resolved.Load(),
	}
}

// Step runs one integrator tick followed by one collision tick on the
// calling goroutine. It must not be mixed with Run.
func (e *Engine) Step() TickStats {
	e.integrate()
	return e.collide()
}

// Run starts both actors and blocks until they have observed Stop or ctx
// is done. Cancelling ctx stops the engine like Stop does.
func (e *Engine) Run(ctx context.Context) error {
	if !e.started.CompareAndSwap(false, true) {
		return ErrRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	e.mu.Lock()
	e.cancel = cancel
	e.mu.Unlock()

	e.log.Info("engine started",
		logging.Int("objects", e.world.Len()),
		logging.Duration("tick", e.cfg.Tick),
		logging.String("circle_response", e.cfg.CircleResponse.String()),
	)

	for _, m := range e.metrics {
		m.Reset()
	}

	integPacer := NewPacer(e.cfg.Tick, e.cfg.MaxCatchUp)
	collPacer := NewPacer(e.cfg.Tick, e.cfg.MaxCatchUp)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.loop(gctx, integPacer, func() { e.integrate() }) })
	g.Go(func() error { return e.loop(gctx, collPacer, func() { e.collide() }) })
	err := g.Wait()

	e.lag.Store(int64(max(integPacer.Lag(), collPacer.Lag())))

	st := e.Stats()
	e.log.Info("engine stopped",
		logging.Int64("ticks", st.Ticks),
		logging.Int64("contacts", st.Contacts),
		logging.Int64("resolved", st.Resolved),
		logging.Duration("lag", e.Lag()),
	)
	return err
}

// Stop flips the shared flag. Actors finish their current tick and exit.
func (e *Engine) Stop() {
	if e.flag.Stop() {
		e.log.Debug("engine stop requested")
	}
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.mu.Unlock()
}

// Lag is the schedule debt written off by the slower actor. It is only
// meaningful after Run returns.
func (e *Engine) Lag() time.Duration { return time.Duration(e.lag.Load()) }

// RunFor runs the engine and a foreground frame loop that hands a snapshot
// to onFrame every Frame interval. The loop stops the engine once Duration
// of wall-clock time has passed.
func (e *Engine) RunFor(ctx context.Context, onFrame func(snap []body.Object, elapsed time.Duration)) (*Result, error) {
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return e.Run(gctx) })
	g.Go(func() error {
		defer e.Stop()
		p := NewPacer(e.cfg.Frame, 0)
		for e.flag.Running() {
			if _, err := p.Wait(gctx); err != nil {
				return nil
			}
			elapsed := time.Since(start)
			if onFrame != nil {
				onFrame(e.Snapshot(), elapsed)
			}
			if elapsed >= e.cfg.Duration {
				return nil
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return e.Result(time.Since(start)), nil
}

// Result collects the final world and totals.
func (e *Engine) Result(elapsed time.Duration) *Result {
	res := &Result{
		Stats:   e.Stats(),
		Final:   e.Snapshot(),
		Elapsed: elapsed,
		Lag:     e.Lag(),
		Metrics: make(map[string]float64, len(e.metrics)),
	}
	for _, m := range e.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res
}

func (e *Engine) loop(ctx context.Context, p *Pacer, work func()) error {
	for e.flag.Running() {
		ticks, err := p.Wait(ctx)
		if err != nil {
			e.flag.Stop()
			return nil
		}
		for k := 0; k < ticks && e.flag.Running(); k++ {
			work()
		}
	}
	return nil
}

func (e *Engine) integrate() {
	e.world.Update(func(objs []body.Object) {
		e.integ.Step(objs)
		tick := e.ticks.Add(1)
		for _, m := range e.metrics {
			m.Observe(objs, tick)
		}
		for _, o := range e.observers {
			o.OnIntegrate(tick)
		}
	})
}

func (e *Engine) collide() TickStats {
	stats := e.sched.Tick(e.world)
	tick := e.collisionTicks.Add(1)
	if stats.Contacts == 0 {
		return stats
	}
	e.contacts.Add(int64(stats.Contacts))
	e.resolved.Add(int64(stats.Resolved))
	if e.log.Enabled(logging.LevelDebug) {
		e.log.Debug("collision pass",
			logging.Int64("tick", tick),
			logging.Int("contacts", stats.Contacts),
			logging.Int("resolved", stats.Resolved),
		)
	}
	return stats
}
