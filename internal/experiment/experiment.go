package experiment

import (
	"context"
	"time"

	"github.com/san-kum/collidesim/internal/config"
	"github.com/san-kum/collidesim/internal/logging"
	"github.com/san-kum/collidesim/internal/metrics"
	"github.com/san-kum/collidesim/internal/sim"
	"github.com/san-kum/collidesim/internal/storage"
)

// Experiment is one configured run of a scenario: the engine, its metrics
// and the trajectory recorder.
type Experiment struct {
	cfg      *config.Config
	simCfg   sim.Config
	engine   *sim.Engine
	recorder *storage.Recorder
	contacts *metrics.Contacts
}

func New(cfg *config.Config, registry *Registry, log logging.Log) (*Experiment, error) {
	objs, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	simCfg, err := cfg.SimConfig()
	if err != nil {
		return nil, err
	}
	integ, err := registry.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	engine, err := sim.New(objs, simCfg,
		sim.WithIntegrator(integ),
		sim.WithLogger(log.With(logging.String("scenario", cfg.Scenario))),
	)
	if err != nil {
		return nil, err
	}

	contacts := metrics.NewContacts()
	engine.AddObserver(contacts)
	engine.AddMetric(contacts)
	for _, m := range registry.DefaultMetrics(cfg) {
		engine.AddMetric(m)
	}

	return &Experiment{
		cfg:      cfg,
		simCfg:   simCfg,
		engine:   engine,
		recorder: storage.NewRecorder(),
		contacts: contacts,
	}, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) SimConfig() sim.Config { return e.simCfg }

// Engine returns the underlying engine for callers that drive it themselves.
func (e *Experiment) Engine() *sim.Engine { return e.engine }

func (e *Experiment) Recorder() *storage.Recorder { return e.recorder }

// Run drives the engine in real time for the configured duration, recording
// one sample set per frame.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.engine.RunFor(ctx, e.recorder.Record)
}

// StepN advances the engine n ticks on the calling goroutine, recording
// the initial state and every tick.
func (e *Experiment) StepN(n int) *sim.Result {
	e.recorder.Record(e.engine.Snapshot(), 0)
	for i := 1; i <= n; i++ {
		e.engine.Step()
		e.recorder.Record(e.engine.Snapshot(), time.Duration(i)*e.simCfg.Tick)
	}
	return e.engine.Result(time.Duration(n) * e.simCfg.Tick)
}

// Save persists res with the recorded trajectory.
func (e *Experiment) Save(st *storage.Store, res *sim.Result) (string, error) {
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(e.cfg.Scenario, e.simCfg, res, e.recorder.Samples())
}
