package automation

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/collidesim/internal/config"
	"github.com/san-kum/collidesim/internal/experiment"
	"github.com/san-kum/collidesim/internal/logging"
	"github.com/san-kum/collidesim/internal/metrics"
	"github.com/san-kum/collidesim/internal/sim"
	"github.com/san-kum/collidesim/internal/storage"
	"github.com/san-kum/collidesim/internal/world"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Preset names the base scene, Config an optional
// scene file that replaces it. Ticks > 0 steps the engine synchronously;
// otherwise it runs in real time for Duration seconds.
type ScenarioStep struct {
	Preset         string  `yaml:"preset"`
	Config         string  `yaml:"config"`
	Ticks          int     `yaml:"ticks"`
	Duration       float64 `yaml:"duration"`
	CircleResponse string  `yaml:"circle_response"`
	Save           bool    `yaml:"save"`
}

type StepResult struct {
	Scenario    string
	RunID       string
	Result      *sim.Result
	Fingerprint uint64
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

func (s ScenarioStep) config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}
	if s.Config != "" {
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.CircleResponse != "" {
		cfg.CircleResponse = s.CircleResponse
	}
	return cfg, nil
}

// RunScenario executes all steps in order. st may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store, log logging.Log) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Info("running step",
			logging.Int("step", i+1),
			logging.Int("of", len(scenario.Steps)),
			logging.String("scenario", cfg.Scenario),
		)

		exp, err := experiment.New(cfg, registry, log)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		var res *sim.Result
		if step.Ticks > 0 {
			res = exp.StepN(step.Ticks)
		} else {
			res, err = exp.Run(ctx)
			if err != nil {
				return results, fmt.Errorf("step %d run: %w", i+1, err)
			}
		}

		out := StepResult{Scenario: cfg.Scenario, Result: res, Fingerprint: world.Fingerprint(res.Final)}
		if step.Save && st != nil {
			if out.RunID, err = exp.Save(st, res); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, out)
	}

	return results, nil
}

// ParameterSweep steps a preset across a range of one parameter. Param is
// any name config.SetParam accepts.
type ParameterSweep struct {
	Preset   string
	Param    string
	ParamMin float64
	ParamMax float64
	NumSteps int
	Ticks    int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue    float64
	KineticEnergy float64
	Momentum      float64
	Resolved      int64
	Fingerprint   uint64
}

// RunSweep executes a parameter sweep
func RunSweep(sweep *ParameterSweep, registry *experiment.Registry, log logging.Log) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	base := config.GetPreset(sweep.Preset)
	if base == nil {
		return nil, fmt.Errorf("unknown preset: %s", sweep.Preset)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := base.Clone()
		if err := cfg.SetParam(sweep.Param, paramVal); err != nil {
			return nil, err
		}

		exp, err := experiment.New(cfg, registry, log)
		if err != nil {
			return nil, err
		}
		res := exp.StepN(sweep.Ticks)

		results = append(results, SweepResult{
			ParamValue:    paramVal,
			KineticEnergy: metrics.KineticEnergy(res.Final),
			Momentum:      metrics.Momentum(res.Final).Len(),
			Resolved:      res.Resolved,
			Fingerprint:   world.Fingerprint(res.Final),
		})

		log.Debug("sweep step",
			logging.Int("step", i+1),
			logging.String("param", sweep.Param),
			logging.Float("value", paramVal),
		)
	}

	return results, nil
}
