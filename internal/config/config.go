package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/collidesim/internal/body"
	"github.com/san-kum/collidesim/internal/collision"
	"github.com/san-kum/collidesim/internal/geom"
	"github.com/san-kum/collidesim/internal/sim"
)

const (
	DefaultTickMS     = 16.0
	DefaultIntegrator = "euler"
	DefaultDuration   = 5.0
	DefaultWidth      = 1000.0
	DefaultHeight     = 1000.0
)

var (
	ErrUnknownKind  = errors.New("config: unknown object kind")
	ErrUnknownParam = errors.New("config: unknown parameter")
	ErrInvalidWorld = errors.New("config: world size must be positive")
)

// Params lists the names accepted by SetParam.
var Params = []string{"percent", "restitution", "tick_ms"}

type Config struct {
	Scenario       string         `yaml:"scenario"`
	Integrator     string         `yaml:"integrator"`
	TickMS         float64        `yaml:"tick_ms"`
	Duration       float64        `yaml:"duration"`
	MaxCatchUp     int            `yaml:"max_catch_up"`
	Percent        float64        `yaml:"percent"`
	CircleResponse string         `yaml:"circle_response"`
	// LogLevel overrides the process log level; empty leaves it alone.
	LogLevel       string         `yaml:"log_level"`
	Width          float64        `yaml:"width"`
	Height         float64        `yaml:"height"`
	Objects        []ObjectConfig `yaml:"objects"`
}

// Vec2 is written as a flow sequence: [x, y].
type Vec2 [2]float64

func (v Vec2) Vec() geom.Vec { return geom.V(v[0], v[1]) }

type ObjectConfig struct {
	Kind        string  `yaml:"kind"`
	Mass        float64 `yaml:"mass"`
	Restitution float64 `yaml:"restitution"`
	Velocity    Vec2    `yaml:"velocity,flow"`
	Radius      float64 `yaml:"radius,omitempty"`
	Center      Vec2    `yaml:"center,flow,omitempty"`
	Min         Vec2    `yaml:"min,flow,omitempty"`
	Max         Vec2    `yaml:"max,flow,omitempty"`
}

func Circle(mass, radius, e float64, vel, center Vec2) ObjectConfig {
	return ObjectConfig{Kind: "circle", Mass: mass, Radius: radius, Restitution: e, Velocity: vel, Center: center}
}

func Box(min, max, vel Vec2, mass, e float64) ObjectConfig {
	return ObjectConfig{Kind: "box", Min: min, Max: max, Velocity: vel, Mass: mass, Restitution: e}
}

// DefaultConfig is a box at rest with a circle rolling into it from the left.
func DefaultConfig() *Config {
	return &Config{
		Scenario:       "default",
		Integrator:     DefaultIntegrator,
		TickMS:         DefaultTickMS,
		Duration:       DefaultDuration,
		Percent:        collision.DefaultPercent,
		CircleResponse: collision.ResponseNone.String(),
		LogLevel:       "",
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Objects: []ObjectConfig{
			Box(Vec2{450, 100}, Vec2{550, 200}, Vec2{0, 0}, 5, 0.6),
			Circle(5, 50, 0.8, Vec2{2, 0}, Vec2{300, 150}),
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Build returns the validated scene in declaration order.
func (c *Config) Build() ([]body.Object, error) {
	objs := make([]body.Object, 0, len(c.Objects))
	for i, oc := range c.Objects {
		o, err := oc.Object()
		if err != nil {
			return nil, fmt.Errorf("config: object %d: %w", i, err)
		}
		objs = append(objs, o)
	}
	return objs, nil
}

func (oc ObjectConfig) Object() (body.Object, error) {
	switch oc.Kind {
	case "circle":
		return body.NewCircle(body.Circle{
			Mass:        oc.Mass,
			Radius:      oc.Radius,
			Restitution: oc.Restitution,
			Velocity:    oc.Velocity.Vec(),
			Center:      oc.Center.Vec(),
		})
	case "box", "aabb":
		return body.NewBox(body.Box{
			Min:         oc.Min.Vec(),
			Max:         oc.Max.Vec(),
			Velocity:    oc.Velocity.Vec(),
			Mass:        oc.Mass,
			Restitution: oc.Restitution,
		})
	}
	return body.Object{}, fmt.Errorf("%w %q", ErrUnknownKind, oc.Kind)
}

func (c *Config) SimConfig() (sim.Config, error) {
	if !(c.Width > 0 && c.Height > 0) {
		return sim.Config{}, fmt.Errorf("%w, got %gx%g", ErrInvalidWorld, c.Width, c.Height)
	}
	resp, err := collision.ParseResponse(c.CircleResponse)
	if err != nil {
		return sim.Config{}, err
	}
	cfg := sim.DefaultConfig()
	cfg.Tick = time.Duration(c.TickMS * float64(time.Millisecond))
	cfg.Frame = cfg.Tick
	cfg.Duration = time.Duration(c.Duration * float64(time.Second))
	cfg.MaxCatchUp = c.MaxCatchUp
	cfg.Percent = c.Percent
	cfg.CircleResponse = resp
	return cfg, nil
}

// SetParam assigns a tunable parameter by name. "restitution" applies to
// every object.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "percent":
		c.Percent = v
	case "restitution":
		for i := range c.Objects {
			c.Objects[i].Restitution = v
		}
	case "tick_ms":
		c.TickMS = v
	default:
		return fmt.Errorf("%w %q (available: %v)", ErrUnknownParam, name, Params)
	}
	return nil
}

func (c *Config) Clone() *Config {
	cp := *c
	cp.Objects = append([]ObjectConfig(nil), c.Objects...)
	return &cp
}
