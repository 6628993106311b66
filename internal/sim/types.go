package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/collidesim/internal/body"
	"github.com/san-kum/collidesim/internal/collision"
)

var (
	ErrInvalidConfig = errors.New("sim: invalid config")
	ErrRunning       = errors.New("sim: engine already running")
)

// Integrator advances every object by one tick. It runs inside the world
// lock and must not retain objs.
type Integrator interface {
	Step(objs []body.Object)
}

type Metric interface {
	Name() string
	Observe(objs []body.Object, tick int64)
	Value() float64
	Reset()
}

// Observer is notified from inside the actors' critical sections. It must
// not call back into the engine.
type Observer interface {
	OnIntegrate(tick int64)
	OnContact(tick int64, m collision.Manifold, out collision.Outcome)
}

type Config struct {
	Tick           time.Duration
	Frame          time.Duration
	Duration       time.Duration
	MaxCatchUp     int
	Percent        float64
	CircleResponse collision.Response
}

func DefaultConfig() Config {
	return Config{
		Tick:           16 * time.Millisecond,
		Frame:          16 * time.Millisecond,
		Duration:       5 * time.Second,
		MaxCatchUp:     0,
		Percent:        collision.DefaultPercent,
		CircleResponse: collision.ResponseNone,
	}
}

func (c Config) validate() error {
	if c.Tick <= 0 {
		return fmt.Errorf("%w: tick must be positive, got %s", ErrInvalidConfig, c.Tick)
	}
	if c.Frame <= 0 {
		return fmt.Errorf("%w: frame must be positive, got %s", ErrInvalidConfig, c.Frame)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %s", ErrInvalidConfig, c.Duration)
	}
	if c.MaxCatchUp < 0 {
		return fmt.Errorf("%w: max catch-up must not be negative, got %d", ErrInvalidConfig, c.MaxCatchUp)
	}
	if c.Percent < 0 || c.Percent > 1 {
		return fmt.Errorf("%w: correction percent must be in [0, 1], got %g", ErrInvalidConfig, c.Percent)
	}
	return nil
}

// TickStats summarises one collision pass.
type TickStats struct {
	Pairs    int
	Contacts int
	Resolved int
}

// Stats are running totals across all ticks.
type Stats struct {
	Ticks          int64
	CollisionTicks int64
	Contacts       int64
	Resolved       int64
}

type Result struct {
	Stats
	Final   []body.Object
	Elapsed time.Duration
	Lag     time.Duration
	Metrics map[string]float64
}
