package experiment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/san-kum/collidesim/internal/config"
	"github.com/san-kum/collidesim/internal/logging"
	"github.com/san-kum/collidesim/internal/storage"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, err := r.GetIntegrator("euler")
	require.NoError(t, err)
	_, err = r.GetIntegrator("")
	require.NoError(t, err)
	_, err = r.GetIntegrator("rk4")
	require.Error(t, err)
	require.Equal(t, []string{"euler"}, r.ListIntegrators())

	var names []string
	for _, m := range r.DefaultMetrics(config.DefaultConfig()) {
		names = append(names, m.Name())
	}
	require.Equal(t, []string{"energy_drift", "kinetic_energy", "momentum_drift", "stability"}, names)
}

func TestStepNDefaultScene(t *testing.T) {
	exp, err := New(config.DefaultConfig(), NewRegistry(), logging.Nop())
	require.NoError(t, err)

	// the contact happens on tick 50; metrics see its effect on tick 51
	res := exp.StepN(51)
	require.EqualValues(t, 51, res.Ticks)
	require.EqualValues(t, 1, res.Contacts)
	require.EqualValues(t, 1, res.Resolved)
	require.Equal(t, 816*time.Millisecond, res.Elapsed)
	require.Equal(t, 52, exp.Recorder().Frames())

	require.Equal(t, 1.0, res.Metrics["resolved_contacts"])
	require.InDelta(t, 0.4*0.4*2.5+1.6*1.6*2.5, res.Metrics["kinetic_energy"], 1e-9)
	require.InDelta(t, 0, res.Metrics["momentum_drift"], 1e-9)
	require.Equal(t, 1.0, res.Metrics["stability"])
}

func TestNewRejectsBadScene(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Objects = append(cfg.Objects, config.ObjectConfig{Kind: "hexagon"})
	_, err := New(cfg, NewRegistry(), logging.Nop())
	require.ErrorIs(t, err, config.ErrUnknownKind)

	cfg = config.DefaultConfig()
	cfg.Integrator = "rk4"
	_, err = New(cfg, NewRegistry(), logging.Nop())
	require.Error(t, err)

	cfg = config.DefaultConfig()
	cfg.TickMS = 0
	_, err = New(cfg, NewRegistry(), logging.Nop())
	require.Error(t, err)
}

func TestRunAndSave(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.TickMS = 1
	cfg.Duration = 0.05

	exp, err := New(cfg, NewRegistry(), logging.Nop())
	require.NoError(t, err)

	res, err := exp.Run(context.Background())
	require.NoError(t, err)
	require.Positive(t, res.Ticks)
	require.Positive(t, exp.Recorder().Frames())

	st := storage.New(t.TempDir())
	runID, err := exp.Save(st, res)
	require.NoError(t, err)

	meta, err := st.Load(runID)
	require.NoError(t, err)
	require.Equal(t, "default", meta.Scenario)
	require.Equal(t, res.Ticks, meta.Ticks)

	samples, err := st.LoadTrajectory(runID)
	require.NoError(t, err)
	require.Len(t, samples, 2*exp.Recorder().Frames())
}
