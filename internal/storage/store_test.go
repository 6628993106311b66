package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/collidesim/internal/body"
	"github.com/san-kum/collidesim/internal/geom"
	"github.com/san-kum/collidesim/internal/sim"
	"github.com/san-kum/collidesim/internal/world"
)

func testResult() (*sim.Result, []Sample) {
	final := []body.Object{
		body.MustBox(body.Box{Min: geom.V(450, 100), Max: geom.V(550, 200), Velocity: geom.V(1.6, 0), Mass: 5, Restitution: 0.6}),
		body.MustCircle(body.Circle{Mass: 5, Radius: 50, Restitution: 0.8, Velocity: geom.V(0.4, 0), Center: geom.V(400, 150)}),
	}
	res := &sim.Result{
		Stats:   sim.Stats{Ticks: 50, CollisionTicks: 50, Contacts: 1, Resolved: 1},
		Final:   final,
		Lag:     2 * time.Millisecond,
		Metrics: map[string]float64{"kinetic_energy": 7},
	}

	rec := NewRecorder()
	rec.Record(final, 0)
	rec.Record(final, 16*time.Millisecond)
	return res, rec.Samples()
}

func TestStoreSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	res, traj := testResult()
	runID, err := st.Save("default", sim.DefaultConfig(), res, traj)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := uuid.Parse(runID); err != nil {
		t.Errorf("expected uuid run id, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if meta.Scenario != "default" {
		t.Errorf("expected scenario 'default', got '%s'", meta.Scenario)
	}
	if meta.TickMS != 16 || meta.Duration != 5 {
		t.Errorf("unexpected timing %v / %v", meta.TickMS, meta.Duration)
	}
	if meta.Ticks != 50 || meta.Contacts != 1 || meta.Objects != 2 {
		t.Errorf("unexpected totals %+v", meta)
	}
	if meta.LagMS != 2 {
		t.Errorf("expected lag 2ms, got %v", meta.LagMS)
	}
	if meta.Metrics["kinetic_energy"] != 7 {
		t.Errorf("expected kinetic_energy 7, got %f", meta.Metrics["kinetic_energy"])
	}

	samples, err := st.LoadTrajectory(runID)
	if err != nil {
		t.Fatalf("load trajectory failed: %v", err)
	}
	if len(samples) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(samples))
	}
	if samples[3] != traj[3] {
		t.Errorf("expected %+v, got %+v", traj[3], samples[3])
	}
}

func TestStoreFingerprint(t *testing.T) {
	st := New(t.TempDir())
	res, traj := testResult()

	runID, err := st.Save("default", sim.DefaultConfig(), res, traj)
	if err != nil {
		t.Fatal(err)
	}
	meta, err := st.Load(runID)
	if err != nil {
		t.Fatal(err)
	}

	want := world.Fingerprint(res.Final)
	var got uint64
	if _, err := fmt.Sscanf(meta.Fingerprint, "%x", &got); err != nil || got != want {
		t.Errorf("fingerprint %s does not match %016x", meta.Fingerprint, want)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	res, traj := testResult()
	first, err := st.Save("default", sim.DefaultConfig(), res, traj)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	second, err := st.Save("wall", sim.DefaultConfig(), res, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	// stray files are ignored
	if err := os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("expected oldest first, got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadTrajectory("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	res, _ := testResult()
	runID, err := st.Save("default", sim.DefaultConfig(), res, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}
	data, err := os.ReadFile(filepath.Join(runDir, "trajectory.csv"))
	if err != nil {
		t.Fatal("trajectory.csv not created")
	}
	if string(data) != "frame,t_ms,object,kind,x,y,vx,vy\n" {
		t.Errorf("unexpected empty trajectory %q", data)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	res, traj := testResult()
	runID, err := st.Save("default", sim.DefaultConfig(), res, traj)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Run.ID != runID || data.Frames != 2 || len(data.Trajectory) != 4 {
		t.Errorf("unexpected export %+v", data)
	}
	if data.Trajectory[1].Kind != "circle" || data.Trajectory[1].X != 400 {
		t.Errorf("unexpected sample %+v", data.Trajectory[1])
	}
}

func TestRecorder(t *testing.T) {
	res, _ := testResult()
	rec := NewRecorder()
	rec.Record(res.Final, 32*time.Millisecond)

	if rec.Frames() != 1 {
		t.Fatalf("expected 1 frame, got %d", rec.Frames())
	}
	got := rec.Samples()
	want := Sample{Frame: 0, TimeMS: 32, Object: 0, Kind: "box", X: 500, Y: 150, VX: 1.6, VY: 0}
	if got[0] != want {
		t.Errorf("expected %+v, got %+v", want, got[0])
	}
}
