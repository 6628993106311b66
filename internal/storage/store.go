package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/collidesim/internal/sim"
	"github.com/san-kum/collidesim/internal/world"
)

var ErrRunNotFound = errors.New("storage: run not found")

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var trajectoryHeader = []string{"frame", "t_ms", "object", "kind", "x", "y", "vx", "vy"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Scenario       string             `json:"scenario"`
	Timestamp      time.Time          `json:"timestamp"`
	TickMS         float64            `json:"tick_ms"`
	Duration       float64            `json:"duration"`
	Objects        int                `json:"objects"`
	Ticks          int64              `json:"ticks"`
	CollisionTicks int64              `json:"collision_ticks"`
	Contacts       int64              `json:"contacts"`
	Resolved       int64              `json:"resolved"`
	LagMS          float64            `json:"lag_ms"`
	Fingerprint    string             `json:"fingerprint"`
	Metrics        map[string]float64 `json:"metrics"`
}

// Save writes metadata.json and trajectory.csv under a fresh run id.
func (s *Store) Save(scenario string, cfg sim.Config, result *sim.Result, traj []Sample) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Scenario:       scenario,
		Timestamp:      time.Now(),
		TickMS:         float64(cfg.Tick) / float64(time.Millisecond),
		Duration:       cfg.Duration.Seconds(),
		Objects:        len(result.Final),
		Ticks:          result.Ticks,
		CollisionTicks: result.CollisionTicks,
		Contacts:       result.Contacts,
		Resolved:       result.Resolved,
		LagMS:          float64(result.Lag) / float64(time.Millisecond),
		Fingerprint:    fmt.Sprintf("%016x", world.Fingerprint(result.Final)),
		Metrics:        result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeTrajectory(filepath.Join(runDir, trajectoryFile), traj); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTrajectory(path string, traj []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(trajectoryHeader); err != nil {
		return err
	}
	for _, smp := range traj {
		if err := w.Write(smp.record()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) ([]Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(trajectoryHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		smp, err := parseSample(rec)
		if err != nil {
			return nil, fmt.Errorf("storage: %s line %d: %w", trajectoryFile, i+2, err)
		}
		samples = append(samples, smp)
	}
	return samples, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
