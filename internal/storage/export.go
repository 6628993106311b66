package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run        RunMetadata `json:"run"`
	Frames     int         `json:"frames"`
	Trajectory []Sample    `json:"trajectory"`
}

// ExportJSON writes a stored run with its full trajectory to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	traj, err := s.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	data := ExportData{Run: *meta, Trajectory: traj}
	if len(traj) > 0 {
		data.Frames = traj[len(traj)-1].Frame + 1
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (s *Store) ExportJSONFile(path, runID string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.ExportJSON(f, runID)
}
