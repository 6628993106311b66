package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/collidesim/internal/body"
	"github.com/san-kum/collidesim/internal/collision"
	"github.com/san-kum/collidesim/internal/geom"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "default" {
		t.Errorf("expected scenario default, got %s", cfg.Scenario)
	}
	if cfg.TickMS != 16 {
		t.Errorf("expected 16ms tick, got %v", cfg.TickMS)
	}
	if cfg.Duration != 5 {
		t.Errorf("expected 5s duration, got %v", cfg.Duration)
	}

	objs, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(objs) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objs))
	}
	if objs[0].Kind() != body.KindBox || objs[1].Kind() != body.KindCircle {
		t.Errorf("unexpected kinds %v, %v", objs[0].Kind(), objs[1].Kind())
	}
	if objs[1].Velocity() != geom.V(2, 0) {
		t.Errorf("expected circle velocity (2, 0), got %v", objs[1].Velocity())
	}
}

func TestSimConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CircleResponse = "impulse"
	cfg.MaxCatchUp = 2

	sc, err := cfg.SimConfig()
	if err != nil {
		t.Fatal(err)
	}
	if sc.Tick != 16*time.Millisecond || sc.Frame != sc.Tick {
		t.Errorf("unexpected tick %v frame %v", sc.Tick, sc.Frame)
	}
	if sc.Duration != 5*time.Second {
		t.Errorf("unexpected duration %v", sc.Duration)
	}
	if sc.CircleResponse != collision.ResponseImpulse || sc.MaxCatchUp != 2 {
		t.Errorf("unexpected %+v", sc)
	}

	cfg.CircleResponse = "sticky"
	if _, err := cfg.SimConfig(); err == nil {
		t.Error("expected error for unknown circle response")
	}
}

func TestSimConfigRejectsEmptyWorld(t *testing.T) {
	tests := []struct {
		name          string
		width, height float64
	}{
		{"zero width", 0, 1000},
		{"zero height", 1000, 0},
		{"negative", -5, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Width, cfg.Height = tt.width, tt.height
			if _, err := cfg.SimConfig(); !errors.Is(err, ErrInvalidWorld) {
				t.Errorf("expected ErrInvalidWorld, got %v", err)
			}
		})
	}
}

func TestBuildDefaultScene(t *testing.T) {
	objs, err := DefaultConfig().Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(objs) != 2 || objs[0].Kind() != body.KindBox || objs[1].Kind() != body.KindCircle {
		t.Errorf("unexpected scene %+v", objs)
	}
}

func TestObjectsErrors(t *testing.T) {
	tests := []struct {
		name string
		obj  ObjectConfig
		want error
	}{
		{"unknown kind", ObjectConfig{Kind: "triangle", Mass: 1}, ErrUnknownKind},
		{"negative mass", Circle(-1, 5, 0.5, Vec2{}, Vec2{}), body.ErrInvalidMass},
		{"zero radius", Circle(1, 0, 0.5, Vec2{}, Vec2{}), body.ErrInvalidRadius},
		{"inverted box", Box(Vec2{10, 10}, Vec2{0, 0}, Vec2{}, 1, 0.5), body.ErrInvertedBox},
		{"restitution", Box(Vec2{0, 0}, Vec2{1, 1}, Vec2{}, 1, 2), body.ErrInvalidRestitution},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Objects = append(cfg.Objects, tt.obj)
			_, err := cfg.Build()
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")

	cfg := GetPreset("gallery")
	cfg.LogLevel = "debug"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Scenario != "gallery" || loaded.LogLevel != "debug" {
		t.Errorf("unexpected header %+v", loaded)
	}
	if len(loaded.Objects) != len(cfg.Objects) {
		t.Fatalf("expected %d objects, got %d", len(cfg.Objects), len(loaded.Objects))
	}
	for i := range cfg.Objects {
		if loaded.Objects[i].Kind != cfg.Objects[i].Kind ||
			loaded.Objects[i].Velocity != cfg.Objects[i].Velocity ||
			loaded.Objects[i].Min != cfg.Objects[i].Min {
			t.Errorf("object %d: got %+v, want %+v", i, loaded.Objects[i], cfg.Objects[i])
		}
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("scenario: partial\nduration: 2\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Duration != 2 || cfg.TickMS != DefaultTickMS {
		t.Errorf("unexpected timing %v / %v", cfg.Duration, cfg.TickMS)
	}
	if len(cfg.Objects) != 2 {
		t.Errorf("expected default scene, got %d objects", len(cfg.Objects))
	}
}

func TestLoadObjectList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	data := []byte(`scenario: custom
objects:
  - kind: circle
    mass: 1
    radius: 10
    restitution: 0.5
    velocity: [1, 0]
    center: [20, 20]
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	objs, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(objs) != 1 || objs[0].Center() != geom.V(20, 20) {
		t.Errorf("unexpected scene %+v", objs)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("wall")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Objects[0].Mass != 0 {
		t.Errorf("expected static wall, got mass %v", cfg.Objects[0].Mass)
	}

	cfg.Objects[0].Mass = 99
	if GetPreset("wall").Objects[0].Mass != 0 {
		t.Error("GetPreset must return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for _, name := range ListPresets() {
		cfg := GetPreset(name)
		if cfg.Scenario != name {
			t.Errorf("preset %s has scenario %s", name, cfg.Scenario)
		}
		if _, err := cfg.Build(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
		if _, err := cfg.SimConfig(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	want := []string{"default", "elastic", "gallery", "stack", "wall"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %v, got %v", want, names)
		}
	}
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.SetParam("restitution", 0.25); err != nil {
		t.Fatal(err)
	}
	for i, oc := range cfg.Objects {
		if oc.Restitution != 0.25 {
			t.Errorf("object %d restitution = %v", i, oc.Restitution)
		}
	}

	if err := cfg.SetParam("percent", 0.5); err != nil || cfg.Percent != 0.5 {
		t.Errorf("percent = %v, err %v", cfg.Percent, err)
	}

	if err := cfg.SetParam("gravity", 1); !errors.Is(err, ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}
