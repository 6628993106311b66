package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"wall": withObjects("wall",
		Box(Vec2{700, 0}, Vec2{760, 1000}, Vec2{0, 0}, 0, 1),
		Circle(5, 50, 0.8, Vec2{4, 0}, Vec2{300, 300}),
		Box(Vec2{100, 600}, Vec2{200, 700}, Vec2{3, 0}, 5, 0.9),
	),
	"stack": withObjects("stack",
		Box(Vec2{0, 900}, Vec2{1000, 1000}, Vec2{0, 0}, 0, 0.5),
		Box(Vec2{450, 700}, Vec2{550, 800}, Vec2{0, 2}, 5, 0.3),
		Box(Vec2{450, 500}, Vec2{550, 600}, Vec2{0, 2}, 5, 0.3),
		Box(Vec2{450, 300}, Vec2{550, 400}, Vec2{0, 2}, 5, 0.3),
	),
	"elastic": withObjects("elastic",
		Box(Vec2{100, 450}, Vec2{200, 550}, Vec2{3, 0}, 5, 1),
		Box(Vec2{800, 450}, Vec2{900, 550}, Vec2{-3, 0}, 5, 1),
		Circle(5, 40, 1, Vec2{0, 3}, Vec2{500, 100}),
		Circle(5, 40, 1, Vec2{0, -3}, Vec2{500, 900}),
	),
	"gallery": withObjects("gallery",
		Box(Vec2{40, 50}, Vec2{200, 240}, Vec2{0.9, 0.3}, 10, 0.8),
		Box(Vec2{450, 100}, Vec2{550, 200}, Vec2{0, 0}, 5, 0.6),
		Box(Vec2{40, 300}, Vec2{200, 500}, Vec2{2, 0.3}, 4, 0.8),
		Box(Vec2{800, 300}, Vec2{950, 500}, Vec2{-10, 0}, 5, 0.6),
		Box(Vec2{280, 40}, Vec2{400, 240}, Vec2{0, 0}, 5, 0.6),
		Circle(5, 50, 0.8, Vec2{2, 0}, Vec2{300, 150}),
	),
}

func withObjects(name string, objs ...ObjectConfig) *Config {
	cfg := DefaultConfig()
	cfg.Scenario = name
	cfg.Objects = objs
	return cfg
}

// GetPreset returns a copy of the named scenario, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
