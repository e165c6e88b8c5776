package config

import "sort"

var Presets = map[string]map[string]*Config{
	"pendulums": {
		"default": DefaultConfig(),
		"stiff": with(func(c *Config) {
			c.Lab.Stiffness = 3
		}),
		"rope": with(func(c *Config) {
			c.Lab.StringMode = true
			c.Pendulum.Drop = 40
		}),
		"row": with(func(c *Config) {
			c.Pendulum.X, c.Pendulum.Count, c.Pendulum.Gap = 100, 6, 100
			c.Frames = 1200
		}),
	},
	"mesh": {
		"small": with(func(c *Config) {
			c.Scenario = "mesh"
		}),
		"cloth": with(func(c *Config) {
			c.Scenario = "mesh"
			c.Mesh = MeshConfig{X: 200, Y: 200, Width: 30, Height: 30, DX: 4, DY: 4, Mass: 1, Rest: -1, DiagRest: -1}
		}),
		"loose": with(func(c *Config) {
			c.Scenario = "mesh"
			c.Lab.Stiffness = 0.5
			c.Frames = 1200
		}),
	},
	"circle": {
		"hexagon": with(func(c *Config) {
			c.Scenario = "circle"
		}),
		"wheel": with(func(c *Config) {
			c.Scenario = "circle"
			c.Circle.Count = 16
			c.Circle.SpokeRest, c.Circle.RimRest = -1, -1
		}),
	},
	"water": {
		"calm": with(func(c *Config) {
			c.Scenario = "water"
		}),
		"choppy": with(func(c *Config) {
			c.Scenario = "water"
			c.Water.Tension, c.Water.Dampening, c.Water.Spread = 0.1, 0.0025, 0.5
		}),
		"syrup": with(func(c *Config) {
			c.Scenario = "water"
			c.Water.Dampening, c.Water.Spread = 0.1, 0.05
		}),
	},
}

func with(edit func(*Config)) *Config {
	c := DefaultConfig()
	edit(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
