package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/George-Tsiamasiotis/poincare-maps/internal/orbit"
)

const (
	DefaultAtol      = 1e-9
	DefaultRtol      = 1e-9
	DefaultEpsEnergy = 1e-9
	DefaultH0        = 1e-2
	DefaultHMin      = 1e-12
	DefaultHMax      = 1.0
	DefaultSafety    = 0.9
	DefaultMaxSteps  = 1_000_000
)

// Config is the YAML run configuration. CLI flags override file values.
type Config struct {
	// Equilibrium input.
	File     string `yaml:"file"`
	Interp1D string `yaml:"interp_1d"`
	Interp2D string `yaml:"interp_2d"`

	// Integrator.
	Atol      float64 `yaml:"atol"`
	Rtol      float64 `yaml:"rtol"`
	EpsEnergy float64 `yaml:"eps_energy"`

	H0   float64 `yaml:"h0"`
	HMin float64 `yaml:"h_min"`
	HMax float64 `yaml:"h_max"`

	Safety   float64 `yaml:"safety"`
	MaxSteps int     `yaml:"max_steps"`

	Controller string `yaml:"controller"`

	// Driver.
	WorkerCount int `yaml:"worker_count"`
	StoreStride int `yaml:"store_stride"`
	MaxStored   int `yaml:"max_stored"`

	// Event layer and perturbation.
	EventDirection string `yaml:"event_direction"`
	PhaseMode      string `yaml:"phase_mode"`

	// Mapping.
	Section       string  `yaml:"section"`
	Alpha         float64 `yaml:"alpha"`
	Intersections int     `yaml:"intersections"`
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Interp1D:       "Akima",
		Interp2D:       "Bicubic",
		Atol:           DefaultAtol,
		Rtol:           DefaultRtol,
		EpsEnergy:      DefaultEpsEnergy,
		H0:             DefaultH0,
		HMin:           DefaultHMin,
		HMax:           DefaultHMax,
		Safety:         DefaultSafety,
		MaxSteps:       DefaultMaxSteps,
		Controller:     "lte",
		EventDirection: "any",
		PhaseMode:      "constant",
		Section:        "theta",
		Intersections:  100,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the option ranges and closed string sets.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.WorkerCount < 0 {
		return fmt.Errorf("%w: worker_count %d", orbit.ErrConfig, c.WorkerCount)
	}
	if c.StoreStride < 0 || c.MaxStored < 0 {
		return fmt.Errorf("%w: store_stride %d, max_stored %d",
			orbit.ErrConfig, c.StoreStride, c.MaxStored)
	}
	if _, err := orbit.ParseDirection(c.EventDirection); err != nil {
		return err
	}
	switch c.PhaseMode {
	case "constant", "interpolated":
	default:
		return fmt.Errorf("%w: phase_mode %q", orbit.ErrConfig, c.PhaseMode)
	}
	switch c.Section {
	case "theta", "zeta":
	default:
		return fmt.Errorf("%w: section %q", orbit.ErrConfig, c.Section)
	}
	if c.Intersections <= 0 {
		return fmt.Errorf("%w: intersections %d", orbit.ErrConfig, c.Intersections)
	}
	return nil
}

// Params projects the configuration onto the integrator settings.
func (c *Config) Params() orbit.Params {
	return orbit.Params{
		Atol:        c.Atol,
		Rtol:        c.Rtol,
		EpsEnergy:   c.EpsEnergy,
		H0:          c.H0,
		HMin:        c.HMin,
		HMax:        c.HMax,
		Safety:      c.Safety,
		MaxSteps:    c.MaxSteps,
		StoreStride: c.StoreStride,
		MaxStored:   c.MaxStored,
		Controller:  c.Controller,
	}
}

// MapParams projects the configuration onto the section description.
func (c *Config) MapParams() (orbit.MapParams, error) {
	dir, err := orbit.ParseDirection(c.EventDirection)
	if err != nil {
		return orbit.MapParams{}, err
	}
	coord := orbit.IdxTheta
	if c.Section == "zeta" {
		coord = orbit.IdxZeta
	}
	mp := orbit.MapParams{
		Coord:         coord,
		Alpha:         c.Alpha,
		Intersections: c.Intersections,
		Direction:     dir,
	}
	return mp, mp.Validate()
}
