package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Controller != "lte" {
		t.Errorf("default controller %q", cfg.Controller)
	}
	if cfg.Section != "theta" {
		t.Errorf("default section %q", cfg.Section)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := []byte(`
controller: energy
eps_energy: 1.0e-8
worker_count: 4
section: zeta
alpha: 3.14
intersections: 250
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Controller != "energy" || cfg.EpsEnergy != 1e-8 {
		t.Errorf("controller settings not applied: %+v", cfg)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("worker_count = %d", cfg.WorkerCount)
	}
	// Untouched keys keep their defaults.
	if cfg.Atol != DefaultAtol || cfg.Safety != DefaultSafety {
		t.Errorf("defaults clobbered: %+v", cfg)
	}

	mp, err := cfg.MapParams()
	if err != nil {
		t.Fatal(err)
	}
	if mp.Intersections != 250 || mp.Alpha != 3.14 {
		t.Errorf("map params: %+v", mp)
	}
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad section", func(c *Config) { c.Section = "rho" }},
		{"zero intersections", func(c *Config) { c.Intersections = 0 }},
		{"bad direction", func(c *Config) { c.EventDirection = "up" }},
		{"bad phase mode", func(c *Config) { c.PhaseMode = "spline" }},
		{"negative workers", func(c *Config) { c.WorkerCount = -1 }},
		{"bad controller", func(c *Config) { c.Controller = "pid" }},
		{"negative stride", func(c *Config) { c.StoreStride = -2 }},
	}
	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: accepted", tc.name)
		}
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("expected error")
	}
}
