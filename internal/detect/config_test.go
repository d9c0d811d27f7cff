package detect

import (
	"errors"
	"testing"
)

func validConfig() Config {
	return Config{
		MinConfidence: 35,
		MinGap:        10,
		SceneWeight:   30,
		BlackWeight:   20,
		AudioWeight:   25,
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero min gap", mutate: func(c *Config) { c.MinGap = 0 }, wantErr: true},
		{name: "negative min gap", mutate: func(c *Config) { c.MinGap = -1 }, wantErr: true},
		{name: "negative min confidence", mutate: func(c *Config) { c.MinConfidence = -5 }, wantErr: true},
		{name: "negative weight", mutate: func(c *Config) { c.BlackWeight = -1 }, wantErr: true},
		{
			name: "all weights zero",
			mutate: func(c *Config) {
				c.SceneWeight, c.BlackWeight, c.AudioWeight = 0, 0, 0
			},
			wantErr: true,
		},
		{name: "single positive weight", mutate: func(c *Config) { c.SceneWeight, c.BlackWeight = 0, 0 }},
		{name: "cluster radius at min gap", mutate: func(c *Config) { c.ClusterRadius = 10 }, wantErr: true},
		{name: "cluster radius above min gap", mutate: func(c *Config) { c.ClusterRadius = 12 }, wantErr: true},
		{name: "negative bonus", mutate: func(c *Config) { c.MultiSignalBonus = -1 }, wantErr: true},
		{name: "negative verify band", mutate: func(c *Config) { c.VerifyBand = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) {
					t.Errorf("error type = %T, want *ConfigError", err)
				}
			}
		})
	}
}

func TestNormalizedFillsDefaults(t *testing.T) {
	cfg := validConfig().normalized()

	if cfg.ClusterRadius != defaultClusterRadius {
		t.Errorf("ClusterRadius = %v, want %v", cfg.ClusterRadius, defaultClusterRadius)
	}
	if cfg.MultiSignalBonus != defaultMultiSignalBonus {
		t.Errorf("MultiSignalBonus = %v, want %v", cfg.MultiSignalBonus, defaultMultiSignalBonus)
	}
	if cfg.VerifyWorkers != defaultVerifyWorkers {
		t.Errorf("VerifyWorkers = %v, want %v", cfg.VerifyWorkers, defaultVerifyWorkers)
	}
}

func TestNormalizedKeepsExplicitValues(t *testing.T) {
	cfg := validConfig()
	cfg.ClusterRadius = 0.5
	cfg.MultiSignalBonus = 3

	got := cfg.normalized()
	if got.ClusterRadius != 0.5 {
		t.Errorf("ClusterRadius = %v, want 0.5", got.ClusterRadius)
	}
	if got.MultiSignalBonus != 3 {
		t.Errorf("MultiSignalBonus = %v, want 3", got.MultiSignalBonus)
	}
}

func TestNormalizedCapsDefaultRadiusUnderTightGap(t *testing.T) {
	cfg := validConfig()
	cfg.MinGap = 1

	got := cfg.normalized()
	if got.ClusterRadius >= got.MinGap {
		t.Fatalf("ClusterRadius = %v, want < MinGap %v", got.ClusterRadius, got.MinGap)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("normalized config should validate: %v", err)
	}
}
