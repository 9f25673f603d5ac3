package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// envConfig holds the settings that may be overridden from the environment.
type envConfig struct {
	Home        string  `env:"CABINPLAN_HOME"`
	PhasePolicy string  `env:"CABINPLAN_PHASE_POLICY"`
	CostFactor  float64 `env:"CABINPLAN_COST_FACTOR"`
	WebBind     string  `env:"CABINPLAN_WEB_BIND"`
	WebPort     int     `env:"CABINPLAN_WEB_PORT"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// ApplyEnv overlays environment overrides onto cfg.
func ApplyEnv(cfg *Config) (*Config, error) {
	var e envConfig
	if err := ParseEnv(&e); err != nil {
		return nil, err
	}

	merged := Merge(cfg, &Config{
		PhasePolicy: e.PhasePolicy,
		CostFactor:  e.CostFactor,
		WebBind:     e.WebBind,
		WebPort:     e.WebPort,
	})
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// BaseDir returns the data directory: $CABINPLAN_HOME if set, else
// ~/.cabinplan.
func BaseDir() (string, error) {
	var e envConfig
	if err := ParseEnv(&e); err != nil {
		return "", err
	}
	if e.Home != "" {
		return e.Home, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".cabinplan"), nil
}
