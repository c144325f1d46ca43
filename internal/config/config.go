// Package config holds the wardforge runtime configuration: where the data
// directory lives and what the per-department record files are called.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the complete wardforge configuration for YAML serialization.
type Config struct {
	DataDir     string `yaml:"data_dir"`
	CaseLogFile string `yaml:"case_log"`
	IntakeFile  string `yaml:"intake_feed"`
	SupplyFile  string `yaml:"supplies"`
	RosterFile  string `yaml:"roster"`
}

// Default returns the stock configuration: a local data directory with the
// historical file names.
func Default() Config {
	return Config{
		DataDir:     "data",
		CaseLogFile: "emergency.txt",
		IntakeFile:  "patients.txt",
		SupplyFile:  "supplies.txt",
		RosterFile:  "ambulances.txt",
	}
}

// Load reads a YAML config file. Fields left empty in the file keep their
// defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// EnsureDataDir creates the data directory if needed.
func (c Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir %s: %w", c.DataDir, err)
	}
	return nil
}

// CaseLogPath is the emergency case log location.
func (c Config) CaseLogPath() string { return filepath.Join(c.DataDir, c.CaseLogFile) }

// IntakePath is the admissions queue file, read by triage as its intake feed.
func (c Config) IntakePath() string { return filepath.Join(c.DataDir, c.IntakeFile) }

// SupplyPath is the inventory stock file.
func (c Config) SupplyPath() string { return filepath.Join(c.DataDir, c.SupplyFile) }

// RosterPath is the ambulance rotation file.
func (c Config) RosterPath() string { return filepath.Join(c.DataDir, c.RosterFile) }

func (c *Config) fillDefaults() {
	def := Default()
	if c.DataDir == "" {
		c.DataDir = def.DataDir
	}
	if c.CaseLogFile == "" {
		c.CaseLogFile = def.CaseLogFile
	}
	if c.IntakeFile == "" {
		c.IntakeFile = def.IntakeFile
	}
	if c.SupplyFile == "" {
		c.SupplyFile = def.SupplyFile
	}
	if c.RosterFile == "" {
		c.RosterFile = def.RosterFile
	}
}
