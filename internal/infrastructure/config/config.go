package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Automaton.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Journal   JournalConfig   `yaml:"journal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Robots    []RobotConfig   `yaml:"robots"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// JournalConfig contains lifecycle journal (SQLite) settings.
type JournalConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// TelemetryConfig contains InfluxDB lifecycle telemetry settings.
type TelemetryConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// RobotConfig declares one robot to build at startup.
type RobotConfig struct {
	Name        string             `yaml:"name"`
	AutoStart   bool               `yaml:"auto_start"`
	WorkMode    string             `yaml:"work_mode"`
	Events      []string           `yaml:"events"`
	Connections []ConnectionConfig `yaml:"connections"`
	Devices     []DeviceConfig     `yaml:"devices"`
}

// ConnectionConfig declares one connection on a robot. Type selects the
// adaptor builder from the platform registry; Params carries builder-specific
// settings.
type ConnectionConfig struct {
	Name    string         `yaml:"name"`
	Type    string         `yaml:"type"`
	Host    string         `yaml:"host"`
	Port    int            `yaml:"port"`
	Params  map[string]any `yaml:"params"`
	Devices []DeviceConfig `yaml:"devices"`
}

// DeviceConfig declares one device on a robot. Type selects the driver
// builder from the platform registry. Connection names the connection the
// device binds to; when empty the robot's earliest-registered connection is
// used.
type DeviceConfig struct {
	Name       string         `yaml:"name"`
	Type       string         `yaml:"type"`
	Connection string         `yaml:"connection"`
	Pin        string         `yaml:"pin"`
	Params     map[string]any `yaml:"params"`
}

// Load reads configuration from a YAML file and applies environment variable
// overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: AUTOMATON_SECTION_KEY
// For example: AUTOMATON_JOURNAL_PATH, AUTOMATON_TELEMETRY_TOKEN
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Journal: JournalConfig{
			Path:        "./data/automaton.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Telemetry: TelemetryConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: AUTOMATON_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Logging
	if v := os.Getenv("AUTOMATON_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Journal
	if v := os.Getenv("AUTOMATON_JOURNAL_PATH"); v != "" {
		cfg.Journal.Path = v
	}

	// Telemetry - the token should always come from the environment in
	// production rather than the config file.
	if v := os.Getenv("AUTOMATON_TELEMETRY_URL"); v != "" {
		cfg.Telemetry.URL = v
	}
	if v := os.Getenv("AUTOMATON_TELEMETRY_TOKEN"); v != "" {
		cfg.Telemetry.Token = v
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	// Journal validation
	if c.Journal.Enabled && c.Journal.Path == "" {
		errs = append(errs, "journal.path is required when journal is enabled")
	}

	// Telemetry validation
	if c.Telemetry.Enabled {
		if c.Telemetry.URL == "" {
			errs = append(errs, "telemetry.url is required when telemetry is enabled")
		}
		if c.Telemetry.Org == "" {
			errs = append(errs, "telemetry.org is required when telemetry is enabled")
		}
		if c.Telemetry.Bucket == "" {
			errs = append(errs, "telemetry.bucket is required when telemetry is enabled")
		}
	}

	// Robot validation. The orchestration core revalidates its own typed
	// config; this catches declaration-level mistakes before builders run.
	for i, robot := range c.Robots {
		where := fmt.Sprintf("robots[%d]", i)
		switch robot.WorkMode {
		case "", "barrier", "immediate":
		default:
			errs = append(errs, fmt.Sprintf("%s.work_mode must be barrier or immediate, got %q", where, robot.WorkMode))
		}
		for j, conn := range robot.Connections {
			cw := fmt.Sprintf("%s.connections[%d]", where, j)
			if conn.Name == "" {
				errs = append(errs, cw+".name is required")
			}
			if conn.Type == "" {
				errs = append(errs, cw+".type is required")
			}
			if conn.Port < 0 || conn.Port > 65535 {
				errs = append(errs, cw+".port must be between 0 and 65535")
			}
			for k, dev := range conn.Devices {
				if dev.Name == "" || dev.Type == "" {
					errs = append(errs, fmt.Sprintf("%s.devices[%d] needs name and type", cw, k))
				}
			}
		}
		for j, dev := range robot.Devices {
			if dev.Name == "" || dev.Type == "" {
				errs = append(errs, fmt.Sprintf("%s.devices[%d] needs name and type", where, j))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}
