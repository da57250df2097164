package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: "debug"
  format: "text"
journal:
  enabled: true
  path: "/tmp/automaton-test.db"
robots:
  - name: "Ultron"
    auto_start: true
    connections:
      - name: "bench"
        type: "loopback"
    devices:
      - name: "relay"
        type: "loopback"
        pin: "13"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if !cfg.Journal.Enabled || cfg.Journal.Path != "/tmp/automaton-test.db" {
		t.Errorf("Journal = %+v, want enabled with path", cfg.Journal)
	}
	// Defaults survive a partial file.
	if !cfg.Journal.WALMode {
		t.Error("Journal.WALMode default lost")
	}
	if cfg.Telemetry.BatchSize != 100 {
		t.Errorf("Telemetry.BatchSize = %d, want default 100", cfg.Telemetry.BatchSize)
	}

	if len(cfg.Robots) != 1 {
		t.Fatalf("len(Robots) = %d, want 1", len(cfg.Robots))
	}
	bot := cfg.Robots[0]
	if bot.Name != "Ultron" || !bot.AutoStart {
		t.Errorf("robot = %+v, want Ultron with auto_start", bot)
	}
	if len(bot.Connections) != 1 || bot.Connections[0].Type != "loopback" {
		t.Errorf("connections = %+v, want one loopback", bot.Connections)
	}
	if len(bot.Devices) != 1 || bot.Devices[0].Pin != "13" {
		t.Errorf("devices = %+v, want one with pin 13", bot.Devices)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "robots: [broken: {yaml")
	if _, err := Load(path); err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
telemetry:
  enabled: true
robots:
  - name: "bad"
    work_mode: "sometimes"
    connections:
      - name: ""
        type: ""
`)
	if _, err := Load(path); err == nil {
		t.Error("Load() expected validation error, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AUTOMATON_JOURNAL_PATH", "/tmp/override.db")
	t.Setenv("AUTOMATON_TELEMETRY_TOKEN", "secret-token")

	path := writeConfig(t, `
journal:
  enabled: true
  path: "/tmp/from-file.db"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Journal.Path != "/tmp/override.db" {
		t.Errorf("Journal.Path = %q, want env override", cfg.Journal.Path)
	}
	if cfg.Telemetry.Token != "secret-token" {
		t.Errorf("Telemetry.Token = %q, want env override", cfg.Telemetry.Token)
	}
}
