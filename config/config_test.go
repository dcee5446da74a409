package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dashboard.Listen != "localhost:5000" {
		t.Errorf("expected Listen=localhost:5000, got %s", cfg.Dashboard.Listen)
	}
	if cfg.Dashboard.DBPath != "" {
		t.Errorf("expected archiving disabled by default, got %s", cfg.Dashboard.DBPath)
	}

	if cfg.Agent.Dashboard != "http://localhost:5000" {
		t.Errorf("expected Dashboard=http://localhost:5000, got %s", cfg.Agent.Dashboard)
	}
	if cfg.Agent.PollInterval != "1s" {
		t.Errorf("expected PollInterval=1s, got %s", cfg.Agent.PollInterval)
	}
	if cfg.Agent.DiskOS != "/" || cfg.Agent.DiskApps != "/" {
		t.Errorf("expected both disks to default to /, got %s and %s",
			cfg.Agent.DiskOS, cfg.Agent.DiskApps)
	}
	if cfg.Agent.UserAgent != "coraldeck/agent" {
		t.Errorf("expected UserAgent=coraldeck/agent, got %s", cfg.Agent.UserAgent)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

func TestLoadConfigMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coraldeck.yaml")
	content := `
dashboard:
  listen: "0.0.0.0:8080"
  db_path: "/var/lib/coraldeck/samples.db"
agent:
  dashboard: "http://deck.local:8080"
  poll_interval: "2s"
  network_interface: "eth0"
  disk_apps: "/media/archive"
  pump_chips: ["d5next"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Dashboard.Listen != "0.0.0.0:8080" {
		t.Errorf("expected Listen=0.0.0.0:8080, got %s", cfg.Dashboard.Listen)
	}
	if cfg.Agent.PollInterval != "2s" {
		t.Errorf("expected PollInterval=2s, got %s", cfg.Agent.PollInterval)
	}
	if cfg.Agent.NetworkInterface != "eth0" {
		t.Errorf("expected NetworkInterface=eth0, got %s", cfg.Agent.NetworkInterface)
	}
	if cfg.Agent.DiskApps != "/media/archive" {
		t.Errorf("expected DiskApps=/media/archive, got %s", cfg.Agent.DiskApps)
	}
	if len(cfg.Agent.PumpChips) != 1 || cfg.Agent.PumpChips[0] != "d5next" {
		t.Errorf("expected PumpChips=[d5next], got %v", cfg.Agent.PumpChips)
	}

	// Untouched fields keep their defaults.
	if cfg.Agent.DiskOS != "/" {
		t.Errorf("expected DiskOS default /, got %s", cfg.Agent.DiskOS)
	}
	if cfg.Agent.UserAgent != "coraldeck/agent" {
		t.Errorf("expected default UserAgent, got %s", cfg.Agent.UserAgent)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults, got %v", err)
	}
	if cfg.Dashboard.Listen != "localhost:5000" {
		t.Errorf("expected defaults, got Listen=%s", cfg.Dashboard.Listen)
	}
}

func TestLoadConfigMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("dashboard: [not a map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty listen", func(c *Config) { c.Dashboard.Listen = "" }},
		{"empty dashboard url", func(c *Config) { c.Agent.Dashboard = "" }},
		{"relative dashboard url", func(c *Config) { c.Agent.Dashboard = "deck.local:8080" }},
		{"bad poll interval", func(c *Config) { c.Agent.PollInterval = "soon" }},
		{"negative poll interval", func(c *Config) { c.Agent.PollInterval = "-1s" }},
		{"empty disk os", func(c *Config) { c.Agent.DiskOS = "" }},
		{"empty disk apps", func(c *Config) { c.Agent.DiskApps = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPollPeriod(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Agent.PollInterval = "250ms"

	period, err := cfg.Agent.PollPeriod()
	if err != nil {
		t.Fatalf("PollPeriod failed: %v", err)
	}
	if period != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %v", period)
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "coraldeck.yaml")

	cfg := DefaultConfig()
	cfg.Agent.NetworkInterface = "enp5s0"
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Agent.NetworkInterface != "enp5s0" {
		t.Errorf("expected NetworkInterface=enp5s0, got %s", loaded.Agent.NetworkInterface)
	}
}
