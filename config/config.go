// Package config provides configuration parsing for coraldeck.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the coraldeck configuration. One file covers both
// processes; each reads its own section.
type Config struct {
	// Dashboard holds settings for the dashboard process.
	Dashboard DashboardConfig `yaml:"dashboard"`

	// Agent holds settings for the agent process.
	Agent AgentConfig `yaml:"agent"`
}

// DashboardConfig holds settings for the dashboard process.
type DashboardConfig struct {
	// Listen is the host:port the API server binds to.
	Listen string `yaml:"listen"`
	// LogFile is the path for dashboard log output, also served at
	// /api/logs.
	LogFile string `yaml:"log_file"`
	// DBPath is the SQLite file where pushed samples are archived.
	// Empty disables archiving.
	DBPath string `yaml:"db_path"`
}

// AgentConfig holds settings for the agent process.
type AgentConfig struct {
	// Dashboard is the base URL of the dashboard API.
	Dashboard string `yaml:"dashboard"`
	// PollInterval is a duration string (e.g. "2s", "500ms") between
	// sampling iterations.
	PollInterval string `yaml:"poll_interval"`
	// LogFile is the path for agent log output. Empty logs to stderr.
	LogFile string `yaml:"log_file"`
	// NetworkInterface restricts network rates to one NIC. Empty
	// aggregates all interfaces.
	NetworkInterface string `yaml:"network_interface"`
	// DiskOS is the mount point reported by the OS disk bar.
	DiskOS string `yaml:"disk_os"`
	// DiskApps is the mount point reported by the archive disk bar.
	DiskApps string `yaml:"disk_apps"`
	// PumpChips restricts the pump tachometer search to hwmon chips
	// whose name contains one of these fragments.
	PumpChips []string `yaml:"pump_chips"`
	// UserAgent is sent with every request to the dashboard.
	UserAgent string `yaml:"user_agent"`
	// Title is the dashboard title template. {version} expands on the
	// dashboard, {timestamp} on the agent at every push.
	Title string `yaml:"title"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Dashboard: DashboardConfig{
			Listen:  "localhost:5000",
			LogFile: "",
			DBPath:  "",
		},
		Agent: AgentConfig{
			Dashboard:        "http://localhost:5000",
			PollInterval:     "1s",
			NetworkInterface: "",
			DiskOS:           "/",
			DiskApps:         "/",
			UserAgent:        "coraldeck/agent",
			Title:            "Coral Deck - {version} - {timestamp}",
		},
	}
}

// LoadConfig loads configuration from a YAML file, merging with
// defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	return config, nil
}

// PollPeriod parses the agent poll interval.
func (c *AgentConfig) PollPeriod() (time.Duration, error) {
	period, err := time.ParseDuration(c.PollInterval)
	if err != nil {
		return 0, fmt.Errorf("agent.poll_interval: %w", err)
	}
	return period, nil
}

// Validate checks the configuration for required fields and logical
// consistency.
func (c *Config) Validate() error {
	if c.Dashboard.Listen == "" {
		return fmt.Errorf("dashboard.listen is required")
	}

	if c.Agent.Dashboard == "" {
		return fmt.Errorf("agent.dashboard is required")
	}
	parsed, err := url.Parse(c.Agent.Dashboard)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("agent.dashboard must be an absolute URL, got %q", c.Agent.Dashboard)
	}

	period, err := c.Agent.PollPeriod()
	if err != nil {
		return err
	}
	if period <= 0 {
		return fmt.Errorf("agent.poll_interval must be positive, got %q", c.Agent.PollInterval)
	}

	if c.Agent.DiskOS == "" {
		return fmt.Errorf("agent.disk_os is required")
	}
	if c.Agent.DiskApps == "" {
		return fmt.Errorf("agent.disk_apps is required")
	}

	return nil
}

// SaveConfig saves configuration to a YAML file.
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
