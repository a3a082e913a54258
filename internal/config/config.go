package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Slack configuration
	Slack SlackConfig

	// Tracker configuration
	Tracker TrackerConfig

	// Focus-mode configuration
	Focus FocusConfig

	// Journal database configuration
	Database DatabaseConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Web server configuration
	Web WebConfig
}

// SlackConfig holds the remote focus-action configuration
type SlackConfig struct {
	Token       string // Bearer token; empty disables remote calls
	StatusText  string // Profile status text while in deep mode
	StatusEmoji string // Profile status emoji while in deep mode
}

// TrackerConfig holds session tracking behavior configuration
type TrackerConfig struct {
	CodingApps    []string      // Case-insensitive substring patterns for coding apps
	CheckInterval time.Duration // Sampling cadence; also the credited increment per tick
	DeepThreshold time.Duration // Continuous coding time that triggers deep mode
}

// FocusConfig holds focus-mode engagement configuration
type FocusConfig struct {
	Duration        time.Duration // DND snooze and status expiry window
	RefreshInterval time.Duration // Minimum spacing between repeated engagements
	AutoExpire      bool          // Drop the active flag once Duration elapses
}

// DatabaseConfig holds journal database configuration
type DatabaseConfig struct {
	Path string // Path to SQLite journal file
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for daemon management
}

// WebConfig holds web server configuration
type WebConfig struct {
	Host string // Host to bind web server to
	Port int    // Port for web server
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Slack: SlackConfig{
			Token:       "",
			StatusText:  "Deep Coding Mode",
			StatusEmoji: ":computer:",
		},
		Tracker: TrackerConfig{
			CodingApps: []string{
				"Code", "Visual Studio Code", "VSCode", "Electron",
				"RStudio", "R Console", "R Graphics",
				"PyCharm", "IntelliJ", "Eclipse",
				"Sublime Text", "Atom", "Vim", "Emacs",
			},
			CheckInterval: 1 * time.Second,
			DeepThreshold: 120 * time.Second,
		},
		Focus: FocusConfig{
			Duration:        60 * time.Minute,
			RefreshInterval: 1800 * time.Second,
			AutoExpire:      false,
		},
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/codewatch/codewatch.db
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/codewatch-%d.pid", os.Getuid()),
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10000 + os.Getuid(),
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Tracker.CodingApps) == 0 {
		return fmt.Errorf("coding app pattern list cannot be empty")
	}

	if c.Tracker.CheckInterval < time.Second {
		return fmt.Errorf("check interval (%v) cannot be less than 1s", c.Tracker.CheckInterval)
	}

	if c.Tracker.DeepThreshold < c.Tracker.CheckInterval {
		return fmt.Errorf("deep mode threshold (%v) cannot be less than the check interval (%v)",
			c.Tracker.DeepThreshold, c.Tracker.CheckInterval)
	}

	if c.Focus.Duration < time.Minute {
		return fmt.Errorf("focus duration (%v) cannot be less than 1m", c.Focus.Duration)
	}

	if c.Focus.RefreshInterval < 0 {
		return fmt.Errorf("status refresh interval cannot be negative")
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// CheckIntervalSeconds returns the sampling cadence in whole seconds
func (c *Config) CheckIntervalSeconds() int64 {
	return int64(c.Tracker.CheckInterval.Seconds())
}

// FocusDurationMinutes returns the focus window length in whole minutes
func (c *Config) FocusDurationMinutes() int {
	return int(c.Focus.Duration.Minutes())
}

// String returns a string representation of the config. The Slack token
// is redacted.
func (c *Config) String() string {
	token := "(not set)"
	if c.Slack.Token != "" {
		token = "(set)"
	}
	return fmt.Sprintf(`Configuration:
  Slack:
    Token: %s
    Status: %s %s
  Tracker:
    Coding Apps: %s
    Check Interval: %v
    Deep Mode Threshold: %v
  Focus:
    Duration: %v
    Refresh Interval: %v
    Auto Expire: %v
  Database:
    Path: %s
  Daemon:
    PID File: %s
  Web:
    Host: %s
    Port: %d`,
		token,
		c.Slack.StatusText,
		c.Slack.StatusEmoji,
		strings.Join(c.Tracker.CodingApps, ", "),
		c.Tracker.CheckInterval,
		c.Tracker.DeepThreshold,
		c.Focus.Duration,
		c.Focus.RefreshInterval,
		c.Focus.AutoExpire,
		c.Database.Path,
		c.Daemon.PIDFile,
		c.Web.Host,
		c.Web.Port,
	)
}
