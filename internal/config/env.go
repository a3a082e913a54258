package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// LoadFromEnv loads configuration from environment variables.
// Environment variables override file and default values.
func LoadFromEnv(cfg *Config) {
	if token := os.Getenv("CODEWATCH_SLACK_TOKEN"); token != "" {
		cfg.Slack.Token = token
	}

	if apps := os.Getenv("CODEWATCH_CODING_APPS"); apps != "" {
		var patterns []string
		for _, p := range strings.Split(apps, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		if len(patterns) > 0 {
			cfg.Tracker.CodingApps = patterns
		}
	}

	if interval := os.Getenv("CODEWATCH_CHECK_INTERVAL"); interval != "" {
		if seconds, err := strconv.Atoi(interval); err == nil && seconds > 0 {
			cfg.Tracker.CheckInterval = time.Duration(seconds) * time.Second
		}
	}

	if threshold := os.Getenv("CODEWATCH_DEEP_THRESHOLD"); threshold != "" {
		if seconds, err := strconv.Atoi(threshold); err == nil && seconds > 0 {
			cfg.Tracker.DeepThreshold = time.Duration(seconds) * time.Second
		}
	}

	if duration := os.Getenv("CODEWATCH_FOCUS_DURATION"); duration != "" {
		if minutes, err := strconv.Atoi(duration); err == nil && minutes > 0 {
			cfg.Focus.Duration = time.Duration(minutes) * time.Minute
		}
	}

	if refresh := os.Getenv("CODEWATCH_STATUS_REFRESH"); refresh != "" {
		if seconds, err := strconv.Atoi(refresh); err == nil && seconds > 0 {
			cfg.Focus.RefreshInterval = time.Duration(seconds) * time.Second
		}
	}

	if autoExpire := os.Getenv("CODEWATCH_AUTO_EXPIRE"); autoExpire != "" {
		if val, err := strconv.ParseBool(autoExpire); err == nil {
			cfg.Focus.AutoExpire = val
		}
	}

	if dbPath := os.Getenv("CODEWATCH_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if pidFile := os.Getenv("CODEWATCH_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	if webHost := os.Getenv("CODEWATCH_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("CODEWATCH_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}
}

// New creates a Config from defaults, the config file and the
// environment, in that order of precedence (lowest first).
func New() *Config {
	cfg := Load()
	LoadFromEnv(cfg)
	return cfg
}
