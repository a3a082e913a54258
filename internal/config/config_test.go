package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Tracker.CheckInterval != time.Second {
		t.Errorf("CheckInterval = %v, want 1s", cfg.Tracker.CheckInterval)
	}
	if cfg.Tracker.DeepThreshold != 120*time.Second {
		t.Errorf("DeepThreshold = %v, want 2m0s", cfg.Tracker.DeepThreshold)
	}
	if cfg.Focus.Duration != 60*time.Minute {
		t.Errorf("Focus.Duration = %v, want 1h0m0s", cfg.Focus.Duration)
	}
	if cfg.Focus.RefreshInterval != 30*time.Minute {
		t.Errorf("Focus.RefreshInterval = %v, want 30m0s", cfg.Focus.RefreshInterval)
	}
	if cfg.Focus.AutoExpire {
		t.Error("Focus.AutoExpire = true, want false by default")
	}
	if len(cfg.Tracker.CodingApps) == 0 {
		t.Fatal("default coding app list is empty")
	}
	if cfg.Slack.Token != "" {
		t.Error("default Slack token should be empty")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid defaults", mutate: func(c *Config) {}, wantErr: false},
		{name: "empty pattern list", mutate: func(c *Config) { c.Tracker.CodingApps = nil }, wantErr: true},
		{name: "sub-second interval", mutate: func(c *Config) { c.Tracker.CheckInterval = 100 * time.Millisecond }, wantErr: true},
		{name: "threshold below interval", mutate: func(c *Config) { c.Tracker.DeepThreshold = 500 * time.Millisecond }, wantErr: true},
		{name: "short focus duration", mutate: func(c *Config) { c.Focus.Duration = 30 * time.Second }, wantErr: true},
		{name: "negative refresh", mutate: func(c *Config) { c.Focus.RefreshInterval = -time.Second }, wantErr: true},
		{name: "bad web port", mutate: func(c *Config) { c.Web.Port = 0 }, wantErr: true},
		{name: "empty web host", mutate: func(c *Config) { c.Web.Host = "" }, wantErr: true},
		{name: "empty pid file", mutate: func(c *Config) { c.Daemon.PIDFile = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CODEWATCH_SLACK_TOKEN", "xoxp-test")
	t.Setenv("CODEWATCH_CODING_APPS", "Zed, Helix ,")
	t.Setenv("CODEWATCH_CHECK_INTERVAL", "2")
	t.Setenv("CODEWATCH_DEEP_THRESHOLD", "600")
	t.Setenv("CODEWATCH_FOCUS_DURATION", "45")
	t.Setenv("CODEWATCH_STATUS_REFRESH", "900")
	t.Setenv("CODEWATCH_AUTO_EXPIRE", "true")

	cfg := Default()
	LoadFromEnv(cfg)

	if cfg.Slack.Token != "xoxp-test" {
		t.Errorf("Token = %q, want xoxp-test", cfg.Slack.Token)
	}
	if len(cfg.Tracker.CodingApps) != 2 || cfg.Tracker.CodingApps[0] != "Zed" || cfg.Tracker.CodingApps[1] != "Helix" {
		t.Errorf("CodingApps = %v, want [Zed Helix]", cfg.Tracker.CodingApps)
	}
	if cfg.Tracker.CheckInterval != 2*time.Second {
		t.Errorf("CheckInterval = %v, want 2s", cfg.Tracker.CheckInterval)
	}
	if cfg.Tracker.DeepThreshold != 10*time.Minute {
		t.Errorf("DeepThreshold = %v, want 10m0s", cfg.Tracker.DeepThreshold)
	}
	if cfg.Focus.Duration != 45*time.Minute {
		t.Errorf("Focus.Duration = %v, want 45m0s", cfg.Focus.Duration)
	}
	if cfg.Focus.RefreshInterval != 15*time.Minute {
		t.Errorf("Focus.RefreshInterval = %v, want 15m0s", cfg.Focus.RefreshInterval)
	}
	if !cfg.Focus.AutoExpire {
		t.Error("AutoExpire = false, want true")
	}
}

func TestLoadFromEnvIgnoresInvalid(t *testing.T) {
	t.Setenv("CODEWATCH_CHECK_INTERVAL", "not-a-number")
	t.Setenv("CODEWATCH_DEEP_THRESHOLD", "-5")
	t.Setenv("CODEWATCH_WEB_PORT", "99999")

	cfg := Default()
	LoadFromEnv(cfg)

	if cfg.Tracker.CheckInterval != time.Second {
		t.Errorf("CheckInterval = %v, want untouched default 1s", cfg.Tracker.CheckInterval)
	}
	if cfg.Tracker.DeepThreshold != 120*time.Second {
		t.Errorf("DeepThreshold = %v, want untouched default 2m0s", cfg.Tracker.DeepThreshold)
	}
	if cfg.Web.Port != Default().Web.Port {
		t.Errorf("Web.Port = %d, want untouched default", cfg.Web.Port)
	}
}

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("CODEWATCH_CONFIG", path)

	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config invalid: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config file was not created: %v", err)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("CODEWATCH_CONFIG", path)

	cfg := Default()
	cfg.Slack.Token = "xoxp-roundtrip"
	cfg.Tracker.CodingApps = []string{"Neovim"}
	cfg.Tracker.DeepThreshold = 20 * time.Minute
	cfg.Focus.AutoExpire = true

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded := Load()
	if loaded.Slack.Token != "xoxp-roundtrip" {
		t.Errorf("Token = %q, want xoxp-roundtrip", loaded.Slack.Token)
	}
	if len(loaded.Tracker.CodingApps) != 1 || loaded.Tracker.CodingApps[0] != "Neovim" {
		t.Errorf("CodingApps = %v, want [Neovim]", loaded.Tracker.CodingApps)
	}
	if loaded.Tracker.DeepThreshold != 20*time.Minute {
		t.Errorf("DeepThreshold = %v, want 20m0s", loaded.Tracker.DeepThreshold)
	}
	if !loaded.Focus.AutoExpire {
		t.Error("AutoExpire = false after round trip, want true")
	}
}

func TestLoadMalformedFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("CODEWATCH_CONFIG", path)

	if err := os.WriteFile(path, []byte("{{{not yaml"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Errorf("recovered config invalid: %v", err)
	}
	if cfg.Tracker.CheckInterval != time.Second {
		t.Errorf("CheckInterval = %v, want default 1s", cfg.Tracker.CheckInterval)
	}
}
