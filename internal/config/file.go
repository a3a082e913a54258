package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

type yamlConfig struct {
	SlackToken                  string   `yaml:"slack_token"`
	StatusText                  string   `yaml:"status_text"`
	StatusEmoji                 string   `yaml:"status_emoji"`
	CodingApps                  []string `yaml:"coding_apps"`
	CheckIntervalSeconds        int      `yaml:"check_interval_seconds"`
	DeepModeThresholdSeconds    int      `yaml:"deep_mode_threshold_seconds"`
	FocusDurationMinutes        int      `yaml:"focus_duration_minutes"`
	StatusRefreshIntervalSecond int      `yaml:"status_refresh_interval_seconds"`
	FocusAutoExpire             bool     `yaml:"focus_auto_expire"`
	DatabasePath                string   `yaml:"database_path"`
	WebHost                     string   `yaml:"web_host"`
	WebPort                     int      `yaml:"web_port"`
}

// Load reads the config file, layering it over defaults. A missing file
// is written out with defaults; a malformed file is recovered by
// substituting defaults. Load never fails.
func Load() *Config {
	cfg := Default()

	path, err := resolveConfigPath()
	if err != nil {
		log.Printf("Could not resolve config path, using defaults: %v", err)
		return cfg
	}

	rawData, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if writeErr := Save(cfg); writeErr != nil {
				log.Printf("Could not write default config: %v", writeErr)
			} else {
				log.Printf("Created default configuration at %s", path)
			}
			return cfg
		}
		log.Printf("Error reading config, using defaults: %v", err)
		return cfg
	}

	var fileData yamlConfig
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		log.Printf("Error parsing config, using defaults: %v", err)
		return cfg
	}

	applyYamlConfig(cfg, fileData)
	return cfg
}

// Save writes the configuration to the config file
func Save(cfg *Config) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlConfig{
		SlackToken:                  cfg.Slack.Token,
		StatusText:                  cfg.Slack.StatusText,
		StatusEmoji:                 cfg.Slack.StatusEmoji,
		CodingApps:                  cfg.Tracker.CodingApps,
		CheckIntervalSeconds:        int(cfg.Tracker.CheckInterval / time.Second),
		DeepModeThresholdSeconds:    int(cfg.Tracker.DeepThreshold / time.Second),
		FocusDurationMinutes:        int(cfg.Focus.Duration / time.Minute),
		StatusRefreshIntervalSecond: int(cfg.Focus.RefreshInterval / time.Second),
		FocusAutoExpire:             cfg.Focus.AutoExpire,
		DatabasePath:                cfg.Database.Path,
		WebHost:                     cfg.Web.Host,
		WebPort:                     cfg.Web.Port,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal config yaml: %w", err)
	}

	if err := os.WriteFile(path, serialized, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

func resolveConfigPath() (string, error) {
	if override := os.Getenv("CODEWATCH_CONFIG"); override != "" {
		return override, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, "codewatch", configFileName), nil
}

func applyYamlConfig(cfg *Config, fileData yamlConfig) {
	if fileData.SlackToken != "" {
		cfg.Slack.Token = fileData.SlackToken
	}
	if fileData.StatusText != "" {
		cfg.Slack.StatusText = fileData.StatusText
	}
	if fileData.StatusEmoji != "" {
		cfg.Slack.StatusEmoji = fileData.StatusEmoji
	}
	if len(fileData.CodingApps) > 0 {
		cfg.Tracker.CodingApps = fileData.CodingApps
	}
	if fileData.CheckIntervalSeconds > 0 {
		cfg.Tracker.CheckInterval = time.Duration(fileData.CheckIntervalSeconds) * time.Second
	}
	if fileData.DeepModeThresholdSeconds > 0 {
		cfg.Tracker.DeepThreshold = time.Duration(fileData.DeepModeThresholdSeconds) * time.Second
	}
	if fileData.FocusDurationMinutes > 0 {
		cfg.Focus.Duration = time.Duration(fileData.FocusDurationMinutes) * time.Minute
	}
	if fileData.StatusRefreshIntervalSecond > 0 {
		cfg.Focus.RefreshInterval = time.Duration(fileData.StatusRefreshIntervalSecond) * time.Second
	}
	cfg.Focus.AutoExpire = fileData.FocusAutoExpire
	if fileData.DatabasePath != "" {
		cfg.Database.Path = fileData.DatabasePath
	}
	if fileData.WebHost != "" {
		cfg.Web.Host = fileData.WebHost
	}
	if fileData.WebPort > 0 && fileData.WebPort <= 65535 {
		cfg.Web.Port = fileData.WebPort
	}
}
