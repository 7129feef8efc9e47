package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName names the config, settings and log directories
const AppName = "traydock"

// Config holds all configuration for the tray controller
type Config struct {
	mu        sync.RWMutex
	listeners []func(*Config)

	// Command surface
	Bind string `yaml:"bind" json:"bind"`
	Port int    `yaml:"port" json:"port"`

	// Preferences
	SettingsPath  string `yaml:"settings_path" json:"settings_path"`
	WatchSettings bool   `yaml:"watch_settings" json:"watch_settings"`

	// Tray
	ResourceDir string `yaml:"resource_dir" json:"resource_dir"`

	// Window policy
	HideOnBlur bool `yaml:"hide_on_blur" json:"hide_on_blur"`

	// Logging
	LogDir           string `yaml:"log_dir" json:"log_dir"`
	LogRetentionDays int    `yaml:"log_retention_days" json:"log_retention_days"`
	LogLevel         string `yaml:"log_level" json:"log_level"`
	LogRequests      bool   `yaml:"log_requests" json:"log_requests"`
	LogEvents        bool   `yaml:"log_events" json:"log_events"`
	LogMetrics       bool   `yaml:"log_metrics" json:"log_metrics"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Bind:             "127.0.0.1",
		Port:             7393,
		WatchSettings:    true,
		ResourceDir:      "icons",
		HideOnBlur:       false,
		LogDir:           filepath.Join(xdg.StateHome, AppName, "logs"),
		LogRetentionDays: 14,
		LogLevel:         "info",
		LogEvents:        true,
		LogMetrics:       true,
	}
}

// DefaultPath returns the config file location under the XDG config home
func DefaultPath() (string, error) {
	return xdg.ConfigFile(filepath.Join(AppName, "config.yaml"))
}

// Load loads config from a YAML file, applying defaults for missing values
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, use defaults
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ResolveSettingsPath returns the preferences document path, defaulting to
// the XDG config home
func (c *Config) ResolveSettingsPath() (string, error) {
	c.mu.RLock()
	path := c.SettingsPath
	c.mu.RUnlock()

	if path != "" {
		return filepath.Abs(path)
	}
	return xdg.ConfigFile(filepath.Join(AppName, "settings.json"))
}

// HidesOnBlur reports the focus-loss policy
func (c *Config) HidesOnBlur() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.HideOnBlur
}

// LogsRequests reports whether requests go to the daily request log
func (c *Config) LogsRequests() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.LogRequests
}

// LogsEvents reports whether events go to the daily event log
func (c *Config) LogsEvents() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.LogEvents
}

// ResourceDirectory returns where tray icon assets are looked up
func (c *Config) ResourceDirectory() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ResourceDir
}

// OnUpdate registers fn to run after every accepted Update
func (c *Config) OnUpdate(fn func(*Config)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Update applies runtime-safe values. The whole batch is checked first: an
// unknown key or a value of the wrong type rejects it and nothing changes.
func (c *Config) Update(updates map[string]interface{}) error {
	if err := checkUpdates(updates); err != nil {
		return err
	}

	c.mu.Lock()
	for key, value := range updates {
		switch key {
		case "hide_on_blur":
			c.HideOnBlur = value.(bool)
		case "log_requests":
			c.LogRequests = value.(bool)
		case "log_events":
			c.LogEvents = value.(bool)
		case "resource_dir":
			c.ResourceDir = value.(string)
		}
	}
	listeners := append(([]func(*Config))(nil), c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(c)
	}
	return nil
}

// ToMap returns all config as a map
func (c *Config) ToMap() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"bind":               c.Bind,
		"port":               c.Port,
		"settings_path":      c.SettingsPath,
		"watch_settings":     c.WatchSettings,
		"resource_dir":       c.ResourceDir,
		"hide_on_blur":       c.HideOnBlur,
		"log_dir":            c.LogDir,
		"log_retention_days": c.LogRetentionDays,
		"log_level":          c.LogLevel,
		"log_requests":       c.LogRequests,
		"log_events":         c.LogEvents,
		"log_metrics":        c.LogMetrics,
	}
}
