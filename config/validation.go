package config

import (
	"errors"
	"fmt"
	"net"
)

// runtimeKeys are the values Update may change while running
var runtimeKeys = map[string]string{
	"hide_on_blur": "bool",
	"log_requests": "bool",
	"log_events":   "bool",
	"resource_dir": "string",
}

func checkUpdates(updates map[string]interface{}) error {
	var errs []error
	for key, value := range updates {
		kind, ok := runtimeKeys[key]
		if !ok {
			errs = append(errs, fmt.Errorf("%s cannot be changed at runtime", key))
			continue
		}
		switch kind {
		case "bool":
			if _, ok := value.(bool); !ok {
				errs = append(errs, fmt.Errorf("%s must be a boolean", key))
			}
		case "string":
			if v, ok := value.(string); !ok || v == "" {
				errs = append(errs, fmt.Errorf("%s must be a non-empty string", key))
			}
		}
	}
	return errors.Join(errs...)
}

// Validate checks if the config values are valid
func (c *Config) Validate() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Port must be valid
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	// The command surface is local only
	ip := net.ParseIP(c.Bind)
	if c.Bind != "localhost" && (ip == nil || !ip.IsLoopback()) {
		return fmt.Errorf("bind must be a loopback address (got: %s)", c.Bind)
	}

	// log_retention_days must be at least 1
	if c.LogRetentionDays < 1 {
		return errors.New("log_retention_days must be at least 1")
	}

	if c.LogDir == "" {
		return errors.New("log_dir must not be empty")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("log_level must be one of: debug, info, warn, error (got: %s)", c.LogLevel)
	}

	return nil
}
