// SPDX-License-Identifier: MIT
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var v *viper.Viper

// InitConfig initializes the configuration system
func InitConfig(configPath string) error {
	v = viper.New()

	setDefaults()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// First run writes the defaults so `themer config list` has a file to show
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			if err := v.WriteConfigAs(configPath); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
		} else {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	return nil
}

// InitDefaults sets up an in-memory configuration with defaults only.
// Nothing is read from or written to disk.
func InitDefaults() {
	v = viper.New()
	setDefaults()
}

// DefaultPath returns ~/.themer/config.yaml, or $THEMER_CONFIG when set
func DefaultPath() string {
	if p := os.Getenv("THEMER_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".themer", "config.yaml")
	}
	return filepath.Join(home, ".themer", "config.yaml")
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	v.SetDefault("server.http_port", "8080")
	v.SetDefault("server.https_port", "443")
	v.SetDefault("server.tls_enabled", false)
	v.SetDefault("server.base_domain", "localhost")
	v.SetDefault("server.public_url", "")
	v.SetDefault("server.blocked_cidrs", []string{})
	v.SetDefault("server.allowed_cidrs", []string{})

	// Database defaults; only encoded share strings are stored
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "file:themer?mode=memory&cache=shared")

	// Session defaults
	v.SetDefault("sessions.ttl", "24h")
	v.SetDefault("sessions.sweep_interval", "5m")
	v.SetDefault("sessions.secret", "CHANGE_ME_IN_PRODUCTION_USE_ENV_VAR")

	// Theme defaults
	v.SetDefault("themes.default_base", "light")
	v.SetDefault("themes.catalog_path", "")

	// Share defaults
	v.SetDefault("share.message_duration", "2s")
	v.SetDefault("share.rate_limit", 30) // per minute per client

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// TLS defaults
	v.SetDefault("tls.email", "")
	v.SetDefault("tls.cert_dir", "/var/lib/themer/certs")
	v.SetDefault("tls.staging", false)
	v.SetDefault("tls.domains", []string{}) // extra names besides server.base_domain
}

// GetString returns a config value as string
func GetString(key string) string {
	if v == nil {
		return ""
	}
	return v.GetString(key)
}

// GetInt returns a config value as int
func GetInt(key string) int {
	if v == nil {
		return 0
	}
	return v.GetInt(key)
}

// GetStringSlice returns a config value as a list of strings
func GetStringSlice(key string) []string {
	if v == nil {
		return nil
	}
	return v.GetStringSlice(key)
}

// GetBool returns a config value as bool
func GetBool(key string) bool {
	if v == nil {
		return false
	}
	return v.GetBool(key)
}

// GetDuration returns a config value as time.Duration
func GetDuration(key string) time.Duration {
	if v == nil {
		return 0
	}
	return v.GetDuration(key)
}

// IsSet reports whether key has a value in the file or a default
func IsSet(key string) bool {
	if v == nil {
		return false
	}
	return v.IsSet(key)
}

// Set sets a config value and saves to file
func Set(key string, value interface{}) error {
	if v == nil {
		return fmt.Errorf("config not initialized")
	}

	v.Set(key, value)

	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// GetAll returns all config values as a map
func GetAll() map[string]interface{} {
	if v == nil {
		return nil
	}
	return v.AllSettings()
}
