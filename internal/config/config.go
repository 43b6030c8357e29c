// Package config handles configuration loading for hiveflow. It supports
// XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for hiveflow.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Store     StoreConfig     `mapstructure:"store"`
	Defaults  DefaultsConfig  `mapstructure:"defaults"`
	Roles     RolesConfig     `mapstructure:"roles"`
	Signals   SignalsConfig   `mapstructure:"signals"`
}

// AnthropicConfig holds LLM backend settings.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key; ${VAR} references are expanded.
	APIKey string `mapstructure:"api_key"`
	// Model is the model name to run workers on.
	Model string `mapstructure:"model"`
	// UseAWSBedrock routes requests through AWS Bedrock.
	UseAWSBedrock bool `mapstructure:"use_aws_bedrock"`
	// AWSRegion is the AWS region for Bedrock.
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional AWS profile name.
	AWSProfile string `mapstructure:"aws_profile"`
}

// StoreConfig selects and configures the coordination store backend.
type StoreConfig struct {
	// Backend is one of "memory", "sqlite", "redis".
	Backend string `mapstructure:"backend"`
	// SQLitePath is the database file for the sqlite backend. Empty
	// means the default XDG data path.
	SQLitePath string `mapstructure:"sqlite_path"`
	// RedisURL is the connection URL for the redis backend.
	RedisURL string `mapstructure:"redis_url"`
}

// DefaultsConfig holds default orchestration parameters.
type DefaultsConfig struct {
	// MaxTurns is the per-worker turn budget.
	MaxTurns int `mapstructure:"max_turns"`
	// EventBuffer is the lifecycle event channel buffer size.
	EventBuffer int `mapstructure:"event_buffer"`
}

// RolesConfig holds role catalog settings.
type RolesConfig struct {
	// OverridesFile is an optional YAML file adding or replacing role
	// profiles.
	OverridesFile string `mapstructure:"overrides_file"`
}

// SignalsConfig holds the worker interrupt signal settings.
type SignalsConfig struct {
	// Dir is the directory watched for <workerID>.stop files. Empty
	// disables the watcher.
	Dir string `mapstructure:"dir"`
}

// Load loads configuration with the following precedence, highest first:
// environment variables (HIVEFLOW_* and ANTHROPIC_API_KEY), project config
// (.hiveflow.yaml in the working directory or a parent), user config
// (~/.config/hiveflow/config.yaml), then built-in defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("HIVEFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	v.BindEnv("store.redis_url", "HIVEFLOW_REDIS_URL")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Anthropic.APIKey = expandEnv(cfg.Anthropic.APIKey)
	return cfg, nil
}

// UserConfigPath returns the path to the user config file.
func UserConfigPath() string {
	return filepath.Join(userConfigDir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.model", "")
	v.SetDefault("store.backend", "sqlite")
	v.SetDefault("store.sqlite_path", "")
	v.SetDefault("store.redis_url", "redis://localhost:6379/0")
	v.SetDefault("defaults.max_turns", 15)
	v.SetDefault("defaults.event_buffer", 100)
	v.SetDefault("roles.overrides_file", "")
	v.SetDefault("signals.dir", "")
}

// userConfigDir returns the XDG config directory for hiveflow.
func userConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hiveflow")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "hiveflow")
}

// findProjectConfig walks from the working directory upward looking for a
// .hiveflow.yaml file.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		candidate := filepath.Join(dir, ".hiveflow.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnv expands ${VAR} references in a config value.
func expandEnv(value string) string {
	if strings.Contains(value, "${") {
		return os.ExpandEnv(value)
	}
	return value
}
