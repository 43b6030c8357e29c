package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromPathDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("{}\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}

	if cfg.Store.Backend != "sqlite" {
		t.Errorf("expected default store backend 'sqlite', got %q", cfg.Store.Backend)
	}
	if cfg.Store.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("expected default redis url, got %q", cfg.Store.RedisURL)
	}
	if cfg.Defaults.MaxTurns != 15 {
		t.Errorf("expected default max_turns 15, got %d", cfg.Defaults.MaxTurns)
	}
	if cfg.Defaults.EventBuffer != 100 {
		t.Errorf("expected default event_buffer 100, got %d", cfg.Defaults.EventBuffer)
	}
	if cfg.Signals.Dir != "" {
		t.Errorf("expected signals dir disabled by default, got %q", cfg.Signals.Dir)
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
anthropic:
  model: claude-sonnet-4-20250514
  use_aws_bedrock: true
  aws_region: us-west-2
store:
  backend: redis
  redis_url: redis://cache.internal:6379/2
defaults:
  max_turns: 25
roles:
  overrides_file: roles.yaml
signals:
  dir: /tmp/hiveflow-signals
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}

	if cfg.Anthropic.Model != "claude-sonnet-4-20250514" {
		t.Errorf("model = %q", cfg.Anthropic.Model)
	}
	if !cfg.Anthropic.UseAWSBedrock {
		t.Error("expected use_aws_bedrock true")
	}
	if cfg.Anthropic.AWSRegion != "us-west-2" {
		t.Errorf("aws_region = %q", cfg.Anthropic.AWSRegion)
	}
	if cfg.Store.Backend != "redis" {
		t.Errorf("store backend = %q", cfg.Store.Backend)
	}
	if cfg.Store.RedisURL != "redis://cache.internal:6379/2" {
		t.Errorf("redis url = %q", cfg.Store.RedisURL)
	}
	if cfg.Defaults.MaxTurns != 25 {
		t.Errorf("max_turns = %d", cfg.Defaults.MaxTurns)
	}
	// Unset keys keep their defaults.
	if cfg.Defaults.EventBuffer != 100 {
		t.Errorf("event_buffer = %d, want default 100", cfg.Defaults.EventBuffer)
	}
	if cfg.Roles.OverridesFile != "roles.yaml" {
		t.Errorf("overrides_file = %q", cfg.Roles.OverridesFile)
	}
	if cfg.Signals.Dir != "/tmp/hiveflow-signals" {
		t.Errorf("signals dir = %q", cfg.Signals.Dir)
	}
}

func TestLoadFromPathExpandsAPIKey(t *testing.T) {
	t.Setenv("HIVEFLOW_TEST_KEY", "sk-ant-test")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	content := "anthropic:\n  api_key: ${HIVEFLOW_TEST_KEY}\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromPath(configPath)
	if err != nil {
		t.Fatalf("LoadFromPath() error = %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-ant-test" {
		t.Errorf("api_key = %q, want expanded value", cfg.Anthropic.APIKey)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	if _, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadFromPath() error = nil for missing file, want error")
	}
}
