package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadConfigCreatesDefaults(t *testing.T) {
	dir := isolateConfig(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.SyncIntervalSeconds != 300 {
		t.Fatalf("expected default interval 300, got %d", cfg.SyncIntervalSeconds)
	}
	if cfg.AssistantModel != "gemma3" {
		t.Fatalf("expected default model, got %q", cfg.AssistantModel)
	}
	if !strings.Contains(cfg.DBPath, "harbor") {
		t.Fatalf("unexpected db path %q", cfg.DBPath)
	}

	// First load writes the file so the user has something to edit.
	written := filepath.Join(dir, "config", "harbor", "config.toml")
	if _, err := os.Stat(written); err != nil {
		t.Fatalf("expected config file at %s: %v", written, err)
	}
}

func TestLoadConfigRoundTrip(t *testing.T) {
	isolateConfig(t)

	cfg := DefaultConfig()
	cfg.SyncIntervalSeconds = 60
	cfg.AssistantURL = "http://localhost:9999"
	cfg.DefaultTags = []string{"a", "b"}
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig error: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if loaded.SyncIntervalSeconds != 60 {
		t.Fatalf("expected saved interval, got %d", loaded.SyncIntervalSeconds)
	}
	if loaded.AssistantURL != "http://localhost:9999" {
		t.Fatalf("expected saved url, got %q", loaded.AssistantURL)
	}
	if len(loaded.DefaultTags) != 2 {
		t.Fatalf("expected saved tags, got %v", loaded.DefaultTags)
	}
}

func TestLoadConfigRejectsBadInterval(t *testing.T) {
	isolateConfig(t)

	cfg := DefaultConfig()
	cfg.SyncIntervalSeconds = -5
	if err := SaveConfig(cfg); err != nil {
		t.Fatalf("SaveConfig error: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if loaded.SyncIntervalSeconds != 300 {
		t.Fatalf("expected interval reset to default, got %d", loaded.SyncIntervalSeconds)
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "config", "harbor", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("sync_interval_seconds = 120\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	loaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if loaded.SyncIntervalSeconds != 120 {
		t.Fatalf("expected overridden interval, got %d", loaded.SyncIntervalSeconds)
	}
	// Fields missing from the file keep their defaults.
	if loaded.AssistantURL != "http://localhost:11434" {
		t.Fatalf("expected default assistant url, got %q", loaded.AssistantURL)
	}
}
