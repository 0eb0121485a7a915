package main

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DBPath              string   `toml:"db_path"`
	SyncIntervalSeconds int      `toml:"sync_interval_seconds"`
	AssistantURL        string   `toml:"assistant_url"`
	AssistantModel      string   `toml:"assistant_model"`
	DefaultTags         []string `toml:"default_tags"`
}

func DefaultConfig() Config {
	return Config{
		DBPath:              defaultDBPath(),
		SyncIntervalSeconds: 300,
		AssistantURL:        "http://localhost:11434",
		AssistantModel:      "gemma3",
		DefaultTags:         []string{"harbor"},
	}
}

func LoadConfig() (Config, error) {
	path := configPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			if err := SaveConfig(cfg); err != nil {
				return Config{}, err
			}
			return cfg, nil
		}
		return Config{}, err
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if cfg.SyncIntervalSeconds <= 0 {
		cfg.SyncIntervalSeconds = DefaultConfig().SyncIntervalSeconds
	}
	return cfg, nil
}

func SaveConfig(cfg Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}

func configPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(configDir, "harbor", "config.toml")
}

func defaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "harbor.db"
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "harbor", "harbor.db")
}
