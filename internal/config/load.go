package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file and applies environment overrides
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to defaults when path does not exist
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := &Config{}
		cfg.ApplyEnv()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("validate config: %w", err)
		}
		return cfg, nil
	}
	return Load(path)
}

// ApplyEnv overrides paths and secrets from the environment
func (c *Config) ApplyEnv() {
	if v := os.Getenv("VIDEOS_DIR"); v != "" {
		c.Paths.Videos = v
	}
	if v := os.Getenv("CONTEXT_DIR"); v != "" {
		c.Paths.Context = v
	}
	if v := strings.TrimSpace(os.Getenv("WHISPER_MODEL_SIZE")); v != "" {
		c.Whisper.ModelSize = strings.ToLower(v)
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && len(c.Gemini.APIKeys) == 0 {
		c.Gemini.APIKeys = []string{v}
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" && c.Subscribers.Telegram.Token == "" {
		c.Subscribers.Telegram.Token = v
	}
}
