package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	Port             string   `yaml:"port"`
	Env              string   `yaml:"env"`
	CORSAllowOrigins []string `yaml:"cors_allow_origins"`
	FontPath         string   `yaml:"font_path"`
	Log              struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Diffusion struct {
		Enabled        *bool  `yaml:"enabled"`
		Endpoint       string `yaml:"endpoint"`
		Model          string `yaml:"model"`
		APIToken       string `yaml:"api_token"`
		Device         string `yaml:"device"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
		MaxConcurrency int    `yaml:"max_concurrency"`
	} `yaml:"diffusion"`
}

func loadFile(path string) (fileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileConfig{}, fmt.Errorf("read config: %w", err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return fileConfig{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
