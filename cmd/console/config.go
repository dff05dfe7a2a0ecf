package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const apiKeyEnv = "REALTIME_API_KEY"

type config struct {
	Model        string `yaml:"model"`
	URL          string `yaml:"url"`
	Voice        string `yaml:"voice"`
	Instructions string `yaml:"instructions"`
}

func loadConfig(path string) (config, error) {
	cfg := config{
		Voice:        "verse",
		Instructions: "You are a friendly voice assistant. Keep answers short.",
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func apiKey() string {
	if key := os.Getenv(apiKeyEnv); key != "" {
		return key
	}
	return os.Getenv("OPENAI_API_KEY")
}
