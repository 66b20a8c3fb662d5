package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"clementus360/intent-tracker/intent"
)

// LoadModelConfig builds the scoring policy: the compiled-in defaults,
// overlaid with the YAML file at MODEL_CONFIG_PATH when set. Categories the
// file does not mention keep their default weights. MODEL_VERSION overrides
// the version label last.
func LoadModelConfig() (intent.Config, error) {
	cfg := intent.DefaultConfig()

	if path := getEnv("MODEL_CONFIG_PATH", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return intent.Config{}, fmt.Errorf("failed to read model config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return intent.Config{}, fmt.Errorf("failed to parse model config %s: %w", path, err)
		}
		cfg.Source = path
	}

	if version := getEnv("MODEL_VERSION", ""); version != "" {
		cfg.Version = version
	}

	if err := cfg.Validate(); err != nil {
		return intent.Config{}, err
	}
	return cfg, nil
}
