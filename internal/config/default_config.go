package config

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// DefaultConfigTOML returns the default configuration encoded as TOML
func DefaultConfigTOML() (string, error) {
	body, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ParseConfigTOML decodes a TOML document on top of the defaults and validates it
func ParseConfigTOML(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
