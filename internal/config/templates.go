package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/ludo-technologies/smellscan/internal/constants"
	"github.com/pelletier/go-toml/v2"
)

// Strictness represents the analysis strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// StrictnessPreset holds rule thresholds for a strictness level
type StrictnessPreset struct {
	MaxFunctionLines  int
	MaxParameters     int
	MaxFileLines      int
	MaxComponentLines int
	TimeoutMs         int
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			MaxFunctionLines:  40,
			MaxParameters:     6,
			MaxFileLines:      500,
			MaxComponentLines: 200,
			TimeoutMs:         30000,
		},
		StrictnessStandard: {
			MaxFunctionLines:  DefaultMaxFunctionLines,
			MaxParameters:     DefaultMaxParameters,
			MaxFileLines:      DefaultMaxFileLines,
			MaxComponentLines: DefaultMaxComponentLines,
			TimeoutMs:         DefaultTimeoutMs,
		},
		StrictnessStrict: {
			MaxFunctionLines:  15,
			MaxParameters:     3,
			MaxFileLines:      200,
			MaxComponentLines: 80,
			TimeoutMs:         DefaultTimeoutMs,
		},
	}
}

// ConfigForStrictness returns the default configuration adjusted to a strictness preset.
// Unknown levels fall back to standard.
func ConfigForStrictness(strictness Strictness) *Config {
	preset, ok := GetStrictnessPresets()[strictness]
	if !ok {
		preset = GetStrictnessPresets()[StrictnessStandard]
	}

	cfg := DefaultConfig()
	cfg.Rules.MaxFunctionLines = preset.MaxFunctionLines
	cfg.Rules.MaxParameters = preset.MaxParameters
	cfg.Rules.MaxFileLines = preset.MaxFileLines
	cfg.Rules.MaxComponentLines = preset.MaxComponentLines
	cfg.Budget.TimeoutMs = preset.TimeoutMs
	return cfg
}

// GetConfigTemplate renders a TOML config file for the strictness level
func GetConfigTemplate(strictness Strictness) (string, error) {
	cfg := ConfigForStrictness(strictness)

	body, err := toml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode config template: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s configuration (%s)\n", constants.ToolName, strictness)
	buf.WriteString("# Rule thresholds are exclusive: a finding fires when a value exceeds them.\n")
	fmt.Fprintf(&buf, "# Disable rules by name under [rules] disabled, e.g. [\"%s\"].\n\n", constants.RuleInlineStyles)
	buf.Write(body)
	return buf.String(), nil
}

// SaveConfig writes the configuration to path as TOML
func SaveConfig(cfg *Config, path string) error {
	body, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(path, body, 0644)
}
