package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/smellscan/internal/config"
)

func runInitCmd(t *testing.T, args ...string) error {
	t.Helper()
	cmd := initCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestInitCommand_BasicConfigCreation(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".smellscan.toml")

	if err := runInitCmd(t, "--config", configPath); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read config file: %v", err)
	}

	contentStr := string(content)
	expectedSections := []string{
		"[rules]",
		"[scoring]",
		"[budget]",
		"[lint]",
		"[output]",
		"[analysis]",
		"max_function_lines",
		"timeout_ms",
	}
	for _, section := range expectedSections {
		if !strings.Contains(contentStr, section) {
			t.Errorf("Config file missing expected section: %s", section)
		}
	}
}

func TestInitCommand_GeneratedConfigLoads(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".smellscan.toml")

	if err := runInitCmd(t, "--config", configPath, "--strictness", "strict"); err != nil {
		t.Fatalf("init command failed: %v", err)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Generated config does not load: %v", err)
	}
	want := config.GetStrictnessPresets()[config.StrictnessStrict]
	if cfg.Rules.MaxFunctionLines != want.MaxFunctionLines || cfg.Rules.MaxParameters != want.MaxParameters {
		t.Errorf("Expected strict thresholds, got %+v", cfg.Rules)
	}
}

func TestInitCommand_ForceOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".smellscan.toml")
	if err := os.WriteFile(configPath, []byte("# existing\n"), 0644); err != nil {
		t.Fatalf("Failed to create existing file: %v", err)
	}

	if err := runInitCmd(t, "--config", configPath); err == nil {
		t.Error("Expected error when file exists without --force")
	}

	content, _ := os.ReadFile(configPath)
	if string(content) != "# existing\n" {
		t.Error("File should not be overwritten without --force")
	}

	if err := runInitCmd(t, "--config", configPath, "--force"); err != nil {
		t.Fatalf("init command with --force failed: %v", err)
	}
	content, _ = os.ReadFile(configPath)
	if !strings.Contains(string(content), "[rules]") {
		t.Error("File should be overwritten with --force")
	}
}

func TestInitCommand_UnknownStrictness(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".smellscan.toml")

	if err := runInitCmd(t, "--config", configPath, "--strictness", "paranoid"); err == nil {
		t.Error("Expected error for an unknown strictness")
	}
	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Error("No file should be written for an unknown strictness")
	}
}

func TestInitCommand_MissingDirectory(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "missing", ".smellscan.toml")

	err := runInitCmd(t, "--config", configPath)
	if err == nil || !strings.Contains(err.Error(), "directory does not exist") {
		t.Errorf("Expected missing directory error, got %v", err)
	}
}

func TestInitCmd_Flags(t *testing.T) {
	cmd := initCmd()

	for _, name := range []string{"config", "force", "strictness", "interactive"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("Missing expected flag: --%s", name)
		}
	}
	if cmd.Flags().ShorthandLookup("i") == nil {
		t.Error("Missing short flag -i for --interactive")
	}
}
