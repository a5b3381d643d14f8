package commands

import (
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/fitlint/fitlint/internal/cli/config"
)

func TestNewInitCommand(t *testing.T) {
	cmd := NewInitCommand()

	if cmd.Use != "init" {
		t.Errorf("expected Use to be 'init', got %s", cmd.Use)
	}

	for _, flag := range []string{"image-tree", "metadata", "dtc", "force"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag to be registered", flag)
		}
	}
}

func TestRunInit_WithFlags(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	chtemp(t)

	var out strings.Builder
	cmd := NewInitCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	for name, value := range map[string]string{
		"image-tree": "boards/fitimage.its",
		"metadata":   "boards/metadata.dts",
		"dtc":        "/opt/dtc/bin/dtc",
	} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("failed to set %s flag: %v", name, err)
		}
	}

	if err := runInit(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), "✓ Created fitlint.yml") {
		t.Errorf("expected creation marker, got: %q", out.String())
	}

	// The generated file must load back through the config layer.
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load generated config: %v", err)
	}
	if cfg.ImageTree != "boards/fitimage.its" {
		t.Errorf("expected image_tree boards/fitimage.its, got %s", cfg.ImageTree)
	}
	if cfg.Metadata != "boards/metadata.dts" {
		t.Errorf("expected metadata boards/metadata.dts, got %s", cfg.Metadata)
	}
	if cfg.Dtc.Binary != "/opt/dtc/bin/dtc" {
		t.Errorf("expected dtc binary /opt/dtc/bin/dtc, got %s", cfg.Dtc.Binary)
	}
}

func TestRunInit_ExistingFileWithoutForce(t *testing.T) {
	chtemp(t)

	if err := os.WriteFile("fitlint.yml", []byte("image_tree: keep.its\n"), 0644); err != nil {
		t.Fatalf("failed to write existing config: %v", err)
	}

	cmd := NewInitCommand()
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})

	err := runInit(cmd, []string{})
	if err == nil {
		t.Fatal("expected error for existing config, got nil")
	}
	if !strings.Contains(err.Error(), "already exists") {
		t.Errorf("expected already exists error, got: %v", err)
	}

	// The existing file is untouched.
	content, err := os.ReadFile("fitlint.yml")
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if !strings.Contains(string(content), "keep.its") {
		t.Errorf("expected existing config to be preserved, got: %q", string(content))
	}
}

func TestRunInit_ForceOverwrites(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	chtemp(t)

	if err := os.WriteFile("fitlint.yml", []byte("image_tree: old.its\n"), 0644); err != nil {
		t.Fatalf("failed to write existing config: %v", err)
	}

	cmd := NewInitCommand()
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})
	for name, value := range map[string]string{
		"image-tree": "new.its",
		"metadata":   "new.dts",
		"dtc":        "dtc",
		"force":      "true",
	} {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("failed to set %s flag: %v", name, err)
		}
	}

	if err := runInit(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	content, err := os.ReadFile("fitlint.yml")
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if !strings.Contains(string(content), "image_tree: new.its") {
		t.Errorf("expected overwritten config, got: %q", string(content))
	}
	if strings.Contains(string(content), "old.its") {
		t.Errorf("expected old config to be replaced, got: %q", string(content))
	}
}
