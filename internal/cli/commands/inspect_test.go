package commands

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestNewInspectCommand(t *testing.T) {
	cmd := NewInspectCommand()

	if cmd.Use != "inspect" {
		t.Errorf("expected Use to be 'inspect', got %s", cmd.Use)
	}

	// Check subcommands are registered
	for _, expected := range []string{"images", "configs", "metadata"} {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %s to be registered", expected)
		}
	}

	// Check persistent flags
	for _, flag := range []string{"image-tree", "metadata", "format"} {
		if cmd.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("expected --%s flag to be registered", flag)
		}
	}
}

func TestRunInspectSummary(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	chtemp(t)

	writeInput(t, "qcom-fitimage.its", cleanImageTree)
	writeInput(t, "qcom-metadata.dts", cleanMetadata)

	var out strings.Builder
	cmd := NewInspectCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := runInspectSummary(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, expected := range []string{
		"Image tree:",
		"qcom-fitimage.its",
		"Images:",
		"Configurations:",
		"Metadata nodes:",
	} {
		if !strings.Contains(out.String(), expected) {
			t.Errorf("expected summary to contain %q, got: %q", expected, out.String())
		}
	}
}

func TestRunInspectSummaryJSON(t *testing.T) {
	chtemp(t)

	writeInput(t, "qcom-fitimage.its", cleanImageTree)
	writeInput(t, "qcom-metadata.dts", cleanMetadata)

	var out strings.Builder
	cmd := NewInspectCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if err := cmd.PersistentFlags().Set("format", "json"); err != nil {
		t.Fatalf("failed to set format flag: %v", err)
	}

	if err := runInspectSummary(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var summary struct {
		ImageTree      string `json:"image_tree"`
		Metadata       string `json:"metadata"`
		Images         int    `json:"images"`
		Configurations int    `json:"configurations"`
		MetadataNodes  int    `json:"metadata_nodes"`
	}
	if err := json.Unmarshal([]byte(out.String()), &summary); err != nil {
		t.Fatalf("failed to decode JSON: %v\noutput: %q", err, out.String())
	}

	if summary.Images != 1 {
		t.Errorf("expected 1 image, got %d", summary.Images)
	}
	if summary.Configurations != 1 {
		t.Errorf("expected 1 configuration, got %d", summary.Configurations)
	}
	// The root node counts alongside board-a.
	if summary.MetadataNodes != 2 {
		t.Errorf("expected 2 metadata nodes, got %d", summary.MetadataNodes)
	}
}

func TestRunInspectImages(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	chtemp(t)

	writeInput(t, "qcom-fitimage.its", cleanImageTree)
	writeInput(t, "qcom-metadata.dts", cleanMetadata)

	var out strings.Builder
	cmd := NewInspectCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := runInspectImages(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), "fdt-board-a") {
		t.Errorf("expected image name in output, got: %q", out.String())
	}
	if !strings.Contains(out.String(), "1 image node(s)") {
		t.Errorf("expected image count in output, got: %q", out.String())
	}
}

func TestRunInspectImagesJSON(t *testing.T) {
	chtemp(t)

	writeInput(t, "qcom-fitimage.its", cleanImageTree)
	writeInput(t, "qcom-metadata.dts", cleanMetadata)

	var out strings.Builder
	cmd := NewInspectCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if err := cmd.PersistentFlags().Set("format", "json"); err != nil {
		t.Fatalf("failed to set format flag: %v", err)
	}

	if err := runInspectImages(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var output struct {
		TotalCount int `json:"total_count"`
		Images     []struct {
			Name string `json:"name"`
			Line int    `json:"line"`
		} `json:"images"`
	}
	if err := json.Unmarshal([]byte(out.String()), &output); err != nil {
		t.Fatalf("failed to decode JSON: %v\noutput: %q", err, out.String())
	}

	if output.TotalCount != 1 {
		t.Fatalf("expected 1 image, got %d", output.TotalCount)
	}
	if output.Images[0].Name != "fdt-board-a" {
		t.Errorf("expected image fdt-board-a, got %s", output.Images[0].Name)
	}
	if output.Images[0].Line != 5 {
		t.Errorf("expected image at line 5, got %d", output.Images[0].Line)
	}
}

func TestRunInspectConfigs(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	chtemp(t)

	writeInput(t, "qcom-fitimage.its", cleanImageTree)
	writeInput(t, "qcom-metadata.dts", cleanMetadata)

	var out strings.Builder
	cmd := NewInspectCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := runInspectConfigs(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, expected := range []string{
		"conf-board-a",
		"qcom,board-a",
		"fdt-board-a",
		"1 configuration record(s)",
	} {
		if !strings.Contains(out.String(), expected) {
			t.Errorf("expected output to contain %q, got: %q", expected, out.String())
		}
	}
}

func TestRunInspectMetadata(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	chtemp(t)

	writeInput(t, "qcom-fitimage.its", cleanImageTree)
	writeInput(t, "qcom-metadata.dts", cleanMetadata)

	var out strings.Builder
	cmd := NewInspectCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	if err := runInspectMetadata(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), "• board-a") {
		t.Errorf("expected bulleted node name, got: %q", out.String())
	}
	if !strings.Contains(out.String(), "2 metadata node(s)") {
		t.Errorf("expected node count, got: %q", out.String())
	}
}

func TestRunInspect_FlagOverridesInputPath(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	chtemp(t)

	writeInput(t, "custom.its", cleanImageTree)
	writeInput(t, "custom.dts", cleanMetadata)

	var out strings.Builder
	cmd := NewInspectCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if err := cmd.PersistentFlags().Set("image-tree", "custom.its"); err != nil {
		t.Fatalf("failed to set image-tree flag: %v", err)
	}
	if err := cmd.PersistentFlags().Set("metadata", "custom.dts"); err != nil {
		t.Fatalf("failed to set metadata flag: %v", err)
	}

	if err := runInspectSummary(cmd, []string{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), "custom.its") {
		t.Errorf("expected overridden path in summary, got: %q", out.String())
	}
}

func TestRunInspect_UnsupportedFormat(t *testing.T) {
	chtemp(t)

	writeInput(t, "qcom-fitimage.its", cleanImageTree)
	writeInput(t, "qcom-metadata.dts", cleanMetadata)

	cmd := NewInspectCommand()
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})
	if err := cmd.PersistentFlags().Set("format", "xml"); err != nil {
		t.Fatalf("failed to set format flag: %v", err)
	}

	err := runInspectSummary(cmd, []string{})
	if err == nil {
		t.Fatal("expected error for unsupported format, got nil")
	}
	if !strings.Contains(err.Error(), "unsupported format") {
		t.Errorf("expected unsupported format error, got: %v", err)
	}
}

func TestRunInspect_MissingMetadataFile(t *testing.T) {
	chtemp(t)

	writeInput(t, "qcom-fitimage.its", cleanImageTree)

	cmd := NewInspectCommand()
	cmd.SetOut(&strings.Builder{})
	cmd.SetErr(&strings.Builder{})

	err := runInspectSummary(cmd, []string{})
	if err == nil {
		t.Fatal("expected error for missing metadata, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read metadata descriptor") {
		t.Errorf("expected read error, got: %v", err)
	}
}
