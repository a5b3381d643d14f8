package commands

import (
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/fitlint/fitlint/internal/dtc"
)

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "fitlint" {
		t.Errorf("expected Use to be 'fitlint', got %s", cmd.Use)
	}

	if cmd.Short == "" {
		t.Error("expected Short description to be set")
	}

	if cmd.Long == "" {
		t.Error("expected Long description to be set")
	}

	// Check subcommands are registered
	expectedCommands := []string{
		"version",
		"validate",
		"inspect",
		"init",
		"watch",
		"completion",
	}

	for _, expected := range expectedCommands {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected command %s to be registered", expected)
		}
	}
}

func TestNewVersionCommand(t *testing.T) {
	// Set test version info
	Version = "1.0.0-test"
	GitCommit = "abc123"
	BuildDate = "2026-01-01"
	GoVersion = "go1.23"

	cmd := NewVersionCommand()

	if cmd.Use != "version" {
		t.Errorf("expected Use to be 'version', got %s", cmd.Use)
	}

	if cmd.Run == nil {
		t.Fatal("version command Run function is nil")
	}

	// Call the Run function directly
	cmd.Run(cmd, []string{})
}

func TestExecuteCommand_CleanRunExitsZero(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	chtemp(t)
	withStubChecker(t, &stubChecker{verdict: dtc.Verdict{OK: true}})

	writeInput(t, "qcom-fitimage.its", cleanImageTree)
	writeInput(t, "qcom-metadata.dts", cleanMetadata)

	var out strings.Builder
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"validate"})

	if code := executeCommand(cmd); code != ExitOK {
		t.Errorf("expected exit code %d, got %d", ExitOK, code)
	}
}

func TestExecuteCommand_FindingsExitTwo(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	chtemp(t)
	withStubChecker(t, &stubChecker{verdict: dtc.Verdict{OK: true}})

	writeInput(t, "qcom-fitimage.its", cleanImageTree)
	writeInput(t, "qcom-metadata.dts", "/ {\n\tboard-b {\n\t};\n};\n")

	var out strings.Builder
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"validate"})

	if code := executeCommand(cmd); code != ExitFindings {
		t.Errorf("expected exit code %d, got %d", ExitFindings, code)
	}

	// The findings error itself is not printed again after the report.
	if strings.Contains(out.String(), "Error:") {
		t.Errorf("expected no Error line for findings, got: %q", out.String())
	}
}

func TestExecuteCommand_FatalSyntaxExitOne(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	chtemp(t)
	withStubChecker(t, &stubChecker{verdict: dtc.Verdict{OK: false, Diagnostic: "Error: bad tree"}})

	writeInput(t, "qcom-fitimage.its", cleanImageTree)
	writeInput(t, "qcom-metadata.dts", "/ { broken")

	var out strings.Builder
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"validate"})

	if code := executeCommand(cmd); code != ExitFatal {
		t.Errorf("expected exit code %d, got %d", ExitFatal, code)
	}

	if !strings.Contains(out.String(), "[SYNTAX]") {
		t.Errorf("expected SYNTAX finding, got: %q", out.String())
	}
}

func TestExecuteCommand_MissingInputExitOne(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()
	chtemp(t)
	withStubChecker(t, &stubChecker{verdict: dtc.Verdict{OK: true}})

	var out strings.Builder
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"validate"})

	if code := executeCommand(cmd); code != ExitFatal {
		t.Errorf("expected exit code %d, got %d", ExitFatal, code)
	}

	if !strings.Contains(out.String(), "Error:") {
		t.Errorf("expected Error line for missing input, got: %q", out.String())
	}
	if !strings.Contains(out.String(), "failed to read image tree") {
		t.Errorf("expected read failure detail, got: %q", out.String())
	}
}
