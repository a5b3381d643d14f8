package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(&buf, SpinnerOptions{
		Message:  "Checking metadata syntax",
		NoColor:  true,
		Interval: 50 * time.Millisecond,
	})

	// Start the spinner
	spinner.Start()

	// Let it animate for a bit
	time.Sleep(150 * time.Millisecond)

	// Stop the spinner
	spinner.Stop()

	// Verify the spinner was active
	if !strings.Contains(buf.String(), "Checking metadata syntax") {
		t.Errorf("Expected spinner to show its message, got: %s", buf.String())
	}

	// Verify clearing sequence was written
	if !strings.Contains(buf.String(), "\r\033[K") {
		t.Error("Expected spinner to clear the line on stop")
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(&buf, SpinnerOptions{
		Message: "Checking metadata syntax",
		NoColor: true,
	})

	// Stop before Start must not block or write anything.
	spinner.Stop()

	if buf.Len() != 0 {
		t.Errorf("Expected no output from a never-started spinner, got: %q", buf.String())
	}
}

// TestSpinnerNoColor verifies NoColor flag disables colors
func TestSpinnerNoColor(t *testing.T) {
	var buf bytes.Buffer
	spinner := NewSpinner(&buf, SpinnerOptions{
		Message:  "Checking metadata syntax",
		NoColor:  true,
		Interval: 50 * time.Millisecond,
	})

	spinner.Start()
	time.Sleep(100 * time.Millisecond)
	spinner.Stop()

	output := buf.String()

	// With NoColor=true, there should be no ANSI color codes (except clear sequence)
	lines := strings.Split(output, "\n")
	for _, line := range lines {
		if line == "\r\033[K" || line == "" {
			continue
		}
		if strings.Contains(line, "\x1b[3") && !strings.Contains(line, "\x1b[K") {
			t.Errorf("Expected no color codes with NoColor=true, but found them in: %q", line)
		}
	}
}
