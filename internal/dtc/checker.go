// Package dtc wraps the external device-tree compiler used as the
// syntax oracle for metadata descriptors. The validator only needs the
// oracle's pass/fail verdict and its diagnostic text, so the dependency
// is kept behind a narrow interface that tests can stub.
package dtc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// DefaultBinary is the compiler looked up on PATH when no explicit
// binary is configured.
const DefaultBinary = "dtc"

// Verdict is the oracle's answer for one source file. OK means the
// source compiled; Diagnostic carries the compiler's stderr when it
// did not.
type Verdict struct {
	OK         bool
	Diagnostic string
}

// Checker validates device-tree source syntax.
type Checker interface {
	CheckSyntax(source []byte) (Verdict, error)
}

// ExecChecker runs the real compiler in a scratch directory. A failed
// compile is a negative Verdict, not an error; errors are reserved for
// not being able to run the compiler at all.
type ExecChecker struct {
	Binary string
}

// NewExecChecker returns a checker for the given compiler binary,
// falling back to DefaultBinary when empty.
func NewExecChecker(binary string) *ExecChecker {
	if binary == "" {
		binary = DefaultBinary
	}
	return &ExecChecker{Binary: binary}
}

// CheckSyntax writes the source to a scratch file, compiles it to a
// blob, and reports the verdict. The scratch directory is removed
// before returning.
func (c *ExecChecker) CheckSyntax(source []byte) (Verdict, error) {
	dir, err := os.MkdirTemp("", "fitlint-dtc-")
	if err != nil {
		return Verdict{}, fmt.Errorf("create scratch directory: %w", err)
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "metadata.dts")
	out := filepath.Join(dir, "metadata.dtb")
	if err := os.WriteFile(in, source, 0o644); err != nil {
		return Verdict{}, fmt.Errorf("write scratch file: %w", err)
	}

	cmd := exec.Command(c.Binary, "-I", "dts", "-O", "dtb", "-o", out, in)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Verdict{OK: false, Diagnostic: strings.TrimSpace(stderr.String())}, nil
		}
		return Verdict{}, fmt.Errorf("run %s: %w", c.Binary, err)
	}

	return Verdict{OK: true}, nil
}
