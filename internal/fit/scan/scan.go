// Package scan holds the line-level passes over image-tree source: the
// structural gate that guards the parser and the naming-convention
// fallback used when structured extraction yields nothing.
package scan

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/fitlint/fitlint/internal/fit/ast"
)

// StructuralError is a fatal gate failure. The gate does not aggregate;
// the first violation aborts the run.
type StructuralError struct {
	Message string
	Line    int
}

// Error implements the error interface
func (e StructuralError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// CheckImageTree scans image-tree source line by line and returns the
// first structural violation, or nil if the file passes the gate.
//
// The gate tracks a single "inside configuration node" flag. A
// configuration marker line must open its brace on the same line, and
// compatible or fdt assignments inside a configuration must terminate
// with a semicolon. A bare closing-brace-semicolon line ends the inside
// state.
func CheckImageTree(source []byte) error {
	inside := false
	lineNo := 0

	scanner := bufio.NewScanner(bytes.NewReader(source))
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "};" {
			inside = false
			continue
		}

		if isConfigMarker(line) {
			if !strings.Contains(line, "{") {
				return StructuralError{
					Message: "configuration node missing opening brace",
					Line:    lineNo,
				}
			}
			inside = true
			continue
		}

		if inside && isTrackedAssignment(line) {
			if !strings.HasSuffix(line, ";") {
				return StructuralError{
					Message: "property assignment missing trailing semicolon",
					Line:    lineNo,
				}
			}
		}
	}

	return nil
}

// isConfigMarker reports whether a trimmed line introduces a
// configuration node. Assignment lines mentioning configuration names
// in their values do not count.
func isConfigMarker(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	return strings.HasPrefix(fields[0], "conf") && !strings.Contains(line, "=")
}

// isTrackedAssignment reports whether a trimmed line assigns one of the
// properties the validator depends on.
func isTrackedAssignment(line string) bool {
	if !strings.Contains(line, "=") {
		return false
	}
	return strings.HasPrefix(line, "compatible") || strings.HasPrefix(line, "fdt")
}

// FallbackImages extracts image nodes by naming convention alone. It is
// the degraded path for files whose layout defeats the parser: any line
// that starts with the fdt- image prefix and opens a brace is taken as
// an image node. The primary extraction is the source of truth; callers
// only use this when that yields nothing.
func FallbackImages(source []byte) []ast.Image {
	var images []ast.Image
	lineNo := 0

	scanner := bufio.NewScanner(bytes.NewReader(source))
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if !strings.HasPrefix(line, "fdt-") {
			continue
		}
		brace := strings.Index(line, "{")
		if brace < 0 {
			continue
		}

		fields := strings.Fields(line[:brace])
		if len(fields) == 0 {
			continue
		}
		name := strings.TrimSuffix(fields[len(fields)-1], ":")
		if name == "" {
			continue
		}
		images = append(images, ast.Image{Name: name, Line: lineNo})
	}

	return images
}
