package report

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Summary is the JSON document emitted when JSON output is selected.
type Summary struct {
	RunID    string    `json:"run_id"`
	Success  bool      `json:"success"`
	Fatal    bool      `json:"fatal"`
	Checked  int       `json:"configurations_checked"`
	Findings []Finding `json:"findings"`
}

// Reporter prints findings as they are produced and closes the run
// with either a success marker, an aggregate failure marker, or a
// fatal abort. In JSON mode nothing is printed until the run closes.
type Reporter struct {
	out      io.Writer
	jsonMode bool
	findings []Finding
	runID    uuid.UUID

	findingColor *color.Color
	fatalColor   *color.Color
	successColor *color.Color
	failColor    *color.Color
}

// NewReporter creates a reporter writing to out
func NewReporter(out io.Writer, jsonMode bool) *Reporter {
	return &Reporter{
		out:          out,
		jsonMode:     jsonMode,
		runID:        uuid.New(),
		findingColor: color.New(color.FgYellow),
		fatalColor:   color.New(color.FgRed, color.Bold),
		successColor: color.New(color.FgGreen, color.Bold),
		failColor:    color.New(color.FgRed, color.Bold),
	}
}

// RunID identifies this run in JSON output and debug logs
func (r *Reporter) RunID() string {
	return r.runID.String()
}

// Findings returns the findings emitted so far
func (r *Reporter) Findings() []Finding {
	return r.findings
}

// Emit records an aggregated finding. In line mode it is printed
// immediately.
func (r *Reporter) Emit(f Finding) {
	r.findings = append(r.findings, f)
	if r.jsonMode {
		return
	}
	r.findingColor.Fprintln(r.out, f.String())
}

// Fatal records a fatal finding, closes the report, and returns the
// error that maps to the fatal exit status. No further findings may be
// emitted after Fatal.
func (r *Reporter) Fatal(f Finding) error {
	r.findings = append(r.findings, f)
	if r.jsonMode {
		r.writeSummary(false, true, 0)
	} else {
		r.fatalColor.Fprintln(r.out, f.String())
	}
	return &FatalError{Finding: f}
}

// Finish closes the report after all configurations were checked. It
// returns nil on a clean run and a FindingsError otherwise.
func (r *Reporter) Finish(checked int) error {
	clean := len(r.findings) == 0

	if r.jsonMode {
		r.writeSummary(clean, false, checked)
	} else if clean {
		r.successColor.Fprintf(r.out, "✓ Image tree validation passed (%d configurations checked)\n", checked)
	} else {
		r.failColor.Fprintf(r.out, "✗ Image tree validation failed with %d finding(s)\n", len(r.findings))
	}

	if clean {
		return nil
	}
	return &FindingsError{Count: len(r.findings)}
}

func (r *Reporter) writeSummary(success, fatal bool, checked int) {
	findings := r.findings
	if findings == nil {
		findings = []Finding{}
	}

	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	encoder.Encode(Summary{
		RunID:    r.runID.String(),
		Success:  success,
		Fatal:    fatal,
		Checked:  checked,
		Findings: findings,
	})
}
