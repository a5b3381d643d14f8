package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fitlint/fitlint/internal/cli/config"
	"github.com/fitlint/fitlint/internal/cli/ui"
	"github.com/fitlint/fitlint/internal/crossref"
	"github.com/fitlint/fitlint/internal/dtc"
	"github.com/fitlint/fitlint/internal/dts"
	"github.com/fitlint/fitlint/internal/fit/lexer"
	"github.com/fitlint/fitlint/internal/fit/parser"
	"github.com/fitlint/fitlint/internal/fit/scan"
	"github.com/fitlint/fitlint/internal/report"
)

var (
	validateImageTree string
	validateMetadata  string
	validateDtc       string
	validateJSON      bool
	validateDebug     bool
)

// newSyntaxChecker builds the metadata syntax oracle. Tests substitute
// this to avoid invoking a real compiler.
var newSyntaxChecker = func(binary string) dtc.Checker {
	return dtc.NewExecChecker(binary)
}

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [image-tree] [metadata]",
		Short: "Validate an image tree against the metadata descriptor",
		Long: `Cross-check a flattened image tree source against the platform
metadata descriptor.

The validation pipeline:
  1. Syntax oracle - compile the metadata descriptor
  2. Structural gate - line-check the image tree
  3. Extraction - collect image nodes and configuration records
  4. Cross-reference - resolve identities and fdt references
  5. Report - print findings and the run marker

Exit status is 0 for a clean run, 1 when a fatal setup or syntax
failure aborts the run, and 2 when validation completes with findings.`,
		Example: `  # Validate using the default input names
  fitlint validate

  # Validate explicit files
  fitlint validate boards/fitimage.its boards/metadata.dts

  # Emit the report as JSON (useful for tooling)
  fitlint validate --json

  # Use a specific device-tree compiler
  fitlint validate --dtc /opt/dtc/bin/dtc`,
		Args: cobra.MaximumNArgs(2),
		RunE: runValidate,
	}

	cmd.Flags().StringVar(&validateImageTree, "image-tree", "", "Image tree source path (default: qcom-fitimage.its)")
	cmd.Flags().StringVar(&validateMetadata, "metadata", "", "Metadata descriptor path (default: qcom-metadata.dts)")
	cmd.Flags().StringVar(&validateDtc, "dtc", "", "Device-tree compiler binary (default: dtc)")
	cmd.Flags().BoolVar(&validateJSON, "json", false, "Output the report as JSON")
	cmd.Flags().BoolVar(&validateDebug, "debug", false, "Log pipeline details to stderr")

	return cmd
}

// validationOptions carries everything one validation pass needs. The
// watch command reuses it for every re-run.
type validationOptions struct {
	imageTree   string
	metadata    string
	checker     dtc.Checker
	jsonMode    bool
	showSpinner bool
	logger      *zap.Logger
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := loadConfigTolerant(cmd)

	jsonMode := validateJSON
	cfgImageTree, cfgMetadata, cfgDtc := "", "", ""
	if cfg != nil {
		cfgImageTree = cfg.ImageTree
		cfgMetadata = cfg.Metadata
		cfgDtc = cfg.Dtc.Binary
		jsonMode = jsonMode || cfg.Output.JSON
		if cfg.Output.NoColor {
			color.NoColor = true
		}
	}

	logger := newDebugLogger(validateDebug)
	defer logger.Sync()

	opts := validationOptions{
		imageTree:   firstNonEmpty(argAt(args, 0), validateImageTree, cfgImageTree, "qcom-fitimage.its"),
		metadata:    firstNonEmpty(argAt(args, 1), validateMetadata, cfgMetadata, "qcom-metadata.dts"),
		checker:     newSyntaxChecker(firstNonEmpty(validateDtc, cfgDtc)),
		jsonMode:    jsonMode,
		showSpinner: !jsonMode,
		logger:      logger,
	}

	return runValidation(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
}

// runValidation executes one full validation pass and returns nil, a
// FatalError, a FindingsError, or a plain setup error.
func runValidation(out, errOut io.Writer, opts validationOptions) error {
	startTime := time.Now()
	logger := opts.logger

	reporter := report.NewReporter(out, opts.jsonMode)
	logger.Debug("starting validation run",
		zap.String("run_id", reporter.RunID()),
		zap.String("image_tree", opts.imageTree),
		zap.String("metadata", opts.metadata))

	// Read inputs
	imageSource, err := os.ReadFile(opts.imageTree)
	if err != nil {
		return fmt.Errorf("failed to read image tree %s: %w", opts.imageTree, err)
	}
	metaSource, err := os.ReadFile(opts.metadata)
	if err != nil {
		return fmt.Errorf("failed to read metadata descriptor %s: %w", opts.metadata, err)
	}

	// Phase 1: metadata syntax oracle
	var spinner *ui.Spinner
	if opts.showSpinner {
		spinner = ui.NewSpinner(errOut, ui.SpinnerOptions{
			Message: "Checking metadata syntax",
			NoColor: color.NoColor,
		})
		spinner.Start()
	}
	verdict, err := opts.checker.CheckSyntax(metaSource)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return fmt.Errorf("failed to run syntax oracle: %w", err)
	}
	logger.Debug("oracle verdict", zap.Bool("ok", verdict.OK))

	if !verdict.OK {
		detail := fmt.Sprintf("metadata descriptor %s failed compiler check", opts.metadata)
		if diag := firstLine(verdict.Diagnostic); diag != "" {
			detail = fmt.Sprintf("%s: %s", detail, diag)
		}
		return reporter.Fatal(report.Finding{Category: report.CategorySyntax, Detail: detail})
	}

	// Phase 2: image tree structural gate
	if err := scan.CheckImageTree(imageSource); err != nil {
		return reporter.Fatal(report.Finding{
			Category: report.CategorySyntax,
			Detail:   fmt.Sprintf("image tree %s failed structural check: %v", opts.imageTree, err),
		})
	}

	// Phase 3: extraction
	tokens, lexErrors := lexer.New(string(imageSource)).ScanTokens()
	for _, lexErr := range lexErrors {
		logger.Debug("lexer error, extraction continues", zap.String("error", lexErr.Error()))
	}

	doc, parseErrors := parser.New(tokens).Parse()
	for _, parseErr := range parseErrors {
		logger.Debug("parse error, extraction continues", zap.String("error", parseErr.Error()))
	}

	if !doc.HasImages() {
		if fallback := scan.FallbackImages(imageSource); len(fallback) > 0 {
			logger.Debug("primary image extraction found nothing, using naming fallback",
				zap.Int("images", len(fallback)))
			doc.Images = fallback
		}
	}

	nodes := dts.ExtractNodes(metaSource)
	logger.Debug("extraction complete",
		zap.Int("images", len(doc.Images)),
		zap.Int("configurations", len(doc.Configurations)),
		zap.Int("metadata_nodes", len(nodes)))

	// Phase 4: cross-reference
	validator := crossref.NewValidator(doc.ImageSet(), nodes)
	for _, finding := range validator.Validate(doc.Configurations) {
		reporter.Emit(finding)
	}

	// Phase 5: report
	logger.Debug("validation finished",
		zap.Int("findings", len(reporter.Findings())),
		zap.Duration("elapsed", time.Since(startTime)))
	return reporter.Finish(len(doc.Configurations))
}

// loadConfigTolerant loads fitlint.yml, downgrading load failures to a
// warning so a broken config never blocks validation.
func loadConfigTolerant(cmd *cobra.Command) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	return cfg
}

// newDebugLogger returns a development logger when debug is on and a
// no-op logger otherwise.
func newDebugLogger(debug bool) *zap.Logger {
	if debug {
		if logger, err := zap.NewDevelopment(); err == nil {
			return logger
		}
	}
	return zap.NewNop()
}

// argAt returns the positional argument at index i, or empty
func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// firstNonEmpty returns the first non-empty value
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstLine returns the first line of a possibly multi-line diagnostic
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
