package commands

import (
	"errors"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fitlint/fitlint/internal/report"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// Exit codes. Fatal covers missing inputs and syntax-gate failures;
// findings means validation ran to completion and reported violations.
const (
	ExitOK       = 0
	ExitFatal    = 1
	ExitFindings = 2
)

var rootNoColor bool

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fitlint",
		Short: "Cross-reference validator for FIT image trees",
		Long: color.CyanString(`fitlint - FIT image tree validator

fitlint cross-checks a flattened image tree source against the platform
metadata descriptor: every configuration's compatible identity must be
defined by the descriptor, and every fdt reference must name a defined
image node.

Finding categories:
  • METADATA  compatible identity not defined by the descriptor
  • FDT-PROP  configuration without an fdt property
  • FDT-NAME  fdt reference without the fdt- prefix
  • FDT-LINK  fdt reference naming no image node
  • SYNTAX    fatal structural or compiler failure`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if rootNoColor {
				color.NoColor = true
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&rootNoColor, "no-color", false, "Disable colored output")

	// Add subcommands
	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewValidateCommand())
	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewInitCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the fitlint version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)

			titleColor.Print("fitlint version: ")
			valueColor.Println(Version)

			titleColor.Print("Git commit: ")
			valueColor.Println(GitCommit)

			titleColor.Print("Build date: ")
			valueColor.Println(BuildDate)

			titleColor.Print("Go version: ")
			valueColor.Println(goVer)
		},
	}
}

// Execute runs the root command and maps the outcome to an exit code
func Execute() int {
	return executeCommand(NewRootCommand())
}

func executeCommand(rootCmd *cobra.Command) int {
	if err := rootCmd.Execute(); err != nil {
		var findingsErr *report.FindingsError
		if errors.As(err, &findingsErr) {
			// The reporter already printed every finding and the
			// failure marker.
			return ExitFindings
		}

		var fatalErr *report.FatalError
		if errors.As(err, &fatalErr) {
			// The reporter already printed the fatal finding.
			return ExitFatal
		}

		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return ExitFatal
	}
	return ExitOK
}
