package commands

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fitlint/fitlint/internal/report"
	"github.com/fitlint/fitlint/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var (
		imageTree string
		metadata  string
		dtcBinary string
		debug     bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run validation whenever an input file changes",
		Long: `Watch the image tree and the metadata descriptor and re-run the full
validation pipeline after every save.

Changes within a short window are batched into a single run, so an
editor that writes the file in several steps triggers one report, not
several.

Examples:
  # Watch the default input pair
  fitlint watch

  # Watch explicit files
  fitlint watch --image-tree boards.its --metadata boards.dts
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfigTolerant(cmd)

			cfgImageTree, cfgMetadata, cfgDtc := "", "", ""
			if cfg != nil {
				cfgImageTree = cfg.ImageTree
				cfgMetadata = cfg.Metadata
				cfgDtc = cfg.Dtc.Binary
				if cfg.Output.NoColor {
					color.NoColor = true
				}
			}

			logger := newDebugLogger(debug)
			defer logger.Sync()

			opts := validationOptions{
				imageTree: firstNonEmpty(imageTree, cfgImageTree, "qcom-fitimage.its"),
				metadata:  firstNonEmpty(metadata, cfgMetadata, "qcom-metadata.dts"),
				checker:   newSyntaxChecker(firstNonEmpty(dtcBinary, cfgDtc)),
				logger:    logger,
			}

			// Both inputs must exist before watching makes sense
			for _, path := range []string{opts.imageTree, opts.metadata} {
				if _, err := os.Stat(path); err != nil {
					return fmt.Errorf("cannot watch %s: %w", path, err)
				}
			}

			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			rerun := func() {
				err := runValidation(out, errOut, opts)
				if err == nil {
					return
				}
				// Findings and fatal outcomes were already printed by
				// the reporter; only surface setup failures.
				var findingsErr *report.FindingsError
				var fatalErr *report.FatalError
				if !errors.As(err, &findingsErr) && !errors.As(err, &fatalErr) {
					color.New(color.FgRed, color.Bold).Fprintf(errOut, "Error: %v\n", err)
				}
			}

			// First pass before any change arrives
			rerun()

			watcher, err := watch.NewFileWatcher(
				[]string{opts.imageTree, opts.metadata},
				logger,
				func(files []string) error {
					fmt.Fprintln(out)
					rerun()
					return nil
				},
			)
			if err != nil {
				return fmt.Errorf("failed to create file watcher: %w", err)
			}

			if err := watcher.Start(); err != nil {
				return fmt.Errorf("failed to start file watcher: %w", err)
			}

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			banner := color.New(color.FgCyan, color.Bold)
			fmt.Fprintln(out)
			banner.Fprintln(out, "Watching for changes")
			fmt.Fprintf(out, "  %s\n", opts.imageTree)
			fmt.Fprintf(out, "  %s\n", opts.metadata)
			fmt.Fprintln(out)
			color.New(color.FgYellow).Fprintln(out, "Press Ctrl+C to stop")

			// Block until signal
			<-sigChan

			fmt.Fprintln(out, "\nShutting down...")

			if err := watcher.Stop(); err != nil {
				return fmt.Errorf("error stopping watcher: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&imageTree, "image-tree", "", "Image tree source path (default: qcom-fitimage.its)")
	cmd.Flags().StringVar(&metadata, "metadata", "", "Metadata descriptor path (default: qcom-metadata.dts)")
	cmd.Flags().StringVar(&dtcBinary, "dtc", "", "Device-tree compiler binary (default: dtc)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Log watcher details to stderr")

	return cmd
}
