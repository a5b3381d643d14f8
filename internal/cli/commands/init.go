package commands

import (
	"fmt"
	"os"
	"text/template"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const configFileName = "fitlint.yml"

const configTemplate = `# fitlint configuration
image_tree: {{ .ImageTree }}
metadata: {{ .Metadata }}

dtc:
  binary: {{ .Dtc }}

output:
  json: false
  no_color: false
`

var (
	initImageTree string
	initMetadata  string
	initDtc       string
	initForce     bool
)

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a fitlint.yml configuration file",
		Long: `Write a fitlint.yml configuration file in the current directory.

Values not supplied as flags are collected interactively. Pressing
enter accepts the default shown in each prompt.`,
		Example: `  # Interactive setup
  fitlint init

  # Non-interactive setup for scripts
  fitlint init --image-tree boards/fitimage.its --metadata boards/metadata.dts

  # Overwrite an existing configuration
  fitlint init --force`,
		RunE: runInit,
	}

	cmd.Flags().StringVar(&initImageTree, "image-tree", "", "Image tree source path")
	cmd.Flags().StringVar(&initMetadata, "metadata", "", "Metadata descriptor path")
	cmd.Flags().StringVar(&initDtc, "dtc", "", "Device-tree compiler binary")
	cmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing fitlint.yml")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgCyan)
	promptColor := color.New(color.FgYellow)

	if _, err := os.Stat(configFileName); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configFileName)
	}

	imageTree := initImageTree
	if imageTree == "" {
		prompt := &survey.Input{
			Message: "Image tree source:",
			Default: "qcom-fitimage.its",
		}
		if err := survey.AskOne(prompt, &imageTree, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	metadata := initMetadata
	if metadata == "" {
		prompt := &survey.Input{
			Message: "Metadata descriptor:",
			Default: "qcom-metadata.dts",
		}
		if err := survey.AskOne(prompt, &metadata, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	dtcBinary := initDtc
	if dtcBinary == "" {
		prompt := &survey.Input{
			Message: "Device-tree compiler:",
			Default: "dtc",
		}
		if err := survey.AskOne(prompt, &dtcBinary, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
	}

	tmpl, err := template.New(configFileName).Parse(configTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse config template: %w", err)
	}

	f, err := os.Create(configFileName)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", configFileName, err)
	}

	data := map[string]interface{}{
		"ImageTree": imageTree,
		"Metadata":  metadata,
		"Dtc":       dtcBinary,
	}
	if err := tmpl.Execute(f, data); err != nil {
		f.Close()
		os.Remove(configFileName)
		return fmt.Errorf("failed to write %s: %w", configFileName, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(configFileName)
		return fmt.Errorf("failed to close %s: %w", configFileName, err)
	}

	infoColor.Fprintf(cmd.OutOrStdout(), "  ✓ Created %s\n", configFileName)

	fmt.Fprintln(cmd.OutOrStdout())
	successColor.Fprintln(cmd.OutOrStdout(), "✓ Configuration written")
	fmt.Fprintln(cmd.OutOrStdout())

	promptColor.Fprintln(cmd.OutOrStdout(), "Get started:")
	fmt.Fprintln(cmd.OutOrStdout(), "  fitlint validate")

	return nil
}
