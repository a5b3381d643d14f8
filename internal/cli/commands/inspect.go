package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/fitlint/fitlint/internal/cli/ui"
	"github.com/fitlint/fitlint/internal/dts"
	"github.com/fitlint/fitlint/internal/fit/ast"
	"github.com/fitlint/fitlint/internal/fit/lexer"
	"github.com/fitlint/fitlint/internal/fit/parser"
	"github.com/fitlint/fitlint/internal/fit/scan"
)

var (
	inspectImageTree string
	inspectMetadata  string
	inspectFormat    string
)

// NewInspectCommand creates the inspect command group
func NewInspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show what validation extracts from the inputs",
		Long: `Show what validation extracts from the input pair without
running the cross-reference checks.

This is useful for:
  • Confirming which image nodes a reference can resolve to
  • Seeing the compatible string and fdt references per configuration
  • Listing the metadata nodes a compatible identity is checked against
  • Debugging why a finding names a token you did not expect

Run without a subcommand for a summary of both inputs.`,
		Example: `  # Summarize both inputs
  fitlint inspect

  # List the image nodes with their source lines
  fitlint inspect images

  # List configuration records
  fitlint inspect configs

  # List metadata node names
  fitlint inspect metadata

  # Output in JSON format for tooling
  fitlint inspect configs --format json`,
		RunE: runInspectSummary,
	}

	cmd.PersistentFlags().StringVar(&inspectImageTree, "image-tree", "", "Image tree source path (default: qcom-fitimage.its)")
	cmd.PersistentFlags().StringVar(&inspectMetadata, "metadata", "", "Metadata descriptor path (default: qcom-metadata.dts)")
	cmd.PersistentFlags().StringVar(&inspectFormat, "format", "table", "Output format: json or table")

	cmd.AddCommand(newInspectImagesCommand())
	cmd.AddCommand(newInspectConfigsCommand())
	cmd.AddCommand(newInspectMetadataCommand())

	return cmd
}

// newInspectImagesCommand creates the 'inspect images' command
func newInspectImagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "images",
		Short: "List the image nodes in the image tree",
		Example: `  # List image nodes
  fitlint inspect images

  # List image nodes in JSON format
  fitlint inspect images --format json`,
		RunE: runInspectImages,
	}
}

// newInspectConfigsCommand creates the 'inspect configs' command
func newInspectConfigsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "configs",
		Short: "List the configuration records in the image tree",
		Example: `  # List configuration records
  fitlint inspect configs

  # List configuration records in JSON format
  fitlint inspect configs --format json`,
		RunE: runInspectConfigs,
	}
}

// newInspectMetadataCommand creates the 'inspect metadata' command
func newInspectMetadataCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metadata",
		Short: "List the node names in the metadata descriptor",
		Example: `  # List metadata nodes
  fitlint inspect metadata

  # List metadata nodes in JSON format
  fitlint inspect metadata --format json`,
		RunE: runInspectMetadata,
	}
}

// inspectInputs holds the extracted view of both input files
type inspectInputs struct {
	imageTreePath string
	metadataPath  string
	doc           *ast.Document
	nodes         dts.NodeSet
}

// loadInspectInputs resolves the input paths, reads both files, and
// runs the same extraction the validate command uses. Lexer and parse
// errors degrade the view instead of aborting it.
func loadInspectInputs(cmd *cobra.Command) (*inspectInputs, error) {
	if inspectFormat != "table" && inspectFormat != "json" {
		return nil, fmt.Errorf("unsupported format: %s (supported: json, table)", inspectFormat)
	}

	cfg := loadConfigTolerant(cmd)

	cfgImageTree, cfgMetadata := "", ""
	if cfg != nil {
		cfgImageTree = cfg.ImageTree
		cfgMetadata = cfg.Metadata
		if cfg.Output.NoColor {
			color.NoColor = true
		}
	}

	in := &inspectInputs{
		imageTreePath: firstNonEmpty(inspectImageTree, cfgImageTree, "qcom-fitimage.its"),
		metadataPath:  firstNonEmpty(inspectMetadata, cfgMetadata, "qcom-metadata.dts"),
	}

	imageSource, err := os.ReadFile(in.imageTreePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image tree %s: %w", in.imageTreePath, err)
	}
	metaSource, err := os.ReadFile(in.metadataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata descriptor %s: %w", in.metadataPath, err)
	}

	tokens, _ := lexer.New(string(imageSource)).ScanTokens()
	in.doc, _ = parser.New(tokens).Parse()
	if !in.doc.HasImages() {
		if fallback := scan.FallbackImages(imageSource); len(fallback) > 0 {
			in.doc.Images = fallback
		}
	}
	in.nodes = dts.ExtractNodes(metaSource)

	return in, nil
}

// runInspectSummary executes the bare 'inspect' command
func runInspectSummary(cmd *cobra.Command, args []string) error {
	in, err := loadInspectInputs(cmd)
	if err != nil {
		return err
	}

	writer := cmd.OutOrStdout()

	if inspectFormat == "json" {
		type jsonSummary struct {
			ImageTree      string `json:"image_tree"`
			Metadata       string `json:"metadata"`
			Images         int    `json:"images"`
			Configurations int    `json:"configurations"`
			MetadataNodes  int    `json:"metadata_nodes"`
		}
		return encodeJSON(writer, jsonSummary{
			ImageTree:      in.imageTreePath,
			Metadata:       in.metadataPath,
			Images:         len(in.doc.Images),
			Configurations: len(in.doc.Configurations),
			MetadataNodes:  len(in.nodes),
		})
	}

	ui.Header(writer, "Inspection summary", color.NoColor)
	table := ui.NewKeyValueTable(writer, color.NoColor)
	table.AddRow("Image tree", in.imageTreePath)
	table.AddRow("Metadata", in.metadataPath)
	table.AddRow("Images", strconv.Itoa(len(in.doc.Images)))
	table.AddRow("Configurations", strconv.Itoa(len(in.doc.Configurations)))
	table.AddRow("Metadata nodes", strconv.Itoa(len(in.nodes)))
	table.Render()
	return nil
}

// runInspectImages executes the 'inspect images' command
func runInspectImages(cmd *cobra.Command, args []string) error {
	in, err := loadInspectInputs(cmd)
	if err != nil {
		return err
	}

	writer := cmd.OutOrStdout()

	if inspectFormat == "json" {
		type jsonImage struct {
			Name string `json:"name"`
			Line int    `json:"line"`
		}
		type jsonOutput struct {
			TotalCount int         `json:"total_count"`
			Images     []jsonImage `json:"images"`
		}
		output := jsonOutput{
			TotalCount: len(in.doc.Images),
			Images:     make([]jsonImage, 0, len(in.doc.Images)),
		}
		for _, img := range in.doc.Images {
			output.Images = append(output.Images, jsonImage{Name: img.Name, Line: img.Line})
		}
		return encodeJSON(writer, output)
	}

	if len(in.doc.Images) == 0 {
		fmt.Fprintln(writer, "No image nodes found.")
		return nil
	}

	table := ui.NewTable(writer, color.NoColor, "NAME", "LINE")
	for _, img := range in.doc.Images {
		table.AddRow(img.Name, strconv.Itoa(img.Line))
	}
	table.Render()
	fmt.Fprintf(writer, "\n%d image node(s)\n", len(in.doc.Images))
	return nil
}

// runInspectConfigs executes the 'inspect configs' command
func runInspectConfigs(cmd *cobra.Command, args []string) error {
	in, err := loadInspectInputs(cmd)
	if err != nil {
		return err
	}

	writer := cmd.OutOrStdout()

	if inspectFormat == "json" {
		type jsonConfig struct {
			Name       string   `json:"name"`
			Line       int      `json:"line"`
			Compatible string   `json:"compatible,omitempty"`
			Fdt        []string `json:"fdt,omitempty"`
		}
		type jsonOutput struct {
			TotalCount     int          `json:"total_count"`
			Configurations []jsonConfig `json:"configurations"`
		}
		output := jsonOutput{
			TotalCount:     len(in.doc.Configurations),
			Configurations: make([]jsonConfig, 0, len(in.doc.Configurations)),
		}
		for _, cfg := range in.doc.Configurations {
			output.Configurations = append(output.Configurations, jsonConfig{
				Name:       cfg.Name,
				Line:       cfg.Line,
				Compatible: cfg.Compatible,
				Fdt:        cfg.FdtRefs,
			})
		}
		return encodeJSON(writer, output)
	}

	if len(in.doc.Configurations) == 0 {
		fmt.Fprintln(writer, "No configuration records found.")
		return nil
	}

	table := ui.NewTable(writer, color.NoColor, "NAME", "LINE", "COMPATIBLE", "FDT")
	for _, cfg := range in.doc.Configurations {
		table.AddRow(cfg.Name, strconv.Itoa(cfg.Line), orDash(cfg.Compatible), orDash(strings.Join(cfg.FdtRefs, ", ")))
	}
	table.Render()
	fmt.Fprintf(writer, "\n%d configuration record(s)\n", len(in.doc.Configurations))
	return nil
}

// runInspectMetadata executes the 'inspect metadata' command
func runInspectMetadata(cmd *cobra.Command, args []string) error {
	in, err := loadInspectInputs(cmd)
	if err != nil {
		return err
	}

	writer := cmd.OutOrStdout()
	names := in.nodes.Names()

	if inspectFormat == "json" {
		type jsonOutput struct {
			TotalCount int      `json:"total_count"`
			Nodes      []string `json:"nodes"`
		}
		return encodeJSON(writer, jsonOutput{TotalCount: len(names), Nodes: names})
	}

	if len(names) == 0 {
		fmt.Fprintln(writer, "No metadata nodes found.")
		return nil
	}

	ui.Header(writer, "Metadata nodes", color.NoColor)
	list := ui.NewList(writer, color.NoColor)
	for _, name := range names {
		list.AddItem(name)
	}
	list.Render()
	fmt.Fprintf(writer, "\n%d metadata node(s)\n", len(names))
	return nil
}

// encodeJSON writes indented JSON to the writer
func encodeJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// orDash substitutes a dash for an empty table cell
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
