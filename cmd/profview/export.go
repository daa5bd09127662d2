package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <dwarf-file> [system-map]",
	Short: "Export the compiled profile",
	Long: `Export the compiled profile for downstream tooling.

Supported formats:
  - python: linux_types / linux_gvars dict literals (default)
  - json: one document keyed by linux_types / linux_gvars
  - yaml: same document as YAML`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "output format (python, json, yaml); defaults to the configured format")
}

func runExport(cmd *cobra.Command, args []string) error {
	p, err := openProfile(args)
	if err != nil {
		return fmt.Errorf("failed to open profile: %w", err)
	}

	format := exportFormat
	if format == "" {
		format = cfg.Output.Format
	}
	if format == "" {
		format = "python"
	}

	switch format {
	case "python":
		return p.WritePython(output)
	case "json":
		return p.WriteJSON(output)
	case "yaml":
		return p.WriteYAML(output)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
