package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	typesName  string
	typesLimit int
)

var typesCmd = &cobra.Command{
	Use:   "types <dwarf-file>",
	Short: "List struct and union layouts",
	Long: `List compiled struct and union layouts in name order.

Use --name to filter by a name substring.`,
	Args: cobra.ExactArgs(1),
	RunE: runTypes,
}

func init() {
	typesCmd.Flags().StringVarP(&typesName, "name", "f", "", "filter by name substring")
	typesCmd.Flags().IntVarP(&typesLimit, "limit", "n", 0, "limit number of types shown (0 = unlimited)")
}

func runTypes(cmd *cobra.Command, args []string) error {
	p, err := openProfile(args)
	if err != nil {
		return fmt.Errorf("failed to open profile: %w", err)
	}

	fmt.Fprintf(output, "%-10s %-8s %s\n", "SIZE", "MEMBERS", "NAME")
	fmt.Fprintf(output, "%s\n", strings.Repeat("-", 60))

	count := 0

	for layout := range p.Types() {
		if typesName != "" && !strings.Contains(layout.Name, typesName) {
			continue
		}

		fmt.Fprintf(output, "%#-10x %-8d %s\n", layout.ByteSize, len(layout.Members), layout.Name)
		count++
		if typesLimit > 0 && count >= typesLimit {
			break
		}
	}

	fmt.Fprintf(output, "\nTotal: %d types\n", count)
	return nil
}
