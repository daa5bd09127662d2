package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var localsLimit int

var localsCmd = &cobra.Command{
	Use:   "locals <dwarf-file>",
	Short: "List function-scoped variable records",
	Long:  `List the function-scoped variable records collected for diagnostics, in input order.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runLocals,
}

func init() {
	localsCmd.Flags().IntVarP(&localsLimit, "limit", "n", 0, "limit number of records shown (0 = unlimited)")
}

func runLocals(cmd *cobra.Command, args []string) error {
	p, err := openProfile(args)
	if err != nil {
		return fmt.Errorf("failed to open profile: %w", err)
	}

	fmt.Fprintf(output, "%-40s %-24s %s\n", "DECLARED", "NAME", "TYPE")
	fmt.Fprintf(output, "%s\n", strings.Repeat("-", 80))

	count := 0

	for _, lv := range p.Locals() {
		fmt.Fprintf(output, "%-40s %-24s %s\n",
			fmt.Sprintf("%s:%d", lv.DeclFile, lv.DeclLine),
			lv.Name,
			lv.Type)
		count++
		if localsLimit > 0 && count >= localsLimit {
			break
		}
	}

	fmt.Fprintf(output, "\nTotal: %d locals\n", count)
	return nil
}
