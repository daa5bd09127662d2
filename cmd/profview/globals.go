package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ralphymoto/volatility/vtypes"
)

var globalsCmd = &cobra.Command{
	Use:   "globals <dwarf-file> [system-map]",
	Short: "List global variables",
	Long: `List global variables in address order.

When a System.map is supplied, each global is cross-checked against the
symbol of the same name and the symbol address is shown beside it.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGlobals,
}

func runGlobals(cmd *cobra.Command, args []string) error {
	p, err := openProfile(args)
	if err != nil {
		return fmt.Errorf("failed to open profile: %w", err)
	}

	var globals []vtypes.GlobalVar
	for gv := range p.Globals() {
		globals = append(globals, gv)
	}
	sort.Slice(globals, func(i, j int) bool {
		if globals[i].Address != globals[j].Address {
			return globals[i].Address < globals[j].Address
		}
		return globals[i].Name < globals[j].Name
	})

	sm := p.Symbols()
	if sm != nil {
		fmt.Fprintf(output, "%-12s %-12s %-30s %s\n", "ADDRESS", "MAP", "NAME", "TYPE")
	} else {
		fmt.Fprintf(output, "%-12s %-30s %s\n", "ADDRESS", "NAME", "TYPE")
	}
	fmt.Fprintf(output, "%s\n", strings.Repeat("-", 80))

	for _, gv := range globals {
		if sm != nil {
			mapAddr := "-"
			if addr, ok := sm.Address(gv.Name); ok {
				mapAddr = fmt.Sprintf("0x%08x", addr)
			}
			fmt.Fprintf(output, "0x%08x   %-12s %-30s %s\n", gv.Address, mapAddr, gv.Name, gv.Type)
		} else {
			fmt.Fprintf(output, "0x%08x   %-30s %s\n", gv.Address, gv.Name, gv.Type)
		}
	}

	fmt.Fprintf(output, "\nTotal: %d globals\n", len(globals))
	return nil
}
