package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ralphymoto/volatility/sysmap"
)

var (
	symbolsResolve string
	symbolsLimit   int
)

var symbolsCmd = &cobra.Command{
	Use:   "symbols <system-map>",
	Short: "List symbols from a System.map",
	Long: `List symbols from a System.map file in address order.

Use --resolve to find the symbol at or below a hexadecimal address instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSymbols,
}

func init() {
	symbolsCmd.Flags().StringVarP(&symbolsResolve, "resolve", "r", "", "resolve a hexadecimal address to its nearest symbol")
	symbolsCmd.Flags().IntVarP(&symbolsLimit, "limit", "n", 0, "limit number of symbols shown (0 = unlimited)")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(profilePath(args[0]))
	if err != nil {
		return fmt.Errorf("failed to open system map: %w", err)
	}
	sm := sysmap.Parse(data)

	if symbolsResolve != "" {
		return resolveSymbol(sm, symbolsResolve)
	}

	fmt.Fprintf(output, "%-18s %s\n", "ADDRESS", "NAME")
	fmt.Fprintf(output, "%s\n", strings.Repeat("-", 60))

	count := 0

	for sym := range sm.All() {
		fmt.Fprintf(output, "%#016x %s\n", sym.Address, sym.Name)
		count++
		if symbolsLimit > 0 && count >= symbolsLimit {
			break
		}
	}

	fmt.Fprintf(output, "\nTotal: %d symbols\n", count)
	return nil
}

func resolveSymbol(sm *sysmap.Map, addrStr string) error {
	addr, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(addrStr, "0x"), "0X"), 16, 64)
	if err != nil {
		return fmt.Errorf("invalid address: %s", addrStr)
	}

	sym, ok := sm.Resolve(addr)
	if !ok {
		return fmt.Errorf("no symbol at or below %#x", addr)
	}

	fmt.Fprintf(output, "Symbol:\n")
	fmt.Fprintf(output, "  Name: %s\n", sym.Name)
	fmt.Fprintf(output, "  Address: %#x\n", sym.Address)
	if addr != sym.Address {
		fmt.Fprintf(output, "  Offset: +%#x\n", addr-sym.Address)
	}
	return nil
}
