package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ralphymoto/volatility/profile"
	"github.com/ralphymoto/volatility/vtypes"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <dwarf-file> <query>",
	Short: "Look up a type or global by name or address",
	Long: `Look up a layout or global variable in a compiled profile.

Query can be:
  - Type or global name: lookup vmlinux.dwarf task_struct
  - Address: lookup vmlinux.dwarf 0xc0550780 (finds the global at or below)`,
	Args: cobra.ExactArgs(2),
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	query := args[1]

	p, err := openProfile(args[:1])
	if err != nil {
		return fmt.Errorf("failed to open profile: %w", err)
	}

	if strings.HasPrefix(query, "0x") || strings.HasPrefix(query, "0X") {
		return lookupAddress(p, query)
	}
	return lookupName(p, query)
}

func lookupName(p *profile.Profile, name string) error {
	if layout, ok := p.Type(name); ok {
		printLayoutDetail(layout)
		return nil
	}
	if gv, ok := p.Global(name); ok {
		printGlobalDetail(gv, 0)
		return nil
	}
	return fmt.Errorf("%w: %q", profile.ErrTypeNotFound, name)
}

func lookupAddress(p *profile.Profile, addrStr string) error {
	addr, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimPrefix(addrStr, "0x"), "0X"), 16, 64)
	if err != nil {
		return fmt.Errorf("invalid address: %s", addrStr)
	}

	gv, ok := p.GlobalAt(addr)
	if !ok {
		return fmt.Errorf("%w: no global at or below %#x", profile.ErrSymbolNotFound, addr)
	}

	printGlobalDetail(gv, addr-gv.Address)
	return nil
}

func printLayoutDetail(layout *vtypes.StructLayout) {
	fmt.Fprintf(output, "Type:\n")
	fmt.Fprintf(output, "  Name: %s\n", layout.Name)
	fmt.Fprintf(output, "  Size: %#x\n", layout.ByteSize)
	fmt.Fprintf(output, "  Members: %d\n", len(layout.Members))
	for _, m := range layout.MembersByOffset() {
		fmt.Fprintf(output, "    %#-8x %-24s %s\n", m.Offset, m.Name, m.Type)
	}
}

func printGlobalDetail(gv vtypes.GlobalVar, offset uint64) {
	fmt.Fprintf(output, "Global:\n")
	fmt.Fprintf(output, "  Name: %s\n", gv.Name)
	fmt.Fprintf(output, "  Address: 0x%08x\n", gv.Address)
	if offset != 0 {
		fmt.Fprintf(output, "  Offset: +%#x\n", offset)
	}
	fmt.Fprintf(output, "  Type: %s\n", gv.Type)
}
