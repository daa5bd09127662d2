package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ralphymoto/volatility/profile"
)

var infoCmd = &cobra.Command{
	Use:   "info <dwarf-file> [system-map]",
	Short: "Display profile summary",
	Long:  `Compile a profile and display table counts and summary statistics.`,
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	p, err := openProfile(args)
	if err != nil {
		return fmt.Errorf("failed to open profile: %w", err)
	}

	fmt.Fprintf(output, "Profile: %s\n", args[0])
	fmt.Fprintf(output, "Types: %d\n", p.NumTypes())
	fmt.Fprintf(output, "Globals: %d\n", p.NumGlobals())
	fmt.Fprintf(output, "Locals: %d\n", len(p.Locals()))
	if sm := p.Symbols(); sm != nil {
		fmt.Fprintf(output, "Symbols: %d\n", sm.Len())
	}

	var largest string
	var largestSize int64
	for layout := range p.Types() {
		if layout.ByteSize > largestSize {
			largest, largestSize = layout.Name, layout.ByteSize
		}
	}
	if largest != "" {
		fmt.Fprintf(output, "Largest Type: %s (%d bytes)\n", largest, largestSize)
	}

	return nil
}

// openProfile compiles the profile named by the command arguments, with an
// optional System.map as the second argument.
func openProfile(args []string) (*profile.Profile, error) {
	dwarfPath := profilePath(args[0])
	if len(args) > 1 {
		return profile.OpenComplete(dwarfPath, profilePath(args[1]))
	}
	return profile.Open(dwarfPath)
}
