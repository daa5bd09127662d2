package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ralphymoto/volatility/internal/config"
)

var (
	outputFile string
	configFile string
	output     io.Writer
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "profview",
	Short: "Type layout profile viewer",
	Long: `profview is a command-line tool for inspecting type layout profiles
compiled from dwarfdump -di output and System.map symbol tables.

It can display struct and union layouts, global variable addresses,
kernel symbols, and export the whole profile for downstream tooling.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = os.Stdout
		}

		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "profview.yaml", "viewer config file (optional)")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(globalsCmd)
	rootCmd.AddCommand(localsCmd)
	rootCmd.AddCommand(symbolsCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(exportCmd)
}

// profilePath resolves an input path against the configured profile
// directory when the path does not exist as given.
func profilePath(path string) string {
	if _, err := os.Stat(path); err == nil {
		return path
	}
	if cfg.Profiles.Dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cfg.Profiles.Dir, path)
}
