// Package cmd implements the repal command-line surface (spec §6).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	deviceType    string
	polarityStr   string
	oePolarityStr string
	profilesPath  string
	truthTable    bool
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "repal <dump-file>",
	Short: "Reverse-engineer combinatorial PAL equations from an EPROM dump",
	Long: `repal reconstructs a PAL device's boolean equations from a binary
dump of the EPROM that emulates it: it sweeps every address, discovers per
output which inputs its value and its output-enable depend on, builds and
classifies each output's minterms, and renders the minimized result as an
equations file (and, optionally, a raw truth-table file).

Example:
  repal --device-type=pal16l8 --polarity=auto dump.bin
  repal --truthtable --polarity=negative --oe-polarity=positive --device-type=pal22v10 --profiles=custom-profiles.config dump.bin`,
	Args: cobra.ExactArgs(1),
	RunE: runRepal,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&deviceType, "device-type", "d", "auto",
		"profile name, or \"auto\" to match by dump file size")
	rootCmd.Flags().StringVar(&polarityStr, "polarity", "auto",
		"output equation polarity: auto, both, positive, negative")
	rootCmd.Flags().StringVar(&oePolarityStr, "oe-polarity", "auto",
		"output-enable equation polarity: auto, both, positive, negative")
	rootCmd.Flags().StringVar(&profilesPath, "profiles", "profiles.config",
		"path to the device profile config (default: profiles.config next to the executable)")
	rootCmd.Flags().BoolVar(&truthTable, "truthtable", false,
		"additionally emit a raw truth-table file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose progress output")
}
