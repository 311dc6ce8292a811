// Command nashorn-dis inspects emitted unit files: it verifies their
// structure, prints statistics, and disassembles their routines.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/andyPPL/nashorn/bytecode"
	"github.com/andyPPL/nashorn/dis"
)

var fs = afero.NewOsFs()

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		noColor   bool
		statsOnly bool
		skipCheck bool
	)
	cmd := &cobra.Command{
		Use:           "nashorn-dis <unit-file>",
		Short:         "Disassemble an emitted unit file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			unit, err := loadUnit(args[0])
			if err != nil {
				return err
			}
			if !skipCheck {
				if err := bytecode.Verify(unit); err != nil {
					return fmt.Errorf("verification failed: %w", err)
				}
			}
			if statsOnly {
				printStats(cmd, unit)
				return nil
			}
			return dis.Print(unit, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&statsOnly, "stats", false, "print unit statistics instead of a disassembly")
	cmd.Flags().BoolVar(&skipCheck, "no-verify", false, "skip structural verification")
	return cmd
}

func loadUnit(path string) (*bytecode.Unit, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	unit, err := bytecode.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return unit, nil
}

func printStats(cmd *cobra.Command, unit *bytecode.Unit) {
	stats := unit.Stats()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "unit:         %s (%s)\n", unit.Name(), unit.ID())
	if unit.SourceName() != "" {
		fmt.Fprintf(out, "source:       %s\n", unit.SourceName())
	}
	fmt.Fprintf(out, "strict:       %t\n", unit.Strict())
	fmt.Fprintf(out, "routines:     %d (%d synthetic)\n", stats.RoutineCount, stats.SyntheticCount)
	fmt.Fprintf(out, "instructions: %d\n", stats.InstructionCount)
	fmt.Fprintf(out, "constants:    %d\n", stats.ConstantCount)
	fmt.Fprintf(out, "max stack:    %d\n", stats.MaxStack)
}
