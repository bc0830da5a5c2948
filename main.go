// Command rsc is the RSC toolchain's command-line front end: it
// assembles source into a Logisim memory image and runs assembled
// programs to completion. The interactive, breakpoint-aware debug
// session lives in the graphical shell, not here (§6).
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	rscvm "rsc/rsc"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "rsc",
		Short:         "Assemble and run RSC (Relatively Simple Computer) programs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newAssembleCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <input>",
		Short: "Assemble <input> and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := assembleFile(args[0])
			if err != nil {
				return err
			}

			emu := rscvm.NewEmulator(prog)
			for !emu.Halted() {
				emu.Cycle()
			}
			fmt.Printf("OUTR=%d ACC=%d\n", emu.Regs.Get(rscvm.RegOUTR), emu.Regs.Get(rscvm.RegACC))
			return nil
		},
	}
}

func newAssembleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assemble <input> <output>",
		Short: "Assemble <input> and write a Logisim memory image to <output>",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := assembleFile(args[0])
			if err != nil {
				return err
			}

			out, err := os.Create(args[1])
			if err != nil {
				return errors.Wrapf(err, "creating %s", args[1])
			}
			defer out.Close()

			if err := rscvm.WriteLogisim(out, prog.Instructions); err != nil {
				return errors.Wrapf(err, "writing logisim image to %s", args[1])
			}
			return nil
		},
	}
}

// assembleFile reads and assembles input, returning a wrapped error on
// IO failure. If assembly collected any errors, it prints each one with
// its 1-based line number to stderr and returns an error giving the
// error count.
func assembleFile(input string) (rscvm.Program, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		return rscvm.Program{}, errors.Wrapf(err, "reading %s", input)
	}

	prog := rscvm.Assemble(string(data))
	if !prog.Runnable() {
		for _, e := range prog.Errors {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		return rscvm.Program{}, errors.Errorf("%s: %d assembly error(s)", input, len(prog.Errors))
	}
	return prog, nil
}
