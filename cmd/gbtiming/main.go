package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/oisee/gbtiming/pkg/codegen"
	"github.com/oisee/gbtiming/pkg/inst"
	"github.com/oisee/gbtiming/pkg/result"
	"github.com/oisee/gbtiming/pkg/timing"
	"github.com/oisee/gbtiming/pkg/timingfile"
	"github.com/oisee/gbtiming/pkg/trace"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:          "gbtiming",
		Short:        "LR35902 instruction timing tables: generate, verify, look up",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(cmd, verbose)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(newGenCmd(), newLookupCmd(), newVerifyCmd(), newDumpCmd(), newTraceCmd())
	return rootCmd
}

func configureLogging(cmd *cobra.Command, verbose bool) {
	log.SetOutput(cmd.ErrOrStderr())
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.InfoLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
}

// gen command
func newGenCmd() *cobra.Command {
	opts := codegen.DefaultOptions()
	var output string

	cmd := &cobra.Command{
		Use:   "gen [sheet]",
		Short: "Generate Go source for the cycle table in a timing sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := timingfile.ParseFile(args[0])
			if err != nil {
				return err
			}
			src, err := codegen.Source(tbl, opts)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(src)
				return err
			}
			if err := os.WriteFile(output, src, 0o644); err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"sheet": args[0], "output": output, "package": opts.Package}).Info("generated cycle table")
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output Go file (default stdout)")
	cmd.Flags().StringVar(&opts.Package, "package", opts.Package, "Package of the generated file")
	cmd.Flags().StringVar(&opts.Var, "var", opts.Var, "Name of the generated variable")
	cmd.Flags().StringVar(&opts.Source, "source", opts.Source, "Sheet name recorded in the generated header")
	return cmd
}

// lookup command
func newLookupCmd() *cobra.Command {
	var sheet string
	var taken bool

	cmd := &cobra.Command{
		Use:   "lookup [prefix] opcode",
		Short: "Print the cycle cost of an instruction",
		Long: "Print the cycle cost of an instruction. Bytes are hex (20, 0x20 or 20h).\n" +
			"Give CB as the prefix for the extended opcode space.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadTable(sheet)
			if err != nil {
				return err
			}

			var prefix uint8
			opArg := args[0]
			if len(args) == 2 {
				if prefix, err = parseByte(args[0]); err != nil {
					return fmt.Errorf("prefix: %w", err)
				}
				opArg = args[1]
			}
			op, err := parseByte(opArg)
			if err != nil {
				return fmt.Errorf("opcode: %w", err)
			}

			out := cmd.OutOrStdout()
			if cmd.Flags().Changed("taken") {
				fmt.Fprintln(out, tbl.Cycles(prefix, op, taken))
				return nil
			}

			fmt.Fprintf(out, "%s: ", formatOpcode(prefix, op))
			if prefix != timing.PrefixCB && inst.IsConditional(op) {
				fmt.Fprintf(out, "%d cycles taken, %d not taken\n",
					tbl.Cycles(prefix, op, true), tbl.Cycles(prefix, op, false))
				return nil
			}
			fmt.Fprintf(out, "%d cycles\n", tbl.Cycles(prefix, op, false))
			return nil
		},
	}
	addSheetFlag(cmd.Flags(), &sheet)
	cmd.Flags().BoolVarP(&taken, "taken", "t", false, "Print only the cost for this branch outcome")
	return cmd
}

// verify command
func newVerifyCmd() *cobra.Command {
	var againstBuiltin bool

	cmd := &cobra.Command{
		Use:   "verify [sheet]",
		Short: "Validate a timing sheet and compare it with the builtin table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := timingfile.ParseFile(args[0])
			if err != nil {
				return err
			}
			log.WithField("sheet", args[0]).Debug("sheet parsed and validated")

			first, err := codegen.Source(tbl, codegen.DefaultOptions())
			if err != nil {
				return err
			}
			second, err := codegen.Source(tbl, codegen.DefaultOptions())
			if err != nil {
				return err
			}
			if !bytes.Equal(first, second) {
				return fmt.Errorf("%s: generated source is not deterministic", args[0])
			}

			if againstBuiltin {
				diffs := diffTables(tbl, timing.Builtin())
				for _, d := range diffs {
					log.WithFields(logrus.Fields{
						"opcode":   fmt.Sprintf("0x%02X", d.op),
						"mnemonic": inst.Catalog[d.op].Mnemonic,
						"outcome":  d.outcome,
						"sheet":    d.sheet,
						"builtin":  d.builtin,
					}).Warn("cycle cost differs from builtin")
				}
				if len(diffs) > 0 {
					return fmt.Errorf("%s: %d entries differ from the builtin table", args[0], len(diffs))
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: OK (%d conditional opcodes)\n", args[0], len(inst.ConditionalOps()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&againstBuiltin, "against-builtin", true, "Fail if the sheet differs from the compiled table")
	return cmd
}

// dump command
func newDumpCmd() *cobra.Command {
	var sheet string
	var format string
	var withCB bool

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print a cycle table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadTable(sheet)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			switch format {
			case "text":
				return timingfile.Write(out, tbl)
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(tbl)
			case "list":
				for i := 0; i < 256; i++ {
					op := uint8(i)
					fmt.Fprintf(out, "%-22s %2d", formatOpcode(0, op), tbl.Taken(op))
					if tbl.Taken(op) != tbl.NotTaken(op) {
						fmt.Fprintf(out, "/%d", tbl.NotTaken(op))
					}
					fmt.Fprintln(out)
				}
				if withCB {
					for i := 0; i < 256; i++ {
						op := uint8(i)
						fmt.Fprintf(out, "%-22s %2d\n", formatOpcode(timing.PrefixCB, op), tbl.Cycles(timing.PrefixCB, op, false))
					}
				}
				return nil
			default:
				return fmt.Errorf("unknown format: %s", format)
			}
		},
	}
	addSheetFlag(cmd.Flags(), &sheet)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, list)")
	cmd.Flags().BoolVar(&withCB, "cb", false, "Include the CB-prefixed space (list format)")
	return cmd
}

// trace command
func newTraceCmd() *cobra.Command {
	var sheet string
	var output string
	var numWorkers int

	cmd := &cobra.Command{
		Use:   "trace [files...]",
		Short: "Sum the cycle cost of recorded instruction traces",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadTable(sheet)
			if err != nil {
				return err
			}

			results, err := trace.Run(trace.Config{
				NumWorkers: numWorkers,
				Table:      tbl,
				Log:        log,
			}, args)
			if err != nil {
				return err
			}

			entries := results.Entries()
			out := cmd.OutOrStdout()
			for _, e := range entries {
				fmt.Fprintf(out, "%-24s %8d steps %10d cycles %9.2f frames\n", e.Name, e.Steps, e.Cycles, e.Frames)
			}
			fmt.Fprintf(out, "total %d cycles\n", results.Total())

			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := result.WriteJSON(f, entries); err != nil {
					return err
				}
				log.WithField("output", output).Info("results written")
			}
			return nil
		},
	}
	addSheetFlag(cmd.Flags(), &sheet)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output JSON file path")
	cmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	return cmd
}
