// Command nurbs inspects, evaluates and refines curves and surfaces
// described in YAML or TOML documents.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexozer/nurbs"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "nurbs",
		Short:        "Evaluate and refine NURBS curves and surfaces",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				nurbs.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
			} else {
				nurbs.SetLogger(nil)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log refinement steps to stderr")

	root.AddCommand(
		newInfoCmd(),
		newEvalCmd(),
		newInsertCmd(),
		newRemoveCmd(),
		newElevateCmd(),
		newSplitCmd(),
		newReverseCmd(),
	)
	return root
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Print degree, knots and continuity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(args[0])
			if err != nil {
				return err
			}
			return e.info(cmd.OutOrStdout())
		},
	}
}

func newEvalCmd() *cobra.Command {
	var n1, n2 int

	cmd := &cobra.Command{
		Use:   "eval FILE",
		Short: "Print points sampled uniformly over the domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(args[0])
			if err != nil {
				return err
			}
			pts, err := e.evaluate(n1, n2)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, pt := range pts {
				fmt.Fprintf(out, "%g %g %g\n", pt[0], pt[1], pt[2])
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&n1, "samples", "n", 11, "samples in direction 1")
	cmd.Flags().IntVar(&n2, "samples2", 11, "samples in direction 2 of a surface")
	return cmd
}

// refineFlags are shared by the commands that rewrite a document.
type refineFlags struct {
	dir    int
	output string
}

func (f *refineFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.dir, "dir", "d", 1, "surface direction, 1 or 2")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "write the result to this file instead of stdout")
}

func newInsertCmd() *cobra.Command {
	var (
		flags refineFlags
		at    float64
		times int
	)

	cmd := &cobra.Command{
		Use:   "insert FILE",
		Short: "Insert a knot without changing the shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(args[0])
			if err != nil {
				return err
			}
			if err := e.insertKnot(flags.dir, at, times); err != nil {
				return err
			}
			return e.save(cmd.OutOrStdout(), flags.output)
		},
	}
	flags.register(cmd)
	cmd.Flags().Float64Var(&at, "at", 0, "knot value")
	cmd.Flags().IntVarP(&times, "times", "r", 1, "number of insertions")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	var (
		flags refineFlags
		at    float64
		times int
	)

	cmd := &cobra.Command{
		Use:   "remove FILE",
		Short: "Remove a knot as often as the shape allows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(args[0])
			if err != nil {
				return err
			}
			removed, err := e.removeKnot(flags.dir, at, times)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "removed %d of %d\n", removed, times)
			return e.save(cmd.OutOrStdout(), flags.output)
		},
	}
	flags.register(cmd)
	cmd.Flags().Float64Var(&at, "at", 0, "knot value")
	cmd.Flags().IntVarP(&times, "times", "r", 1, "maximum number of removals")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newElevateCmd() *cobra.Command {
	var (
		flags refineFlags
		by    int
	)

	cmd := &cobra.Command{
		Use:   "elevate FILE",
		Short: "Raise the degree without changing the shape",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(args[0])
			if err != nil {
				return err
			}
			if err := e.elevateDegree(flags.dir, by); err != nil {
				return err
			}
			return e.save(cmd.OutOrStdout(), flags.output)
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVarP(&by, "by", "t", 1, "degrees to add")
	return cmd
}

func newSplitCmd() *cobra.Command {
	var (
		dir int
		at  float64
	)

	cmd := &cobra.Command{
		Use:   "split FILE",
		Short: "Cut at a parameter, writing FILE-1 and FILE-2 next to FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(args[0])
			if err != nil {
				return err
			}
			lo, hi, err := e.split(dir, at)
			if err != nil {
				return err
			}

			ext := filepath.Ext(args[0])
			base := strings.TrimSuffix(args[0], ext)
			for i, half := range []*entity{lo, hi} {
				filename := fmt.Sprintf("%s-%d%s", base, i+1, ext)
				if err := half.save(nil, filename); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), filename)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&dir, "dir", "d", 1, "surface direction, 1 or 2")
	cmd.Flags().Float64Var(&at, "at", 0, "parameter to split at")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newReverseCmd() *cobra.Command {
	var flags refineFlags

	cmd := &cobra.Command{
		Use:   "reverse FILE",
		Short: "Reverse the parameter direction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := load(args[0])
			if err != nil {
				return err
			}
			if err := e.reverse(flags.dir); err != nil {
				return err
			}
			return e.save(cmd.OutOrStdout(), flags.output)
		},
	}
	flags.register(cmd)
	return cmd
}
