package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cwbudde/algo-ring/dsp/window"
	"github.com/spf13/cobra"
)

func newWininfoCmd() *cobra.Command {
	var (
		frame     int
		hop       int
		symmetric bool
	)

	cmd := &cobra.Command{
		Use:   "wininfo [window-name ...]",
		Short: "Print overlap-add properties of the analysis windows",
		Long: "Prints ENBW, overlap gain and overlap ripple for each window at the given\n" +
			"frame and hop. Without arguments every window is listed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			types := window.Types()
			if len(args) > 0 {
				types = nil
				for _, name := range args {
					t, err := window.ParseType(name)
					if err != nil {
						return err
					}

					types = append(types, t)
				}
			}
			var opts []window.Option
			if !symmetric {
				opts = append(opts, window.WithPeriodic())
			}
			return printWindowTable(cmd.OutOrStdout(), types, frame, hop, opts)
		},
	}

	cmd.Flags().IntVarP(&frame, "frame", "f", 1024, "Frame size in samples")
	cmd.Flags().IntVar(&hop, "hop", 256, "Hop size in samples")
	cmd.Flags().BoolVar(&symmetric, "symmetric", false, "Use the symmetric instead of the periodic form")
	return cmd
}

func printWindowTable(w io.Writer, types []window.Type, frame, hop int, opts []window.Option) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Window\tFrame\tHop\tENBW [bins]\tOverlap Gain\tRipple\n")
	fmt.Fprintf(tw, "------\t-----\t---\t-----------\t------------\t------\n")

	for _, t := range types {
		coeffs, err := window.Generate(t, frame, opts...)
		if err != nil {
			return err
		}

		enbw, err := window.EquivalentNoiseBandwidth(coeffs)
		if err != nil {
			return err
		}

		gain, err := window.OverlapGain(coeffs, hop)
		if err != nil {
			return err
		}

		ripple, err := window.OverlapRipple(coeffs, hop)
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%s\t%d\t%d\t%.4f\t%.6f\t%.2e\n", t, frame, hop, enbw, gain, ripple)
	}
	return tw.Flush()
}
