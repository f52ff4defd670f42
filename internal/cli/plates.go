package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2beens/irontracker/internal/gymstats/lifts"
)

func newPlatesCmd() *cobra.Command {
	var target, bar float64

	cmd := &cobra.Command{
		Use:     "plates",
		Short:   "Plates to load on each side of the bar for a target weight",
		Example: "  irontool plates --target 142.5 --bar 20",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := lifts.CheckPlates(target, bar); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if target <= bar {
				scheme.Warn.Fprintf(out, "%g kg is the empty bar or less, no plates needed\n", target)
				return nil
			}

			breakdown := lifts.Plates(target, bar)
			scheme.Title.Fprintf(out, "%g kg on a %g kg bar, per side:\n", target, bar)
			for _, p := range breakdown.Sorted() {
				scheme.Label.Fprintf(out, "  %5g kg", p.Plate)
				fmt.Fprintf(out, " x %d\n", p.Count)
			}
			if breakdown.Remainder > 0 {
				scheme.Warn.Fprintf(out, "  %g kg per side not coverable with standard plates\n", breakdown.Remainder)
			}
			return nil
		},
	}

	cmd.Flags().Float64VarP(&target, "target", "t", 0, "total weight in kg")
	cmd.Flags().Float64VarP(&bar, "bar", "b", lifts.DefaultBarWeight, "bar weight in kg")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
