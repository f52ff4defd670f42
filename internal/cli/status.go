package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/gymstats/stats"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"report"},
		Short:   "Recovery, push/pull balance and the period report",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			defer a.close()

			ov, err := a.analyzer.Overview(ctx)
			if err != nil {
				return fmt.Errorf("compute overview: %w", err)
			}

			out := cmd.OutOrStdout()
			printRecovery(out, ov.Recovery)
			printBalance(out, ov.Balance)
			printReport(out, ov.Report)
			fmt.Fprintln(out)
			scheme.Title.Fprintln(out, "SLEEP / VOLUME")
			fmt.Fprintln(out, ov.Correlation.Message)
			return nil
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	var trendOf string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Lifetime totals and the estimated 1RM hall of fame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			defer a.close()

			summary, err := a.analyzer.Summary(ctx)
			if err != nil {
				return fmt.Errorf("compute summary: %w", err)
			}
			out := cmd.OutOrStdout()
			printSummary(out, summary)

			if trendOf == "" {
				return nil
			}
			points, err := a.analyzer.Trend(ctx, trendOf)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			scheme.Title.Fprintf(out, "1RM TREND // %s\n", trendOf)
			if len(points) == 0 {
				fmt.Fprintln(out, "no entries yet")
			}
			for _, p := range points {
				fmt.Fprintf(out, "  %s  %6.1f kg\n", p.Date.Format(entries.DateLayout), p.EstimatedOneRepMax)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&trendOf, "trend", "", "also print the estimated 1RM trend of this exercise")
	return cmd
}

func printRecovery(out io.Writer, recovery []stats.MuscleRecovery) {
	scheme.Title.Fprintln(out, "RECOVERY")
	if len(recovery) == 0 {
		fmt.Fprintln(out, "no entries yet")
	}
	for _, m := range recovery {
		scheme.Label.Fprintf(out, "  %-12s", m.MuscleGroup)
		fmt.Fprintf(out, " %3d days  ", m.DaysSince)
		statusColor(m.Status).Fprintln(out, m.Status)
	}
}

func printBalance(out io.Writer, b stats.Balance) {
	fmt.Fprintln(out)
	scheme.Title.Fprintln(out, "PUSH / PULL")
	fmt.Fprintf(out, "  push %.0f kg, pull %.0f kg", b.PushVolume, b.PullVolume)
	if b.Ratio != nil {
		fmt.Fprintf(out, ", ratio %.2f", *b.Ratio)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %s\n", b.Message)
}

func printReport(out io.Writer, r stats.Report) {
	fmt.Fprintln(out)
	scheme.Title.Fprintln(out, "PERIOD REPORT")
	tierColor(r.Tier).Fprintf(out, "  %s\n", r.Verdict)
	fmt.Fprintf(out, "  volume %+.0f kg (%+.1f%%), sessions %+d\n", r.VolumeChange, r.VolumeChangePct, r.SessionChange)
}

func printSummary(out io.Writer, s *stats.Summary) {
	scheme.Title.Fprintln(out, "LIFETIME")
	fmt.Fprintf(out, "  entries %d, sessions %d, volume %.0f kg\n", s.Entries, s.Sessions, s.TotalVolume)
	fmt.Fprintln(out)
	scheme.Title.Fprintln(out, "EST. 1RM HALL OF FAME")
	if len(s.HallOfFame) == 0 {
		fmt.Fprintln(out, "  no key lifts logged yet")
	}
	for _, best := range s.HallOfFame {
		scheme.Label.Fprintf(out, "  %-16s", best.Exercise)
		fmt.Fprintf(out, " %6.1f kg  (%s)\n", best.EstimatedOneRepMax, best.Date.Format(entries.DateLayout))
	}
}
