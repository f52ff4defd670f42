package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2beens/irontracker/internal/gymstats/entries"
)

func newLogCmd(a *app) *cobra.Command {
	var in entries.LogInput

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log one exercise entry",
		Example: `  irontool log --exercise "Bench Press" --weight 80 --reps 8 --sets 3 --sleep 7.5
  irontool log -e Squat -w 100 -r 5 -s 5 --date 2024-06-01 --notes "belt on"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			defer a.close()

			entry, err := entries.New(a.catalog, in, a.cfg.Now()())
			if err != nil {
				return err
			}
			added, err := a.store.Add(ctx, entry)
			if err != nil {
				return fmt.Errorf("add entry: %w", err)
			}

			out := cmd.OutOrStdout()
			scheme.Success.Fprintf(out, "logged #%d ", added.ID)
			fmt.Fprintf(out, "%s %s: %gkg x %d x %d (est. 1RM %.1f kg, volume %.0f kg)\n",
				added.Date.Format(entries.DateLayout), added.Exercise,
				added.Weight, added.Reps, added.Sets,
				added.EstimatedOneRepMax, added.Volume,
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&in.Exercise, "exercise", "e", "", "exercise name from the catalog")
	cmd.Flags().Float64VarP(&in.Weight, "weight", "w", 0, "weight in kg")
	cmd.Flags().IntVarP(&in.Reps, "reps", "r", 0, "repetitions per set")
	cmd.Flags().IntVarP(&in.Sets, "sets", "s", 0, "number of sets")
	cmd.Flags().Float64Var(&in.SleepHours, "sleep", 0, "hours slept last night")
	cmd.Flags().StringVar(&in.Notes, "notes", "", "free text notes")
	cmd.Flags().StringVar(&in.Date, "date", "", "training day as YYYY-MM-DD, today when empty")
	_ = cmd.MarkFlagRequired("exercise")

	return cmd
}

func newDeleteLatestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-latest",
		Short: "Delete the most recently logged entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			defer a.close()

			deleted, err := a.store.DeleteLatest(ctx)
			if errors.Is(err, entries.ErrEntryNotFound) {
				scheme.Warn.Fprintln(cmd.OutOrStdout(), "log is empty, nothing to delete")
				return nil
			}
			if err != nil {
				return fmt.Errorf("delete latest entry: %w", err)
			}

			scheme.Success.Fprintf(cmd.OutOrStdout(), "deleted #%d ", deleted.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", deleted.Date.Format(entries.DateLayout), deleted.Exercise)
			return nil
		},
	}
}
