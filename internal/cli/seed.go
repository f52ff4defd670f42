package cli

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/spf13/cobra"

	"github.com/2beens/irontracker/internal/catalog"
	"github.com/2beens/irontracker/internal/gymstats/entries"
)

func newSeedCmd(a *app) *cobra.Command {
	var (
		count int
		days  int
		seed  int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the store with fake training history",
		Long: `seed appends randomly generated, catalog valid entries spread over the
last --days days. Meant for demo and local development stores.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 || days < 1 {
				return fmt.Errorf("count and days must be positive")
			}

			ctx := cmd.Context()
			if err := a.open(ctx); err != nil {
				return err
			}
			defer a.close()

			batch, err := fakeEntries(gofakeit.New(seed), a.catalog, a.cfg.Now()(), days, count)
			if err != nil {
				return err
			}
			added, err := a.store.AddBatch(ctx, batch)
			if err != nil {
				return fmt.Errorf("add fake entries: %w", err)
			}

			scheme.Success.Fprintf(cmd.OutOrStdout(), "seeded %d entries over the last %d days\n", added, days)
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 100, "number of entries")
	cmd.Flags().IntVar(&days, "days", 90, "spread entries over this many days back from today")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 picks a random one")
	return cmd
}

// fakeEntries returns count entries in chronological order.
func fakeEntries(faker *gofakeit.Faker, cat *catalog.Catalog, today time.Time, days, count int) ([]entries.Entry, error) {
	exercises := cat.Exercises()
	names := make([]string, 0, len(exercises))
	for _, ex := range exercises {
		names = append(names, ex.Name)
	}

	from := entries.Day(today).AddDate(0, 0, -days)
	step := float64(days) / float64(count)

	batch := make([]entries.Entry, 0, count)
	for i := 0; i < count; i++ {
		day := from.AddDate(0, 0, int(float64(i)*step)+1)
		e, err := entries.New(cat, entries.LogInput{
			Date:       day.Format(entries.DateLayout),
			Exercise:   faker.RandomString(names),
			Weight:     float64(faker.IntRange(8, 80)) * 2.5,
			Reps:       faker.IntRange(1, 12),
			Sets:       faker.IntRange(1, 5),
			SleepHours: float64(faker.IntRange(10, 18)) / 2,
			Notes:      faker.Sentence(3),
		}, today)
		if err != nil {
			return nil, fmt.Errorf("fake entry %d: %w", i, err)
		}
		batch = append(batch, e)
	}
	return batch, nil
}
