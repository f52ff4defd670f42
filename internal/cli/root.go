// Package cli implements irontool, the command line companion of the service.
// Commands work on the configured store directly, no running service needed.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/2beens/irontracker/internal/catalog"
	"github.com/2beens/irontracker/internal/config"
	"github.com/2beens/irontracker/internal/gymstats/stats"
	"github.com/2beens/irontracker/internal/gymstats/store"
)

var version = "0.1.0"

type app struct {
	env        string
	configPath string
	noColor    bool
	verbose    bool

	cfg      *config.Config
	catalog  *catalog.Catalog
	store    store.Store
	analyzer *stats.Analyzer
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "irontool",
		Short:   "Log workouts and inspect training metrics",
		Version: version,
		Long: `irontool logs workout sets to the Iron Tracker store and prints
recovery, balance and progress views computed from the full log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.noColor {
				color.NoColor = true
			}
			if a.verbose {
				log.SetLevel(log.DebugLevel)
			} else {
				log.SetLevel(log.WarnLevel)
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&a.env, "env", "development", "environment [prod | production | dev | development]")
	root.PersistentFlags().StringVar(&a.configPath, "config", "./config.toml", "path for the TOML config file")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newLogCmd(a),
		newDeleteLatestCmd(a),
		newStatusCmd(a),
		newSummaryCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newPlatesCmd(),
		newSeedCmd(a),
		newTokenCmd(),
	)

	return root
}

// Execute is called by main.main().
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, scheme.Error.Sprint(err))
		return 1
	}
	return 0
}

// open loads config, catalog and store. Callers must close the app.
func (a *app) open(ctx context.Context) error {
	cfg, err := config.Load(a.env, a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	cat, err := cfg.LoadCatalog()
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, cfg.StoreParams(os.Getenv("IRON_POSTGRES_PASSWORD")))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	a.cfg = cfg
	a.catalog = cat
	a.store = st
	a.analyzer = stats.NewAnalyzer(st, cat, cfg.Thresholds, cfg.Now())
	return nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		log.Errorf("close store: %s", err)
	}
	a.store = nil
}
