// Package store opens the single-table workout log backend selected in config.
package store

import (
	"context"
	"fmt"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/irontracker/internal/db"
	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/gymstats/store/postgres"
	"github.com/2beens/irontracker/internal/gymstats/store/sheets"
	"github.com/2beens/irontracker/internal/gymstats/store/sqlite"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendSheets   = "sheets"
)

// Store is the storage-access object threaded through every read and write.
type Store interface {
	Add(ctx context.Context, entry entries.Entry) (*entries.Entry, error)
	AddBatch(ctx context.Context, batch []entries.Entry) (int, error)
	ListAll(ctx context.Context) ([]entries.Entry, error)
	DeleteLatest(ctx context.Context) (*entries.Entry, error)
	Close() error
}

var (
	_ Store = (*sqlite.Repo)(nil)
	_ Store = (*postgres.Repo)(nil)
	_ Store = (*sheets.Repo)(nil)
)

type Params struct {
	Backend string

	SQLitePath string

	PostgresHost     string
	PostgresPort     string
	PostgresDBName   string
	PostgresUser     string
	PostgresPassword string

	SheetsSpreadsheetID   string
	SheetsWorksheet       string
	SheetsCredentialsFile string

	TracingEnabled bool
	// PromRegisterer, when set, gets the postgres pool collector.
	PromRegisterer prometheus.Registerer
}

func Open(ctx context.Context, params Params) (Store, error) {
	switch params.Backend {
	case BackendSQLite, "":
		log.Debugf("using sqlite store: %s", params.SQLitePath)
		return sqlite.NewRepo(ctx, params.SQLitePath)
	case BackendPostgres:
		pool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         params.PostgresHost,
			DBPort:         params.PostgresPort,
			DBName:         params.PostgresDBName,
			DBUser:         params.PostgresUser,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.TracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		if params.PromRegisterer != nil {
			params.PromRegisterer.MustRegister(pgxpoolprometheus.NewCollector(
				pool,
				map[string]string{"db_name": params.PostgresDBName},
			))
		}

		repo := postgres.NewRepo(pool)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		log.Debugf("using postgres store: %s:%s/%s", params.PostgresHost, params.PostgresPort, params.PostgresDBName)
		return repo, nil
	case BackendSheets:
		repo, err := sheets.NewRepoFromCredentialsFile(ctx, params.SheetsCredentialsFile, params.SheetsSpreadsheetID, params.SheetsWorksheet)
		if err != nil {
			return nil, fmt.Errorf("new sheets repo: %w", err)
		}
		log.Debugf("using google sheets store: %s/%s", params.SheetsSpreadsheetID, params.SheetsWorksheet)
		return repo, nil
	default:
		return nil, fmt.Errorf("unknown store backend [%s]", params.Backend)
	}
}
