package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/irontracker/internal/catalog"
	"github.com/2beens/irontracker/internal/gymstats/stats"
	"github.com/2beens/irontracker/internal/gymstats/store"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort int    `toml:"prometheus_metrics_port"`
	// "today" is taken in this zone, IANA name
	Timezone string `toml:"timezone"`
	// empty means the built in catalog
	CatalogPath    string   `toml:"catalog_path"`
	AllowedOrigins []string `toml:"allowed_origins"`
	// store
	StoreBackend          string `toml:"store_backend"`
	SQLitePath            string `toml:"sqlite_path"`
	PostgresHost          string `toml:"postgres_host"`
	PostgresPort          string `toml:"postgres_port"`
	PostgresDBName        string `toml:"postgres_db_name"`
	PostgresUser          string `toml:"postgres_user"`
	SheetsSpreadsheetID   string `toml:"sheets_spreadsheet_id"`
	SheetsWorksheet       string `toml:"sheets_worksheet"`
	SheetsCredentialsFile string `toml:"sheets_credentials_file"`
	// pdf report cache
	ReportCacheSizeMB int           `toml:"report_cache_size_mb"`
	ReportCacheTTL    time.Duration `toml:"report_cache_ttl"`

	Thresholds stats.Thresholds `toml:"thresholds"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the env table of the TOML file at path, applies defaults and
// environment overrides, and validates the result.
func Load(env, path string) (*Config, error) {
	var t Toml
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		return nil, fmt.Errorf("decode config file [%s]: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config for env [%s] missing in [%s]", env, path)
	}

	cfg.applyDefaults(env, thresholdKeySet(md, env))
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// thresholdKeySet reports which [<env>.thresholds] keys the file defines, so
// an explicit zero is not mistaken for a missing value.
func thresholdKeySet(md toml.MetaData, env string) func(key string) bool {
	table := "development"
	if e := strings.ToLower(env); e == "prod" || e == "production" {
		table = "production"
	}
	set := map[string]bool{}
	for _, k := range md.Keys() {
		if len(k) == 3 && strings.EqualFold(k[0], table) && k[1] == "thresholds" {
			set[k[2]] = true
		}
	}
	return func(key string) bool {
		return set[key]
	}
}

func (c *Config) applyDefaults(env string, thresholdSet func(key string) bool) {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	if c.PrometheusMetricsHost == "" {
		c.PrometheusMetricsHost = "localhost"
	}
	if c.PrometheusMetricsPort == 0 {
		c.PrometheusMetricsPort = 2112
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.StoreBackend == "" {
		c.StoreBackend = store.BackendSQLite
	}
	if c.SQLitePath == "" {
		c.SQLitePath = "./data/iron_tracker.db"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.SheetsWorksheet == "" {
		c.SheetsWorksheet = "Sheet1"
	}
	if c.ReportCacheSizeMB == 0 {
		c.ReportCacheSizeMB = 16
	}
	if c.ReportCacheTTL == 0 {
		c.ReportCacheTTL = time.Hour
	}
	c.Thresholds = c.Thresholds.Merge(thresholdSet)
}

func (c *Config) applyEnvOverrides() {
	if path := os.Getenv("IRON_SHEETS_CREDENTIALS"); path != "" {
		c.SheetsCredentialsFile = path
	}
}

func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid timezone [%s]: %w", c.Timezone, err)
	}

	switch c.StoreBackend {
	case store.BackendSQLite:
	case store.BackendPostgres:
		if c.PostgresHost == "" || c.PostgresDBName == "" {
			return fmt.Errorf("postgres store needs postgres_host and postgres_db_name")
		}
	case store.BackendSheets:
		if c.SheetsSpreadsheetID == "" || c.SheetsCredentialsFile == "" {
			return fmt.Errorf("sheets store needs sheets_spreadsheet_id and sheets_credentials_file")
		}
	default:
		return fmt.Errorf("unknown store backend [%s]", c.StoreBackend)
	}

	return c.Thresholds.Validate()
}

// StoreParams maps the store section onto store.Params. Tracing and the
// prometheus registerer are left for the caller.
func (c *Config) StoreParams(postgresPassword string) store.Params {
	return store.Params{
		Backend:               c.StoreBackend,
		SQLitePath:            c.SQLitePath,
		PostgresHost:          c.PostgresHost,
		PostgresPort:          c.PostgresPort,
		PostgresDBName:        c.PostgresDBName,
		PostgresUser:          c.PostgresUser,
		PostgresPassword:      postgresPassword,
		SheetsSpreadsheetID:   c.SheetsSpreadsheetID,
		SheetsWorksheet:       c.SheetsWorksheet,
		SheetsCredentialsFile: c.SheetsCredentialsFile,
	}
}

// LoadCatalog returns the catalog at CatalogPath, or the built in one when
// the path is empty.
func (c *Config) LoadCatalog() (*catalog.Catalog, error) {
	if c.CatalogPath == "" {
		log.Debugln("using built in exercise catalog")
		return catalog.Default()
	}
	cat, err := catalog.LoadFile(c.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load catalog [%s]: %w", c.CatalogPath, err)
	}
	log.Debugf("exercise catalog loaded from [%s]: %d exercises", c.CatalogPath, len(cat.Exercises()))
	return cat, nil
}

func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Now returns a clock in the configured timezone. Falls back to UTC if the
// zone cannot be loaded.
func (c *Config) Now() func() time.Time {
	loc, err := c.Location()
	if err != nil {
		loc = time.UTC
	}
	return func() time.Time {
		return time.Now().In(loc)
	}
}
