package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gorilla/mux"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/2beens/irontracker/internal/catalog"
	"github.com/2beens/irontracker/internal/config"
	"github.com/2beens/irontracker/internal/gymstats/charts"
	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/gymstats/export"
	gymstatsmcp "github.com/2beens/irontracker/internal/gymstats/mcp"
	"github.com/2beens/irontracker/internal/gymstats/stats"
	"github.com/2beens/irontracker/internal/gymstats/store"
	"github.com/2beens/irontracker/internal/middleware"
	"github.com/2beens/irontracker/internal/telemetry/metrics"
	"github.com/2beens/irontracker/internal/telemetry/tracing"
)

// requests bodies larger than this are not drained before close
const maxRequestDrain = 256 << 10

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	tokenHash         string // bcrypt hash of the write token, empty disables the check
	versionInfo       string

	config      *config.Config
	catalog     *catalog.Catalog
	store       store.Store
	analyzer    *stats.Analyzer
	reportCache *export.ReportCache

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	TokenHash               string
	PostgresPassword        string
	VersionInfo             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	cat, err := cfg.LoadCatalog()
	if err != nil {
		return nil, err
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("irontracker", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "irontracker")
	if err != nil {
		return nil, err
	}

	storeParams := cfg.StoreParams(params.PostgresPassword)
	storeParams.TracingEnabled = params.HoneycombTracingEnabled
	storeParams.PromRegisterer = promRegistry
	st, err := store.Open(ctx, storeParams)
	if err != nil {
		otelShutdown()
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &Server{
		tokenHash:   params.TokenHash,
		versionInfo: params.VersionInfo,

		config:      cfg,
		catalog:     cat,
		store:       st,
		analyzer:    stats.NewAnalyzer(st, cat, cfg.Thresholds, cfg.Now()),
		reportCache: export.NewReportCache(cfg.ReportCacheSizeMB<<20, cfg.ReportCacheTTL),

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("irontracker-router"))

	now := s.config.Now()

	entriesHandler := entries.NewHandler(s.store, s.catalog, s.metricsManager, now)
	r.HandleFunc("/entries", entriesHandler.HandleAdd).Methods("POST", "OPTIONS").Name("new-entry")
	r.HandleFunc("/entries", entriesHandler.HandleList).Methods("GET", "OPTIONS").Name("list-entries")
	r.HandleFunc("/entries/latest", entriesHandler.HandleDeleteLatest).Methods("DELETE", "OPTIONS").Name("delete-latest-entry")
	r.HandleFunc("/catalog", entriesHandler.HandleCatalog).Methods("GET", "OPTIONS").Name("catalog")

	exportHandler := export.NewHandler(s.store, s.analyzer, s.reportCache, s.metricsManager)
	r.HandleFunc("/entries/import", exportHandler.HandleImport).Methods("POST", "OPTIONS").Name("import-entries")
	r.HandleFunc("/export/csv", exportHandler.HandleCSV).Methods("GET", "OPTIONS").Name("export-csv")
	r.HandleFunc("/export/pdf", exportHandler.HandlePDF).Methods("GET", "OPTIONS").Name("export-pdf")

	statsHandler := stats.NewHandler(s.analyzer)
	r.HandleFunc("/stats/recovery", statsHandler.HandleRecovery).Methods("GET", "OPTIONS").Name("stats-recovery")
	r.HandleFunc("/stats/balance", statsHandler.HandleBalance).Methods("GET", "OPTIONS").Name("stats-balance")
	r.HandleFunc("/stats/calendar/{year}/{month}", statsHandler.HandleCalendar).Methods("GET", "OPTIONS").Name("stats-calendar")
	r.HandleFunc("/stats/trend", statsHandler.HandleTrend).Methods("GET", "OPTIONS").Name("stats-trend")
	r.HandleFunc("/stats/summary", statsHandler.HandleSummary).Methods("GET", "OPTIONS").Name("stats-summary")
	r.HandleFunc("/stats/report", statsHandler.HandleReport).Methods("GET", "OPTIONS").Name("stats-report")
	r.HandleFunc("/stats/correlation", statsHandler.HandleCorrelation).Methods("GET", "OPTIONS").Name("stats-correlation")
	r.HandleFunc("/tools/plates", statsHandler.HandlePlates).Methods("GET", "OPTIONS").Name("tools-plates")

	chartsHandler := charts.NewHandler(s.analyzer)
	r.HandleFunc("/charts/balance.png", chartsHandler.HandleBalance).Methods("GET", "OPTIONS").Name("chart-balance")
	r.HandleFunc("/charts/trend.png", chartsHandler.HandleTrend).Methods("GET", "OPTIONS").Name("chart-trend")
	r.HandleFunc("/charts/recovery.png", chartsHandler.HandleRecovery).Methods("GET", "OPTIONS").Name("chart-recovery")

	mcpServer := gymstatsmcp.NewServer(s.store, s.analyzer)
	mcpHandler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)
	r.PathPrefix("/mcp").Handler(otelhttp.NewHandler(mcpHandler, "mcp")).Name("mcp")

	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(s.versionInfo))
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.tokenHash, s.metricsManager)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest(maxRequestDrain))

	return r
}

func (s *Server) Serve(host string, port int) {
	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      s.routerSetup(),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, strconv.Itoa(s.config.PrometheusMetricsPort))
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var err error
	if s.httpServer != nil {
		err = multierr.Append(err, s.httpServer.Shutdown(ctx))
		log.Warnln("server shut down")
	}
	if s.metricsHttpServer != nil {
		err = multierr.Append(err, s.metricsHttpServer.Shutdown(ctx))
		log.Warnln("metrics server shut down")
	}

	// store last, handlers could still be reading from it
	if s.store != nil {
		log.Debugln("closing store ...")
		err = multierr.Append(err, s.store.Close())
	}
	if err != nil {
		log.Errorf(" >>> graceful shutdown: %s", err)
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}
