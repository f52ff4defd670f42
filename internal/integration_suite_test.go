//go:build integration_test || all_tests

package internal_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/suite"

	"github.com/2beens/irontracker/internal"
	"github.com/2beens/irontracker/internal/config"
	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/gymstats/export"
	"github.com/2beens/irontracker/internal/gymstats/stats"
	"github.com/2beens/irontracker/internal/gymstats/store"
	"github.com/2beens/irontracker/pkg"
)

const (
	serverPort  = 9000
	metricsPort = 9001
	serverHost  = "127.0.0.1"
	pgPassword  = "postgres"
)

var serverEndpoint = fmt.Sprintf("http://%s:%d", serverHost, serverPort)

type IntegrationTestSuite struct {
	suite.Suite

	DB         *sql.DB
	dockerPool *dockertest.Pool
	server     *internal.Server
	httpClient *http.Client
	teardown   []func()
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	s.httpClient = &http.Client{Timeout: 10 * time.Second}

	var err error
	s.dockerPool, err = dockertest.NewPool("")
	if err != nil {
		log.Fatalf("could not create new dockertest pool: %s", err)
	}
	if err = s.dockerPool.Client.Ping(); err != nil {
		log.Fatalf("could not ping dockertest pool: %s", err)
	}

	pgPort, err := s.postgresSetup()
	if err != nil {
		s.cleanup()
		log.Fatalf("failed to setup postgres: %s", err)
	}

	cfg := &config.Config{
		Environment:           "development",
		Host:                  serverHost,
		Port:                  serverPort,
		PrometheusMetricsHost: serverHost,
		PrometheusMetricsPort: metricsPort,
		Timezone:              "UTC",
		StoreBackend:          store.BackendPostgres,
		PostgresHost:          "localhost",
		PostgresPort:          pgPort,
		PostgresDBName:        "irontracker",
		PostgresUser:          "postgres",
		ReportCacheSizeMB:     8,
		ReportCacheTTL:        time.Minute,
		Thresholds:            stats.DefaultThresholds(),
	}
	s.Require().NoError(cfg.Validate())

	s.server, err = internal.NewServer(ctx, internal.NewServerParams{
		Config:           cfg,
		PostgresPassword: pgPassword,
		VersionInfo:      "test-version-info",
	})
	if err != nil {
		s.cleanup()
		log.Fatalf("new server: %s", err)
	}
	s.server.Serve(cfg.Host, cfg.Port)

	s.Require().Eventually(func() bool {
		resp, err := s.httpClient.Get(serverEndpoint + "/catalog")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond)
}

func (s *IntegrationTestSuite) TearDownSuite() {
	s.cleanup()
}

func (s *IntegrationTestSuite) SetupTest() {
	_, err := s.DB.Exec("DELETE FROM workout_log")
	s.Require().NoError(err)
}

func (s *IntegrationTestSuite) cleanup() {
	if s.DB != nil {
		if err := s.DB.Close(); err != nil {
			log.Printf(" --> test suite db close error: %s", err)
		}
	}
	if s.server != nil {
		s.server.GracefulShutdown()
	}
	for _, teardown := range s.teardown {
		teardown()
	}
}

func (s *IntegrationTestSuite) postgresSetup() (string, error) {
	pgResource, err := s.dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=" + pgPassword,
			"POSTGRES_DB=irontracker",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return "", fmt.Errorf("dockerpool run postgres: %s", err)
	}
	s.teardown = append(s.teardown, func() {
		if err := pgResource.Close(); err != nil {
			log.Printf("postgres teardown: %s", err)
		}
	})

	pgPort := pgResource.GetPort("5432/tcp")
	dsn := fmt.Sprintf("postgres://postgres:%s@localhost:%s/irontracker?sslmode=disable", pgPassword, pgPort)
	if err := s.dockerPool.Retry(func() error {
		var err error
		s.DB, err = sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		return s.DB.Ping()
	}); err != nil {
		return "", fmt.Errorf("could not connect to postgres: %s", err)
	}
	return pgPort, nil
}

func (s *IntegrationTestSuite) logEntry(in entries.LogInput) entries.Entry {
	body, err := json.Marshal(in)
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, serverEndpoint+"/entries", bytes.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", pkg.ContentType.JSON)

	resp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var added entries.Entry
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&added))
	return added
}

func (s *IntegrationTestSuite) getJSON(path string, v any) {
	resp, err := s.httpClient.Get(serverEndpoint + path)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode, path)
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(v))
}

func (s *IntegrationTestSuite) TestLogAndDerivedViews() {
	today := time.Now().UTC().Format(entries.DateLayout)
	squat := s.logEntry(entries.LogInput{Date: today, Exercise: "Squat", Weight: 100, Reps: 5, Sets: 3, SleepHours: 8})
	s.Equal("Legs", squat.MuscleGroup)
	s.InDelta(116.67, squat.EstimatedOneRepMax, 0.01)
	s.Equal(1500.0, squat.Volume)

	s.logEntry(entries.LogInput{Date: today, Exercise: "Bench Press", Weight: 80, Reps: 8, Sets: 3})

	var list entries.ListResponse
	s.getJSON("/entries", &list)
	s.Equal(2, list.Total)

	var recovery []stats.MuscleRecovery
	s.getJSON("/stats/recovery", &recovery)
	s.NotEmpty(recovery)
	for _, m := range recovery {
		if m.MuscleGroup == "Legs" || m.MuscleGroup == "Chest" {
			s.Equal(stats.StatusRecovering, m.Status)
		}
	}

	var summary stats.Summary
	s.getJSON("/stats/summary", &summary)
	s.Equal(2, summary.Entries)
	s.Equal(1, summary.Sessions)
	s.Equal(1500.0+1920.0, summary.TotalVolume)
}

func (s *IntegrationTestSuite) TestImportExportDeleteLatest() {
	csvBody := strings.Join(entries.Columns, ",") + "\n" +
		"2024-05-01,Deadlift,Back,140,5,2,7,,163.33,1400\n" +
		"2024-05-03,Overhead Press,Shoulders,50,8,3,6.5,felt light,63.33,1200\n" +
		"not-a-date,Squat,Legs,100,5,3,8,,116.67,1500\n"

	resp, err := s.httpClient.Post(serverEndpoint+"/entries/import", pkg.ContentType.CSV, strings.NewReader(csvBody))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var imported export.ImportResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&imported))
	s.Equal(2, imported.Imported)
	s.Equal(1, imported.Skipped)

	csvResp, err := s.httpClient.Get(serverEndpoint + "/export/csv")
	s.Require().NoError(err)
	defer csvResp.Body.Close()
	exported, err := io.ReadAll(csvResp.Body)
	s.Require().NoError(err)
	s.Contains(string(exported), "2024-05-03,Overhead Press")

	req, err := http.NewRequest(http.MethodDelete, serverEndpoint+"/entries/latest", nil)
	s.Require().NoError(err)
	delResp, err := s.httpClient.Do(req)
	s.Require().NoError(err)
	defer delResp.Body.Close()
	s.Require().Equal(http.StatusOK, delResp.StatusCode)

	var list entries.ListResponse
	s.getJSON("/entries", &list)
	s.Require().Equal(1, list.Total)
	s.Equal("Deadlift", list.Entries[0].Exercise)
}
