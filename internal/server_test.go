package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/irontracker/internal/config"
	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/gymstats/store"
	"github.com/2beens/irontracker/internal/middleware"
	"github.com/2beens/irontracker/pkg"
)

func newTestServer(t *testing.T, tokenHash string) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		Environment:       "development",
		Timezone:          "UTC",
		StoreBackend:      store.BackendSQLite,
		SQLitePath:        filepath.Join(t.TempDir(), "iron.db"),
		ReportCacheSizeMB: 8,
		ReportCacheTTL:    time.Minute,
	}
	require.NoError(t, cfg.Validate())

	s, err := NewServer(context.Background(), NewServerParams{
		Config:      cfg,
		TokenHash:   tokenHash,
		VersionInfo: "test-version",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, s.store.Close())
	})

	srv := httptest.NewServer(s.routerSetup())
	t.Cleanup(srv.Close)
	return srv
}

func postEntry(t *testing.T, srv *httptest.Server, body, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/entries", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", pkg.ContentType.JSON)
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestServer_LogListDelete(t *testing.T) {
	srv := newTestServer(t, "")

	resp := postEntry(t, srv, `{"date":"2024-06-01","exercise":"Squat","weight":100,"reps":5,"sets":3,"sleepHours":7}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postEntry(t, srv, `{"date":"2024-06-02","exercise":"Bench Press","weight":80,"reps":8,"sets":3}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postEntry(t, srv, `{"exercise":"Underwater Basket Weaving","weight":1,"reps":1,"sets":1}`, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	listResp, err := srv.Client().Get(srv.URL + "/entries")
	require.NoError(t, err)
	defer listResp.Body.Close()
	require.Equal(t, http.StatusOK, listResp.StatusCode)

	var list entries.ListResponse
	require.NoError(t, json.NewDecoder(listResp.Body).Decode(&list))
	require.Equal(t, 2, list.Total)
	assert.Equal(t, "Squat", list.Entries[0].Exercise)
	assert.Equal(t, "Bench Press", list.Entries[1].Exercise)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/entries/latest", nil)
	require.NoError(t, err)
	delResp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer delResp.Body.Close()
	assert.Equal(t, http.StatusOK, delResp.StatusCode)

	listResp2, err := srv.Client().Get(srv.URL + "/entries")
	require.NoError(t, err)
	defer listResp2.Body.Close()
	require.NoError(t, json.NewDecoder(listResp2.Body).Decode(&list))
	assert.Equal(t, 1, list.Total)
}

func TestServer_ReadRoutes(t *testing.T) {
	srv := newTestServer(t, "")

	resp := postEntry(t, srv, `{"exercise":"Deadlift","weight":140,"reps":5,"sets":2}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = postEntry(t, srv, `{"exercise":"Overhead Press","weight":50,"reps":8,"sets":3}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	for _, tc := range []struct {
		path        string
		contentType string
	}{
		{"/catalog", pkg.ContentType.JSON},
		{"/stats/recovery", pkg.ContentType.JSON},
		{"/stats/balance", pkg.ContentType.JSON},
		{"/stats/calendar/2024/6", pkg.ContentType.JSON},
		{"/stats/trend?exercise=Deadlift", pkg.ContentType.JSON},
		{"/stats/summary", pkg.ContentType.JSON},
		{"/stats/report", pkg.ContentType.JSON},
		{"/stats/correlation", pkg.ContentType.JSON},
		{"/tools/plates?target=100", pkg.ContentType.JSON},
		{"/export/csv", pkg.ContentType.CSV},
		{"/export/pdf", pkg.ContentType.PDF},
		{"/charts/balance.png", pkg.ContentType.PNG},
		{"/charts/recovery.png", pkg.ContentType.PNG},
	} {
		t.Run(tc.path, func(t *testing.T) {
			resp, err := srv.Client().Get(srv.URL + tc.path)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), tc.contentType), resp.Header.Get("Content-Type"))
		})
	}

	resp2, err := srv.Client().Get(srv.URL + "/nothing-here")
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestServer_WritesNeedToken(t *testing.T) {
	token := "lift-heavy"
	hash, err := pkg.HashToken(token, 4)
	require.NoError(t, err)
	srv := newTestServer(t, hash)

	body := `{"exercise":"Squat","weight":100,"reps":5,"sets":3}`
	assert.Equal(t, http.StatusUnauthorized, postEntry(t, srv, body, "").StatusCode)
	assert.Equal(t, http.StatusUnauthorized, postEntry(t, srv, body, "nope").StatusCode)
	assert.Equal(t, http.StatusCreated, postEntry(t, srv, body, token).StatusCode)

	// reads stay open
	resp, err := srv.Client().Get(srv.URL + "/entries")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGracefulShutdown_NotServing(t *testing.T) {
	cfg := &config.Config{
		Timezone:          "UTC",
		StoreBackend:      store.BackendSQLite,
		SQLitePath:        filepath.Join(t.TempDir(), "iron.db"),
		ReportCacheSizeMB: 8,
		ReportCacheTTL:    time.Minute,
	}
	s, err := NewServer(context.Background(), NewServerParams{Config: cfg})
	require.NoError(t, err)
	s.metricsManager.GaugeLifeSignal.Set(1)

	s.GracefulShutdown()
	assert.Equal(t, float64(0), testutil.ToFloat64(s.metricsManager.GaugeLifeSignal))
}
