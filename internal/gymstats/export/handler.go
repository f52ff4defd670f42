package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/irontracker/internal/gymstats/entries"
	"github.com/2beens/irontracker/internal/gymstats/stats"
	"github.com/2beens/irontracker/internal/telemetry/metrics"
	"github.com/2beens/irontracker/internal/telemetry/tracing"
	"github.com/2beens/irontracker/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=export_mocks_test.go -package=export_test

const maxImportBytes = 10 << 20

type entriesRepo interface {
	ListAll(ctx context.Context) ([]entries.Entry, error)
	AddBatch(ctx context.Context, batch []entries.Entry) (int, error)
}

type overviewer interface {
	Overview(ctx context.Context) (*stats.Overview, error)
}

type ImportResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type Handler struct {
	repo           entriesRepo
	analyzer       overviewer
	reportCache    *ReportCache
	metricsManager *metrics.Manager
}

func NewHandler(
	repo entriesRepo,
	analyzer overviewer,
	reportCache *ReportCache,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		analyzer:       analyzer,
		reportCache:    reportCache,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) HandleCSV(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.export.csv")
	defer span.End()

	all, err := handler.repo.ListAll(ctx)
	if err != nil {
		log.Errorf("export csv, list entries: %s", err)
		http.Error(w, "failed to export entries", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, all); err != nil {
		log.Errorf("export csv: %s", err)
		http.Error(w, "failed to export entries", http.StatusInternalServerError)
		return
	}

	pkg.WriteAttachment(w, pkg.ContentType.CSV, "workout_log.csv", buf.Bytes())
}

func (handler *Handler) HandlePDF(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.export.pdf")
	defer span.End()

	ov, err := handler.analyzer.Overview(ctx)
	if err != nil {
		log.Errorf("export pdf, overview: %s", err)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}

	fileName := fmt.Sprintf("iron_report_%s.pdf", ov.Today.Format(entries.DateLayout))
	key := SnapshotKey(ov)
	if cached, ok := handler.reportCache.Get(key); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		handler.metricsManager.CounterReportsRendered.WithLabelValues("hit").Inc()
		pkg.WriteAttachment(w, pkg.ContentType.PDF, fileName, cached)
		return
	}

	var buf bytes.Buffer
	if err := RenderPDF(&buf, ov); err != nil {
		log.Errorf("export pdf, render: %s", err)
		http.Error(w, "failed to render report", http.StatusInternalServerError)
		return
	}
	handler.metricsManager.CounterReportsRendered.WithLabelValues("miss").Inc()

	if err := handler.reportCache.Set(key, buf.Bytes()); err != nil {
		log.Warnf("export pdf, cache report [%d bytes]: %s", buf.Len(), err)
	}

	pkg.WriteAttachment(w, pkg.ContentType.PDF, fileName, buf.Bytes())
}

// HandleImport appends the records of a CSV body as they are, stored derived
// values included.
func (handler *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.export.import")
	defer span.End()

	parsed, skipped, err := ReadCSV(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		log.Tracef("import csv: %s", err)
		http.Error(w, "invalid csv body", http.StatusBadRequest)
		return
	}
	if len(parsed) == 0 {
		http.Error(w, "no entries to import", http.StatusBadRequest)
		return
	}

	imported, err := handler.repo.AddBatch(ctx, parsed)
	if err != nil {
		log.Errorf("import csv, add %d entries: %s", len(parsed), err)
		http.Error(w, "failed to import entries", http.StatusInternalServerError)
		return
	}
	handler.metricsManager.CounterEntriesImported.Add(float64(imported))
	span.SetAttributes(attribute.Int("imported", imported), attribute.Int("skipped", skipped))

	resp, err := json.Marshal(ImportResponse{Imported: imported, Skipped: skipped})
	if err != nil {
		log.Errorf("marshal import response: %s", err)
		http.Error(w, "failed to import entries", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resp, http.StatusCreated)
}
