package charts

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/irontracker/internal/catalog"
	"github.com/2beens/irontracker/internal/gymstats/stats"
	"github.com/2beens/irontracker/internal/telemetry/tracing"
	"github.com/2beens/irontracker/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=charts_mocks_test.go -package=charts_test

type statsSource interface {
	Balance(ctx context.Context) (*stats.Balance, error)
	Trend(ctx context.Context, exercise string) ([]stats.TrendPoint, error)
	Recovery(ctx context.Context) ([]stats.MuscleRecovery, error)
}

type Handler struct {
	analyzer statsSource
}

func NewHandler(analyzer statsSource) *Handler {
	return &Handler{
		analyzer: analyzer,
	}
}

func (handler *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.charts.balance")
	defer span.End()

	b, err := handler.analyzer.Balance(ctx)
	if err != nil {
		log.Errorf("balance chart: %s", err)
		http.Error(w, "failed to get push/pull balance", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	writePNG(w, &buf, Balance(&buf, *b))
}

func (handler *Handler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.charts.trend")
	defer span.End()

	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		http.Error(w, "exercise not provided", http.StatusBadRequest)
		return
	}

	points, err := handler.analyzer.Trend(ctx, exercise)
	if errors.Is(err, catalog.ErrUnknownExercise) {
		http.Error(w, "unknown exercise", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("trend chart [%s]: %s", exercise, err)
		http.Error(w, "failed to get 1rm trend", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	writePNG(w, &buf, Trend(&buf, exercise, points))
}

func (handler *Handler) HandleRecovery(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.charts.recovery")
	defer span.End()

	matrix, err := handler.analyzer.Recovery(ctx)
	if err != nil {
		log.Errorf("recovery chart: %s", err)
		http.Error(w, "failed to get recovery", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	writePNG(w, &buf, Recovery(&buf, matrix))
}

// writePNG sends the rendered chart. An empty log is not an error, the
// client gets a 200 with a short text message instead of an image.
func writePNG(w http.ResponseWriter, buf *bytes.Buffer, renderErr error) {
	if errors.Is(renderErr, ErrNoData) {
		pkg.WriteTextResponseOK(w, ErrNoData.Error())
		return
	}
	if renderErr != nil {
		log.Errorf("render chart: %s", renderErr)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.PNG, buf.Bytes())
}
