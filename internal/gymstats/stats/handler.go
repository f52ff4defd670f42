package stats

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/irontracker/internal/catalog"
	"github.com/2beens/irontracker/internal/gymstats/lifts"
	"github.com/2beens/irontracker/internal/telemetry/tracing"
	"github.com/2beens/irontracker/pkg"
)

type TrendResponse struct {
	Exercise string       `json:"exercise"`
	Points   []TrendPoint `json:"points"`
}

type PlatesResponse struct {
	Target  float64              `json:"target"`
	Bar     float64              `json:"bar"`
	PerSide lifts.PlateBreakdown `json:"perSide"`
	Message string               `json:"message,omitempty"`
}

type Handler struct {
	analyzer *Analyzer
}

func NewHandler(analyzer *Analyzer) *Handler {
	return &Handler{
		analyzer: analyzer,
	}
}

func (handler *Handler) HandleRecovery(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.recovery")
	defer span.End()

	recovery, err := handler.analyzer.Recovery(ctx)
	if err != nil {
		log.Errorf("get recovery status: %s", err)
		http.Error(w, "failed to get recovery status", http.StatusInternalServerError)
		return
	}

	writeJSON(w, recovery)
}

func (handler *Handler) HandleBalance(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.balance")
	defer span.End()

	balance, err := handler.analyzer.Balance(ctx)
	if err != nil {
		log.Errorf("get push pull balance: %s", err)
		http.Error(w, "failed to get push/pull balance", http.StatusInternalServerError)
		return
	}

	writeJSON(w, balance)
}

func (handler *Handler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.calendar")
	defer span.End()

	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil || year < 1 || year > 9999 {
		http.Error(w, "error, invalid year", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil || month < 1 || month > 12 {
		http.Error(w, "error, invalid month", http.StatusBadRequest)
		return
	}

	grid, err := handler.analyzer.Calendar(ctx, year, time.Month(month))
	if err != nil {
		log.Errorf("get calendar %d/%d: %s", year, month, err)
		http.Error(w, "failed to get calendar", http.StatusInternalServerError)
		return
	}

	writeJSON(w, grid)
}

func (handler *Handler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.trend")
	defer span.End()

	exercise := r.URL.Query().Get("exercise")
	if exercise == "" {
		http.Error(w, "error, exercise empty", http.StatusBadRequest)
		return
	}

	points, err := handler.analyzer.Trend(ctx, exercise)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownExercise) {
			http.Error(w, "error, unknown exercise", http.StatusBadRequest)
			return
		}
		log.Errorf("get 1rm trend [%s]: %s", exercise, err)
		http.Error(w, "failed to get 1rm trend", http.StatusInternalServerError)
		return
	}

	writeJSON(w, TrendResponse{
		Exercise: exercise,
		Points:   points,
	})
}

func (handler *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.summary")
	defer span.End()

	summary, err := handler.analyzer.Summary(ctx)
	if err != nil {
		log.Errorf("get lifetime summary: %s", err)
		http.Error(w, "failed to get summary", http.StatusInternalServerError)
		return
	}

	writeJSON(w, summary)
}

func (handler *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.report")
	defer span.End()

	report, err := handler.analyzer.Report(ctx)
	if err != nil {
		log.Errorf("get period report: %s", err)
		http.Error(w, "failed to get report", http.StatusInternalServerError)
		return
	}

	writeJSON(w, report)
}

func (handler *Handler) HandleCorrelation(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats.correlation")
	defer span.End()

	correlation, err := handler.analyzer.Correlation(ctx)
	if err != nil {
		log.Errorf("get sleep correlation: %s", err)
		http.Error(w, "failed to get correlation", http.StatusInternalServerError)
		return
	}

	writeJSON(w, correlation)
}

// HandlePlates needs no stored data. bar defaults to a 20kg barbell.
func (handler *Handler) HandlePlates(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.tools.plates")
	defer span.End()

	target, err := strconv.ParseFloat(r.URL.Query().Get("target"), 64)
	if err != nil || target < 0 {
		http.Error(w, "error, invalid target weight", http.StatusBadRequest)
		return
	}

	bar := lifts.DefaultBarWeight
	if barStr := r.URL.Query().Get("bar"); barStr != "" {
		bar, err = strconv.ParseFloat(barStr, 64)
		if err != nil || bar < 0 {
			http.Error(w, "error, invalid bar weight", http.StatusBadRequest)
			return
		}
	}

	if err := lifts.CheckPlates(target, bar); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	resp := PlatesResponse{
		Target:  target,
		Bar:     bar,
		PerSide: lifts.Plates(target, bar),
	}
	if target <= bar {
		resp.Message = "Target does not exceed the bar, no plates needed."
	}

	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	resJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal stats response: %s", err)
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, resJson)
}
