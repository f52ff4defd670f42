package entries

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/irontracker/internal/catalog"
	"github.com/2beens/irontracker/internal/telemetry/metrics"
	"github.com/2beens/irontracker/internal/telemetry/tracing"
	"github.com/2beens/irontracker/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=entries_mocks_test.go -package=entries_test

type entriesRepo interface {
	Add(ctx context.Context, entry Entry) (*Entry, error)
	ListAll(ctx context.Context) ([]Entry, error)
	DeleteLatest(ctx context.Context) (*Entry, error)
}

type ListResponse struct {
	Entries []Entry `json:"entries"`
	Total   int     `json:"total"`
}

type DeleteLatestResponse struct {
	DeletedID int `json:"deletedId"`
}

type CatalogResponse struct {
	Exercises []catalog.Exercise `json:"exercises"`
	KeyLifts  []string           `json:"keyLifts"`
}

type Handler struct {
	repo           entriesRepo
	catalog        *catalog.Catalog
	metricsManager *metrics.Manager
	now            func() time.Time
}

// NewHandler takes now so that "today" is taken in the configured timezone.
func NewHandler(
	repo entriesRepo,
	cat *catalog.Catalog,
	metricsManager *metrics.Manager,
	now func() time.Time,
) *Handler {
	return &Handler{
		repo:           repo,
		catalog:        cat,
		metricsManager: metricsManager,
		now:            now,
	}
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.entries.add")
	defer span.End()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), pkg.ContentType.JSON) {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var input LogInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Tracef("new entry, unmarshal json params: %s", err)
		http.Error(w, "add entry failed", http.StatusBadRequest)
		return
	}

	entry, err := New(handler.catalog, input, handler.now())
	if err != nil {
		log.Debugf("new entry rejected: %s", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added, err := handler.repo.Add(ctx, entry)
	if err != nil {
		log.Errorf("failed to add new entry [%s]: %s", entry.Exercise, err)
		http.Error(w, "error, failed to add new entry", http.StatusInternalServerError)
		return
	}
	handler.metricsManager.CounterEntriesLogged.Inc()

	addedJson, err := json.Marshal(added)
	if err != nil {
		log.Errorf("failed to marshal new entry: %s", err)
		http.Error(w, "error, failed to add new entry", http.StatusInternalServerError)
		return
	}

	log.Debugf("new entry added: %s", addedJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.entries.list")
	defer span.End()

	all, err := handler.repo.ListAll(ctx)
	if err != nil {
		log.Errorf("list entries: %s", err)
		http.Error(w, "failed to get entries", http.StatusInternalServerError)
		return
	}
	if all == nil {
		all = []Entry{}
	}

	resJson, err := json.Marshal(ListResponse{
		Entries: all,
		Total:   len(all),
	})
	if err != nil {
		log.Errorf("marshal entries error: %s", err)
		http.Error(w, "marshal entries error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(resJson))
}

func (handler *Handler) HandleDeleteLatest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.entries.delete_latest")
	defer span.End()

	deleted, err := handler.repo.DeleteLatest(ctx)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			http.Error(w, "no entries to delete", http.StatusNotFound)
			return
		}
		log.Errorf("delete latest entry: %s", err)
		http.Error(w, "failed to delete latest entry", http.StatusInternalServerError)
		return
	}
	handler.metricsManager.CounterEntriesDeleted.Inc()

	log.Debugf("deleted entry %d [%s]", deleted.ID, deleted.Exercise)

	resJson, err := json.Marshal(DeleteLatestResponse{DeletedID: deleted.ID})
	if err != nil {
		log.Errorf("marshal delete response: %s", err)
		http.Error(w, "marshal delete response error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(resJson))
}

func (handler *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.entries.catalog")
	defer span.End()

	resJson, err := json.Marshal(CatalogResponse{
		Exercises: handler.catalog.Exercises(),
		KeyLifts:  handler.catalog.KeyLifts(),
	})
	if err != nil {
		log.Errorf("marshal catalog: %s", err)
		http.Error(w, "marshal catalog error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, string(resJson))
}
