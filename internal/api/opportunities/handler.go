// Package opportunities serves the funding opportunity catalog.
package opportunities

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"funding-tracker/internal/api"
	apperrors "funding-tracker/internal/common/errors"
	"funding-tracker/internal/common/httpx"
	"funding-tracker/internal/common/logger"
	"funding-tracker/internal/common/metrics"
	"funding-tracker/internal/common/validation"
	"funding-tracker/internal/models"
	"funding-tracker/internal/query"
	"funding-tracker/internal/search"
)

const resource = "Funding opportunity"

type Repository interface {
	List(ctx context.Context, f query.Filters) ([]models.FundingOpportunity, error)
	Get(ctx context.Context, id int64) (*models.FundingOpportunity, error)
	GetMany(ctx context.Context, ids []int64) ([]models.FundingOpportunity, error)
	Create(ctx context.Context, in models.NewFundingOpportunity) (*models.FundingOpportunity, error)
	Update(ctx context.Context, id int64, patch models.OpportunityPatch) (*models.FundingOpportunity, error)
	Delete(ctx context.Context, id int64) error
	Statistics(ctx context.Context, now time.Time) (*models.FundingStatistics, error)
}

// Cache is satisfied by *cache.OpportunityCache, including a nil one.
type Cache interface {
	Get(ctx context.Context, id int64) (*models.FundingOpportunity, bool)
	Set(ctx context.Context, o *models.FundingOpportunity)
	Invalidate(ctx context.Context, id int64)
}

type noCache struct{}

func (noCache) Get(context.Context, int64) (*models.FundingOpportunity, bool) { return nil, false }
func (noCache) Set(context.Context, *models.FundingOpportunity) {}
func (noCache) Invalidate(context.Context, int64) {}

type Index interface {
	Upsert(ctx context.Context, o *models.FundingOpportunity) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, text string, f query.Filters, size int) ([]int64, error)
}

type Handler struct {
	repo      Repository
	cache     Cache
	index     Index
	validator *validation.Validator
	errors    *apperrors.ErrorHandler
	logger    logger.Logger
	now       func() time.Time
}

// NewHandler wires the catalog endpoints. cache and index may be nil when
// those features are disabled.
func NewHandler(repo Repository, cache Cache, index Index, v *validation.Validator, errs *apperrors.ErrorHandler, log logger.Logger) *Handler {
	if cache == nil {
		cache = noCache{}
	}
	return &Handler{
		repo:      repo,
		cache:     cache,
		index:     index,
		validator: v,
		errors:    errs,
		logger:    log.WithFields(map[string]interface{}{"handler": "opportunities"}),
		now:       time.Now,
	}
}

// List serves GET /api/funding-opportunities. Unparseable filters fall back to
// the default listing instead of failing the request.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f, ok := query.FromValues(r.URL.Query())
	if !ok {
		metrics.OpportunityFilterRejections.Inc()
		h.logger.Warn("discarding malformed filters", map[string]interface{}{"query": r.URL.RawQuery})
	}
	metrics.OpportunityQueries.WithLabelValues(string(f.SortBy), strconv.FormatBool(f.Active())).Inc()

	list, err := h.repo.List(r.Context(), f)
	if err != nil {
		h.errors.Write(w, r, apperrors.NewDatabaseQueryFailedError("list opportunities", err))
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// Search serves GET /api/funding-opportunities/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	if h.index == nil {
		h.errors.Write(w, r, apperrors.NewSearchUnavailableError("search is disabled"))
		return
	}

	values := r.URL.Query()
	f, err := query.ParseFilters(values)
	if err != nil {
		h.errors.Write(w, r, apperrors.NewInvalidFilterFormatError(err.Error()))
		return
	}
	size := 0
	if raw := values.Get("limit"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil || size < 0 {
			h.errors.Write(w, r, apperrors.NewInvalidFilterFormatError("limit: must be a non-negative integer"))
			return
		}
	}

	ids, err := h.index.Search(r.Context(), values.Get("q"), f, size)
	if err != nil {
		if errors.Is(err, search.ErrUnavailable) {
			h.errors.Write(w, r, apperrors.NewSearchUnavailableError(err.Error()))
			return
		}
		h.errors.Write(w, r, apperrors.NewSearchFailedError(err))
		return
	}

	list, err := h.repo.GetMany(r.Context(), ids)
	if err != nil {
		h.errors.Write(w, r, apperrors.NewDatabaseQueryFailedError("load search hits", err))
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

// Get serves GET /api/funding-opportunities/{id} through the cache.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := httpx.PathID(r, "id")
	if !ok {
		h.errors.Write(w, r, apperrors.NewInvalidIDError(raw))
		return
	}

	if o, hit := h.cache.Get(r.Context(), id); hit {
		httpx.JSON(w, http.StatusOK, o)
		return
	}

	o, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, api.StoreError("get opportunity", resource, id, err))
		return
	}
	h.cache.Set(r.Context(), o)
	httpx.JSON(w, http.StatusOK, o)
}

// Create serves POST /api/funding-opportunities.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.NewFundingOpportunity
	if err := api.Bind(h.validator, validation.SchemaOpportunityCreate, r, &in); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if verr := validation.CheckAmountRange(in.MinAmount, in.MaxAmount); verr != nil {
		h.errors.Write(w, r, api.ValidationFailed(*verr))
		return
	}

	o, err := h.repo.Create(r.Context(), in)
	if err != nil {
		h.errors.Write(w, r, api.StoreError("create opportunity", resource, 0, err))
		return
	}

	h.logger.Info("opportunity created", map[string]interface{}{"id": o.ID, "title": o.Title})
	h.reindex(r.Context(), o)
	httpx.JSON(w, http.StatusCreated, o)
}

// Update serves PUT /api/funding-opportunities/{id}. Only fields present in the
// body change.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := httpx.PathID(r, "id")
	if !ok {
		h.errors.Write(w, r, apperrors.NewInvalidIDError(raw))
		return
	}

	var patch models.OpportunityPatch
	if err := api.Bind(h.validator, validation.SchemaOpportunityUpdate, r, &patch); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if patch.MinAmount.Set && patch.MaxAmount.Set {
		if verr := validation.CheckAmountRange(patch.MinAmount.Value, patch.MaxAmount.Value); verr != nil {
			h.errors.Write(w, r, api.ValidationFailed(*verr))
			return
		}
	}

	o, err := h.repo.Update(r.Context(), id, patch)
	if err != nil {
		h.errors.Write(w, r, api.StoreError("update opportunity", resource, id, err))
		return
	}

	h.cache.Invalidate(r.Context(), id)
	h.reindex(r.Context(), o)
	httpx.JSON(w, http.StatusOK, o)
}

// Delete serves DELETE /api/funding-opportunities/{id}. An opportunity that
// dossiers still reference is kept and a 409 returned.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := httpx.PathID(r, "id")
	if !ok {
		h.errors.Write(w, r, apperrors.NewInvalidIDError(raw))
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.errors.Write(w, r, api.StoreError("delete opportunity", resource, id, err))
		return
	}

	h.cache.Invalidate(r.Context(), id)
	if h.index != nil {
		if err := h.index.Delete(r.Context(), id); err != nil {
			h.logger.Warn("search index delete failed", map[string]interface{}{"id": id, "error": err.Error()})
		}
	}
	h.logger.Info("opportunity deleted", map[string]interface{}{"id": id})
	httpx.NoContent(w)
}

// Statistics serves GET /api/funding-statistics. It is computed on every call.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	st, err := h.repo.Statistics(r.Context(), h.now().UTC())
	if err != nil {
		h.errors.Write(w, r, apperrors.NewDatabaseQueryFailedError("funding statistics", err))
		return
	}
	httpx.JSON(w, http.StatusOK, st)
}

// reindex keeps the search index in step with a write. Postgres stays the
// source of truth, so failures are only logged.
func (h *Handler) reindex(ctx context.Context, o *models.FundingOpportunity) {
	if h.index == nil {
		return
	}
	if err := h.index.Upsert(ctx, o); err != nil {
		h.logger.Warn("search index update failed", map[string]interface{}{"id": o.ID, "error": err.Error()})
	}
}
