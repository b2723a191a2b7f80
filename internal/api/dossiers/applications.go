package dossiers

import (
	"context"
	"net/http"

	"funding-tracker/internal/api"
	apperrors "funding-tracker/internal/common/errors"
	"funding-tracker/internal/common/httpx"
	"funding-tracker/internal/common/validation"
	"funding-tracker/internal/models"
	"funding-tracker/internal/query"
)

const applicationResource = "Application"

// ListApplications serves GET /api/applications with an assessment on each entry.
func (h *Handler) ListApplications(w http.ResponseWriter, r *http.Request) {
	f, err := query.ParseApplicationFilters(r.URL.Query())
	if err != nil {
		h.errors.Write(w, r, apperrors.NewInvalidFilterFormatError(err.Error()))
		return
	}

	apps, err := h.apps.List(r.Context(), f)
	if err != nil {
		h.errors.Write(w, r, apperrors.NewDatabaseQueryFailedError("list applications", err))
		return
	}
	for i := range apps {
		h.evaluator.Attach(&apps[i])
	}
	httpx.JSON(w, http.StatusOK, apps)
}

// GetApplication serves GET /api/applications/{id}.
func (h *Handler) GetApplication(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := httpx.PathID(r, "id")
	if !ok {
		h.errors.Write(w, r, apperrors.NewInvalidIDError(raw))
		return
	}

	app, err := h.loadDetail(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, app)
}

// CreateApplication serves POST /api/applications and answers with the full
// dossier. Unknown client or opportunity ids are rejected as invalid data.
func (h *Handler) CreateApplication(w http.ResponseWriter, r *http.Request) {
	var in models.NewApplication
	if err := api.Bind(h.validator, validation.SchemaApplicationCreate, r, &in); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	created, err := h.apps.Create(r.Context(), in)
	if err != nil {
		h.errors.Write(w, r, api.StoreError("create application", applicationResource, 0, err))
		return
	}
	h.logger.Info("application created", map[string]interface{}{
		"id":                   created.ID,
		"clientId":             created.ClientID,
		"fundingOpportunityId": created.FundingOpportunityID,
	})

	app, err := h.loadDetail(r.Context(), created.ID)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, app)
}

// UpdateApplication serves PUT /api/applications/{id}.
func (h *Handler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := httpx.PathID(r, "id")
	if !ok {
		h.errors.Write(w, r, apperrors.NewInvalidIDError(raw))
		return
	}

	var patch models.ApplicationPatch
	if err := api.Bind(h.validator, validation.SchemaApplicationUpdate, r, &patch); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if _, err := h.apps.Update(r.Context(), id, patch); err != nil {
		h.errors.Write(w, r, api.StoreError("update application", applicationResource, id, err))
		return
	}

	app, err := h.loadDetail(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, app)
}

// DeleteApplication serves DELETE /api/applications/{id}. Documents go with it.
func (h *Handler) DeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := httpx.PathID(r, "id")
	if !ok {
		h.errors.Write(w, r, apperrors.NewInvalidIDError(raw))
		return
	}

	if err := h.apps.Delete(r.Context(), id); err != nil {
		h.errors.Write(w, r, api.StoreError("delete application", applicationResource, id, err))
		return
	}
	h.logger.Info("application deleted", map[string]interface{}{"id": id})
	httpx.NoContent(w)
}

func (h *Handler) loadDetail(ctx context.Context, id int64) (*models.ApplicationDetail, error) {
	app, err := h.apps.Get(ctx, id)
	if err != nil {
		return nil, api.StoreError("get application", applicationResource, id, err)
	}
	h.evaluator.Attach(app)
	return app, nil
}
