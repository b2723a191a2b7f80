package dossiers

import (
	"net/http"

	"funding-tracker/internal/api"
	apperrors "funding-tracker/internal/common/errors"
	"funding-tracker/internal/common/httpx"
	"funding-tracker/internal/common/validation"
	"funding-tracker/internal/models"
)

const clientResource = "Client"

func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.clients.List(r.Context())
	if err != nil {
		h.errors.Write(w, r, apperrors.NewDatabaseQueryFailedError("list clients", err))
		return
	}
	httpx.JSON(w, http.StatusOK, clients)
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := httpx.PathID(r, "id")
	if !ok {
		h.errors.Write(w, r, apperrors.NewInvalidIDError(raw))
		return
	}

	c, err := h.clients.Get(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, api.StoreError("get client", clientResource, id, err))
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

// CreateClient serves POST /api/clients. structureType defaults to Privé.
func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var in models.NewClient
	if err := api.Bind(h.validator, validation.SchemaClientCreate, r, &in); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	c, err := h.clients.Create(r.Context(), in)
	if err != nil {
		h.errors.Write(w, r, api.StoreError("create client", clientResource, 0, err))
		return
	}
	h.logger.Info("client created", map[string]interface{}{"id": c.ID})
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := httpx.PathID(r, "id")
	if !ok {
		h.errors.Write(w, r, apperrors.NewInvalidIDError(raw))
		return
	}

	var patch models.ClientPatch
	if err := api.Bind(h.validator, validation.SchemaClientUpdate, r, &patch); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	c, err := h.clients.Update(r.Context(), id, patch)
	if err != nil {
		h.errors.Write(w, r, api.StoreError("update client", clientResource, id, err))
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
