package dossiers

import (
	"errors"
	"net/http"

	"funding-tracker/internal/api"
	apperrors "funding-tracker/internal/common/errors"
	"funding-tracker/internal/common/httpx"
	"funding-tracker/internal/common/validation"
	"funding-tracker/internal/models"
	"funding-tracker/internal/store"
)

const documentResource = "Document"

// ListDocuments serves GET /api/applications/{id}/documents.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := httpx.PathID(r, "id")
	if !ok {
		h.errors.Write(w, r, apperrors.NewInvalidIDError(raw))
		return
	}

	if _, err := h.apps.Get(r.Context(), id); err != nil {
		h.errors.Write(w, r, api.StoreError("get application", applicationResource, id, err))
		return
	}

	docs, err := h.docs.ListByApplication(r.Context(), id)
	if err != nil {
		h.errors.Write(w, r, apperrors.NewDatabaseQueryFailedError("list documents", err))
		return
	}
	httpx.JSON(w, http.StatusOK, docs)
}

// CreateDocument serves POST /api/applications/{id}/documents. Only metadata is
// recorded; file contents are not stored.
func (h *Handler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := httpx.PathID(r, "id")
	if !ok {
		h.errors.Write(w, r, apperrors.NewInvalidIDError(raw))
		return
	}

	var in models.NewDocument
	if err := api.Bind(h.validator, validation.SchemaDocumentCreate, r, &in); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	in.ApplicationID = id

	doc, err := h.docs.Create(r.Context(), in)
	if err != nil {
		// the only foreign key on documents is the owning application
		if errors.Is(err, store.ErrInvalidReference) {
			h.errors.Write(w, r, apperrors.NewNotFoundError(applicationResource, id))
			return
		}
		h.errors.Write(w, r, api.StoreError("create document", documentResource, 0, err))
		return
	}
	h.logger.Info("document recorded", map[string]interface{}{
		"id":            doc.ID,
		"applicationId": id,
		"documentType":  doc.DocumentType,
	})
	httpx.JSON(w, http.StatusCreated, doc)
}

// DeleteDocument serves DELETE /api/documents/{id}.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, raw, ok := httpx.PathID(r, "id")
	if !ok {
		h.errors.Write(w, r, apperrors.NewInvalidIDError(raw))
		return
	}

	if err := h.docs.Delete(r.Context(), id); err != nil {
		h.errors.Write(w, r, api.StoreError("delete document", documentResource, id, err))
		return
	}
	httpx.NoContent(w)
}

// Catalog serves GET /api/document-catalog.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]interface{}{
		"requiredDocuments": h.evaluator.Catalog(),
	})
}
