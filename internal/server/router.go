// Package server assembles the HTTP surface of the service.
package server

import (
	"context"
	"net/http"
	"time"

	"funding-tracker/internal/api/dossiers"
	"funding-tracker/internal/api/opportunities"
	apperrors "funding-tracker/internal/common/errors"
	"funding-tracker/internal/common/httpx"
	"funding-tracker/internal/common/logger"
	"funding-tracker/internal/common/observability"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Opportunities *opportunities.Handler
	Dossiers      *dossiers.Handler
	Errors        *apperrors.ErrorHandler
	Logger        logger.Logger
	Observability *observability.Observability
	CORSOrigins   []string
	// Checks are pinged by /healthz, keyed by dependency name.
	Checks map[string]Pinger
}

// NewRouter registers every route and wraps them in the middleware chain. CORS
// sits outside the router so preflight requests never need a matching route.
func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()
	r.Use(
		httpx.WithRequestID,
		httpx.WithRecover(d.Logger, d.Errors),
		httpx.WithTelemetry(d.Logger, d.Observability),
	)

	r.HandleFunc("/health", health).Methods(http.MethodGet)
	r.HandleFunc("/healthz", readiness(d.Checks)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	a := r.PathPrefix("/api").Subrouter()

	o := d.Opportunities
	a.HandleFunc("/funding-opportunities", o.List).Methods(http.MethodGet)
	a.HandleFunc("/funding-opportunities", o.Create).Methods(http.MethodPost)
	// registered before {id} so "search" is not read as an id
	a.HandleFunc("/funding-opportunities/search", o.Search).Methods(http.MethodGet)
	a.HandleFunc("/funding-opportunities/{id}", o.Get).Methods(http.MethodGet)
	a.HandleFunc("/funding-opportunities/{id}", o.Update).Methods(http.MethodPut)
	a.HandleFunc("/funding-opportunities/{id}", o.Delete).Methods(http.MethodDelete)
	a.HandleFunc("/funding-statistics", o.Statistics).Methods(http.MethodGet)

	ds := d.Dossiers
	a.HandleFunc("/applications", ds.ListApplications).Methods(http.MethodGet)
	a.HandleFunc("/applications", ds.CreateApplication).Methods(http.MethodPost)
	a.HandleFunc("/applications/{id}", ds.GetApplication).Methods(http.MethodGet)
	a.HandleFunc("/applications/{id}", ds.UpdateApplication).Methods(http.MethodPut)
	a.HandleFunc("/applications/{id}", ds.DeleteApplication).Methods(http.MethodDelete)
	a.HandleFunc("/applications/{id}/documents", ds.ListDocuments).Methods(http.MethodGet)
	a.HandleFunc("/applications/{id}/documents", ds.CreateDocument).Methods(http.MethodPost)
	a.HandleFunc("/documents/{id}", ds.DeleteDocument).Methods(http.MethodDelete)
	a.HandleFunc("/clients", ds.ListClients).Methods(http.MethodGet)
	a.HandleFunc("/clients", ds.CreateClient).Methods(http.MethodPost)
	a.HandleFunc("/clients/{id}", ds.GetClient).Methods(http.MethodGet)
	a.HandleFunc("/clients/{id}", ds.UpdateClient).Methods(http.MethodPut)
	a.HandleFunc("/document-catalog", ds.Catalog).Methods(http.MethodGet)

	return httpx.WithCORS(d.CORSOrigins)(r)
}

func health(w http.ResponseWriter, _ *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// readiness pings every dependency and answers 503 when any of them fails.
func readiness(checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, c := range checks {
			if err := c.Ping(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		state := "ready"
		if status != http.StatusOK {
			state = "degraded"
		}
		httpx.JSON(w, status, map[string]interface{}{
			"status": state,
			"checks": results,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}
