package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"funding-tracker/internal/api/dossiers"
	"funding-tracker/internal/api/opportunities"
	apperrors "funding-tracker/internal/common/errors"
	"funding-tracker/internal/common/httpx"
	"funding-tracker/internal/common/logger"
	"funding-tracker/internal/common/observability"
	"funding-tracker/internal/common/validation"
	"funding-tracker/internal/dossier"
	"funding-tracker/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestRouter(t *testing.T, checks map[string]Pinger) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	v, err := validation.NewValidator()
	require.NoError(t, err)
	log := logger.NewTestLogger(t)
	errs := apperrors.NewErrorHandler(log)
	s := store.New(db)

	return NewRouter(Deps{
		Opportunities: opportunities.NewHandler(s.Opportunities, nil, nil, v, errs, log),
		Dossiers:      dossiers.FromStore(s, dossier.NewEvaluator(nil, nil), v, errs, log),
		Errors:        errs,
		Logger:        log,
		Observability: observability.NewNoop(),
		CORSOrigins:   []string{"http://localhost:5173"},
		Checks:        checks,
	}), mock
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

// ==========================
// Routing
// ==========================

func TestRouter_Routes(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		wantCode int
	}{
		{"liveness", http.MethodGet, "/health", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"search disabled", http.MethodGet, "/api/funding-opportunities/search?q=eau", http.StatusServiceUnavailable},
		{"invalid opportunity id", http.MethodGet, "/api/funding-opportunities/abc", http.StatusBadRequest},
		{"invalid application id", http.MethodDelete, "/api/applications/-1", http.StatusBadRequest},
		{"invalid document id", http.MethodDelete, "/api/documents/x", http.StatusBadRequest},
		{"catalog", http.MethodGet, "/api/document-catalog", http.StatusOK},
		{"method not allowed", http.MethodPatch, "/api/funding-opportunities/1", http.StatusMethodNotAllowed},
		{"unknown path", http.MethodGet, "/api/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestRouter(t, nil)
			rec := serve(h, tt.method, tt.target)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_StatisticsHitsStore(t *testing.T) {
	h, mock := newTestRouter(t, nil)
	mock.ExpectQuery(`COUNT\(\*\) FILTER`).
		WillReturnRows(sqlmock.NewRows([]string{"a", "b", "c", "d"}).AddRow(int64(2), int64(1), int64(150000), int64(3)))

	rec := serve(h, http.MethodGet, "/api/funding-statistics")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"totalOpen":2,"totalPending":1,"totalAmount":150000,"thisWeek":3}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Middleware chain
// ==========================

func TestRouter_AssignsRequestID(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	rec := serve(h, http.MethodGet, "/health")
	assert.NotEmpty(t, rec.Header().Get(httpx.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(httpx.RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(httpx.RequestIDHeader))
}

func TestRouter_PreflightBypassesRoutes(t *testing.T) {
	h, _ := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/funding-opportunities/7", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

// ==========================
// Health
// ==========================

func TestRouter_Readiness(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	h, _ := newTestRouter(t, map[string]Pinger{"postgres": ok})
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/healthz").Code)

	h, _ = newTestRouter(t, map[string]Pinger{"postgres": ok, "redis": down})
	rec := serve(h, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}
