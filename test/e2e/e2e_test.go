// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"funding-tracker/internal/api/dossiers"
	"funding-tracker/internal/api/opportunities"
	"funding-tracker/internal/cache"
	"funding-tracker/internal/common/config"
	"funding-tracker/internal/common/database"
	apperrors "funding-tracker/internal/common/errors"
	"funding-tracker/internal/common/logger"
	"funding-tracker/internal/common/observability"
	"funding-tracker/internal/common/validation"
	"funding-tracker/internal/dossier"
	"funding-tracker/internal/search"
	"funding-tracker/internal/server"
	"funding-tracker/internal/store"
)

// TestEnvironment is the running API plus the live dependencies behind it.
type TestEnvironment struct {
	Config   *config.Config
	Server   *httptest.Server
	Postgres *database.PostgresClient
	Redis    *database.RedisClient
	Search   bool
}

// setupEnvironment wires the service the way cmd/api-server does. The suite
// only runs when E2E_ENABLED=true and the configured backends are reachable.
func setupEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping E2E tests in short mode")
	}
	if os.Getenv("E2E_ENABLED") != "true" {
		t.Skip("Set E2E_ENABLED=true to run against live postgres, redis and elasticsearch")
	}

	cfg, err := config.Load()
	require.NoError(t, err)

	ctx := context.Background()
	log := logger.NewTestLogger(t)
	env := &TestEnvironment{Config: cfg}

	env.Postgres, err = database.NewPostgres(cfg.Database.Postgres)
	require.NoError(t, err)
	if err := env.Postgres.Ping(ctx); err != nil {
		t.Skipf("postgres unreachable: %v", err)
	}
	_, err = env.Postgres.Migrate()
	require.NoError(t, err)

	checks := map[string]server.Pinger{"postgres": env.Postgres}

	var opportunityCache opportunities.Cache
	if cfg.Cache.Enabled {
		env.Redis, err = database.NewRedis(cfg.Database.Redis)
		require.NoError(t, err)
		require.NoError(t, env.Redis.Ping(ctx), "redis unreachable")
		checks["redis"] = env.Redis
		opportunityCache = cache.NewOpportunityCache(env.Redis.Client, time.Duration(cfg.Cache.TTL)*time.Second, log)
	}

	var index opportunities.Index
	if cfg.Search.Enabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		require.NoError(t, err)
		require.NoError(t, es.Ping(ctx), "elasticsearch unreachable")
		ix := search.NewIndex(es.Client, cfg.Search, log)
		require.NoError(t, ix.EnsureIndex(ctx))
		checks["elasticsearch"] = es
		index = ix
		env.Search = true
	}

	validator, err := validation.NewValidator()
	require.NoError(t, err)
	errs := apperrors.NewErrorHandler(log)
	repos := store.New(env.Postgres.GetDB())

	env.Server = httptest.NewServer(server.NewRouter(server.Deps{
		Opportunities: opportunities.NewHandler(repos.Opportunities, opportunityCache, index, validator, errs, log),
		Dossiers:      dossiers.FromStore(repos, dossier.FromConfig(cfg.Dossier), validator, errs, log),
		Errors:        errs,
		Logger:        log,
		Observability: observability.NewNoop(),
		CORSOrigins:   cfg.HTTP.CORSOrigins,
		Checks:        checks,
	}))

	t.Cleanup(func() {
		env.Server.Close()
		if env.Redis != nil {
			env.Redis.Close()
		}
		env.Postgres.Close()
	})
	return env
}

func (env *TestEnvironment) do(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, env.Server.URL+path, &payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	if out != nil && res.StatusCode < 300 && res.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

type idOnly struct {
	ID int64 `json:"id"`
}

// ==========================
// Health
// ==========================

func TestHealthAndReadiness(t *testing.T) {
	env := setupEnvironment(t)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health", nil, nil))

	var ready map[string]interface{}
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/healthz", nil, &ready))
	assert.Equal(t, "ready", ready["status"])
}

// ==========================
// Full dossier journey
// ==========================

func TestFullE2E(t *testing.T) {
	env := setupEnvironment(t)
	suffix := time.Now().UnixNano()

	// 1. catalog entry
	var opp idOnly
	status := env.do(t, http.MethodPost, "/api/funding-opportunities", map[string]interface{}{
		"title":               fmt.Sprintf("E2E Fonds climat %d", suffix),
		"fundingProgram":      "Programme E2E",
		"description":         "Opportunité créée par la suite e2e",
		"eligibilityCriteria": "Associations",
		"requiredDocuments":   "Statuts; budget",
		"deadline":            "2030-12-31",
		"minAmount":           5000,
		"maxAmount":           50000,
		"fundingType":         "Don",
		"status":              "Ouvert",
		"sectors":             []string{"Climat"},
	}, &opp)
	require.Equal(t, http.StatusCreated, status)
	require.NotZero(t, opp.ID)
	oppPath := fmt.Sprintf("/api/funding-opportunities/%d", opp.ID)

	// 2. read twice so the second read can come from the cache
	var fetched map[string]interface{}
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, oppPath, nil, &fetched))
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, oppPath, nil, &fetched))
	assert.Equal(t, "Programme E2E", fetched["fundingProgram"])
	if env.Redis != nil {
		n, err := env.Redis.Client.Exists(context.Background(), cache.Key(opp.ID)).Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	}

	// 3. listing filters
	var listed []idOnly
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet,
		"/api/funding-opportunities?sector=Climat&minAmount=1000&sortBy=amount", nil, &listed))
	assert.Contains(t, listed, opp)

	// 4. update invalidates the cached copy
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPut, oppPath, map[string]interface{}{"status": "Fermé"}, &fetched))
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, oppPath, nil, &fetched))
	assert.Equal(t, "Fermé", fetched["status"])

	// 5. client and dossier
	var client idOnly
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/clients", map[string]interface{}{
		"organizationName": "Association E2E",
		"contactPerson":    "Awa Ba",
		"email":            fmt.Sprintf("e2e-%d@example.org", suffix),
	}, &client))

	var app map[string]interface{}
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/applications", map[string]interface{}{
		"clientId":             client.ID,
		"fundingOpportunityId": opp.ID,
		"status":               "Complet",
		"completionScore":      85,
	}, &app))
	appID := int64(app["id"].(float64))
	appPath := fmt.Sprintf("/api/applications/%d", appID)

	var doc idOnly
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, appPath+"/documents", map[string]interface{}{
		"documentType": "Statuts juridiques",
		"fileName":     "statuts.pdf",
		"status":       "Validé",
	}, &doc))

	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, appPath, nil, &app))
	assessment := app["assessment"].(map[string]interface{})
	assert.Equal(t, float64(80), assessment["progress"])
	assert.Equal(t, float64(4), assessment["viabilityStars"])
	assert.NotContains(t, assessment["missingDocuments"], "Statuts juridiques")

	// 6. referenced opportunities cannot be deleted
	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodDelete, oppPath, nil, nil))

	// 7. statistics
	var stats map[string]interface{}
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/funding-statistics", nil, &stats))
	assert.Contains(t, stats, "totalOpen")

	// 8. search, eventually consistent
	if env.Search {
		require.Eventually(t, func() bool {
			var hits []idOnly
			code := env.do(t, http.MethodGet, "/api/funding-opportunities/search?q=Programme+E2E", nil, &hits)
			if code != http.StatusOK {
				return false
			}
			for _, h := range hits {
				if h.ID == opp.ID {
					return true
				}
			}
			return false
		}, 10*time.Second, 500*time.Millisecond)
	}

	// 9. teardown through the API
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, fmt.Sprintf("/api/documents/%d", doc.ID), nil, nil))
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, appPath, nil, nil))
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, oppPath, nil, nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, oppPath, nil, nil))
}

func TestValidationErrorsE2E(t *testing.T) {
	env := setupEnvironment(t)

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/funding-opportunities",
		map[string]interface{}{"title": "incomplete"}, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/funding-opportunities/abc", nil, nil))
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/funding-opportunities?minAmount=lots", nil, nil))
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/applications/999999999", nil, nil))
}
