package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// ==========================
// LoadFromFile
// ==========================

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  postgres:
    host: localhost
    database: funding
    user: funding
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 300, cfg.Cache.TTL)
	assert.Equal(t, "funding_opportunities", cfg.Search.Index)
	assert.Equal(t, uint32(5), cfg.Search.Breaker.ConsecutiveFailures)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_DossierSections(t *testing.T) {
	path := writeConfig(t, `
database:
  postgres:
    host: localhost
    database: funding
    user: funding
dossier:
  required_documents:
    - name: Statuts juridiques
    - name: Plan d'affaires
      aliases: ["Business plan"]
  status_progress:
    - status: En attente de documents
      progress: 20
    - status: Complet
      progress: 80
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	require.Len(t, cfg.Dossier.RequiredDocuments, 2)
	assert.Equal(t, "Plan d'affaires", cfg.Dossier.RequiredDocuments[1].Name)
	assert.Equal(t, []string{"Business plan"}, cfg.Dossier.RequiredDocuments[1].Aliases)
	require.Len(t, cfg.Dossier.StatusProgress, 2)
	// status strings keep their case
	assert.Equal(t, "En attente de documents", cfg.Dossier.StatusProgress[0].Status)
	assert.Equal(t, 20, cfg.Dossier.StatusProgress[0].Progress)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("FT_TEST_DB_PASSWORD", "s3cret")
	path := writeConfig(t, `
database:
  postgres:
    host: localhost
    database: funding
    user: funding
    password: ${FT_TEST_DB_PASSWORD}
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

// ==========================
// validateConfig
// ==========================

func validBase() *Config {
	cfg := &Config{}
	cfg.Database.Postgres.Host = "localhost"
	cfg.Database.Postgres.Database = "funding"
	cfg.Database.Postgres.User = "funding"
	applyDefaults(cfg)
	return cfg
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing postgres host",
			mutate:  func(c *Config) { c.Database.Postgres.Host = "" },
			wantErr: "database.postgres.host is required",
		},
		{
			name:    "cache without redis",
			mutate:  func(c *Config) { c.Cache.Enabled = true },
			wantErr: "database.redis.address is required",
		},
		{
			name:    "search without elasticsearch",
			mutate:  func(c *Config) { c.Search.Enabled = true },
			wantErr: "database.elasticsearch.addresses or url is required",
		},
		{
			name: "search with addresses",
			mutate: func(c *Config) {
				c.Search.Enabled = true
				c.Database.Elasticsearch.Addresses = []string{"http://localhost:9200"}
			},
		},
		{
			name: "blank catalog entry",
			mutate: func(c *Config) {
				c.Dossier.RequiredDocuments = []RequiredDocumentConfig{{Name: "  "}}
			},
			wantErr: "dossier.required_documents[0].name is required",
		},
		{
			name: "progress out of range",
			mutate: func(c *Config) {
				c.Dossier.StatusProgress = []StatusProgressConfig{{Status: "Complet", Progress: 120}}
			},
			wantErr: "must be within 0..100",
		},
		{
			name:    "tracing without endpoint",
			mutate:  func(c *Config) { c.Tracing.Enabled = true },
			wantErr: "tracing.jaeger_endpoint is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBase()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, "1.5s", GetDuration(1500).String())
}
