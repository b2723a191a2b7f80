package database

import (
	"context"
	"io/fs"
	"regexp"
	"testing"

	"funding-tracker/internal/common/config"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_ArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "migrations/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Equal(t, len(ups), len(downs))
}

func TestMigrationFiles_CreateAllTables(t *testing.T) {
	body, err := fs.ReadFile(migrationFiles, "migrations/000001_init_schema.up.sql")
	require.NoError(t, err)

	for _, table := range []string{"users", "funding_opportunities", "clients", "applications", "documents"} {
		assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table+" ")
	}
	assert.Contains(t, string(body), "REFERENCES funding_opportunities (id) ON DELETE RESTRICT")
	assert.Contains(t, string(body), "REFERENCES applications (id) ON DELETE CASCADE")
}

func TestMigrationFiles_TimestampsCarryZone(t *testing.T) {
	body, err := fs.ReadFile(migrationFiles, "migrations/000001_init_schema.up.sql")
	require.NoError(t, err)

	for _, column := range []string{"created_at", "updated_at", "submission_date", "upload_date"} {
		re := regexp.MustCompile(`(?m)^\s*` + column + `\s+(\w+)`)
		matches := re.FindAllStringSubmatch(string(body), -1)
		require.NotEmpty(t, matches, column)
		for _, m := range matches {
			assert.Equal(t, "TIMESTAMPTZ", m[1], column)
		}
	}
}

func TestPostgresClient_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()
	client := &PostgresClient{DB: db}
	require.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()))

	_, err = NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	dsn := config.PostgresConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Database: "funding", SSLMode: "disable",
	}.GetDSN()
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=funding sslmode=disable timezone=UTC", dsn)
}
