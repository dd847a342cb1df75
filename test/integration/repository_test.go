package integration

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/Ramsey-B/aster/internal/repositories/dataset"
	"github.com/Ramsey-B/aster/internal/repositories/datasetentry"
	"github.com/Ramsey-B/aster/pkg/database"
	"github.com/Ramsey-B/aster/pkg/matching"
	"github.com/Ramsey-B/aster/pkg/models"
)

func getTestLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func strPtr(s string) *string {
	return &s
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, httperror.IsHTTPError(err), "expected HTTP error, got: %v", err)
	assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err), "expected 404, got: %d", httperror.GetStatusCode(err))
}

// setupPostgres starts a disposable Postgres, connects, and runs the
// migrations. Each test gets a fresh schema.
func setupPostgres(t *testing.T) database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "user",
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_DB":       "aster",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=user password=password dbname=aster sslmode=disable", host, port.Port())
	sqlxDB, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlxDB.Close() })

	logger := getTestLogger()
	db := database.NewDatabaseInstance(sqlxDB, logger)

	driver, err := migratepg.WithInstance(sqlxDB.DB, &migratepg.Config{})
	require.NoError(t, err)

	migrationService := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: "../../db/pg",
	})
	require.NoError(t, migrationService.Migrate("aster", driver))

	return db
}

func insertDataset(t *testing.T, db database.DB, id, name string, active bool) {
	t.Helper()

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("datasets")
	sb.Cols("id", "name", "is_active")
	sb.Values(id, name, active)

	query, args := sb.Build()
	_, err := db.ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}

func insertEntry(t *testing.T, db database.DB, datasetID, name string, aliases, countries []string, category *string) {
	t.Helper()

	if aliases == nil {
		aliases = []string{}
	}
	if countries == nil {
		countries = []string{}
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("dataset_entries")
	sb.Cols("id", "dataset_id", "external_id", "organization_name", "aliases", "countries", "category")
	sb.Values(uuid.New().String(), datasetID, uuid.New().String(), name,
		database.NewJSONB(aliases), database.NewJSONB(countries), category)

	query, args := sb.Build()
	_, err := db.ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}

func seedCatalog(t *testing.T, db database.DB) (activeID, inactiveID string) {
	t.Helper()

	activeID = uuid.New().String()
	inactiveID = uuid.New().String()

	insertDataset(t, db, activeID, "sanctions", true)
	insertDataset(t, db, inactiveID, "legacy-watchlist", false)

	insertEntry(t, db, activeID, "Tesla Inc", []string{"Tesla Motors"}, []string{"US"}, strPtr("technology"))
	insertEntry(t, db, activeID, "Physics Research Center (PRC)", nil, []string{"IR"}, strPtr("research"))
	insertEntry(t, db, activeID, "Microsoft Corporation", nil, []string{"US"}, strPtr("technology"))
	insertEntry(t, db, inactiveID, "Shuttered Holdings", nil, nil, nil)

	return activeID, inactiveID
}

func TestDatasetRepository(t *testing.T) {
	db := setupPostgres(t)
	logger := getTestLogger()
	repo := dataset.NewRepository(db, logger)
	ctx := context.Background()

	activeID, inactiveID := seedCatalog(t, db)

	datasets, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, datasets, 2)

	// Active datasets sort first.
	assert.Equal(t, "sanctions", datasets[0].Name)
	assert.Equal(t, 3, datasets[0].EntryCount)
	assert.True(t, datasets[0].IsActive)
	assert.Equal(t, "legacy-watchlist", datasets[1].Name)
	assert.Equal(t, 1, datasets[1].EntryCount)

	fetched, err := repo.Get(ctx, activeID)
	require.NoError(t, err)
	assert.Equal(t, "sanctions", fetched.Name)
	assert.False(t, fetched.CreatedAt.IsZero())

	fetched, err = repo.Get(ctx, inactiveID)
	require.NoError(t, err)
	assert.False(t, fetched.IsActive)

	_, err = repo.Get(ctx, uuid.New().String())
	assertNotFound(t, err)
}

func TestDatasetEntryRepository(t *testing.T) {
	db := setupPostgres(t)
	logger := getTestLogger()
	repo := datasetentry.NewRepository(db, logger)
	ctx := context.Background()

	activeID, _ := seedCatalog(t, db)

	entries, total, err := repo.ListByDataset(ctx, activeID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 2)
	// Ordered by organization name.
	assert.Equal(t, "Microsoft Corporation", entries[0].OrganizationName)
	assert.Equal(t, "Physics Research Center (PRC)", entries[1].OrganizationName)

	entries, total, err = repo.ListByDataset(ctx, activeID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 1)
	assert.Equal(t, "Tesla Inc", entries[0].OrganizationName)
	assert.Equal(t, []string{"Tesla Motors"}, entries[0].Aliases.Data)
}

func TestActiveCandidatesExcludesInactiveDatasets(t *testing.T) {
	db := setupPostgres(t)
	logger := getTestLogger()
	repo := datasetentry.NewRepository(db, logger)
	ctx := context.Background()

	seedCatalog(t, db)

	candidates, err := repo.ActiveCandidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	names := make([]string, 0, len(candidates))
	for _, c := range candidates {
		names = append(names, c.OrganizationName)
		assert.Equal(t, "sanctions", c.DatasetName)
	}
	assert.NotContains(t, names, "Shuttered Holdings")

	// JSONB columns come back as plain slices.
	for _, c := range candidates {
		if c.OrganizationName == "Tesla Inc" {
			assert.Equal(t, []string{"Tesla Motors"}, c.Aliases)
			assert.Equal(t, []string{"US"}, c.Countries)
		}
	}
}

func TestEngineMatchesAgainstRealCatalog(t *testing.T) {
	db := setupPostgres(t)
	logger := getTestLogger()
	ctx := context.Background()

	seedCatalog(t, db)

	cfg := matching.DefaultEngineConfig()
	store := matching.NewMemoryStore(cfg.CacheMaxEntries, cfg.CacheTTL)
	holder, err := matching.NewConfigHolder(cfg, nil, store, logger)
	require.NoError(t, err)

	engine := matching.NewEngine(datasetentry.NewRepository(db, logger), store, holder, logger)

	resp, err := engine.FindMatches(ctx, "Tesla, Inc.", matching.MatchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Matches)
	assert.Equal(t, "Tesla Inc", resp.Matches[0].OrganizationName)
	assert.Equal(t, models.MatchTypeExact, resp.Matches[0].MatchType)
	assert.Equal(t, 1.0, resp.Matches[0].ConfidenceScore)

	// Second read is served from the cache.
	resp, err = engine.FindMatches(ctx, "Tesla, Inc.", matching.MatchOptions{})
	require.NoError(t, err)
	assert.True(t, resp.CacheHit)
}
