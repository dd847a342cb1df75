package matching

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/aster/pkg/models"
)

func testLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

type fakeSource struct {
	mu         sync.Mutex
	calls      int
	candidates []models.CandidateRecord
	err        error
}

func (f *fakeSource) ActiveCandidates(_ context.Context) ([]models.CandidateRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeSource) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func catalogFixture() []models.CandidateRecord {
	tech := "technology"
	research := "research"
	return []models.CandidateRecord{
		{DatasetName: "global-watchlist", OrganizationName: "Tesla Inc", Aliases: []string{"Tesla Motors"}, Category: &tech, Countries: []string{"US"}},
		{DatasetName: "global-watchlist", OrganizationName: "Physics Research Center (PRC)", Category: &research, Countries: []string{"IR"}},
		{DatasetName: "global-watchlist", OrganizationName: "Microsoft Corporation", Category: &tech, Countries: []string{"US"}},
		{DatasetName: "global-watchlist", OrganizationName: "Acme Widgets", Countries: []string{"US"}},
		{DatasetName: "trade-registry", OrganizationName: "Global Shipping Lines", Countries: []string{"MX"}},
		{DatasetName: "trade-registry", OrganizationName: "Northwind Traders", Countries: []string{"GB"}},
	}
}

func newTestEngine(t *testing.T, source CandidateSource, cfg EngineConfig) *Engine {
	t.Helper()

	logger := testLogger()
	cache := NewMemoryStore(cfg.CacheMaxEntries, cfg.CacheTTL)
	holder, err := NewConfigHolder(cfg, nil, cache, logger)
	require.NoError(t, err)

	return NewEngine(source, cache, holder, logger)
}

func TestFindMatchesExact(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())

	resp, err := engine.FindMatches(context.Background(), "Tesla Inc", MatchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Matches)

	top := resp.Matches[0]
	assert.Equal(t, models.MatchTypeExact, top.MatchType)
	assert.Equal(t, 1.0, top.ConfidenceScore)
	assert.Equal(t, "Tesla Inc", top.OrganizationName)
	assert.Equal(t, "global-watchlist", top.DatasetName)
	assert.Equal(t, "Perfect text match", top.QualityMetrics.Explanation)
	assert.False(t, resp.CacheHit)
	assert.GreaterOrEqual(t, resp.ProcessingTimeMs, int64(0))
}

func TestFindMatchesSuffixInsensitive(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())

	resp, err := engine.FindMatches(context.Background(), "Microsoft Corp", MatchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Matches)

	top := resp.Matches[0]
	assert.Equal(t, models.MatchTypeExact, top.MatchType)
	assert.Equal(t, "Microsoft Corporation", top.OrganizationName)
}

func TestFindMatchesAcronymQuery(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())

	resp, err := engine.FindMatches(context.Background(), "PRC", MatchOptions{})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Matches)

	top := resp.Matches[0]
	assert.Equal(t, models.MatchTypeCoreAcronym, top.MatchType)
	assert.Equal(t, "Physics Research Center (PRC)", top.OrganizationName)
	assert.InDelta(t, 0.95, top.ConfidenceScore, 0.0001)
}

func TestFindMatchesRanksDescending(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.EarlyTermination.Enabled = false
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, cfg)

	resp, err := engine.FindMatches(context.Background(), "Tesla Inc", MatchOptions{})
	require.NoError(t, err)
	require.Len(t, resp.Matches, len(catalogFixture()), "every candidate scores, partial included")

	for i := 1; i < len(resp.Matches); i++ {
		assert.LessOrEqual(t, resp.Matches[i].ConfidenceScore, resp.Matches[i-1].ConfidenceScore)
	}
}

func TestFindMatchesEarlyTermination(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())

	// Six candidates, exact hit on top: the window collapses to min results.
	resp, err := engine.FindMatches(context.Background(), "Tesla Inc", MatchOptions{})
	require.NoError(t, err)
	assert.Len(t, resp.Matches, 3)
}

func TestFindMatchesCacheHit(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())
	ctx := context.Background()

	first, err := engine.FindMatches(ctx, "Tesla Inc", MatchOptions{})
	require.NoError(t, err)
	assert.False(t, first.CacheHit)

	second, err := engine.FindMatches(ctx, "Tesla Inc", MatchOptions{})
	require.NoError(t, err)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Matches, second.Matches, "cache hits serve the identical ranked list")
	assert.Equal(t, 1, source.callCount(), "second call must not refetch candidates")
}

func TestFindMatchesForceRefresh(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())
	ctx := context.Background()

	_, err := engine.FindMatches(ctx, "Tesla Inc", MatchOptions{})
	require.NoError(t, err)

	refreshed, err := engine.FindMatches(ctx, "Tesla Inc", MatchOptions{ForceRefresh: true})
	require.NoError(t, err)
	assert.False(t, refreshed.CacheHit, "forceRefresh bypasses the read path")
	assert.Equal(t, 2, source.callCount())

	// The refresh still wrote, so a plain call hits the cache.
	after, err := engine.FindMatches(ctx, "Tesla Inc", MatchOptions{})
	require.NoError(t, err)
	assert.True(t, after.CacheHit)
	assert.Equal(t, 2, source.callCount())
}

func TestFindMatchesValidation(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())
	ctx := context.Background()

	_, err := engine.FindMatches(ctx, "", MatchOptions{})
	assert.True(t, IsValidationError(err))

	_, err = engine.FindMatches(ctx, "   ", MatchOptions{})
	assert.True(t, IsValidationError(err))

	_, err = engine.FindMatches(ctx, strings.Repeat("a", 501), MatchOptions{})
	assert.True(t, IsValidationError(err))

	_, err = engine.FindMatches(ctx, "Tesla Inc", MatchOptions{Context: strings.Repeat("b", 1001)})
	assert.True(t, IsValidationError(err))

	assert.Equal(t, 0, source.callCount(), "validation failures must not touch the store")
}

func TestFindMatchesStoreError(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	engine := newTestEngine(t, source, DefaultEngineConfig())

	_, err := engine.FindMatches(context.Background(), "Tesla Inc", MatchOptions{})
	require.Error(t, err)
	assert.True(t, IsStoreError(err))
}

func TestFindMatchesBatch(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())

	resp, err := engine.FindMatchesBatch(context.Background(), []string{"Tesla Inc", "Tesla Motors"}, BatchOptions{})
	require.NoError(t, err)

	require.Len(t, resp.Results, 2)
	assert.Empty(t, resp.FailedEntities)
	assert.Equal(t, 1, source.callCount(), "batch shares one candidate fetch")

	tesla := resp.Results["Tesla Inc"]
	require.NotEmpty(t, tesla)
	assert.Equal(t, models.MatchTypeExact, tesla[0].MatchType)

	motors := resp.Results["Tesla Motors"]
	require.NotEmpty(t, motors)
	assert.Equal(t, models.MatchTypeAlias, motors[0].MatchType)
}

func TestFindMatchesBatchValidation(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.MaxBatchSize = 3
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, cfg)
	ctx := context.Background()

	_, err := engine.FindMatchesBatch(ctx, nil, BatchOptions{})
	assert.True(t, IsValidationError(err))

	_, err = engine.FindMatchesBatch(ctx, []string{"a", "b", "c", "d"}, BatchOptions{})
	assert.True(t, IsValidationError(err))

	bad := 1.5
	_, err = engine.FindMatchesBatch(ctx, []string{"Tesla Inc"}, BatchOptions{MinConfidence: &bad})
	assert.True(t, IsValidationError(err))

	assert.Equal(t, 0, source.callCount(), "oversized batches are rejected before any work")
}

func TestFindMatchesBatchPartialFailure(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())

	resp, err := engine.FindMatchesBatch(context.Background(), []string{"Tesla Inc", "   "}, BatchOptions{})
	require.NoError(t, err, "a bad entity never aborts the batch")

	assert.Equal(t, []string{"   "}, resp.FailedEntities)
	require.Contains(t, resp.Results, "Tesla Inc")
	assert.NotEmpty(t, resp.Results["Tesla Inc"])
}

func TestFindMatchesBatchStoreErrorFailsOnlyUncached(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())
	ctx := context.Background()

	_, err := engine.FindMatches(ctx, "Tesla Inc", MatchOptions{})
	require.NoError(t, err)

	source.setErr(errors.New("connection refused"))

	resp, err := engine.FindMatchesBatch(ctx, []string{"Tesla Inc", "SpaceX"}, BatchOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"SpaceX"}, resp.FailedEntities)
	assert.Equal(t, 1, resp.CacheHits)
	require.Contains(t, resp.Results, "Tesla Inc")
	assert.NotEmpty(t, resp.Results["Tesla Inc"])
}

func TestFindMatchesBatchEmptyResultsAreNotFailures(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())

	minConfidence := 0.9
	entities := []string{"Zebra Quokka Ventures", "Xylophone Partners"}

	resp, err := engine.FindMatchesBatch(context.Background(), entities, BatchOptions{MinConfidence: &minConfidence})
	require.NoError(t, err)

	assert.Empty(t, resp.FailedEntities)
	for _, entity := range entities {
		require.Contains(t, resp.Results, entity)
		assert.NotNil(t, resp.Results[entity])
		assert.Empty(t, resp.Results[entity], "nothing clears 0.9 for %s", entity)
	}
}

func TestFindMatchesBatchFiltersByType(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())

	resp, err := engine.FindMatchesBatch(context.Background(), []string{"Tesla Inc"}, BatchOptions{
		MatchTypes: []models.MatchType{models.MatchTypeExact},
	})
	require.NoError(t, err)

	results := resp.Results["Tesla Inc"]
	require.NotEmpty(t, results)
	for _, result := range results {
		assert.Equal(t, models.MatchTypeExact, result.MatchType)
	}
}

func TestFindMatchesBatchAdvisoryCancellation(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := engine.FindMatchesBatch(ctx, []string{"Tesla Inc", "Microsoft Corp"}, BatchOptions{})
	require.NoError(t, err, "cancellation skips entities, it does not error the batch")

	assert.ElementsMatch(t, []string{"Tesla Inc", "Microsoft Corp"}, resp.FailedEntities)
	assert.Empty(t, resp.Results)
	assert.Equal(t, 0, source.callCount())
}

func TestFilterMatches(t *testing.T) {
	results := []models.MatchResult{
		{OrganizationName: "A", MatchType: models.MatchTypeExact, ConfidenceScore: 1.0},
		{OrganizationName: "B", MatchType: models.MatchTypeFuzzy, ConfidenceScore: 0.75},
		{OrganizationName: "C", MatchType: models.MatchTypePartial, ConfidenceScore: 0.2},
	}

	t.Run("should pass everything through without filters", func(t *testing.T) {
		assert.Len(t, FilterMatches(results, nil, nil), 3)
	})

	t.Run("should filter by match type", func(t *testing.T) {
		filtered := FilterMatches(results, []models.MatchType{models.MatchTypeExact, models.MatchTypeFuzzy}, nil)
		require.Len(t, filtered, 2)
		assert.Equal(t, "A", filtered[0].OrganizationName)
		assert.Equal(t, "B", filtered[1].OrganizationName)
	})

	t.Run("should filter by minimum confidence", func(t *testing.T) {
		minConfidence := 0.5
		filtered := FilterMatches(results, nil, &minConfidence)
		assert.Len(t, filtered, 2)
	})

	t.Run("should apply both filters together", func(t *testing.T) {
		minConfidence := 0.9
		filtered := FilterMatches(results, []models.MatchType{models.MatchTypeExact, models.MatchTypeFuzzy}, &minConfidence)
		require.Len(t, filtered, 1)
		assert.Equal(t, "A", filtered[0].OrganizationName)
	})
}

func TestWarmup(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())
	ctx := context.Background()

	resp := engine.Warmup(ctx, []string{"Tesla Inc", "Microsoft Corporation", ""})
	assert.Equal(t, 2, resp.Warmed)
	assert.Equal(t, []string{""}, resp.Failed)
	assert.Equal(t, 1, source.callCount(), "warmup shares one candidate fetch")

	after, err := engine.FindMatches(ctx, "Tesla Inc", MatchOptions{})
	require.NoError(t, err)
	assert.True(t, after.CacheHit)
	assert.Equal(t, 1, source.callCount())
}

func TestWarmupDefaultsToConfiguredQueries(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	cfg := DefaultEngineConfig()
	cfg.WarmupQueries = []string{"Tesla Inc", "Northwind Traders"}
	engine := newTestEngine(t, source, cfg)
	ctx := context.Background()

	resp := engine.Warmup(ctx, nil)
	assert.Equal(t, 2, resp.Warmed)
	assert.Empty(t, resp.Failed)

	after, err := engine.FindMatches(ctx, "Northwind Traders", MatchOptions{})
	require.NoError(t, err)
	assert.True(t, after.CacheHit)
}

func TestClearCache(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())
	ctx := context.Background()

	_, err := engine.FindMatches(ctx, "Tesla Inc", MatchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, engine.CacheStats(ctx).Entries)

	require.NoError(t, engine.ClearCache(ctx))
	assert.Equal(t, 0, engine.CacheStats(ctx).Entries)

	resp, err := engine.FindMatches(ctx, "Tesla Inc", MatchOptions{})
	require.NoError(t, err)
	assert.False(t, resp.CacheHit)
	assert.Equal(t, 2, source.callCount())
}

func TestSwapConfig(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())
	ctx := context.Background()

	before := engine.Diagnostics().ConfigVersion
	require.NotEmpty(t, before)

	_, err := engine.FindMatches(ctx, "Tesla Inc", MatchOptions{})
	require.NoError(t, err)

	next := DefaultEngineConfig()
	next.Weights = Weights{JaroWinkler: 0.7, Levenshtein: 0.1, WordOverlap: 0.1, Trigram: 0.1}
	require.NoError(t, engine.SwapConfig(ctx, next))

	assert.NotEqual(t, before, engine.Diagnostics().ConfigVersion)

	// The swap cleared the cache, so the same query recomputes.
	resp, err := engine.FindMatches(ctx, "Tesla Inc", MatchOptions{})
	require.NoError(t, err)
	assert.False(t, resp.CacheHit)
	assert.Equal(t, 2, source.callCount())
}

func TestSwapConfigIdenticalPolicyKeepsCache(t *testing.T) {
	source := &fakeSource{candidates: catalogFixture()}
	engine := newTestEngine(t, source, DefaultEngineConfig())
	ctx := context.Background()

	_, err := engine.FindMatches(ctx, "Tesla Inc", MatchOptions{})
	require.NoError(t, err)

	before := engine.Diagnostics().ConfigVersion
	require.NoError(t, engine.SwapConfig(ctx, DefaultEngineConfig()))
	assert.Equal(t, before, engine.Diagnostics().ConfigVersion)

	resp, err := engine.FindMatches(ctx, "Tesla Inc", MatchOptions{})
	require.NoError(t, err)
	assert.True(t, resp.CacheHit, "an unchanged policy keeps its cached results")
	assert.Equal(t, 1, source.callCount())
}

func TestDiagnostics(t *testing.T) {
	t.Run("should report a healthy default config", func(t *testing.T) {
		engine := newTestEngine(t, &fakeSource{}, DefaultEngineConfig())

		diag := engine.Diagnostics()
		assert.InDelta(t, 1.0, diag.AlgorithmWeightsSum, 0.0001)
		assert.True(t, diag.WeightsValid)
		assert.True(t, diag.ThresholdsDescending)
		assert.True(t, diag.AcronymDetectionEnabled)
		assert.True(t, diag.EarlyTerminationEnabled)
		assert.Greater(t, diag.SupportedCountriesCount, 50)
		assert.NotEmpty(t, diag.ConfigVersion)
		assert.Empty(t, diag.ConfigWarnings)
	})

	t.Run("should surface inconsistencies without failing", func(t *testing.T) {
		cfg := DefaultEngineConfig()
		cfg.Weights = Weights{JaroWinkler: 0.9, Levenshtein: 0.3, WordOverlap: 0.2, Trigram: 0.1}
		cfg.Thresholds.HighSimilarity = 0.99

		source := &fakeSource{candidates: catalogFixture()}
		engine := newTestEngine(t, source, cfg)

		diag := engine.Diagnostics()
		assert.InDelta(t, 1.5, diag.AlgorithmWeightsSum, 0.0001)
		assert.False(t, diag.WeightsValid)
		assert.False(t, diag.ThresholdsDescending)
		assert.NotEmpty(t, diag.ConfigWarnings)

		// Scoring still works with the config as given.
		resp, err := engine.FindMatches(context.Background(), "Tesla Inc", MatchOptions{})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Matches)
	})
}
