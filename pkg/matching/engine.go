// Package matching implements the entity-resolution engine: normalization,
// multi-algorithm similarity scoring, contextual boosting, match-type
// classification, result caching and batch orchestration.
package matching

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Gobusters/ectologger"
	"golang.org/x/sync/errgroup"

	"github.com/Ramsey-B/aster/pkg/metrics"
	"github.com/Ramsey-B/aster/pkg/models"
	"github.com/Ramsey-B/aster/pkg/tracing"
)

const (
	maxEntityLength  = 500
	maxContextLength = 1000
)

// CandidateSource supplies the active candidate catalog. The repository layer
// implements it against the dataset store; tests substitute fixtures.
type CandidateSource interface {
	ActiveCandidates(ctx context.Context) ([]models.CandidateRecord, error)
}

// MatchOptions are the per-request knobs of a single-entity search.
type MatchOptions struct {
	Context      string
	Location     string
	ForceRefresh bool
}

// BatchOptions adds the result filters that batch callers apply in-engine to
// keep response payloads small. Single-entity callers filter outside the
// engine so the cached ranked list can be reused under different filters.
type BatchOptions struct {
	MatchOptions
	MatchTypes    []models.MatchType
	MinConfidence *float64
}

// Engine is the match orchestrator. All scoring is synchronous and CPU-bound;
// the only I/O is the candidate fetch and, optionally, the cache backend.
type Engine struct {
	source CandidateSource
	cache  Store
	holder *ConfigHolder
	logger ectologger.Logger
}

// NewEngine creates a match engine over the given candidate source, result
// cache and config holder.
func NewEngine(source CandidateSource, cache Store, holder *ConfigHolder, logger ectologger.Logger) *Engine {
	return &Engine{
		source: source,
		cache:  cache,
		holder: holder,
		logger: logger,
	}
}

// FindMatches scores one entity against every active candidate and returns
// the ranked list. The list is unfiltered; match-type and confidence filters
// belong to the calling layer so a cached list serves any filter combination.
func (e *Engine) FindMatches(ctx context.Context, entity string, opts MatchOptions) (*models.MatchResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.FindMatches")
	defer span.End()

	start := time.Now()

	if err := validateEntity(entity); err != nil {
		metrics.RecordMatchRequest("invalid", false, time.Since(start).Seconds())
		return nil, err
	}
	if err := validateContext(opts.Context); err != nil {
		metrics.RecordMatchRequest("invalid", false, time.Since(start).Seconds())
		return nil, err
	}

	snap := e.holder.Snapshot()
	loader := newCandidateLoader(e.source)

	results, cacheHit, err := e.findRanked(ctx, snap, loader, entity, opts)
	if err != nil {
		metrics.RecordMatchRequest("error", false, time.Since(start).Seconds())
		return nil, err
	}

	fullCount := len(results)
	results = applyEarlyTermination(snap.Config.EarlyTermination, results)
	if len(results) < fullCount {
		metrics.EarlyTerminationsTotal.Inc()
	}

	elapsed := time.Since(start)
	metrics.RecordMatchRequest("ok", cacheHit, elapsed.Seconds())

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"entity":     entity,
		"matches":    len(results),
		"cache_hit":  cacheHit,
		"elapsed_ms": elapsed.Milliseconds(),
	}).Debug("Scored entity against candidate catalog")

	return &models.MatchResponse{
		Matches:          results,
		CacheHit:         cacheHit,
		ProcessingTimeMs: elapsed.Milliseconds(),
	}, nil
}

// FindMatchesBatch runs the single-match path for up to MaxBatchSize entities
// with bounded concurrency, sharing one candidate fetch across the batch. A
// failing entity lands in FailedEntities; it never aborts the rest of the
// batch. Cancellation is advisory between entities: in-flight evaluations run
// to completion, unstarted ones are skipped.
func (e *Engine) FindMatchesBatch(ctx context.Context, entities []string, opts BatchOptions) (*models.BatchMatchResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.FindMatchesBatch")
	defer span.End()

	start := time.Now()

	snap := e.holder.Snapshot()
	cfg := snap.Config

	if len(entities) == 0 {
		return nil, NewValidationError("entities", "batch must contain at least one entity")
	}
	if len(entities) > cfg.MaxBatchSize {
		return nil, NewValidationError("entities", fmt.Sprintf("batch size %d exceeds maximum of %d", len(entities), cfg.MaxBatchSize))
	}
	if err := validateContext(opts.Context); err != nil {
		return nil, err
	}
	if opts.MinConfidence != nil && (*opts.MinConfidence < 0 || *opts.MinConfidence > 1) {
		return nil, NewValidationError("min_confidence", "must be between 0.0 and 1.0")
	}

	loader := newCandidateLoader(e.source)

	var (
		mu        sync.Mutex
		results   = make(map[string][]models.MatchResult, len(entities))
		failed    = []string{}
		cacheHits int
	)

	concurrency := cfg.MaxConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for _, entity := range entities {
		group.Go(func() error {
			if gctx.Err() != nil {
				mu.Lock()
				failed = append(failed, entity)
				mu.Unlock()
				return nil
			}

			if err := validateEntity(entity); err != nil {
				e.logger.WithContext(gctx).WithError(err).Warn("Skipping invalid batch entity")
				mu.Lock()
				failed = append(failed, entity)
				mu.Unlock()
				return nil
			}

			ranked, hit, err := e.findRanked(gctx, snap, loader, entity, opts.MatchOptions)
			if err != nil {
				e.logger.WithContext(gctx).WithError(err).WithFields(map[string]any{
					"entity": entity,
				}).Warn("Failed to score batch entity")
				mu.Lock()
				failed = append(failed, entity)
				mu.Unlock()
				return nil
			}

			fullCount := len(ranked)
			ranked = applyEarlyTermination(cfg.EarlyTermination, ranked)
			if len(ranked) < fullCount {
				metrics.EarlyTerminationsTotal.Inc()
			}
			ranked = FilterMatches(ranked, opts.MatchTypes, opts.MinConfidence)

			mu.Lock()
			results[entity] = ranked
			if hit {
				cacheHits++
			}
			mu.Unlock()
			return nil
		})
	}

	// Workers report failures per entity instead of returning errors.
	_ = group.Wait()

	elapsed := time.Since(start)
	metrics.RecordBatchRequest(len(entities), elapsed.Seconds())

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"entities":   len(entities),
		"failed":     len(failed),
		"cache_hits": cacheHits,
		"elapsed_ms": elapsed.Milliseconds(),
	}).Info("Completed batch match")

	return &models.BatchMatchResponse{
		Results:          results,
		CacheHits:        cacheHits,
		FailedEntities:   failed,
		ProcessingTimeMs: elapsed.Milliseconds(),
	}, nil
}

// findRanked produces the full ranked list for one entity, consulting the
// cache unless the caller forces a refresh. The cache always stores the
// complete list; early-termination truncation happens at return time so hits
// and misses produce identical views.
func (e *Engine) findRanked(ctx context.Context, snap *Snapshot, loader *candidateLoader, entity string, opts MatchOptions) ([]models.MatchResult, bool, error) {
	query := newScoreQuery(snap, entity, opts.Context, opts.Location)
	key := CacheKey(query.normalized, snap.Normalize(opts.Context), normalizeLocation(opts.Location), snap.Version)

	if !opts.ForceRefresh {
		if cached, ok := e.cache.Get(ctx, key); ok {
			metrics.RecordCacheOperation("hit")
			return cached, true, nil
		}
		metrics.RecordCacheOperation("miss")
	}

	candidates, err := loader.load(ctx)
	if err != nil {
		return nil, false, NewStoreError("fetch active candidates", err)
	}

	results := make([]models.MatchResult, 0, len(candidates))
	for _, candidate := range candidates {
		if result, ok := scoreCandidate(snap, query, candidate); ok {
			results = append(results, result)
		}
	}
	sortResults(results)

	e.cache.Put(ctx, key, results, snap.Config.CacheTTL)
	metrics.RecordCacheOperation("put")

	return results, false, nil
}

// FilterMatches applies match-type and minimum-confidence filters to an
// already-ranked list. It never recomputes scores.
func FilterMatches(results []models.MatchResult, types []models.MatchType, minConfidence *float64) []models.MatchResult {
	if len(types) == 0 && minConfidence == nil {
		return results
	}

	allowed := make(map[models.MatchType]struct{}, len(types))
	for _, matchType := range types {
		allowed[matchType] = struct{}{}
	}

	filtered := make([]models.MatchResult, 0, len(results))
	for _, result := range results {
		if len(allowed) > 0 {
			if _, ok := allowed[result.MatchType]; !ok {
				continue
			}
		}
		if minConfidence != nil && result.ConfidenceScore < *minConfidence {
			continue
		}
		filtered = append(filtered, result)
	}

	return filtered
}

// Warmup primes the cache for the given queries with default options. An
// empty query list falls back to the configured warmup queries. It runs
// sequentially; warmup is administrative and must not compete with live
// traffic for concurrency.
func (e *Engine) Warmup(ctx context.Context, queries []string) *models.CacheWarmupResponse {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.Warmup")
	defer span.End()

	snap := e.holder.Snapshot()
	if len(queries) == 0 {
		queries = snap.Config.WarmupQueries
	}
	loader := newCandidateLoader(e.source)

	response := &models.CacheWarmupResponse{Failed: []string{}}
	for _, query := range queries {
		if err := validateEntity(query); err != nil {
			response.Failed = append(response.Failed, query)
			continue
		}
		if _, _, err := e.findRanked(ctx, snap, loader, query, MatchOptions{}); err != nil {
			response.Failed = append(response.Failed, query)
			continue
		}
		response.Warmed++
	}

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"warmed": response.Warmed,
		"failed": len(response.Failed),
	}).Info("Warmed match cache")

	return response
}

// ClearCache drops every cached result list.
func (e *Engine) ClearCache(ctx context.Context) error {
	if err := e.cache.Clear(ctx); err != nil {
		return err
	}
	metrics.RecordCacheOperation("clear")
	e.logger.WithContext(ctx).Info("Cleared match cache")
	return nil
}

// CacheStats reports the cache's administrative view.
func (e *Engine) CacheStats(ctx context.Context) models.CacheStats {
	return e.cache.Stats(ctx)
}

// SwapConfig compiles and activates a new scoring policy.
func (e *Engine) SwapConfig(ctx context.Context, cfg EngineConfig) error {
	if _, err := e.holder.Swap(ctx, cfg); err != nil {
		return err
	}
	metrics.ConfigSwapsTotal.Inc()
	return nil
}

// Diagnostics reports the health of the active scoring policy. Inconsistent
// weights or thresholds show up here; they never fail a request.
func (e *Engine) Diagnostics() models.Diagnostics {
	snap := e.holder.Snapshot()
	cfg := snap.Config

	return models.Diagnostics{
		AlgorithmWeightsSum:     cfg.Weights.Sum(),
		WeightsValid:            cfg.Weights.Valid(),
		ThresholdsDescending:    cfg.Thresholds.Descending(),
		AcronymDetectionEnabled: cfg.Acronym.Enabled,
		EarlyTerminationEnabled: cfg.EarlyTermination.Enabled,
		SupportedCountriesCount: snap.resolver.CountryCount(),
		ConfigVersion:           snap.Version,
		ConfigWarnings:          snap.Warnings(),
	}
}

// candidateLoader memoizes one catalog fetch so a batch shares a single store
// round-trip no matter how many of its entities miss the cache.
type candidateLoader struct {
	source CandidateSource
	once   sync.Once
	cands  []models.CandidateRecord
	err    error
}

func newCandidateLoader(source CandidateSource) *candidateLoader {
	return &candidateLoader{source: source}
}

func (l *candidateLoader) load(ctx context.Context) ([]models.CandidateRecord, error) {
	l.once.Do(func() {
		start := time.Now()
		l.cands, l.err = l.source.ActiveCandidates(ctx)
		if l.err == nil {
			metrics.RecordCandidateFetch(len(l.cands), time.Since(start).Seconds())
		}
	})
	return l.cands, l.err
}

func validateEntity(entity string) error {
	if strings.TrimSpace(entity) == "" {
		return NewValidationError("entity", "must not be empty")
	}
	if utf8.RuneCountInString(entity) > maxEntityLength {
		return NewValidationError("entity", fmt.Sprintf("must be at most %d characters", maxEntityLength))
	}
	return nil
}

func validateContext(queryContext string) error {
	if utf8.RuneCountInString(queryContext) > maxContextLength {
		return NewValidationError("context", fmt.Sprintf("must be at most %d characters", maxContextLength))
	}
	return nil
}

func normalizeLocation(location string) string {
	return strings.ToLower(strings.TrimSpace(location))
}
