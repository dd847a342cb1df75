package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Ramsey-B/aster/pkg/models"
)

// scoreQuery is the precomputed view of one search input, shared across every
// candidate scored for it.
type scoreQuery struct {
	raw        string
	normalized string
	location   string
	boostText  string
}

func newScoreQuery(snap *Snapshot, entity, queryContext, location string) scoreQuery {
	query := scoreQuery{
		raw:        entity,
		normalized: snap.Normalize(entity),
		location:   location,
		boostText:  entity,
	}
	if queryContext != "" {
		query.boostText = entity + " " + queryContext
	}
	return query
}

type candidateName struct {
	text  string
	alias bool
}

// scoreCandidate scores one catalog record against the query. The official
// name and every alias are scored independently and the best result wins;
// comparisons are strict so the official name is preferred on ties.
func scoreCandidate(snap *Snapshot, query scoreQuery, candidate models.CandidateRecord) (models.MatchResult, bool) {
	names := make([]candidateName, 0, 1+len(candidate.Aliases))
	names = append(names, candidateName{text: candidate.OrganizationName})
	for _, alias := range candidate.Aliases {
		names = append(names, candidateName{text: alias, alias: true})
	}

	var best models.MatchResult
	found := false
	for _, name := range names {
		if strings.TrimSpace(name.text) == "" {
			continue
		}

		result := scoreName(snap, query, candidate, name)
		if !found || betterResult(result, best) {
			best = result
			found = true
		}
	}

	return best, found
}

// scoreName runs the scoring pipeline for a single candidate name: exact
// normalized equality, then acronym detection, then the weighted similarity
// blend with contextual boosts. The first two short-circuit.
func scoreName(snap *Snapshot, query scoreQuery, candidate models.CandidateRecord, name candidateName) models.MatchResult {
	result := models.MatchResult{
		DatasetName:      candidate.DatasetName,
		OrganizationName: candidate.OrganizationName,
		Category:         candidate.Category,
	}

	normalizedName := snap.Normalize(name.text)

	// Identical normalized text is a perfect match. The empty-string guard
	// keeps inputs that normalize away entirely from matching each other.
	if query.normalized != "" && query.normalized == normalizedName {
		result.MatchType = models.MatchTypeExact
		if name.alias {
			result.MatchType = models.MatchTypeAlias
		}
		result.ConfidenceScore = 1.0
		result.QualityMetrics = models.QualityMetrics{
			JaroWinkler:   1.0,
			Levenshtein:   1.0,
			WordOverlap:   1.0,
			Trigram:       1.0,
			WeightedScore: 1.0,
			MatchedName:   name.text,
			Explanation:   "Perfect text match",
		}
		return result
	}

	// Annotated acronym forms bypass the similarity blend entirely.
	if detection := snap.detector.Detect(query.raw, name.text); detection.IsMatch {
		result.MatchType = models.MatchTypeCoreAcronym
		result.ConfidenceScore = clamp01(detection.Confidence)
		result.QualityMetrics = models.QualityMetrics{
			AcronymBoost: detection.Boost,
			MatchedName:  name.text,
			Explanation:  detection.Explanation,
		}
		return result
	}

	cfg := snap.Config
	metrics := models.QualityMetrics{
		JaroWinkler: snap.scorer.JaroWinkler(query.normalized, normalizedName),
		Levenshtein: snap.scorer.Levenshtein(query.normalized, normalizedName),
		WordOverlap: snap.scorer.WordOverlap(query.normalized, normalizedName),
		Trigram:     snap.scorer.NGram(query.normalized, normalizedName, cfg.NGramSize),
		MatchedName: name.text,
	}

	// Weights are applied as configured, even when they don't sum to 1.0;
	// that inconsistency is surfaced through diagnostics instead.
	metrics.WeightedScore = cfg.Weights.JaroWinkler*metrics.JaroWinkler +
		cfg.Weights.Levenshtein*metrics.Levenshtein +
		cfg.Weights.WordOverlap*metrics.WordOverlap +
		cfg.Weights.Trigram*metrics.Trigram

	score := metrics.WeightedScore
	if factor, ok := snap.booster.Geographic(query.location, candidate.Countries); ok {
		score *= factor
		metrics.GeographicBoost = factor
	}
	if factor, orgType, ok := snap.booster.OrgType(query.boostText, name.text); ok {
		score *= factor
		metrics.OrgTypeBoost = factor
		metrics.Explanation = fmt.Sprintf("Organization type boost: %s", orgType)
	}

	result.ConfidenceScore = clamp01(score)
	result.MatchType = classify(cfg, result.ConfidenceScore, metrics.WordOverlap)
	result.QualityMetrics = metrics

	return result
}

// classify maps a final score onto the match-type taxonomy by scanning the
// configured thresholds from highest to lowest. Within the good-similarity
// band a strong word-level component reclassifies to word_match. Scores below
// the lowest threshold still classify as partial; nothing is ever dropped
// here.
func classify(cfg EngineConfig, score, wordScore float64) models.MatchType {
	thresholds := cfg.Thresholds
	switch {
	case score >= thresholds.ExactMatch:
		return models.MatchTypeExact
	case score >= thresholds.HighSimilarity:
		return models.MatchTypeCoreMatch
	case score >= thresholds.GoodSimilarity:
		if wordScore > cfg.WordMatchCutoff {
			return models.MatchTypeWordMatch
		}
		return models.MatchTypeFuzzy
	case score >= thresholds.ModerateSimilarity:
		return models.MatchTypeFuzzy
	default:
		return models.MatchTypePartial
	}
}

// betterResult reports whether a should replace b: higher confidence first,
// then the more specific match type.
func betterResult(a, b models.MatchResult) bool {
	if a.ConfidenceScore != b.ConfidenceScore {
		return a.ConfidenceScore > b.ConfidenceScore
	}
	return a.MatchType.Specificity() < b.MatchType.Specificity()
}

// sortResults orders by confidence descending, breaking ties toward the more
// specific match type and then by name for a stable presentation order.
func sortResults(results []models.MatchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].ConfidenceScore != results[j].ConfidenceScore {
			return results[i].ConfidenceScore > results[j].ConfidenceScore
		}
		if results[i].MatchType != results[j].MatchType {
			return results[i].MatchType.Specificity() < results[j].MatchType.Specificity()
		}
		return results[i].OrganizationName < results[j].OrganizationName
	})
}

// applyEarlyTermination truncates a ranked result list once a high-confidence
// hit is present, keeping at least the configured minimum window so callers
// still see nearby alternatives.
func applyEarlyTermination(cfg EarlyTermination, results []models.MatchResult) []models.MatchResult {
	if !cfg.Enabled || len(results) == 0 {
		return results
	}

	firstHit := -1
	for i, result := range results {
		if result.ConfidenceScore >= cfg.Cutoff {
			firstHit = i
			break
		}
	}
	if firstHit < 0 {
		return results
	}

	keep := cfg.MinResults
	if firstHit+1 > keep {
		keep = firstHit + 1
	}
	if keep >= len(results) {
		return results
	}

	return results[:keep]
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
