package models

// MatchType classifies the strength of a single match.
type MatchType string

const (
	MatchTypeExact       MatchType = "exact"        // Normalized texts are identical
	MatchTypeAlias       MatchType = "alias"        // Normalized text equals one of the candidate's aliases
	MatchTypeCoreAcronym MatchType = "core_acronym" // "Full Name (ACRONYM)" equivalence
	MatchTypeCoreMatch   MatchType = "core_match"   // High-similarity band
	MatchTypeWordMatch   MatchType = "word_match"   // Good band with strong word overlap
	MatchTypeFuzzy       MatchType = "fuzzy"        // Good/moderate similarity band
	MatchTypePartial     MatchType = "partial"      // Low band and everything below it
)

// matchTypeRank orders match types from most to least specific. Ties on
// confidence are broken with this rank so result ordering is deterministic.
var matchTypeRank = map[MatchType]int{
	MatchTypeExact:       0,
	MatchTypeAlias:       1,
	MatchTypeCoreAcronym: 2,
	MatchTypeCoreMatch:   3,
	MatchTypeWordMatch:   4,
	MatchTypeFuzzy:       5,
	MatchTypePartial:     6,
}

// Specificity returns the tie-break rank of the match type; lower is stronger.
func (t MatchType) Specificity() int {
	if rank, ok := matchTypeRank[t]; ok {
		return rank
	}
	return len(matchTypeRank)
}

// QualityMetrics carries the per-algorithm breakdown behind a confidence score.
// Boost factors are zero when the corresponding signal was absent.
type QualityMetrics struct {
	JaroWinkler     float64 `json:"jaro_winkler"`
	Levenshtein     float64 `json:"levenshtein"`
	WordOverlap     float64 `json:"word_overlap"`
	Trigram         float64 `json:"trigram"`
	WeightedScore   float64 `json:"weighted_score"`
	GeographicBoost float64 `json:"geographic_boost,omitempty"`
	OrgTypeBoost    float64 `json:"org_type_boost,omitempty"`
	AcronymBoost    float64 `json:"acronym_boost,omitempty"`
	MatchedName     string  `json:"matched_name,omitempty"`
	Explanation     string  `json:"explanation,omitempty"`
}

// MatchResult is the externally visible output unit of the engine.
type MatchResult struct {
	DatasetName      string         `json:"dataset_name"`
	OrganizationName string         `json:"organization_name"`
	MatchType        MatchType      `json:"match_type"`
	Category         *string        `json:"category,omitempty"`
	ConfidenceScore  float64        `json:"confidence_score"`
	QualityMetrics   QualityMetrics `json:"quality_metrics"`
}

// MatchRequest is the single-entity search request.
type MatchRequest struct {
	Entity        string      `json:"entity" validate:"required,min=1,max=500"`
	Context       string      `json:"context,omitempty" validate:"omitempty,max=1000"`
	Location      string      `json:"location,omitempty" validate:"omitempty,max=200"`
	MatchTypes    []MatchType `json:"match_types,omitempty"`
	MinConfidence *float64    `json:"min_confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
	ForceRefresh  bool        `json:"force_refresh,omitempty"`
}

// BatchMatchRequest searches up to 100 entities with shared options.
type BatchMatchRequest struct {
	Entities      []string    `json:"entities" validate:"required,min=1,max=100,dive,min=1,max=500"`
	Context       string      `json:"context,omitempty" validate:"omitempty,max=1000"`
	Location      string      `json:"location,omitempty" validate:"omitempty,max=200"`
	MatchTypes    []MatchType `json:"match_types,omitempty"`
	MinConfidence *float64    `json:"min_confidence,omitempty" validate:"omitempty,gte=0,lte=1"`
	ForceRefresh  bool        `json:"force_refresh,omitempty"`
}

// MatchResponse is the single-entity search response.
type MatchResponse struct {
	Matches          []MatchResult `json:"matches"`
	CacheHit         bool          `json:"cache_hit"`
	ProcessingTimeMs int64         `json:"processing_time_ms"`
}

// BatchMatchResponse keys results by the entity string as given. Entities that
// failed validation or scoring appear in FailedEntities and never in Results.
type BatchMatchResponse struct {
	Results          map[string][]MatchResult `json:"results"`
	CacheHits        int                      `json:"cache_hits"`
	FailedEntities   []string                 `json:"failed_entities"`
	ProcessingTimeMs int64                    `json:"processing_time_ms"`
}

// CacheWarmupRequest pre-populates the cache for common queries. An empty
// list warms the queries configured in the rules file.
type CacheWarmupRequest struct {
	Queries []string `json:"queries,omitempty" validate:"omitempty,max=100,dive,min=1,max=500"`
}

// CacheWarmupResponse reports how the warmup run went.
type CacheWarmupResponse struct {
	Warmed int      `json:"warmed"`
	Failed []string `json:"failed,omitempty"`
}

// CacheStats is the administrative view of the result cache.
type CacheStats struct {
	Entries     int     `json:"entries"`
	MaxEntries  int     `json:"max_entries"`
	TTLSeconds  int     `json:"ttl_seconds"`
	Hits        int64   `json:"hits"`
	Misses      int64   `json:"misses"`
	HitRate     float64 `json:"hit_rate"`
	Evictions   int64   `json:"evictions"`
	Expirations int64   `json:"expirations"`
}

// Diagnostics reports configuration health for the matching engine. Weight and
// threshold inconsistencies are surfaced here, never enforced at runtime.
type Diagnostics struct {
	AlgorithmWeightsSum     float64  `json:"algorithm_weights_sum"`
	WeightsValid            bool     `json:"weights_valid"`
	ThresholdsDescending    bool     `json:"thresholds_descending"`
	AcronymDetectionEnabled bool     `json:"acronym_detection_enabled"`
	EarlyTerminationEnabled bool     `json:"early_termination_enabled"`
	SupportedCountriesCount int      `json:"supported_countries_count"`
	ConfigVersion           string   `json:"config_version"`
	ConfigWarnings          []string `json:"config_warnings"`
}
