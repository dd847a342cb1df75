package matching

import (
	"fmt"
	"math"
	"time"

	"github.com/Ramsey-B/aster/pkg/acronym"
	"github.com/Ramsey-B/aster/pkg/boost"
	"github.com/Ramsey-B/aster/pkg/fingerprint"
	"github.com/Ramsey-B/aster/pkg/normalize"
)

// weightSumTolerance bounds how far the weight sum may drift from 1.0 before
// the configuration is flagged in diagnostics.
const weightSumTolerance = 0.001

// Weights are the per-algorithm contributions to the combined score. They are
// used exactly as configured; a sum away from 1.0 is reported, never fixed.
type Weights struct {
	JaroWinkler float64 `json:"jaro_winkler"`
	Levenshtein float64 `json:"levenshtein"`
	WordOverlap float64 `json:"word_overlap"`
	Trigram     float64 `json:"trigram"`
}

func (w Weights) Sum() float64 {
	return w.JaroWinkler + w.Levenshtein + w.WordOverlap + w.Trigram
}

func (w Weights) Valid() bool {
	return math.Abs(w.Sum()-1.0) <= weightSumTolerance
}

// Thresholds classify a combined score into a match type. They are expected
// to descend from ExactMatch to LowSimilarity.
type Thresholds struct {
	ExactMatch         float64 `json:"exact_match"`
	HighSimilarity     float64 `json:"high_similarity"`
	GoodSimilarity     float64 `json:"good_similarity"`
	ModerateSimilarity float64 `json:"moderate_similarity"`
	LowSimilarity      float64 `json:"low_similarity"`
}

func (t Thresholds) Descending() bool {
	return t.ExactMatch >= t.HighSimilarity &&
		t.HighSimilarity >= t.GoodSimilarity &&
		t.GoodSimilarity >= t.ModerateSimilarity &&
		t.ModerateSimilarity >= t.LowSimilarity
}

// EarlyTermination bounds how many ranked results a query returns once a
// high-confidence match exists.
type EarlyTermination struct {
	Enabled    bool    `json:"enabled"`
	Cutoff     float64 `json:"cutoff"`
	MinResults int     `json:"min_results"`
}

// EngineConfig is one immutable scoring policy. Snapshots are swapped whole;
// nothing mutates a live config.
type EngineConfig struct {
	Weights          Weights          `json:"weights"`
	Thresholds       Thresholds       `json:"thresholds"`
	WordMatchCutoff  float64          `json:"word_match_cutoff"`
	NGramSize        int              `json:"ngram_size"`
	Normalize        normalize.Config `json:"normalize"`
	Acronym          acronym.Config   `json:"acronym"`
	Boost            boost.Config     `json:"boost"`
	CacheTTL         time.Duration    `json:"cache_ttl"`
	CacheMaxEntries  int              `json:"cache_max_entries"`
	EarlyTermination EarlyTermination `json:"early_termination"`
	MaxBatchSize     int              `json:"max_batch_size"`
	MaxConcurrency   int              `json:"max_concurrency"`
	WarmupQueries    []string         `json:"warmup_queries,omitempty"`
}

// DefaultEngineConfig returns the scoring policy used when no rules file is
// present.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Weights: Weights{
			JaroWinkler: 0.4,
			Levenshtein: 0.3,
			WordOverlap: 0.2,
			Trigram:     0.1,
		},
		Thresholds: Thresholds{
			ExactMatch:         0.95,
			HighSimilarity:     0.85,
			GoodSimilarity:     0.70,
			ModerateSimilarity: 0.55,
			LowSimilarity:      0.40,
		},
		WordMatchCutoff: 0.8,
		NGramSize:       3,
		Normalize:       normalize.DefaultConfig(),
		Acronym:         acronym.DefaultConfig(),
		Boost:           boost.DefaultConfig(),
		CacheTTL:        60 * time.Minute,
		CacheMaxEntries: 1000,
		EarlyTermination: EarlyTermination{
			Enabled:    true,
			Cutoff:     0.85,
			MinResults: 3,
		},
		MaxBatchSize:   100,
		MaxConcurrency: 10,
	}
}

// Fingerprint identifies this policy; it keys the cache so a config change
// never serves results scored under an old policy.
func (c EngineConfig) Fingerprint() (string, error) {
	return fingerprint.FromValue(c)
}

// Warnings lists configuration inconsistencies. They are diagnostic only:
// scoring proceeds with the values as given.
func (c EngineConfig) Warnings() []string {
	var warnings []string

	if !c.Weights.Valid() {
		warnings = append(warnings, fmt.Sprintf("algorithm weights sum to %.4f, expected 1.0", c.Weights.Sum()))
	}
	if !c.Thresholds.Descending() {
		warnings = append(warnings, "match-type thresholds are not in descending order")
	}
	if c.EarlyTermination.Enabled && c.EarlyTermination.MinResults < 1 {
		warnings = append(warnings, "early termination minimum result window is below 1")
	}
	if c.MaxConcurrency < 1 {
		warnings = append(warnings, "max concurrency is below 1, batches will run serially")
	}

	return warnings
}
