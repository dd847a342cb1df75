package config

import (
	"fmt"
	"os"
	"time"

	"github.com/Ramsey-B/aster/pkg/boost"
	"github.com/Ramsey-B/aster/pkg/geography"
	"github.com/Ramsey-B/aster/pkg/matching"
	"gopkg.in/yaml.v3"
)

// rulesFile is the YAML schema for the matching rules file. The decoder runs
// over a copy of the built-in defaults, so a rules file only has to state the
// values it changes.
type rulesFile struct {
	Weights          weightsRule    `yaml:"weights"`
	Thresholds       thresholdsRule `yaml:"thresholds"`
	WordMatchCutoff  float64        `yaml:"word_match_cutoff"`
	NGramSize        int            `yaml:"ngram_size"`
	Normalize        normalizeRule  `yaml:"normalize"`
	Acronym          acronymRule    `yaml:"acronym"`
	Boosts           boostsRule     `yaml:"boosts"`
	Cache            cacheRule      `yaml:"cache"`
	EarlyTermination earlyTermRule  `yaml:"early_termination"`
	Batch            batchRule      `yaml:"batch"`
	WarmupQueries    []string       `yaml:"warmup_queries"`
}

type weightsRule struct {
	JaroWinkler float64 `yaml:"jaro_winkler"`
	Levenshtein float64 `yaml:"levenshtein"`
	WordOverlap float64 `yaml:"word_overlap"`
	Trigram     float64 `yaml:"trigram"`
}

type thresholdsRule struct {
	ExactMatch         float64 `yaml:"exact_match"`
	HighSimilarity     float64 `yaml:"high_similarity"`
	GoodSimilarity     float64 `yaml:"good_similarity"`
	ModerateSimilarity float64 `yaml:"moderate_similarity"`
	LowSimilarity      float64 `yaml:"low_similarity"`
}

type normalizeRule struct {
	Lowercase          bool     `yaml:"lowercase"`
	StripPunctuation   bool     `yaml:"strip_punctuation"`
	CollapseWhitespace bool     `yaml:"collapse_whitespace"`
	RemoveStopwords    bool     `yaml:"remove_stopwords"`
	StripOrgSuffixes   bool     `yaml:"strip_org_suffixes"`
	Stopwords          []string `yaml:"stopwords"`
	OrgSuffixes        []string `yaml:"org_suffixes"`
}

type acronymRule struct {
	Enabled     bool     `yaml:"enabled"`
	Patterns    []string `yaml:"patterns"`
	BoostFactor float64  `yaml:"boost_factor"`
}

type boostsRule struct {
	Geographic geographicRule `yaml:"geographic"`
	OrgTypes   orgTypesRule   `yaml:"organization_types"`
}

type geographicRule struct {
	Enabled     bool    `yaml:"enabled"`
	SameCountry float64 `yaml:"same_country"`
	SameRegion  float64 `yaml:"same_region"`
	Different   float64 `yaml:"different"`
	Unknown     float64 `yaml:"unknown"`
}

type orgTypesRule struct {
	Enabled bool                `yaml:"enabled"`
	Rules   []boost.OrgTypeRule `yaml:"rules"`
}

type cacheRule struct {
	TTL        string `yaml:"ttl"`
	MaxEntries int    `yaml:"max_entries"`
}

type earlyTermRule struct {
	Enabled    bool    `yaml:"enabled"`
	Cutoff     float64 `yaml:"cutoff"`
	MinResults int     `yaml:"min_results"`
}

type batchRule struct {
	MaxSize        int `yaml:"max_size"`
	MaxConcurrency int `yaml:"max_concurrency"`
}

// LoadRules reads the matching rules file at path and returns the resulting
// engine configuration. A missing file is not an error: the built-in defaults
// are returned and found is false.
func LoadRules(path string) (cfg matching.EngineConfig, found bool, err error) {
	defaults := matching.DefaultEngineConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaults, false, nil
	}
	if err != nil {
		return matching.EngineConfig{}, false, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	file := rulesFromConfig(defaults)
	if err := yaml.Unmarshal(data, &file); err != nil {
		return matching.EngineConfig{}, false, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	cfg, err = file.toConfig(defaults)
	if err != nil {
		return matching.EngineConfig{}, false, fmt.Errorf("invalid rules file %s: %w", path, err)
	}

	return cfg, true, nil
}

func rulesFromConfig(cfg matching.EngineConfig) rulesFile {
	return rulesFile{
		Weights: weightsRule{
			JaroWinkler: cfg.Weights.JaroWinkler,
			Levenshtein: cfg.Weights.Levenshtein,
			WordOverlap: cfg.Weights.WordOverlap,
			Trigram:     cfg.Weights.Trigram,
		},
		Thresholds: thresholdsRule{
			ExactMatch:         cfg.Thresholds.ExactMatch,
			HighSimilarity:     cfg.Thresholds.HighSimilarity,
			GoodSimilarity:     cfg.Thresholds.GoodSimilarity,
			ModerateSimilarity: cfg.Thresholds.ModerateSimilarity,
			LowSimilarity:      cfg.Thresholds.LowSimilarity,
		},
		WordMatchCutoff: cfg.WordMatchCutoff,
		NGramSize:       cfg.NGramSize,
		Normalize: normalizeRule{
			Lowercase:          cfg.Normalize.Lowercase,
			StripPunctuation:   cfg.Normalize.StripPunctuation,
			CollapseWhitespace: cfg.Normalize.CollapseWhitespace,
			RemoveStopwords:    cfg.Normalize.RemoveStopwords,
			StripOrgSuffixes:   cfg.Normalize.StripOrgSuffixes,
			Stopwords:          cfg.Normalize.Stopwords,
			OrgSuffixes:        cfg.Normalize.OrgSuffixes,
		},
		Acronym: acronymRule{
			Enabled:     cfg.Acronym.Enabled,
			Patterns:    cfg.Acronym.Patterns,
			BoostFactor: cfg.Acronym.BoostFactor,
		},
		Boosts: boostsRule{
			Geographic: geographicRule{
				Enabled:     cfg.Boost.GeographicEnabled,
				SameCountry: cfg.Boost.GeographicFactors[geography.RelationshipSameCountry],
				SameRegion:  cfg.Boost.GeographicFactors[geography.RelationshipSameRegion],
				Different:   cfg.Boost.GeographicFactors[geography.RelationshipDifferent],
				Unknown:     cfg.Boost.GeographicFactors[geography.RelationshipUnknown],
			},
			OrgTypes: orgTypesRule{
				Enabled: cfg.Boost.OrgTypeEnabled,
				Rules:   cfg.Boost.OrgTypes,
			},
		},
		Cache: cacheRule{
			TTL:        cfg.CacheTTL.String(),
			MaxEntries: cfg.CacheMaxEntries,
		},
		EarlyTermination: earlyTermRule{
			Enabled:    cfg.EarlyTermination.Enabled,
			Cutoff:     cfg.EarlyTermination.Cutoff,
			MinResults: cfg.EarlyTermination.MinResults,
		},
		Batch: batchRule{
			MaxSize:        cfg.MaxBatchSize,
			MaxConcurrency: cfg.MaxConcurrency,
		},
		WarmupQueries: cfg.WarmupQueries,
	}
}

func (f rulesFile) toConfig(defaults matching.EngineConfig) (matching.EngineConfig, error) {
	ttl, err := time.ParseDuration(f.Cache.TTL)
	if err != nil {
		return matching.EngineConfig{}, fmt.Errorf("invalid cache ttl %q: %w", f.Cache.TTL, err)
	}

	cfg := defaults
	cfg.Weights = matching.Weights{
		JaroWinkler: f.Weights.JaroWinkler,
		Levenshtein: f.Weights.Levenshtein,
		WordOverlap: f.Weights.WordOverlap,
		Trigram:     f.Weights.Trigram,
	}
	cfg.Thresholds = matching.Thresholds{
		ExactMatch:         f.Thresholds.ExactMatch,
		HighSimilarity:     f.Thresholds.HighSimilarity,
		GoodSimilarity:     f.Thresholds.GoodSimilarity,
		ModerateSimilarity: f.Thresholds.ModerateSimilarity,
		LowSimilarity:      f.Thresholds.LowSimilarity,
	}
	cfg.WordMatchCutoff = f.WordMatchCutoff
	cfg.NGramSize = f.NGramSize
	cfg.Normalize.Lowercase = f.Normalize.Lowercase
	cfg.Normalize.StripPunctuation = f.Normalize.StripPunctuation
	cfg.Normalize.CollapseWhitespace = f.Normalize.CollapseWhitespace
	cfg.Normalize.RemoveStopwords = f.Normalize.RemoveStopwords
	cfg.Normalize.StripOrgSuffixes = f.Normalize.StripOrgSuffixes
	cfg.Normalize.Stopwords = f.Normalize.Stopwords
	cfg.Normalize.OrgSuffixes = f.Normalize.OrgSuffixes
	cfg.Acronym.Enabled = f.Acronym.Enabled
	cfg.Acronym.Patterns = f.Acronym.Patterns
	cfg.Acronym.BoostFactor = f.Acronym.BoostFactor
	cfg.Boost.GeographicEnabled = f.Boosts.Geographic.Enabled
	cfg.Boost.GeographicFactors = map[geography.Relationship]float64{
		geography.RelationshipSameCountry: f.Boosts.Geographic.SameCountry,
		geography.RelationshipSameRegion:  f.Boosts.Geographic.SameRegion,
		geography.RelationshipDifferent:   f.Boosts.Geographic.Different,
		geography.RelationshipUnknown:     f.Boosts.Geographic.Unknown,
	}
	cfg.Boost.OrgTypeEnabled = f.Boosts.OrgTypes.Enabled
	cfg.Boost.OrgTypes = f.Boosts.OrgTypes.Rules
	cfg.CacheTTL = ttl
	cfg.CacheMaxEntries = f.Cache.MaxEntries
	cfg.EarlyTermination = matching.EarlyTermination{
		Enabled:    f.EarlyTermination.Enabled,
		Cutoff:     f.EarlyTermination.Cutoff,
		MinResults: f.EarlyTermination.MinResults,
	}
	cfg.MaxBatchSize = f.Batch.MaxSize
	cfg.MaxConcurrency = f.Batch.MaxConcurrency
	cfg.WarmupQueries = f.WarmupQueries

	return cfg, nil
}
