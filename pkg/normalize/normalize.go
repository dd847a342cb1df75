// Package normalize prepares organization names for similarity scoring.
package normalize

import (
	"strings"
	"unicode"
)

// Config toggles the individual normalization steps. Steps always run in the
// same order: lowercase, punctuation, whitespace, stopwords, suffixes.
type Config struct {
	Lowercase          bool
	StripPunctuation   bool
	CollapseWhitespace bool
	RemoveStopwords    bool
	StripOrgSuffixes   bool
	Stopwords          []string
	OrgSuffixes        []string
}

// DefaultConfig enables every step with a small built-in vocabulary. Deployed
// vocabularies come from the rules file.
func DefaultConfig() Config {
	return Config{
		Lowercase:          true,
		StripPunctuation:   true,
		CollapseWhitespace: true,
		RemoveStopwords:    true,
		StripOrgSuffixes:   true,
		Stopwords:          []string{"the", "of", "and", "for"},
		OrgSuffixes:        []string{"inc", "incorporated", "ltd", "limited", "llc", "corp", "corporation", "co", "company", "gmbh", "plc", "sa"},
	}
}

// Normalizer applies the configured steps to raw text. Construct once per
// config snapshot; Normalize is pure and safe for concurrent use.
type Normalizer struct {
	config    Config
	stopwords map[string]struct{}
	suffixes  map[string]struct{}
}

func New(config Config) *Normalizer {
	n := &Normalizer{
		config:    config,
		stopwords: make(map[string]struct{}, len(config.Stopwords)),
		suffixes:  make(map[string]struct{}, len(config.OrgSuffixes)),
	}
	for _, w := range config.Stopwords {
		n.stopwords[strings.ToLower(w)] = struct{}{}
	}
	for _, s := range config.OrgSuffixes {
		n.suffixes[strings.ToLower(s)] = struct{}{}
	}
	return n
}

// Normalize runs the enabled steps in fixed order. Words are never reordered
// and empty input normalizes to an empty string.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	if n.config.Lowercase {
		text = strings.ToLower(text)
	}
	if n.config.StripPunctuation {
		text = StripPunctuation(text)
	}
	if n.config.CollapseWhitespace {
		text = CollapseWhitespace(text)
	}
	if n.config.RemoveStopwords {
		text = n.removeTokens(text, n.stopwords)
	}
	if n.config.StripOrgSuffixes {
		text = n.removeTokens(text, n.suffixes)
	}

	return text
}

// removeTokens drops whole words present in the set, case-insensitively,
// wherever they appear in the string.
func (n *Normalizer) removeTokens(text string, set map[string]struct{}) string {
	if len(set) == 0 {
		return text
	}

	words := strings.Fields(text)
	kept := words[:0]
	for _, w := range words {
		if _, drop := set[strings.ToLower(w)]; !drop {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// StripPunctuation replaces every non-letter, non-digit, non-space rune with a
// space so token boundaries survive characters like '-' and '/'.
func StripPunctuation(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			result.WriteRune(r)
		} else {
			result.WriteRune(' ')
		}
	}
	return result.String()
}

// CollapseWhitespace folds runs of whitespace into single spaces and trims.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
