// Package acronym detects "Full Name (ACRONYM)" equivalences between a search
// string and a candidate name.
package acronym

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/Ramsey-B/aster/pkg/normalize"
)

// confidenceFactor discounts the boost factor for acronym hits: the expansion
// is strong evidence but not a literal text match.
const confidenceFactor = 0.95

// Config controls detection. Patterns are regular expressions with exactly two
// capture groups: group 1 is the full name, group 2 the acronym.
type Config struct {
	Enabled     bool
	Patterns    []string
	BoostFactor float64
}

func DefaultConfig() Config {
	return Config{
		Enabled:     true,
		Patterns:    []string{`^(.+?)\s*\(([A-Za-z][A-Za-z0-9.&-]{1,9})\)\s*$`},
		BoostFactor: 1.0,
	}
}

// Detection is the outcome of one search/target comparison.
type Detection struct {
	IsMatch     bool
	Confidence  float64
	Boost       float64
	FullName    string
	Acronym     string
	Explanation string
}

// Detector applies the configured patterns in both directions. Safe for
// concurrent use once constructed.
type Detector struct {
	config     Config
	patterns   []*regexp.Regexp
	normalizer *normalize.Normalizer
}

func New(config Config, normalizer *normalize.Normalizer) (*Detector, error) {
	patterns := make([]*regexp.Regexp, 0, len(config.Patterns))
	for _, p := range config.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid acronym pattern %q", p)
		}
		patterns = append(patterns, re)
	}

	return &Detector{
		config:     config,
		patterns:   patterns,
		normalizer: normalizer,
	}, nil
}

// Detect checks whether search and target are acronym-equivalent. It first
// treats target as the annotated side ("Full Name (ACRONYM)"), then repeats
// the check with the roles swapped. Raw strings are expected: normalization
// strips the parentheses the patterns rely on.
func (d *Detector) Detect(search, target string) Detection {
	if !d.config.Enabled {
		return Detection{}
	}

	if det := d.matchAnnotated(target, search); det.IsMatch {
		return det
	}
	return d.matchAnnotated(search, target)
}

// matchAnnotated extracts the full name and acronym from annotated and tests
// whether plain refers to either of them.
func (d *Detector) matchAnnotated(annotated, plain string) Detection {
	for _, re := range d.patterns {
		groups := re.FindStringSubmatch(annotated)
		if len(groups) < 3 {
			continue
		}

		fullName := groups[1]
		acr := groups[2]

		normPlain := d.normalizer.Normalize(plain)
		if normPlain == "" {
			continue
		}

		if normPlain == d.normalizer.Normalize(fullName) || normPlain == strings.ToLower(acr) {
			return Detection{
				IsMatch:     true,
				Confidence:  d.config.BoostFactor * confidenceFactor,
				Boost:       d.config.BoostFactor,
				FullName:    fullName,
				Acronym:     acr,
				Explanation: fmt.Sprintf("Acronym match: %s = %s", acr, fullName),
			}
		}
	}

	return Detection{}
}
