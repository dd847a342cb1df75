// Package boost computes multiplicative score adjustments from side-channel
// context: geography and organization-type keywords.
package boost

import (
	"strings"

	"github.com/Ramsey-B/aster/pkg/geography"
)

// OrgTypeRule boosts candidates whose text mentions a keyword of one
// organization type.
type OrgTypeRule struct {
	Type     string   `yaml:"type"`
	Keywords []string `yaml:"keywords"`
	Factor   float64  `yaml:"factor"`
}

// Config holds both boost tables. Factors are multiplicative; 1.0 is neutral.
type Config struct {
	GeographicEnabled bool
	GeographicFactors map[geography.Relationship]float64
	OrgTypeEnabled    bool
	OrgTypes          []OrgTypeRule
}

func DefaultConfig() Config {
	return Config{
		GeographicEnabled: true,
		GeographicFactors: map[geography.Relationship]float64{
			geography.RelationshipSameCountry: 1.15,
			geography.RelationshipSameRegion:  1.05,
			geography.RelationshipDifferent:   0.95,
			geography.RelationshipUnknown:     1.0,
		},
		OrgTypeEnabled: true,
		OrgTypes: []OrgTypeRule{
			{Type: "academic", Keywords: []string{"university", "college", "academy", "school"}, Factor: 1.1},
			{Type: "research", Keywords: []string{"research", "laboratory", "institute", "center", "centre"}, Factor: 1.1},
			{Type: "government", Keywords: []string{"ministry", "department", "agency", "bureau", "commission"}, Factor: 1.1},
			{Type: "military", Keywords: []string{"military", "defense", "defence", "army", "navy", "air force"}, Factor: 1.15},
		},
	}
}

// Booster evaluates the configured boost tables. Safe for concurrent use.
type Booster struct {
	config   Config
	resolver *geography.Resolver
}

func New(config Config, resolver *geography.Resolver) *Booster {
	return &Booster{
		config:   config,
		resolver: resolver,
	}
}

// Geographic returns the boost factor for the search location against the
// candidate's country list (first country wins). The bool reports whether a
// factor was actually computed; callers multiply by 1.0 otherwise.
func (b *Booster) Geographic(searchLocation string, candidateCountries []string) (float64, bool) {
	if !b.config.GeographicEnabled || searchLocation == "" || len(candidateCountries) == 0 {
		return 1.0, false
	}

	rel := b.resolver.Relate(searchLocation, candidateCountries[0])
	factor, ok := b.config.GeographicFactors[rel]
	if !ok {
		return 1.0, false
	}
	return factor, true
}

// OrgType scans the concatenated search and target text for the configured
// keyword sets. When several types match, the largest factor wins; factors
// are never multiplied together.
func (b *Booster) OrgType(searchText, targetText string) (float64, string, bool) {
	if !b.config.OrgTypeEnabled || len(b.config.OrgTypes) == 0 {
		return 1.0, "", false
	}

	text := strings.ToLower(searchText + " " + targetText)

	best := 0.0
	bestType := ""
	for _, rule := range b.config.OrgTypes {
		for _, kw := range rule.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(text, strings.ToLower(kw)) {
				if rule.Factor > best {
					best = rule.Factor
					bestType = rule.Type
				}
				break
			}
		}
	}

	if bestType == "" {
		return 1.0, "", false
	}
	return best, bestType, true
}
