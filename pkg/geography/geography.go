// Package geography resolves free-text locations to countries and computes
// the relationship between two locations for boosting.
package geography

import "strings"

// Relationship describes how two resolved locations relate.
type Relationship string

const (
	RelationshipSameCountry Relationship = "same_country"
	RelationshipSameRegion  Relationship = "same_region"
	RelationshipDifferent   Relationship = "different"
	RelationshipUnknown     Relationship = "unknown" // one or both sides did not resolve
)

// Country is one entry of the reference table.
type Country struct {
	Code    string
	Name    string
	Region  string
	Aliases []string
}

// Resolver maps location strings to countries. Safe for concurrent use once
// constructed.
type Resolver struct {
	countries []Country
	index     map[string]int // lowercased code/name/alias -> countries index
}

// NewResolver builds a resolver over the built-in reference table.
func NewResolver() *Resolver {
	return NewResolverWithTable(countryTable)
}

// NewResolverWithTable builds a resolver over a caller-supplied table.
func NewResolverWithTable(table []Country) *Resolver {
	r := &Resolver{
		countries: table,
		index:     make(map[string]int, len(table)*3),
	}
	for i, c := range table {
		r.index[strings.ToLower(c.Code)] = i
		r.index[strings.ToLower(c.Name)] = i
		for _, a := range c.Aliases {
			r.index[strings.ToLower(a)] = i
		}
	}
	return r
}

// CountryCount reports the size of the reference table.
func (r *Resolver) CountryCount() int {
	return len(r.countries)
}

// Normalize resolves a location string to a country. It tries an exact
// code/name/alias lookup first, then scans for a known name appearing as a
// token inside the string, so "Beijing, China" resolves to CN.
func (r *Resolver) Normalize(location string) (Country, bool) {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return Country{}, false
	}

	if i, ok := r.index[loc]; ok {
		return r.countries[i], true
	}

	// Token scan over a lightly cleaned copy of the input.
	cleaned := strings.Map(func(ru rune) rune {
		switch ru {
		case ',', '.', ';', '(', ')':
			return ' '
		}
		return ru
	}, loc)

	tokens := strings.Fields(cleaned)
	for _, tok := range tokens {
		if i, ok := r.index[tok]; ok {
			return r.countries[i], true
		}
	}

	// Multi-word names ("united states", "saudi arabia") survive as substrings.
	for key, i := range r.index {
		if strings.Contains(key, " ") && strings.Contains(cleaned, key) {
			return r.countries[i], true
		}
	}

	return Country{}, false
}

// Relate computes the relationship between two location strings.
func (r *Resolver) Relate(a, b string) Relationship {
	ca, okA := r.Normalize(a)
	cb, okB := r.Normalize(b)

	if !okA || !okB {
		return RelationshipUnknown
	}
	if ca.Code == cb.Code {
		return RelationshipSameCountry
	}
	if ca.Region == cb.Region {
		return RelationshipSameRegion
	}
	return RelationshipDifferent
}
