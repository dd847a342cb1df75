package similarity

import "strings"

// DefaultNGramSize is the n-gram width used for character-level overlap.
const DefaultNGramSize = 3

// WordOverlap returns the Jaccard index of the two strings' lowercase word
// sets. Two empty strings score 0, not 1: there are no words to agree on.
func (s *Scorer) WordOverlap(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)

	if len(wordsA) == 0 && len(wordsB) == 0 {
		return 0.0
	}
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range wordsA {
		if _, ok := wordsB[w]; ok {
			intersection++
		}
	}

	union := len(wordsA) + len(wordsB) - intersection
	return float64(intersection) / float64(union)
}

// Trigram returns the character trigram overlap of the two strings.
func (s *Scorer) Trigram(a, b string) float64 {
	return s.NGram(a, b, DefaultNGramSize)
}

// NGram returns the Jaccard index of the two strings' character n-gram sets.
// Strings shorter than n fall back to whole-string equality.
func (s *Scorer) NGram(a, b string, n int) float64 {
	if n < 1 {
		n = DefaultNGramSize
	}

	ra := []rune(a)
	rb := []rune(b)

	if len(ra) < n || len(rb) < n {
		if a == b && a != "" {
			return 1.0
		}
		return 0.0
	}

	gramsA := nGramSet(ra, n)
	gramsB := nGramSet(rb, n)

	intersection := 0
	for g := range gramsA {
		if _, ok := gramsB[g]; ok {
			intersection++
		}
	}

	union := len(gramsA) + len(gramsB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func nGramSet(runes []rune, n int) map[string]struct{} {
	set := make(map[string]struct{}, len(runes))
	for i := 0; i+n <= len(runes); i++ {
		set[string(runes[i:i+n])] = struct{}{}
	}
	return set
}
