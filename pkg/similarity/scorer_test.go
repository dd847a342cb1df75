package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaroWinkler(t *testing.T) {
	s := NewScorer()

	t.Run("should return 1.0 for identical strings", func(t *testing.T) {
		assert.Equal(t, 1.0, s.JaroWinkler("tesla", "tesla"))
		assert.Equal(t, 1.0, s.JaroWinkler("", ""))
	})

	t.Run("should return 0.0 when one string is empty", func(t *testing.T) {
		assert.Equal(t, 0.0, s.JaroWinkler("tesla", ""))
		assert.Equal(t, 0.0, s.JaroWinkler("", "tesla"))
	})

	t.Run("should be symmetric", func(t *testing.T) {
		pairs := [][2]string{
			{"martha", "marhta"},
			{"dwayne", "duane"},
			{"tesla motors", "tesla inc"},
			{"physics research center", "physics research centre"},
		}
		for _, p := range pairs {
			assert.Equal(t, s.JaroWinkler(p[0], p[1]), s.JaroWinkler(p[1], p[0]), "pair %v", p)
		}
	})

	t.Run("should boost shared prefixes over plain jaro", func(t *testing.T) {
		jw := s.JaroWinkler("martha", "marhta")
		jaro := s.Jaro("martha", "marhta")
		assert.Greater(t, jw, jaro)
	})

	t.Run("should match the known martha/marhta value", func(t *testing.T) {
		assert.InDelta(t, 0.9611, s.JaroWinkler("martha", "marhta"), 0.001)
	})

	t.Run("should stay within 0 and 1", func(t *testing.T) {
		pairs := [][2]string{
			{"a", "zzzzzzzz"},
			{"ministry of defense", "defense ministry"},
			{"aaaa", "aaab"},
		}
		for _, p := range pairs {
			score := s.JaroWinkler(p[0], p[1])
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	})

	t.Run("should handle non-ascii names", func(t *testing.T) {
		score := s.JaroWinkler("münchen universität", "munchen universitat")
		assert.Greater(t, score, 0.8)
		assert.LessOrEqual(t, score, 1.0)
	})
}

func TestLevenshtein(t *testing.T) {
	s := NewScorer()

	t.Run("should return 1.0 for identical strings", func(t *testing.T) {
		assert.Equal(t, 1.0, s.Levenshtein("tesla", "tesla"))
	})

	t.Run("should return 1.0 when both strings are empty", func(t *testing.T) {
		assert.Equal(t, 1.0, s.Levenshtein("", ""))
	})

	t.Run("should return 0.0 when one string is empty", func(t *testing.T) {
		assert.Equal(t, 0.0, s.Levenshtein("tesla", ""))
	})

	t.Run("should be symmetric", func(t *testing.T) {
		assert.Equal(t, s.Levenshtein("kitten", "sitting"), s.Levenshtein("sitting", "kitten"))
	})

	t.Run("should normalize by the longer string", func(t *testing.T) {
		// kitten -> sitting needs 3 edits over max length 7
		assert.InDelta(t, 1.0-3.0/7.0, s.Levenshtein("kitten", "sitting"), 1e-9)
	})

	t.Run("should count rune edits not byte edits", func(t *testing.T) {
		assert.Equal(t, 1, s.LevenshteinDistance("café", "cafe"))
	})
}

func TestLevenshteinDistance(t *testing.T) {
	s := NewScorer()

	t.Run("should compute classic distances", func(t *testing.T) {
		assert.Equal(t, 0, s.LevenshteinDistance("same", "same"))
		assert.Equal(t, 3, s.LevenshteinDistance("kitten", "sitting"))
		assert.Equal(t, 5, s.LevenshteinDistance("", "tesla"))
		assert.Equal(t, 1, s.LevenshteinDistance("corp", "corps"))
	})
}
