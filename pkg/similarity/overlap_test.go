package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordOverlap(t *testing.T) {
	s := NewScorer()

	t.Run("should return 1.0 for the same word set", func(t *testing.T) {
		assert.Equal(t, 1.0, s.WordOverlap("tesla motors", "motors tesla"))
	})

	t.Run("should return 0.0 when both strings are empty", func(t *testing.T) {
		// no words to agree on
		assert.Equal(t, 0.0, s.WordOverlap("", ""))
	})

	t.Run("should return 0.0 when one string is empty", func(t *testing.T) {
		assert.Equal(t, 0.0, s.WordOverlap("tesla", ""))
	})

	t.Run("should compute the jaccard index of word sets", func(t *testing.T) {
		// {ministry, of, defense} vs {ministry, of, education}: 2 shared / 4 union
		assert.InDelta(t, 0.5, s.WordOverlap("ministry of defense", "ministry of education"), 1e-9)
	})

	t.Run("should ignore case", func(t *testing.T) {
		assert.Equal(t, 1.0, s.WordOverlap("Tesla Motors", "tesla motors"))
	})

	t.Run("should be symmetric", func(t *testing.T) {
		a, b := "stanford university", "university of stanford"
		assert.Equal(t, s.WordOverlap(a, b), s.WordOverlap(b, a))
	})
}

func TestNGram(t *testing.T) {
	s := NewScorer()

	t.Run("should return 1.0 for identical strings", func(t *testing.T) {
		assert.Equal(t, 1.0, s.Trigram("tesla", "tesla"))
	})

	t.Run("should fall back to equality for strings shorter than n", func(t *testing.T) {
		assert.Equal(t, 1.0, s.NGram("ab", "ab", 3))
		assert.Equal(t, 0.0, s.NGram("ab", "cd", 3))
		assert.Equal(t, 0.0, s.NGram("ab", "abc", 3))
	})

	t.Run("should return 0.0 for empty strings", func(t *testing.T) {
		assert.Equal(t, 0.0, s.Trigram("", ""))
		assert.Equal(t, 0.0, s.Trigram("tesla", ""))
	})

	t.Run("should score overlapping trigram sets", func(t *testing.T) {
		score := s.Trigram("physics research", "physics resarch")
		assert.Greater(t, score, 0.5)
		assert.Less(t, score, 1.0)
	})

	t.Run("should be symmetric", func(t *testing.T) {
		a, b := "national laboratory", "national labs"
		assert.Equal(t, s.Trigram(a, b), s.Trigram(b, a))
	})

	t.Run("should treat unrelated strings as near zero", func(t *testing.T) {
		assert.Less(t, s.Trigram("quantum devices", "xylophone repair"), 0.1)
	})
}
