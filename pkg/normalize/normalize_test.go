package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	n := New(DefaultConfig())

	t.Run("should lowercase and strip punctuation", func(t *testing.T) {
		assert.Equal(t, "tesla motors", n.Normalize("Tesla, Motors!"))
	})

	t.Run("should strip organizational suffixes anywhere in the string", func(t *testing.T) {
		assert.Equal(t, "tesla", n.Normalize("Tesla Inc"))
		assert.Equal(t, "tesla motors", n.Normalize("Tesla Motors, Inc."))
		assert.Equal(t, "acme holdings", n.Normalize("Acme Corp Holdings"))
	})

	t.Run("should remove stopwords", func(t *testing.T) {
		assert.Equal(t, "ministry defense", n.Normalize("The Ministry of Defense"))
	})

	t.Run("should collapse whitespace", func(t *testing.T) {
		assert.Equal(t, "stanford university", n.Normalize("  Stanford \t University  "))
	})

	t.Run("should keep word order", func(t *testing.T) {
		assert.Equal(t, "beijing national laboratory", n.Normalize("Beijing National Laboratory"))
	})

	t.Run("should normalize empty input to empty output", func(t *testing.T) {
		assert.Equal(t, "", n.Normalize(""))
	})

	t.Run("should be idempotent", func(t *testing.T) {
		inputs := []string{
			"Tesla Motors, Inc.",
			"The University of Texas",
			"  Physics   Research Center (PRC) ",
			"ACME CORP",
			"",
		}
		for _, in := range inputs {
			once := n.Normalize(in)
			assert.Equal(t, once, n.Normalize(once), "input %q", in)
		}
	})

	t.Run("should replace punctuation with spaces so tokens split", func(t *testing.T) {
		assert.Equal(t, "alpha beta", n.Normalize("alpha-beta"))
		assert.Equal(t, "a b c", n.Normalize("a/b/c"))
	})

	t.Run("should keep unicode letters", func(t *testing.T) {
		assert.Equal(t, "münchen universität", n.Normalize("München Universität"))
	})
}

func TestNormalizeToggles(t *testing.T) {
	t.Run("should skip disabled steps", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Lowercase = false
		cfg.RemoveStopwords = false
		cfg.StripOrgSuffixes = false
		n := New(cfg)

		assert.Equal(t, "The Tesla Inc", n.Normalize("The Tesla, Inc."))
	})

	t.Run("should honor a custom vocabulary", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Stopwords = []string{"la"}
		cfg.OrgSuffixes = []string{"universidad"}
		n := New(cfg)

		assert.Equal(t, "nacional", n.Normalize("La Universidad Nacional"))
	})

	t.Run("should leave text untouched when everything is disabled", func(t *testing.T) {
		n := New(Config{})
		assert.Equal(t, "Tesla, Inc.", n.Normalize("Tesla, Inc."))
	})
}

func TestCollapseWhitespace(t *testing.T) {
	t.Run("should fold runs of whitespace", func(t *testing.T) {
		assert.Equal(t, "a b c", CollapseWhitespace(" a \t b\n c "))
	})
}
