package boost

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/aster/pkg/geography"
)

func TestGeographic(t *testing.T) {
	b := New(DefaultConfig(), geography.NewResolver())

	t.Run("should boost same-country candidates", func(t *testing.T) {
		factor, applied := b.Geographic("Beijing, China", []string{"China"})
		assert.True(t, applied)
		assert.InDelta(t, 1.15, factor, 1e-9)
	})

	t.Run("should boost same-region candidates less", func(t *testing.T) {
		factor, applied := b.Geographic("France", []string{"Germany"})
		assert.True(t, applied)
		assert.InDelta(t, 1.05, factor, 1e-9)
	})

	t.Run("should dampen different regions", func(t *testing.T) {
		factor, applied := b.Geographic("Japan", []string{"Brazil"})
		assert.True(t, applied)
		assert.InDelta(t, 0.95, factor, 1e-9)
	})

	t.Run("should use the first country when several are present", func(t *testing.T) {
		factor, applied := b.Geographic("China", []string{"China", "Brazil"})
		assert.True(t, applied)
		assert.InDelta(t, 1.15, factor, 1e-9)
	})

	t.Run("should skip when the search has no location", func(t *testing.T) {
		factor, applied := b.Geographic("", []string{"China"})
		assert.False(t, applied)
		assert.Equal(t, 1.0, factor)
	})

	t.Run("should skip when the candidate has no countries", func(t *testing.T) {
		factor, applied := b.Geographic("China", nil)
		assert.False(t, applied)
		assert.Equal(t, 1.0, factor)
	})

	t.Run("should stay neutral for unresolved locations", func(t *testing.T) {
		factor, applied := b.Geographic("Atlantis", []string{"China"})
		assert.True(t, applied)
		assert.Equal(t, 1.0, factor)
	})

	t.Run("should skip when disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.GeographicEnabled = false
		disabled := New(cfg, geography.NewResolver())

		factor, applied := disabled.Geographic("China", []string{"China"})
		assert.False(t, applied)
		assert.Equal(t, 1.0, factor)
	})
}

func TestOrgType(t *testing.T) {
	b := New(DefaultConfig(), geography.NewResolver())

	t.Run("should boost when a keyword appears in either side", func(t *testing.T) {
		factor, orgType, applied := b.OrgType("tsinghua university", "tsinghua univ")
		assert.True(t, applied)
		assert.Equal(t, "academic", orgType)
		assert.InDelta(t, 1.1, factor, 1e-9)
	})

	t.Run("should take the maximum factor when several types match", func(t *testing.T) {
		// "defense research" hits both military (1.15) and research (1.1)
		factor, orgType, applied := b.OrgType("defense research agency", "x")
		assert.True(t, applied)
		assert.Equal(t, "military", orgType)
		assert.InDelta(t, 1.15, factor, 1e-9)
	})

	t.Run("should ignore case", func(t *testing.T) {
		_, orgType, applied := b.OrgType("MINISTRY OF HEALTH", "ministry")
		assert.True(t, applied)
		assert.Equal(t, "government", orgType)
	})

	t.Run("should skip when no keyword matches", func(t *testing.T) {
		factor, orgType, applied := b.OrgType("tesla", "spacex")
		assert.False(t, applied)
		assert.Equal(t, 1.0, factor)
		assert.Empty(t, orgType)
	})

	t.Run("should skip when disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.OrgTypeEnabled = false
		disabled := New(cfg, geography.NewResolver())

		_, _, applied := disabled.OrgType("university", "university")
		assert.False(t, applied)
	})
}
