package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shipquote-backend/internal/domain"
)

func TestParsePostcodeMatcher(t *testing.T) {
	t.Run("single value", func(t *testing.T) {
		m, err := domain.ParsePostcodeMatcher("2010")
		require.NoError(t, err)
		assert.Equal(t, 2010, m.Low)
		assert.Equal(t, 2010, m.High)
	})

	t.Run("range", func(t *testing.T) {
		m, err := domain.ParsePostcodeMatcher("2000-2050")
		require.NoError(t, err)
		assert.Equal(t, 2000, m.Low)
		assert.Equal(t, 2050, m.High)
	})

	t.Run("range with spaces", func(t *testing.T) {
		m, err := domain.ParsePostcodeMatcher(" 3000 - 3999 ")
		require.NoError(t, err)
		assert.Equal(t, 3000, m.Low)
		assert.Equal(t, 3999, m.High)
	})

	t.Run("malformed", func(t *testing.T) {
		for _, raw := range []string{"", "abc", "2000-", "-2000", "2050-2000", "20a0"} {
			_, err := domain.ParsePostcodeMatcher(raw)
			assert.Error(t, err, "matcher %q should be rejected", raw)
		}
	})
}

func TestPostcodeMatcherMatches(t *testing.T) {
	m := mustMatcher(t, "2000-2050")
	assert.True(t, m.Matches("2000"))
	assert.True(t, m.Matches("2050"))
	assert.True(t, m.Matches("2025"))
	assert.False(t, m.Matches("1999"))
	assert.False(t, m.Matches("2051"))
	assert.False(t, m.Matches("not-a-postcode"))
}

func TestResolveZones(t *testing.T) {
	regional := domain.Zone{
		Code:     "NSW_REGIONAL",
		Country:  "AU",
		Matchers: []domain.PostcodeMatcher{mustMatcher(t, "2000-2999")},
		Active:   true,
	}
	inactive := domain.Zone{
		Code:     "OLD_ZONE",
		Country:  "AU",
		Matchers: []domain.PostcodeMatcher{mustMatcher(t, "2010")},
		Active:   false,
	}
	anyCountry := domain.Zone{
		Code:     "WORLDWIDE",
		Matchers: []domain.PostcodeMatcher{mustMatcher(t, "0-99999")},
		Active:   true,
	}
	zones := []domain.Zone{sydMetroZone(t), regional, inactive, anyCountry}

	t.Run("returns every matching zone in config order", func(t *testing.T) {
		got := ResolveZones("2010", "AU", zones)
		assert.Equal(t, []string{"SYD_METRO", "NSW_REGIONAL", "WORLDWIDE"}, got)
	})

	t.Run("country restriction is case-insensitive", func(t *testing.T) {
		got := ResolveZones("2010", "au", zones)
		assert.Contains(t, got, "SYD_METRO")
	})

	t.Run("foreign destination only matches unrestricted zones", func(t *testing.T) {
		got := ResolveZones("2010", "NZ", zones)
		assert.Equal(t, []string{"WORLDWIDE"}, got)
	})

	t.Run("no match yields empty set", func(t *testing.T) {
		got := ResolveZones("2010", "AU", []domain.Zone{regional, inactive})
		assert.Len(t, got, 1) // regional only
		got = ResolveZones("9999", "AU", []domain.Zone{sydMetroZone(t)})
		assert.Empty(t, got)
	})
}
