package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trendlab/internal/domain/trend"
)

func TestResolve_DefaultLanguagePerCountry(t *testing.T) {
	tests := []struct {
		country trend.Country
		want    string
	}{
		{trend.CountryKR, "ko"},
		{trend.CountryJP, "ja"},
		{trend.CountryUS, "en"},
	}

	for _, tt := range tests {
		t.Run(string(tt.country), func(t *testing.T) {
			loc := Resolve(tt.country, "")
			assert.Equal(t, tt.want, loc.LanguageCode())
			assert.Equal(t, string(tt.country), loc.RegionCode())
		})
	}
}

func TestResolve_ExplicitLanguageWins(t *testing.T) {
	loc := Resolve(trend.CountryJP, "en-US")

	assert.Equal(t, "en", loc.LanguageCode())
	assert.Equal(t, "JP", loc.RegionCode())
	assert.Equal(t, "jp", loc.GoogleCountry())
}

func TestResolve_InvalidOverrideFallsBack(t *testing.T) {
	loc := Resolve(trend.CountryKR, "not a language!")

	assert.Equal(t, "ko", loc.LanguageCode())
}
