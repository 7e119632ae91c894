package manifest

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateYears(t *testing.T) {
	now := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)

	for _, maxYears := range []int{0, 1, 5, 20} {
		t.Run(strconv.Itoa(maxYears), func(t *testing.T) {
			years := GenerateYears(now, maxYears)
			require.Len(t, years, maxYears+1)
			assert.Equal(t, "2025", years[0])
			assert.Equal(t, strconv.Itoa(2025-maxYears), years[len(years)-1])
			for i := 1; i < len(years); i++ {
				prev, _ := strconv.Atoi(years[i-1])
				cur, _ := strconv.Atoi(years[i])
				assert.Equal(t, prev-1, cur)
			}
		})
	}
}

func TestGenerateYears_Negative(t *testing.T) {
	now := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, []string{"2025"}, GenerateYears(now, -3))
}

func TestOrderLanguages(t *testing.T) {
	languages := []Language{
		{Code: "fr-FR", Name: "French"},
		{Code: "en-US", Name: "English"},
		{Code: "pt-BR", Name: "Portuguese"},
		{Code: "pt-PT", Name: "Portuguese"},
		{Code: "de-DE", Name: "German"},
		{Code: "xx-XX", Name: "abkhazian"},
	}

	tests := []struct {
		name     string
		code     string
		expected []string
	}{
		{
			name:     "active language first",
			code:     "pt-BR",
			expected: []string{"Portuguese", "English", "French", "German", "abkhazian"},
		},
		{
			name:     "case sensitive sort",
			code:     "en-US",
			expected: []string{"English", "French", "German", "Portuguese", "abkhazian"},
		},
		{
			name:     "duplicate of active name dropped",
			code:     "pt-PT",
			expected: []string{"Portuguese", "English", "French", "German", "abkhazian"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			names, err := OrderLanguages(tt.code, languages)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names)
		})
	}

	assert.Equal(t, "fr-FR", languages[0].Code, "input must not be reordered")
}

func TestOrderLanguages_NotFound(t *testing.T) {
	_, err := OrderLanguages("zz-ZZ", []Language{{Code: "en-US", Name: "English"}})
	assert.ErrorIs(t, err, ErrLanguageNotFound)
}

func TestOptionsFor(t *testing.T) {
	pools := OptionPools{
		Years:           []string{"2025", "2024"},
		MovieGenres:     []string{"Action", "Drama"},
		SeriesGenres:    []string{"Kids", "News"},
		FilterLanguages: []string{"English", "French"},
	}

	tests := []struct {
		name       string
		def        Definition
		mediaType  MediaType
		showInHome bool
		expected   []string
	}{
		{
			name:      "fixed options win over year",
			def:       Definition{NameKey: NameKeyYear, DefaultOptions: []string{"Day", "Week"}},
			mediaType: MediaTypeMovie,
			expected:  []string{"Day", "Week"},
		},
		{
			name:      "year",
			def:       Definition{NameKey: NameKeyYear},
			mediaType: MediaTypeMovie,
			expected:  []string{"2025", "2024"},
		},
		{
			name:       "language",
			def:        Definition{NameKey: NameKeyLanguage},
			mediaType:  MediaTypeSeries,
			showInHome: true,
			expected:   []string{"English", "French"},
		},
		{
			name:      "movie genres with top",
			def:       Definition{NameKey: "popular"},
			mediaType: MediaTypeMovie,
			expected:  []string{"Top", "Action", "Drama"},
		},
		{
			name:       "series genres in home",
			def:        Definition{NameKey: "netflix"},
			mediaType:  MediaTypeSeries,
			showInHome: true,
			expected:   []string{"Kids", "News"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OptionsFor(tt.def, tt.mediaType, tt.showInHome, pools))
		})
	}

	assert.Equal(t, []string{"Action", "Drama"}, pools.MovieGenres, "pools must not be modified")
}

func TestMediaType_Valid(t *testing.T) {
	assert.True(t, MediaTypeMovie.Valid())
	assert.True(t, MediaTypeSeries.Valid())
	assert.False(t, MediaType("anime").Valid())
	assert.False(t, MediaType("").Valid())
}

func TestSortedGenreNames(t *testing.T) {
	names := sortedGenreNames([]Genre{{ID: 3, Name: "War"}, {ID: 1, Name: "Action"}, {ID: 2, Name: "Drama"}})
	assert.Equal(t, []string{"Action", "Drama", "War"}, names)
}
