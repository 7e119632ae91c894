package manifest

import (
	"testing"

	"github.com/ogero/stremio-tmdb/pkg/stremio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	translations := map[string]string{"popular": "Popular"}
	def := Definition{NameKey: "popular", ExtraSupported: []Extra{ExtraSkip, ExtraSearch, ExtraGenre}}

	t.Run("not in home", func(t *testing.T) {
		item := NewCatalog("tmdb.top", MediaTypeMovie, def, []string{"Top", "Action"}, false, translations, false)

		assert.Equal(t, stremio.CatalogItem{
			ID:       "tmdb.top",
			Type:     "movie",
			Name:     "Popular",
			PageSize: 20,
			Extra: []stremio.CatalogExtra{
				{Name: "genre", Options: []string{"Top", "Action"}, IsRequired: true},
				{Name: "search"},
				{Name: "skip"},
			},
			ExtraSupported: []string{"skip", "search", "genre"},
			ExtraRequired:  []string{"genre"},
		}, item)
	})

	t.Run("in home", func(t *testing.T) {
		item := NewCatalog("tmdb.top", MediaTypeSeries, def, []string{"Action"}, false, translations, true)

		require.Len(t, item.Extra, 3)
		assert.Equal(t, stremio.CatalogExtra{Name: "genre", Options: []string{"Action"}}, item.Extra[0])
		assert.Nil(t, item.ExtraRequired)
		assert.Equal(t, "series", item.Type)
	})

	t.Run("prefix", func(t *testing.T) {
		item := NewCatalog("tmdb.top", MediaTypeMovie, def, nil, true, translations, false)
		assert.Equal(t, "TMDB - Popular", item.Name)
	})

	t.Run("missing translation", func(t *testing.T) {
		item := NewCatalog("tmdb.top", MediaTypeMovie, Definition{NameKey: "unknown"}, nil, true, translations, false)
		assert.Equal(t, "TMDB - undefined", item.Name)
		assert.Empty(t, item.Extra)
		assert.Equal(t, []string{"genre"}, item.ExtraRequired)
	})
}

func TestCatalogSelector_Select(t *testing.T) {
	selector := CatalogSelector{
		Taxonomy: DefaultTaxonomy(),
		Pools: OptionPools{
			Years:           []string{"2025"},
			MovieGenres:     []string{"Action", "Drama"},
			SeriesGenres:    []string{"Kids"},
			FilterLanguages: []string{"English"},
		},
		Translations: map[string]string{"popular": "Popular", "year": "Year", "watchlist": "Watchlist"},
	}
	requests := []CatalogRequest{
		{ID: "tmdb.year", Type: MediaTypeMovie},
		{ID: "tmdb.nope", Type: MediaTypeMovie},
		{ID: "tmdb.watchlist", Type: MediaTypeSeries},
		{ID: "tmdb.top", Type: MediaTypeSeries, ShowInHome: true},
	}

	t.Run("without session", func(t *testing.T) {
		catalogs, skipped := selector.Select(requests)

		require.Len(t, catalogs, 2)
		assert.Equal(t, "tmdb.year", catalogs[0].ID)
		assert.Equal(t, []string{"2025"}, catalogs[0].Extra[0].Options)
		assert.Equal(t, "tmdb.top", catalogs[1].ID)
		assert.Equal(t, []string{"Kids"}, catalogs[1].Extra[0].Options)

		assert.Equal(t, []SkippedCatalog{
			{ID: "tmdb.nope", Reason: SkipReasonUnknownCatalog},
			{ID: "tmdb.watchlist", Reason: SkipReasonRequiresSession},
		}, skipped)
	})

	t.Run("with session", func(t *testing.T) {
		withSession := selector
		withSession.SessionID = "session"

		catalogs, skipped := withSession.Select(requests)

		require.Len(t, catalogs, 3)
		assert.Equal(t, "tmdb.watchlist", catalogs[1].ID)
		assert.Equal(t, []string{"Top", "Kids"}, catalogs[1].Extra[0].Options)
		assert.Equal(t, []SkippedCatalog{{ID: "tmdb.nope", Reason: SkipReasonUnknownCatalog}}, skipped)
	})

	t.Run("invalid media type", func(t *testing.T) {
		catalogs, skipped := selector.Select([]CatalogRequest{
			{ID: "tmdb.top", Type: MediaTypeMovie},
			{ID: "tmdb.top", Type: "anime"},
		})

		require.Len(t, catalogs, 1)
		assert.Equal(t, "movie", catalogs[0].Type)
		assert.Equal(t, []SkippedCatalog{{ID: "tmdb.top", Reason: SkipReasonInvalidMediaType}}, skipped)
	})

	t.Run("no requests", func(t *testing.T) {
		catalogs, skipped := selector.Select(nil)
		assert.NotNil(t, catalogs)
		assert.Empty(t, catalogs)
		assert.Empty(t, skipped)
	})
}
