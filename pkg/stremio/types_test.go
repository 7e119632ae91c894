package stremio_test

import (
	"encoding/json"
	"testing"

	"github.com/ogero/stremio-tmdb/pkg/stremio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogItem_JSONOmitsOptionalFields(t *testing.T) {
	item := stremio.CatalogItem{
		ID:             "tmdb.top",
		Type:           "movie",
		Name:           "Popular",
		PageSize:       20,
		Extra:          []stremio.CatalogExtra{{Name: "genre", Options: []string{"Action"}}, {Name: "skip"}},
		ExtraSupported: []string{"genre", "skip"},
	}

	b, err := json.Marshal(item)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))

	assert.NotContains(t, raw, "extraRequired")
	extra := raw["extra"].([]any)
	require.Len(t, extra, 2)
	assert.NotContains(t, extra[0], "isRequired")
	assert.NotContains(t, extra[1], "options")
}

func TestCatalogItem_JSONKeepsRequiredGenre(t *testing.T) {
	item := stremio.CatalogItem{
		ID:             "tmdb.top",
		Type:           "series",
		Name:           "Popular",
		PageSize:       20,
		Extra:          []stremio.CatalogExtra{{Name: "genre", Options: []string{"Top"}, IsRequired: true}},
		ExtraSupported: []string{"genre"},
		ExtraRequired:  []string{"genre"},
	}

	b, err := json.Marshal(item)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"id": "tmdb.top",
		"type": "series",
		"name": "Popular",
		"pageSize": 20,
		"extra": [{"name": "genre", "options": ["Top"], "isRequired": true}],
		"extraSupported": ["genre"],
		"extraRequired": ["genre"]
	}`, string(b))
}
