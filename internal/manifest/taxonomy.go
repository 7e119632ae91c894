package manifest

import (
	"slices"
	"strings"
)

// Extra is a catalog filter capability.
type Extra string

const (
	ExtraGenre  Extra = "genre"
	ExtraSearch Extra = "search"
	ExtraSkip   Extra = "skip"
)

// CatalogType is the part of a catalog id after the provider, like "top" in "tmdb.top".
type CatalogType string

// Name keys with dedicated option pools.
const (
	NameKeyYear     = "year"
	NameKeyLanguage = "language"
)

// Definition is the static description of a catalog type.
type Definition struct {
	// NameKey is the translation key of the catalog name.
	NameKey string
	// RequiresAuth marks catalogs only offered to users with a TMDB session.
	RequiresAuth bool
	// ExtraSupported lists the filters the catalog accepts.
	ExtraSupported []Extra
	// DefaultOptions, when not nil, are the fixed genre filter options.
	DefaultOptions []string
}

// Supports reports whether the catalog accepts the given filter.
func (d Definition) Supports(e Extra) bool {
	return slices.Contains(d.ExtraSupported, e)
}

// Category groups catalog types, like the streaming providers.
type Category struct {
	Name  string
	Types map[CatalogType]Definition
}

// Taxonomy is the ordered registry of catalog categories.
// It is built once and only read afterwards, so it is safe to share between builds.
type Taxonomy struct {
	categories []Category
}

// NewTaxonomy creates a Taxonomy scanning categories in the given order.
func NewTaxonomy(categories ...Category) *Taxonomy {
	return &Taxonomy{categories: categories}
}

// Lookup resolves a "<provider>.<type>" catalog id to its definition, the type being the
// segment between the first and second dots. Categories are scanned in order and the first
// one defining the type wins, the provider part is not used to break ties.
// Ids without a dot never resolve.
func (t *Taxonomy) Lookup(catalogID string) (Definition, bool) {
	parts := strings.Split(catalogID, ".")
	if len(parts) < 2 {
		return Definition{}, false
	}
	catalogType := CatalogType(parts[1])

	for _, category := range t.categories {
		if def, ok := category.Types[catalogType]; ok {
			return def, true
		}
	}

	return Definition{}, false
}

// Categories returns the category names in scan order.
func (t *Taxonomy) Categories() []string {
	names := make([]string, 0, len(t.categories))
	for _, c := range t.categories {
		names = append(names, c.Name)
	}
	return names
}

var (
	genreSearchSkip = []Extra{ExtraGenre, ExtraSearch, ExtraSkip}
	genreSkip       = []Extra{ExtraGenre, ExtraSkip}
)

// DefaultTaxonomy returns the catalogs offered by the addon.
func DefaultTaxonomy() *Taxonomy {
	return NewTaxonomy(
		Category{
			Name: "default",
			Types: map[CatalogType]Definition{
				"top":      {NameKey: "popular", ExtraSupported: genreSearchSkip},
				"year":     {NameKey: NameKeyYear, ExtraSupported: genreSearchSkip},
				"language": {NameKey: NameKeyLanguage, ExtraSupported: genreSearchSkip},
				"trending": {NameKey: "trending", ExtraSupported: genreSearchSkip, DefaultOptions: []string{"Day", "Week"}},
			},
		},
		Category{
			Name: "streaming",
			Types: map[CatalogType]Definition{
				"nfx": {NameKey: "netflix", ExtraSupported: genreSkip},
				"hbm": {NameKey: "hbo_max", ExtraSupported: genreSkip},
				"dnp": {NameKey: "disney_plus", ExtraSupported: genreSkip},
				"amp": {NameKey: "prime_video", ExtraSupported: genreSkip},
				"atp": {NameKey: "apple_tv_plus", ExtraSupported: genreSkip},
				"pmp": {NameKey: "paramount_plus", ExtraSupported: genreSkip},
				"cru": {NameKey: "crunchyroll", ExtraSupported: genreSkip},
			},
		},
		Category{
			Name: "auth",
			Types: map[CatalogType]Definition{
				"favorites": {NameKey: "favorites", RequiresAuth: true, ExtraSupported: genreSkip},
				"watchlist": {NameKey: "watchlist", RequiresAuth: true, ExtraSupported: genreSkip},
			},
		},
	)
}
