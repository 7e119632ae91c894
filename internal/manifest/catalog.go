package manifest

import (
	"github.com/ogero/stremio-tmdb/pkg/stremio"
	"github.com/samber/lo"
)

const (
	catalogPageSize = 20
	brandPrefix     = "TMDB - "
	// missingName is the name of catalogs whose name key has no translation.
	missingName = "undefined"
)

// CatalogRequest is a catalog the user asked for.
type CatalogRequest struct {
	// ID has the form "<provider>.<type>", like "tmdb.top".
	ID         string    `json:"id"`
	Type       MediaType `json:"type"`
	ShowInHome bool      `json:"showInHome"`
}

// SkipReason explains why a requested catalog is missing from the manifest.
type SkipReason string

const (
	SkipReasonUnknownCatalog   SkipReason = "unknown catalog"
	SkipReasonRequiresSession  SkipReason = "requires session"
	SkipReasonInvalidMediaType SkipReason = "invalid media type"
)

// SkippedCatalog records a requested catalog left out of the manifest.
type SkippedCatalog struct {
	ID     string
	Reason SkipReason
}

// NewCatalog assembles the manifest entry of one catalog.
// Catalogs shown in home get no required genre, the others require one.
// A name key without translation is rendered as "undefined".
func NewCatalog(id string, mediaType MediaType, def Definition, options []string, prefix bool, translations map[string]string, showInHome bool) stremio.CatalogItem {
	extra := make([]stremio.CatalogExtra, 0, 3)
	if def.Supports(ExtraGenre) {
		extra = append(extra, stremio.CatalogExtra{
			Name:       string(ExtraGenre),
			Options:    options,
			IsRequired: !showInHome,
		})
	}
	if def.Supports(ExtraSearch) {
		extra = append(extra, stremio.CatalogExtra{Name: string(ExtraSearch)})
	}
	if def.Supports(ExtraSkip) {
		extra = append(extra, stremio.CatalogExtra{Name: string(ExtraSkip)})
	}

	name, ok := translations[def.NameKey]
	if !ok {
		name = missingName
	}
	if prefix {
		name = brandPrefix + name
	}

	item := stremio.CatalogItem{
		ID:             id,
		Type:           string(mediaType),
		Name:           name,
		PageSize:       catalogPageSize,
		Extra:          extra,
		ExtraSupported: lo.Map(def.ExtraSupported, func(e Extra, _ int) string { return string(e) }),
	}
	if !showInHome {
		item.ExtraRequired = []string{string(ExtraGenre)}
	}

	return item
}

// CatalogSelector turns catalog requests into manifest catalogs.
type CatalogSelector struct {
	Taxonomy     *Taxonomy
	SessionID    string
	Pools        OptionPools
	Translations map[string]string
	// Prefix adds the brand prefix to catalog names.
	Prefix bool
}

// Select keeps the requests resolving to a known catalog the user is allowed to see, in
// input order. Everything else is returned as skipped, never as an error.
func (s CatalogSelector) Select(requests []CatalogRequest) ([]stremio.CatalogItem, []SkippedCatalog) {
	catalogs := make([]stremio.CatalogItem, 0, len(requests))
	var skipped []SkippedCatalog

	for _, req := range requests {
		if !req.Type.Valid() {
			skipped = append(skipped, SkippedCatalog{ID: req.ID, Reason: SkipReasonInvalidMediaType})
			continue
		}
		def, ok := s.Taxonomy.Lookup(req.ID)
		if !ok {
			skipped = append(skipped, SkippedCatalog{ID: req.ID, Reason: SkipReasonUnknownCatalog})
			continue
		}
		if def.RequiresAuth && s.SessionID == "" {
			skipped = append(skipped, SkippedCatalog{ID: req.ID, Reason: SkipReasonRequiresSession})
			continue
		}

		options := OptionsFor(def, req.Type, req.ShowInHome, s.Pools)
		catalogs = append(catalogs, NewCatalog(req.ID, req.Type, def, options, s.Prefix, s.Translations, req.ShowInHome))
	}

	return catalogs, skipped
}
