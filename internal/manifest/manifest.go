package manifest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ogero/stremio-tmdb/pkg/stremio"
	"golang.org/x/sync/errgroup"
)

// yearsHorizon is how many years back the year catalogs go.
const yearsHorizon = 20

// GenreProvider lists the genres of a media type, with names in the given language.
type GenreProvider interface {
	GetGenres(ctx context.Context, language string, mediaType MediaType) ([]Genre, error)
}

// LanguageProvider lists every language known to the catalog provider.
type LanguageProvider interface {
	GetLanguages(ctx context.Context) ([]Language, error)
}

// Info holds the identity and branding of the addon.
type Info struct {
	ID          string
	Version     string
	Name        string
	Description string
	Favicon     string
	Logo        string
	Background  string
}

// DefaultInfo returns the identity and branding of the TMDB addon.
func DefaultInfo() Info {
	return Info{
		ID:          "ar.xor.tmdb.go",
		Version:     "0.1.0",
		Name:        "The Movie Database Addon",
		Description: "Metadata provided by TMDB",
		Favicon:     "https://github.com/mrcanelas/tmdb-addon/raw/main/images/favicon.png",
		Logo:        "https://github.com/mrcanelas/tmdb-addon/raw/main/images/logo.png",
		Background:  "https://github.com/mrcanelas/tmdb-addon/raw/main/images/background.png",
	}
}

// BuildReport describes decisions taken while building a manifest.
type BuildReport struct {
	// Language is the language the manifest was built for.
	Language string
	// LanguageFallback is set when the language was missing from the language list and
	// the filter languages were ordered by DefaultLanguage instead.
	LanguageFallback bool
	// Skipped lists the requested catalogs left out of the manifest.
	Skipped []SkippedCatalog
}

// Builder builds addon manifests from user configs.
// It holds no per-build state, so a single Builder serves concurrent builds.
type Builder struct {
	genres       GenreProvider
	languages    LanguageProvider
	taxonomy     *Taxonomy
	translations Translations
	info         Info
	now          func() time.Time
}

// BuilderOption customizes a Builder.
type BuilderOption func(*Builder)

// WithClock sets the clock used for the year range.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// NewBuilder creates a new Builder.
func NewBuilder(genres GenreProvider, languages LanguageProvider, taxonomy *Taxonomy, translations Translations, info Info, opts ...BuilderOption) *Builder {
	b := &Builder{
		genres:       genres,
		languages:    languages,
		taxonomy:     taxonomy,
		translations: translations,
		info:         info,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build builds the manifest for cfg.
// Provider failures abort the build. Unknown catalogs and catalogs requiring a missing
// session are left out and reported in the BuildReport.
func (b *Builder) Build(ctx context.Context, cfg Config) (*stremio.Manifest, *BuildReport, error) {
	language := cfg.Language
	if language == "" {
		language = DefaultLanguage
	}
	report := &BuildReport{Language: language}

	translations := b.translations.Load(language)
	years := GenerateYears(b.now(), yearsHorizon)

	var movieGenres, seriesGenres []Genre
	var languages []Language
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		movieGenres, err = b.genres.GetGenres(gctx, language, MediaTypeMovie)
		if err != nil {
			return fmt.Errorf("failed to GenreProvider.GetGenres(%s): %w", MediaTypeMovie, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		seriesGenres, err = b.genres.GetGenres(gctx, language, MediaTypeSeries)
		if err != nil {
			return fmt.Errorf("failed to GenreProvider.GetGenres(%s): %w", MediaTypeSeries, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		languages, err = b.languages.GetLanguages(gctx)
		if err != nil {
			return fmt.Errorf("failed to LanguageProvider.GetLanguages: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	filterLanguages, err := OrderLanguages(language, languages)
	if errors.Is(err, ErrLanguageNotFound) && language != DefaultLanguage {
		report.LanguageFallback = true
		filterLanguages, err = OrderLanguages(DefaultLanguage, languages)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to OrderLanguages: %w", err)
	}

	selector := CatalogSelector{
		Taxonomy:  b.taxonomy,
		SessionID: cfg.SessionID,
		Pools: OptionPools{
			Years:           years,
			MovieGenres:     sortedGenreNames(movieGenres),
			SeriesGenres:    sortedGenreNames(seriesGenres),
			FilterLanguages: filterLanguages,
		},
		Translations: translations,
		Prefix:       bool(cfg.TMDBPrefix),
	}
	catalogs, skipped := selector.Select(cfg.Catalogs)
	report.Skipped = skipped

	description := b.info.Description + "."
	if language != DefaultLanguage {
		description = fmt.Sprintf("%s with %s language.", b.info.Description, language)
	}

	idPrefixes := []string{"tmdb:"}
	if cfg.ProvideIMDBID {
		idPrefixes = append(idPrefixes, "tt")
	}

	return &stremio.Manifest{
		ID:          b.info.ID,
		Version:     b.info.Version,
		Name:        b.info.Name,
		Description: description,
		Favicon:     b.info.Favicon,
		Logo:        b.info.Logo,
		Background:  b.info.Background,
		Resources:   []string{"catalog", "meta"},
		Types:       []string{string(MediaTypeMovie), string(MediaTypeSeries)},
		IDPrefixes:  idPrefixes,
		BehaviorHints: stremio.BehaviorHints{
			Configurable:          true,
			ConfigurationRequired: false,
		},
		Catalogs: catalogs,
	}, report, nil
}
