package internal

import (
	"context"
	"fmt"
	"time"

	"github.com/ogero/stremio-tmdb/internal/cache"
	"github.com/ogero/stremio-tmdb/internal/common"
	"github.com/ogero/stremio-tmdb/internal/manifest"
	"github.com/ogero/stremio-tmdb/pkg/tmdb"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	genresCacheTTL    = 24 * time.Hour
	languagesCacheTTL = 7 * 24 * time.Hour
)

// CachedProviders serves the TMDB genres and languages needed by manifests, through the cache.
type CachedProviders struct {
	tmdb  tmdb.TMDB
	cache *cache.Cache
}

// NewCachedProviders creates a new instance of CachedProviders.
func NewCachedProviders(tmdb tmdb.TMDB, cache *cache.Cache) *CachedProviders {
	return &CachedProviders{
		tmdb:  tmdb,
		cache: cache,
	}
}

// GetGenres lists the genres of a media type, named in the given language.
func (p *CachedProviders) GetGenres(ctx context.Context, language string, mediaType manifest.MediaType) ([]manifest.Genre, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "internal.CachedProviders.GetGenres")
	defer span.End()

	cacheKey := fmt.Sprintf("tmdb.genres : %s %s", language, mediaType)
	genres, hit, err := cache.Memoize[[]tmdb.Genre](p.cache, cacheKey, genresCacheTTL, func() (*[]tmdb.Genre, error) {
		genres, err := p.tmdb.GetGenres(ctx, language, string(mediaType))
		if err != nil {
			return nil, fmt.Errorf("failed to tmdb.TMDB.GetGenres: %w", err)
		}
		return &genres, nil
	})
	cacheResult := cacheResultOf(hit)
	span.SetAttributes(attribute.String("cache.tmdb.genres.result", cacheResult))
	common.CacheGetsTotalIncr(ctx, "tmdb.genres", cacheResult)
	if err != nil {
		return nil, err
	}

	result := make([]manifest.Genre, 0, len(*genres))
	for _, g := range *genres {
		result = append(result, manifest.Genre{ID: g.ID, Name: g.Name})
	}

	return result, nil
}

// GetLanguages lists every language TMDB has translations for.
func (p *CachedProviders) GetLanguages(ctx context.Context) ([]manifest.Language, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "internal.CachedProviders.GetLanguages")
	defer span.End()

	languages, hit, err := cache.Memoize[[]tmdb.Language](p.cache, "tmdb.languages", languagesCacheTTL, func() (*[]tmdb.Language, error) {
		languages, err := p.tmdb.GetLanguages(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to tmdb.TMDB.GetLanguages: %w", err)
		}
		return &languages, nil
	})
	cacheResult := cacheResultOf(hit)
	span.SetAttributes(attribute.String("cache.tmdb.languages.result", cacheResult))
	common.CacheGetsTotalIncr(ctx, "tmdb.languages", cacheResult)
	if err != nil {
		return nil, err
	}

	result := make([]manifest.Language, 0, len(*languages))
	for _, l := range *languages {
		result = append(result, manifest.Language{Code: l.Code, Name: l.Name})
	}

	return result, nil
}

func cacheResultOf(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
