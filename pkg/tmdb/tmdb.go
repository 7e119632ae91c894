package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ogero/stremio-tmdb/pkg/transport"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBaseURL         = "https://api.themoviedb.org/3"
	defaultMaxResponseSize = 1024 * 1024
)

// ErrUnsupportedMediaType is returned for media types other than movie and series.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

// Genre represents a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Language represents a language TMDB has translations for.
type Language struct {
	// Code is the primary translation code, like "pt-BR".
	Code string `json:"code"`
	// Name is the english name of the language, like "Portuguese".
	Name string `json:"name"`
}

// TMDB defines the methods to interact with The Movie Database API.
type TMDB interface {
	// GetGenres lists the genres of a Stremio media type ("movie" or "series"), named in the given language.
	GetGenres(ctx context.Context, language string, mediaType string) ([]Genre, error)
	// GetLanguages lists the primary translations known by TMDB.
	GetLanguages(ctx context.Context) ([]Language, error)
}

type tmdb struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string

	// maxResponseSize bounds response bodies, defaultMaxResponseSize when zero.
	maxResponseSize int64
}

// NewTMDB creates a new instance of the TMDB service.
// Requests are authenticated with apiKey as query parameter, and with accessToken as bearer token when set.
func NewTMDB(apiKey, accessToken string) TMDB {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxConnsPerHost = 100
	t.MaxIdleConnsPerHost = 100

	opts := []transport.ModifyHeadersOption{
		transport.WithAccept("application/json"),
		transport.WithUserAgent("stremio-tmdb"),
	}
	if accessToken != "" {
		opts = append(opts, transport.WithBearerToken(accessToken))
	}

	return &tmdb{
		httpClient: &http.Client{
			Timeout:   time.Second * 10,
			Transport: transport.NewModifyHeadersRoundTripper(t, opts...),
		},
		baseURL:         defaultBaseURL,
		apiKey:          apiKey,
		maxResponseSize: defaultMaxResponseSize,
	}
}

// GetGenres lists the genres of a Stremio media type ("movie" or "series"), named in the given language.
func (c *tmdb) GetGenres(ctx context.Context, language string, mediaType string) ([]Genre, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "tmdb.TMDB.GetGenres")
	defer span.End()
	span.SetAttributes(attribute.String("tmdb.language", language), attribute.String("tmdb.media-type", mediaType))

	var path string
	switch mediaType {
	case "movie":
		path = "/genre/movie/list"
	case "series":
		path = "/genre/tv/list"
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mediaType)
	}

	genresResponse := struct {
		Genres []Genre `json:"genres"`
	}{}

	err := c.get(ctx, path, url.Values{"language": {language}}, &genresResponse)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch genres: %w", err)
	}

	return genresResponse.Genres, nil
}

// GetLanguages lists the primary translations known by TMDB, named after their language english name.
// Translations whose language is unknown are skipped.
func (c *tmdb) GetLanguages(ctx context.Context) ([]Language, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "tmdb.TMDB.GetLanguages")
	defer span.End()

	var primaryTranslations []string
	var languages []struct {
		ISO6391     string `json:"iso_639_1"`
		EnglishName string `json:"english_name"`
		Name        string `json:"name"`
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := c.get(gctx, "/configuration/primary_translations", nil, &primaryTranslations); err != nil {
			return fmt.Errorf("failed to fetch primary translations: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := c.get(gctx, "/configuration/languages", nil, &languages); err != nil {
			return fmt.Errorf("failed to fetch languages: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	names := make(map[string]string, len(languages))
	for _, l := range languages {
		names[l.ISO6391] = l.EnglishName
	}

	result := make([]Language, 0, len(primaryTranslations))
	for _, code := range primaryTranslations {
		iso6391, _, _ := strings.Cut(code, "-")
		name, ok := names[iso6391]
		if !ok {
			continue
		}
		result = append(result, Language{Code: code, Name: name})
	}
	span.SetAttributes(attribute.Int("tmdb.languages-count", len(result)))

	return result, nil
}

func (c *tmdb) get(ctx context.Context, path string, query url.Values, v any) error {
	if query == nil {
		query = url.Values{}
	}
	if c.apiKey != "" {
		query.Set("api_key", c.apiKey)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to http.NewRequestWithContext: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to http.Client.Do: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("invalid status code: %d", res.StatusCode)
	}

	limit := c.maxResponseSize
	if limit <= 0 {
		limit = defaultMaxResponseSize
	}
	if err = json.NewDecoder(limitReader(res.Body, limit, ErrResponseTooLarge)).Decode(v); err != nil {
		return fmt.Errorf("failed to json.NewDecoder.Decode: %w", err)
	}

	return nil
}
