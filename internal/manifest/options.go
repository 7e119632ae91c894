package manifest

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
)

// MediaType is the Stremio content type listed by a catalog.
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSeries MediaType = "series"
)

// Valid reports whether t is a media type catalogs can be built for.
func (t MediaType) Valid() bool {
	return t == MediaTypeMovie || t == MediaTypeSeries
}

// Genre is a genre record as served by a GenreProvider.
type Genre struct {
	ID   int
	Name string
}

// Language is a language record as served by a LanguageProvider.
type Language struct {
	// Code is the locale code, like "pt-BR".
	Code string
	// Name is the display name shown in the language filter.
	Name string
}

// ErrLanguageNotFound is returned when a language code is missing from the language list.
var ErrLanguageNotFound = errors.New("language not found")

// topGenreOption is the sentinel prepended to genre filters of catalogs not shown in home.
const topGenreOption = "Top"

// OptionPools holds the option lists computed once per manifest build.
type OptionPools struct {
	// Years is the descending year range offered by year catalogs.
	Years []string
	// MovieGenres is the sorted movie genre names.
	MovieGenres []string
	// SeriesGenres is the sorted series genre names.
	SeriesGenres []string
	// FilterLanguages is the language names with the active language first.
	FilterLanguages []string
}

// GenerateYears returns maxYears+1 year strings, from the year of now down to maxYears years before it.
func GenerateYears(now time.Time, maxYears int) []string {
	if maxYears < 0 {
		maxYears = 0
	}
	current := now.Year()
	years := make([]string, 0, maxYears+1)
	for year := current; year >= current-maxYears; year-- {
		years = append(years, strconv.Itoa(year))
	}
	return years
}

// OrderLanguages returns the distinct language names, the name of code first and the
// rest sorted ascending. The languages slice is left untouched.
// It fails with ErrLanguageNotFound when code is not in languages.
func OrderLanguages(code string, languages []Language) ([]string, error) {
	idx := slices.IndexFunc(languages, func(l Language) bool { return l.Code == code })
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrLanguageNotFound, code)
	}

	rest := make([]Language, 0, len(languages)-1)
	rest = append(rest, languages[:idx]...)
	rest = append(rest, languages[idx+1:]...)
	slices.SortStableFunc(rest, func(a, b Language) int {
		return strings.Compare(a.Name, b.Name)
	})

	names := make([]string, 0, len(languages))
	names = append(names, languages[idx].Name)
	for _, l := range rest {
		names = append(names, l.Name)
	}

	return lo.Uniq(names), nil
}

func sortedGenreNames(genres []Genre) []string {
	names := lo.Map(genres, func(g Genre, _ int) string { return g.Name })
	slices.Sort(names)
	return names
}

// OptionsFor picks the options offered by a catalog's genre filter.
// Fixed options win, then the year and language pools, and finally the genre pool of
// the media type, which gets the "Top" sentinel unless the catalog is shown in home.
func OptionsFor(def Definition, mediaType MediaType, showInHome bool, pools OptionPools) []string {
	if def.DefaultOptions != nil {
		return slices.Clone(def.DefaultOptions)
	}

	switch def.NameKey {
	case NameKeyYear:
		return slices.Clone(pools.Years)
	case NameKeyLanguage:
		return slices.Clone(pools.FilterLanguages)
	}

	genres := pools.SeriesGenres
	if mediaType == MediaTypeMovie {
		genres = pools.MovieGenres
	}
	if showInHome {
		return slices.Clone(genres)
	}

	return append([]string{topGenreOption}, genres...)
}
