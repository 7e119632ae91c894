package common

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/ogero/stremio-tmdb/internal/manifest"
	"golang.org/x/text/language"
)

var catalogIDRE = regexp.MustCompile(`^[a-z0-9_]+\.[a-z0-9_]+$`)

// ValidateLanguage checks if the given language is a BCP 47 tag, like "pt-BR".
// An empty language is valid, it selects the default one.
func ValidateLanguage(lang string) error {
	if lang == "" {
		return nil
	}

	if _, err := language.Parse(lang); err != nil {
		return fmt.Errorf("invalid language %q: %w", lang, err)
	}

	return nil
}

// ValidateCatalogID checks if the given catalog id has the "<provider>.<type>" form.
func ValidateCatalogID(id string) error {
	if !catalogIDRE.MatchString(id) {
		return errors.New("invalid catalog id")
	}

	return nil
}

// ValidateConfig checks the language of a user config.
// Catalogs are not checked, the ones that can't be served are left out of the manifest.
func ValidateConfig(cfg manifest.Config) error {
	return ValidateLanguage(cfg.Language)
}
