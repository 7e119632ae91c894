package manifest

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"maps"
)

// DefaultLanguage is used when no language is configured, and as translation fallback.
const DefaultLanguage = "en-US"

//go:embed translations.json
var translationsJSON []byte

// Translations maps a language code to catalog names keyed by name key.
type Translations map[string]map[string]string

// LoadTranslations parses the translation table bundled with the addon.
func LoadTranslations() (Translations, error) {
	return ParseTranslations(translationsJSON)
}

// ParseTranslations parses a JSON translation table.
func ParseTranslations(data []byte) (Translations, error) {
	var t Translations
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to json.Unmarshal: %w", err)
	}
	return t, nil
}

// Load returns the default language names overridden by the ones of language.
// A new map is returned on every call.
func (t Translations) Load(language string) map[string]string {
	merged := make(map[string]string, len(t[DefaultLanguage]))
	maps.Copy(merged, t[DefaultLanguage])
	maps.Copy(merged, t[language])
	return merged
}
