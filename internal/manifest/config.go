package manifest

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrInvalidConfig is returned when a user config can't be decoded.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the user configuration embedded in the manifest URL.
type Config struct {
	// Language is the catalogs language, DefaultLanguage when empty.
	Language string `json:"language,omitempty"`
	// TMDBPrefix prefixes catalog names with the TMDB brand.
	TMDBPrefix Flag `json:"tmdbPrefix,omitempty"`
	// ProvideIMDBID declares IMDb ids as handled by the addon.
	ProvideIMDBID Flag `json:"provideImdbId,omitempty"`
	// SessionID is the TMDB session, required by personal catalogs.
	SessionID string           `json:"sessionId,omitempty"`
	Catalogs  []CatalogRequest `json:"catalogs,omitempty"`
}

// Flag is a boolean only set by the JSON string "true". Any other value, JSON true included, is false.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	s, ok := v.(string)
	*f = Flag(ok && s == "true")
	return nil
}

// ParseConfig decodes the config path segment of a configured manifest URL.
// The segment is either URL escaped JSON or base64 encoded JSON.
func ParseConfig(raw string) (Config, error) {
	unescaped, err := url.PathUnescape(raw)
	if err != nil {
		return Config{}, fmt.Errorf("%w: failed to url.PathUnescape: %w", ErrInvalidConfig, err)
	}

	data := []byte(strings.TrimSpace(unescaped))
	if !bytes.HasPrefix(data, []byte("{")) {
		data, err = decodeBase64(string(data))
		if err != nil {
			return Config{}, fmt.Errorf("%w: failed to decode base64: %w", ErrInvalidConfig, err)
		}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: failed to json.Unmarshal: %w", ErrInvalidConfig, err)
	}

	return cfg, nil
}

func decodeBase64(s string) ([]byte, error) {
	var err error
	for _, enc := range []*base64.Encoding{
		base64.RawURLEncoding,
		base64.URLEncoding,
		base64.StdEncoding,
		base64.RawStdEncoding,
	} {
		var data []byte
		if data, err = enc.DecodeString(s); err == nil {
			return data, nil
		}
	}
	return nil, err
}
