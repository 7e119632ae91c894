package stremio

// Manifest represents a Stremio addon manifest
type Manifest struct {
	ID            string        `json:"id"`
	Version       string        `json:"version"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Favicon       string        `json:"favicon,omitempty"`
	Logo          string        `json:"logo,omitempty"`
	Background    string        `json:"background,omitempty"`
	Resources     []string      `json:"resources"`
	Types         []string      `json:"types"`
	IDPrefixes    []string      `json:"idPrefixes"`
	BehaviorHints BehaviorHints `json:"behaviorHints"`
	Catalogs      []CatalogItem `json:"catalogs"`
}

// BehaviorHints tells Stremio how to present the addon (e.g. the configure button)
type BehaviorHints struct {
	Configurable          bool `json:"configurable"`
	ConfigurationRequired bool `json:"configurationRequired"`
}

// CatalogItem represents a Stremio manifest catalog item
type CatalogItem struct {
	ID             string         `json:"id"`
	Type           string         `json:"type"`
	Name           string         `json:"name"`
	PageSize       int            `json:"pageSize"`
	Extra          []CatalogExtra `json:"extra"`
	ExtraSupported []string       `json:"extraSupported"`
	// ExtraRequired is left out of the JSON when empty.
	ExtraRequired []string `json:"extraRequired,omitempty"`
}

// CatalogExtra represents a catalog filter declaration, like genre, search or skip.
type CatalogExtra struct {
	Name       string   `json:"name"`
	Options    []string `json:"options,omitempty"`
	IsRequired bool     `json:"isRequired,omitempty"`
}
