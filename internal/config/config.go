package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the addon settings read from the environment.
type Config struct {
	// AddonHost is the public (external) base URL where the addon is accessible.
	// It is used for any links requiring the addon host address.
	AddonHost string `env:"ADDON_HOST" envDefault:"http://127.0.0.1:3593"`
	// ServerListenAddr specifies the network address that the HTTP server will listen on.
	ServerListenAddr string `env:"SERVER_LISTEN_ADDR" envDefault:":3593"`

	// TMDBAPIKey is the TMDB v3 API key.
	TMDBAPIKey string `env:"TMDB_API_KEY,required"`
	// TMDBAccessToken is the optional TMDB v4 read access token.
	TMDBAccessToken string `env:"TMDB_ACCESS_TOKEN"`

	// CachePath is the directory of the provider responses cache.
	CachePath string `env:"CACHE_PATH" envDefault:".cache"`

	ServiceEnvironment string `env:"SERVICE_ENVIRONMENT" envDefault:"lcl"`
	// OTELExporterEndpoint is the OTLP gRPC collector, telemetry is only exported when set.
	OTELExporterEndpoint string `env:"OTEL_EXPORTER_ENDPOINT"`

	// LokiHost is the Loki base URL used for the stats, stats polling is disabled when empty.
	LokiHost              string        `env:"LOKI_HOST"`
	StatsWebsocketChannel string        `env:"STATS_WEBSOCKET_CHANNEL" envDefault:"stats"`
	StatsPollingInterval  time.Duration `env:"STATS_POLLING_INTERVAL" envDefault:"5m"`
}

// Load reads the Config from the environment.
func Load() (*Config, error) {
	return LoadWithOptions(env.Options{})
}

// LoadWithOptions reads the Config with custom env options, like a fixed environment.
func LoadWithOptions(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("failed to env.ParseAs: %w", err)
	}

	u, err := url.Parse(cfg.AddonHost)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ADDON_HOST: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid ADDON_HOST %q, scheme and host are required", cfg.AddonHost)
	}
	cfg.AddonHost = fmt.Sprintf("%s://%s", u.Scheme, u.Host)

	return &cfg, nil
}
