package internal

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/ogero/stremio-tmdb/internal/common"
	"github.com/ogero/stremio-tmdb/internal/manifest"
	"github.com/ogero/stremio-tmdb/pkg/stremio"
	slogchi "github.com/samber/slog-chi"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// App represents the main application structure that holds the Stremio service.
type App struct {
	StremioService StremioService
}

/*
NewApp creates a new instance of the App struct.

Parameters:
  - stremioService: The service used to build manifests and broadcast stats.

Returns:
  - A pointer to the newly created App instance.
*/
func NewApp(stremioService StremioService) (*App, error) {
	if stremioService == nil {
		return nil, errors.New("stremio service is required")
	}

	return &App{
		StremioService: stremioService,
	}, nil
}

// Router returns the addon HTTP routes.
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(slogchi.NewWithConfig(common.Log, slogchi.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithTraceID:      true,
		WithSpanID:       true,
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{
			"Content-Type",
			"X-Requested-With",
			"Accept",
			"Accept-Language",
			"Accept-Encoding",
			"Content-Language",
			"Origin",
		},
		MaxAge: 300,
	}))

	r.Get("/health", a.HealthHandler)
	r.Get("/manifest.json", a.ManifestHandler)
	r.Get("/{config}/manifest.json", a.ConfiguredManifestHandler)
	r.Get("/connection/websocket", a.WebsocketHandler)

	return r
}

// HealthHandler answers liveness probes.
func (a *App) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK"))
}

/*
ManifestHandler serves the manifest of the addon without user configuration.

The manifest lists no catalogs, users get them by configuring the addon.
*/
func (a *App) ManifestHandler(w http.ResponseWriter, r *http.Request) {
	common.Log.DebugContext(r.Context(), "ManifestHandler")

	a.writeManifest(w, r, manifest.Config{})
}

/*
ConfiguredManifestHandler serves the manifest for the user configuration found in the URL path.

This method decodes and validates the configuration, builds the manifest and writes it as a JSON response.
*/
func (a *App) ConfiguredManifestHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)

	common.Log.DebugContext(ctx, "ConfiguredManifestHandler")

	cfg, err := manifest.ParseConfig(chi.URLParam(r, "config"))
	if err != nil {
		common.Log.WarnContext(ctx, "Failed to manifest.ParseConfig", "err", err)
		span.RecordError(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err = common.ValidateConfig(cfg); err != nil {
		common.Log.WarnContext(ctx, "Failed to common.ValidateConfig", "err", err)
		span.RecordError(err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("config.language", cfg.Language))
	span.SetAttributes(attribute.Int("config.catalogs-count", len(cfg.Catalogs)))

	a.writeManifest(w, r, cfg)
}

func (a *App) writeManifest(w http.ResponseWriter, r *http.Request, cfg manifest.Config) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)

	m, err := a.StremioService.GetManifest(ctx, cfg)
	if err != nil {
		common.Log.ErrorContext(ctx, "Failed to StremioService.GetManifest", "err", err)
		span.RecordError(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, m)
}

func writeJSON(w http.ResponseWriter, r *http.Request, m *stremio.Manifest) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)

	w.Header().Set("CDN-Cache-Control", "public, max-age=3600")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(m); err != nil {
		common.Log.ErrorContext(ctx, "Failed to write response", "err", err)
		span.RecordError(err)
		return
	}
}

// WebsocketHandler handles WebSocket connections
func (a *App) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	common.Log.DebugContext(ctx, "WebsocketHandler")

	a.StremioService.ServeHTTP(w, r)
}
