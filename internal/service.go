package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/centrifugal/centrifuge"
	"github.com/ogero/stremio-tmdb/internal/common"
	"github.com/ogero/stremio-tmdb/internal/loki"
	"github.com/ogero/stremio-tmdb/internal/manifest"
	"github.com/ogero/stremio-tmdb/pkg/stremio"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Stats represents statistical data including manifest counts in the last 24 hours and the last requested language.
type Stats struct {
	// ManifestsCount24 represents the number of manifests built in the last 24 hours.
	ManifestsCount24 int `json:"manifestsCount24"`
	// SkippedCatalogsCount24 represents the number of catalogs left out of manifests in the last 24 hours.
	SkippedCatalogsCount24 int `json:"skippedCatalogsCount24"`
	// LanguageInstant holds the language of the last built manifest.
	LanguageInstant string `json:"languageInstant"`
}

// StremioService defines methods for building addon manifests and broadcasting usage stats.
type StremioService interface {
	// Handler handles incoming HTTP requests via a websocket handler
	http.Handler
	// GetManifest builds the addon manifest for a user config.
	GetManifest(ctx context.Context, cfg manifest.Config) (*stremio.Manifest, error)
	// BroadcastStats updates and publishes statistical data to a websocket channel.
	// Accepts a function to modify stats and returns an error if updating or publishing fails.
	BroadcastStats(statsUpdater func(stats *Stats) error) error
	// StartPollingStats begins the periodic fetching and broadcasting of statistical data at the specified interval, until ctx is done.
	StartPollingStats(ctx context.Context, interval time.Duration)
	// Shutdown stops the websocket node.
	Shutdown(ctx context.Context) error
}

type stremioService struct {
	statsWebsocketChannel string
	builder               *manifest.Builder
	loki                  loki.Loki

	node             *centrifuge.Node
	websocketHandler *centrifuge.WebsocketHandler
	statsMutex       *sync.Mutex
	stats            Stats
}

func (s *stremioService) statsJSON() ([]byte, error) {
	s.statsMutex.Lock()
	stats := s.stats
	s.statsMutex.Unlock()

	b, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("failed to json.Marshal: %w", err)
	}
	return b, nil
}

// NewStremioService creates a new instance of StremioService building manifests with builder.
func NewStremioService(statsWebsocketChannel string, builder *manifest.Builder, loki loki.Loki) (StremioService, error) {
	svc := &stremioService{
		statsWebsocketChannel: statsWebsocketChannel,
		builder:               builder,
		loki:                  loki,

		statsMutex: &sync.Mutex{},
	}

	node, err := centrifuge.New(centrifuge.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to centrifuge.New: %w", err)
	}
	svc.node = node

	node.OnConnecting(func(ctx context.Context, e centrifuge.ConnectEvent) (centrifuge.ConnectReply, error) {
		return centrifuge.ConnectReply{}, nil
	})

	node.OnConnect(func(client *centrifuge.Client) {
		client.OnSubscribe(func(e centrifuge.SubscribeEvent, cb centrifuge.SubscribeCallback) {
			if e.Channel != statsWebsocketChannel {
				cb(centrifuge.SubscribeReply{}, centrifuge.ErrorPermissionDenied)
				return
			}

			// The current stats go to the new subscriber only, within the subscribe reply.
			data, err := svc.statsJSON()
			if err != nil {
				common.Log.Warn("Failed to internal.StremioService.statsJSON", "err", err)
			}
			cb(centrifuge.SubscribeReply{
				Options: centrifuge.SubscribeOptions{Data: data},
			}, nil)
		})
	})

	if err := node.Run(); err != nil {
		return nil, fmt.Errorf("failed to centrifuge.Node.Run: %w", err)
	}

	svc.websocketHandler = centrifuge.NewWebsocketHandler(node, centrifuge.WebsocketConfig{
		ReadBufferSize:     1024,
		UseWriteBufferPool: true,
	})

	return svc, nil
}

// GetManifest builds the addon manifest for a user config.
// Catalogs left out of the manifest are logged and counted, they are not an error.
func (s *stremioService) GetManifest(ctx context.Context, cfg manifest.Config) (*stremio.Manifest, error) {

	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer("").Start(ctx, "internal.StremioService.GetManifest")
	defer span.End()

	m, report, err := s.builder.Build(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to manifest.Builder.Build: %w", err)
	}

	if report.LanguageFallback {
		common.Log.WarnContext(ctx, "Language not found, filter languages ordered by default language",
			"language", report.Language, "default", manifest.DefaultLanguage)
	}
	for _, skipped := range report.Skipped {
		common.Log.InfoContext(ctx, "Skipped catalog", "id", skipped.ID, "reason", skipped.Reason,
			"malformed", common.ValidateCatalogID(skipped.ID) != nil)
		common.CatalogsSkippedTotalIncr(ctx, string(skipped.Reason))
	}
	common.Log.InfoContext(ctx, "Built manifest", "language", report.Language,
		"catalogs", len(m.Catalogs), "skipped", len(report.Skipped))
	common.ManifestsBuiltTotalIncr(ctx, report.Language)

	span.SetAttributes(attribute.String("manifest.language", report.Language))
	span.SetAttributes(attribute.Int("manifest.catalogs-count", len(m.Catalogs)))
	span.SetAttributes(attribute.Int("manifest.skipped-count", len(report.Skipped)))

	go func() {
		err := s.BroadcastStats(func(data *Stats) error {
			data.LanguageInstant = report.Language
			return nil
		})
		if err != nil {
			common.Log.WarnContext(ctx, "Failed to internal.StremioService.BroadcastStats", "err", err)
		}
	}()

	return m, nil
}

// BroadcastStats updates and publishes statistical data to a websocket channel.
// Accepts a function to modify stats and returns an error if updating or publishing fails.
func (s *stremioService) BroadcastStats(statsUpdater func(stats *Stats) error) error {
	stats, err := func() (Stats, error) {
		s.statsMutex.Lock()
		defer s.statsMutex.Unlock()
		err := statsUpdater(&s.stats)
		if err != nil {
			return Stats{}, err
		}
		return s.stats, nil
	}()
	if err != nil {
		return fmt.Errorf("failed to statsUpdater: %w", err)
	}

	b, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to json.Marshal: %w", err)
	}

	_, err = s.node.Publish(s.statsWebsocketChannel, b)
	if err != nil {
		return fmt.Errorf("failed to centrifuge.Node.Publish: %w", err)
	}

	return nil
}

// StartPollingStats begins the periodic fetching and broadcasting of statistical data at the specified interval, until ctx is done.
func (s *stremioService) StartPollingStats(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		s.pollStats(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *stremioService) pollStats(ctx context.Context) {
	manifests, manifestsErr := s.loki.GetManifests24(ctx)
	if manifestsErr != nil {
		common.Log.ErrorContext(ctx, "Failed to loki.Loki.GetManifests24", "err", manifestsErr)
	}
	skipped, skippedErr := s.loki.GetSkippedCatalogs24(ctx)
	if skippedErr != nil {
		common.Log.ErrorContext(ctx, "Failed to loki.Loki.GetSkippedCatalogs24", "err", skippedErr)
	}
	// Counts that failed to load keep their last known value.
	err := s.BroadcastStats(func(stats *Stats) error {
		if manifestsErr == nil {
			stats.ManifestsCount24 = manifests
		}
		if skippedErr == nil {
			stats.SkippedCatalogsCount24 = skipped
		}
		return nil
	})
	if err != nil {
		common.Log.WarnContext(ctx, "Failed to internal.StremioService.BroadcastStats", "err", err)
	}
}

// ServeHTTP handles incoming HTTP requests via a websocket handler
func (s *stremioService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	newCtx := centrifuge.SetCredentials(ctx, &centrifuge.Credentials{})
	r = r.WithContext(newCtx)

	s.websocketHandler.ServeHTTP(w, r)
}

// Shutdown stops the websocket node.
func (s *stremioService) Shutdown(ctx context.Context) error {
	return s.node.Shutdown(ctx)
}
