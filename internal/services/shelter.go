package services

import (
	"context"
	"sync"

	"streetaid/internal/geocache"
	"streetaid/internal/metrics"
	"streetaid/internal/models"
	"streetaid/internal/overpass"

	"go.uber.org/zap"
)

// fetchToken is the cancellation handle for one in-flight viewport fetch.
type fetchToken struct {
	cancel context.CancelFunc
}

// ShelterService resolves a map viewport to a normalized, deduplicated
// shelter list, consulting the geo cache around the Overpass call.
type ShelterService struct {
	cache  *geocache.Cache
	client *overpass.Client
	logr   *zap.Logger

	mu     sync.Mutex
	latest *fetchToken
}

func NewShelterService(cache *geocache.Cache, client *overpass.Client, logr *zap.Logger) *ShelterService {
	return &ShelterService{
		cache:  cache,
		client: client,
		logr:   logr,
	}
}

// FetchShelters returns shelters for the viewport: cache hit short-circuits,
// otherwise the Overpass query runs and the normalized result is stored.
// An empty list is a valid result, not an error. A cancelled fetch never
// populates the cache.
func (s *ShelterService) FetchShelters(ctx context.Context, bounds models.BoundingBox) ([]models.ShelterRecord, error) {
	metrics.ShelterRequestsTotal.Inc()

	if cached, ok := s.cache.Get(bounds); ok {
		metrics.ShelterCacheHitsTotal.Inc()
		s.logr.Debug("shelter cache hit", zap.String("key", bounds.CacheKey()))
		return cached, nil
	}
	metrics.ShelterCacheMissesTotal.Inc()

	elements, err := s.client.Query(ctx, overpass.BuildShelterQuery(bounds))
	if err != nil {
		return nil, err
	}

	shelters := overpass.NormalizeAll(elements)

	// A superseded request must not overwrite a fresher entry.
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.cache.Set(bounds, shelters)

	s.logr.Info("shelters fetched",
		zap.String("key", bounds.CacheKey()),
		zap.Int("raw", len(elements)),
		zap.Int("normalized", len(shelters)))

	return shelters, nil
}

// FetchSheltersLatest is FetchShelters with last-viewport-wins semantics:
// starting a new fetch cancels any fetch still in flight, so a stale
// viewport's result can never land after a fresher one under fast panning.
func (s *ShelterService) FetchSheltersLatest(ctx context.Context, bounds models.BoundingBox) ([]models.ShelterRecord, error) {
	ctx, cancel := context.WithCancel(ctx)
	token := &fetchToken{cancel: cancel}

	s.mu.Lock()
	if s.latest != nil {
		s.latest.cancel()
		metrics.SupersededFetchesTotal.Inc()
	}
	s.latest = token
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.latest == token {
			s.latest = nil
		}
		s.mu.Unlock()
		cancel()
	}()

	shelters, err := s.FetchShelters(ctx, bounds)
	if ctx.Err() != nil {
		// Superseded (or the caller went away): discard the outcome either way.
		return nil, ctx.Err()
	}
	return shelters, err
}

// CacheStats exposes the cache contents read-only for debugging.
func (s *ShelterService) CacheStats() models.CacheStats {
	return s.cache.Stats()
}

// ClearCache drops every cached viewport; the UI refresh action calls this.
func (s *ShelterService) ClearCache() {
	s.cache.Clear()
	s.logr.Info("shelter cache cleared")
}
