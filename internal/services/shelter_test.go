package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"streetaid/internal/geocache"
	"streetaid/internal/models"
	"streetaid/internal/overpass"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

const shelterJSON = `{
	"elements": [
		{"type": "node", "id": 5, "lat": 51.0, "lon": -114.0,
		 "tags": {"amenity": "shelter", "shelter_type": "homeless", "name": "Drop-In"}}
	]
}`

func testBounds() models.BoundingBox {
	return models.BoundingBox{North: 51.06, South: 51.03, East: -114.05, West: -114.09}
}

func newTestService(t *testing.T, handler http.HandlerFunc) (*ShelterService, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cache := geocache.New(30 * time.Minute)
	client := overpass.NewClient(srv.URL, 30*time.Second, zap.NewNop())
	return NewShelterService(cache, client, zap.NewNop()), srv
}

func TestFetchSheltersCachesResult(t *testing.T) {
	var calls atomic.Int32
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(shelterJSON))
	})

	first, err := svc.FetchShelters(context.Background(), testBounds())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "node/5", first[0].ID)

	// Second query for the same viewport is served from cache.
	second, err := svc.FetchShelters(context.Background(), testBounds())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchSheltersEmptyIsNotAnError(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements": []}`))
	})

	shelters, err := svc.FetchShelters(context.Background(), testBounds())
	require.NoError(t, err)
	assert.Empty(t, shelters)

	// The empty result is cached too.
	assert.Equal(t, 1, svc.CacheStats().Size)
}

func TestFetchSheltersUpstreamFailure(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	})

	_, err := svc.FetchShelters(context.Background(), testBounds())
	assert.ErrorIs(t, err, overpass.ErrUpstreamUnavailable)

	// Failures never populate the cache.
	assert.Equal(t, 0, svc.CacheStats().Size)
}

func TestFetchSheltersLatestSupersedes(t *testing.T) {
	firstStarted := make(chan struct{})
	var calls atomic.Int32
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			close(firstStarted)
			// Hold the first viewport's request open until its context dies.
			<-r.Context().Done()
			return
		}
		_, _ = w.Write([]byte(shelterJSON))
	})

	b1 := testBounds()
	b2 := testBounds()
	b2.North += 0.02
	b2.South += 0.02

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.FetchSheltersLatest(context.Background(), b1)
		firstErr <- err
	}()

	<-firstStarted
	shelters, err := svc.FetchSheltersLatest(context.Background(), b2)
	require.NoError(t, err)
	require.Len(t, shelters, 1)

	// The superseded fetch reports cancellation, not an upstream error.
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	// Only the newer viewport made it into the cache.
	stats := svc.CacheStats()
	require.Equal(t, 1, stats.Size)
	assert.Equal(t, b2.CacheKey(), stats.Entries[0])
}

func TestCancelledFetchDoesNotPopulateCache(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		// Cancel the caller while the response is still in flight.
		cancel()
		_, _ = w.Write([]byte(shelterJSON))
	})

	_, err := svc.FetchShelters(ctx, testBounds())
	assert.Error(t, err)
	assert.Equal(t, 0, svc.CacheStats().Size)
}

func TestClearCache(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(shelterJSON))
	})

	_, err := svc.FetchShelters(context.Background(), testBounds())
	require.NoError(t, err)
	require.Equal(t, 1, svc.CacheStats().Size)

	svc.ClearCache()
	assert.Equal(t, 0, svc.CacheStats().Size)
}
