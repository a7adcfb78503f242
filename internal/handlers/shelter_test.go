package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"streetaid/internal/geocache"
	"streetaid/internal/models"
	"streetaid/internal/overpass"
	"streetaid/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
)

func newShelterHandler(t *testing.T, upstream http.HandlerFunc) *ShelterHandler {
	t.Helper()
	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	cache := geocache.New(30 * time.Minute)
	client := overpass.NewClient(srv.URL, 30*time.Second, zap.NewNop())
	svc := services.NewShelterService(cache, client, zap.NewNop())
	return NewShelterHandler(svc, zap.NewNop())
}

const boundsQuery = "north=51.06&south=51.03&east=-114.05&west=-114.09"

func TestGetShelters(t *testing.T) {
	h := newShelterHandler(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements": [
			{"type": "node", "id": 5, "lat": 51.0, "lon": -114.0,
			 "tags": {"amenity": "shelter", "shelter_type": "homeless", "name": "Drop-In"}}
		]}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shelters?"+boundsQuery, nil)
	rec := httptest.NewRecorder()
	h.GetShelters(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.SheltersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Shelters, 1)
	assert.Equal(t, "node/5", resp.Shelters[0].ID)
	assert.Equal(t, "Drop-In", resp.Shelters[0].Name)
}

func TestGetSheltersInvalidBounds(t *testing.T) {
	h := newShelterHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for invalid bounds")
	})

	cases := []string{
		"",                                                  // all missing
		"north=51.06&south=51.03&east=-114.05",              // west missing
		"north=51.03&south=51.06&east=-114.05&west=-114.09", // north < south
		"north=51.06&south=51.03&east=-114.09&west=-114.05", // east < west
		"north=abc&south=51.03&east=-114.05&west=-114.09",   // not a number
	}

	for _, qs := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/shelters?"+qs, nil)
		rec := httptest.NewRecorder()
		h.GetShelters(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %q", qs)
	}
}

func TestGetSheltersUpstreamFailure(t *testing.T) {
	h := newShelterHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/shelters?"+boundsQuery, nil)
	rec := httptest.NewRecorder()
	h.GetShelters(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "unable to load nearby shelters", resp["error"])
}

func TestCacheStatsAndClear(t *testing.T) {
	h := newShelterHandler(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"elements": []}`))
	})

	// Prime the cache with one viewport.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/shelters?"+boundsQuery, nil)
	h.GetShelters(httptest.NewRecorder(), req)

	rec := httptest.NewRecorder()
	h.GetCacheStats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/shelters/cache/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stats models.CacheStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Size)
	assert.Len(t, stats.Entries, 1)

	rec = httptest.NewRecorder()
	h.ClearCache(rec, httptest.NewRequest(http.MethodPost, "/api/v1/shelters/cache/clear", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.GetCacheStats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/shelters/cache/stats", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.Size)
}

func TestParseBounds(t *testing.T) {
	q, _ := url.ParseQuery(boundsQuery)
	bounds, err := parseBounds(q)

	require.NoError(t, err)
	assert.Equal(t, models.BoundingBox{North: 51.06, South: 51.03, East: -114.05, West: -114.09}, bounds)
}
