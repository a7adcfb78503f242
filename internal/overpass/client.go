// Package overpass queries the Overpass API (OpenStreetMap) for shelter-like
// points of interest and normalizes its tag soup into ShelterRecords.
package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"streetaid/internal/metrics"

	"go.uber.org/zap"
)

// ErrUpstreamUnavailable means the Overpass service failed or was
// unreachable. It is distinct from a valid zero-result response.
var ErrUpstreamUnavailable = errors.New("overpass upstream unavailable")

const maxResponseBytes = 32 << 20 // 32MB

// Element is one raw Overpass element. Nodes carry lat/lon directly; ways
// and relations carry a computed center (requested via "out center").
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat"`
	Lon    *float64          `json:"lon"`
	Center *Center           `json:"center"`
	Tags   map[string]string `json:"tags"`
}

type Center struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type queryResponse struct {
	Elements []Element `json:"elements"`
}

// Client executes OverpassQL queries against a configured endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	logr     *zap.Logger
}

func NewClient(endpoint string, timeout time.Duration, logr *zap.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		logr:     logr,
	}
}

// Query POSTs the query body and decodes the element list. Context
// cancellation propagates unchanged so callers can tell a superseded request
// from an upstream failure with errors.Is(err, context.Canceled).
func (c *Client) Query(ctx context.Context, query string) ([]Element, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/plain")

	t0 := time.Now()
	metrics.OverpassRequestsTotal.Inc()

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		metrics.OverpassFailTotal.Inc()
		c.logr.Error("overpass request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.OverpassFailTotal.Inc()
		c.logr.Warn("overpass returned non-success status", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamUnavailable, resp.StatusCode)
	}

	var result queryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&result); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		metrics.OverpassFailTotal.Inc()
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstreamUnavailable, err)
	}

	metrics.OverpassDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	c.logr.Debug("overpass query complete",
		zap.Int("elements", len(result.Elements)),
		zap.Duration("duration", time.Since(t0)))

	return result.Elements, nil
}
