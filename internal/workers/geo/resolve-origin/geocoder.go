// internal/workers/geo/resolve-origin/geocoder.go
package resolveorigin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"lusotown-workers/internal/common/httpclient"

	"github.com/redis/go-redis/v9"
)

var (
	ErrGeocodeFailed  = errors.New("GEOCODE_FAILED")
	ErrGeocodeTimeout = errors.New("GEOCODE_TIMEOUT")
)

// Geocoder resolves free-text locations to coordinates through an external
// geocoding service, with resolved results cached in Redis.
type Geocoder struct {
	config *Config
	http   *httpclient.Client
	cache  *redis.Client
}

func NewGeocoder(config *Config, httpClient *httpclient.Client, cache *redis.Client) *Geocoder {
	return &Geocoder{
		config: config,
		http:   httpClient,
		cache:  cache,
	}
}

type geocodeResponse struct {
	Results []struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

func geocodeCacheKey(locationText string) string {
	return "geocode:" + strings.ToLower(strings.TrimSpace(locationText))
}

// Resolve returns the coordinates for a location, or (nil, "none", nil) when
// the service knows no match. Only transport-level problems are errors.
func (g *Geocoder) Resolve(ctx context.Context, locationText string) (*GeoOrigin, string, error) {
	key := geocodeCacheKey(locationText)

	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, key).Result(); err == nil {
			var origin GeoOrigin
			if err := json.Unmarshal([]byte(cached), &origin); err == nil {
				return &origin, "cache", nil
			}
		}
	}

	origin, err := g.query(ctx, locationText)
	if err != nil {
		return nil, "none", err
	}
	if origin == nil {
		return nil, "none", nil
	}

	if g.cache != nil {
		if encoded, err := json.Marshal(origin); err == nil {
			g.cache.Set(ctx, key, encoded, g.config.CacheTTL)
		}
	}

	return origin, "geocoder", nil
}

func (g *Geocoder) query(ctx context.Context, locationText string) (*GeoOrigin, error) {
	endpoint := fmt.Sprintf("%s/v1/search?%s", g.config.BaseURL, url.Values{
		"q": []string{locationText},
	}.Encode())

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}
	if g.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.config.APIKey)
	}

	resp, err := g.http.DoWithContext(ctx, req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrGeocodeTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrGeocodeFailed, err)
	}
	defer resp.Body.Close()

	// 404 means the service has no match for the text, not a failure.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrGeocodeFailed, resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGeocodeFailed, err)
	}
	if len(decoded.Results) == 0 {
		return nil, nil
	}

	first := decoded.Results[0]
	return &GeoOrigin{Latitude: first.Latitude, Longitude: first.Longitude}, nil
}
