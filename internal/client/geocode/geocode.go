// Package geocode resolves coordinate pairs to display place names through a
// MapTiler-style reverse-geocoding endpoint.
//
// Lookups never fail from the caller's point of view: on any error the
// formatted coordinates are returned instead. Results are cached per rounded
// coordinate pair for the life of the client, and concurrent lookups for the
// same pair are collapsed into a single request.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu    sync.Mutex
	cache map[string]string
	group singleflight.Group
}

// New constructs a geocoding client. An empty apiKey is allowed; the remote
// endpoint will reject requests and callers get the coordinate fallback.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		cache:      make(map[string]string),
	}
}

// feature mirrors the slice entries of the geocoding response.
type feature struct {
	Text       string         `json:"text"`
	PlaceName  string         `json:"place_name"`
	PlaceType  []string       `json:"place_type"`
	Properties map[string]any `json:"properties"`
}

type geocodeResponse struct {
	Features []feature `json:"features"`
}

// cache keys round to 4 decimals, roughly 11 meters, so markers of the same
// spot share one lookup
func cacheKey(lat, lon float64) string {
	return fmt.Sprintf("%.4f,%.4f", lat, lon)
}

func fallback(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}

// PlaceName resolves lat/lon to a human place name, serving repeated lookups
// for the same rounded pair from cache. Failed lookups are cached too, as the
// coordinate fallback, so a flaky endpoint is hit at most once per pair.
func (c *Client) PlaceName(ctx context.Context, lat, lon float64) string {
	key := cacheKey(lat, lon)

	c.mu.Lock()
	if name, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return name
	}
	c.mu.Unlock()

	v, _, _ := c.group.Do(key, func() (any, error) {
		name, err := c.lookup(ctx, lat, lon)
		if err != nil || name == "" {
			name = fallback(lat, lon)
		}
		c.mu.Lock()
		c.cache[key] = name
		c.mu.Unlock()
		return name, nil
	})
	return v.(string)
}

func (c *Client) lookup(ctx context.Context, lat, lon float64) (string, error) {
	// the endpoint takes lon,lat order
	endpoint := fmt.Sprintf("%s/%s,%s.json?key=%s",
		c.baseURL,
		strconv.FormatFloat(lon, 'f', -1, 64),
		strconv.FormatFloat(lat, 'f', -1, 64),
		url.QueryEscape(c.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoding failed with status %d", resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	return pickPlace(decoded.Features), nil
}

// pickPlace selects the most city-like feature: a subregion first, then a
// place, then anything OSM tags as a city, then a municipal district, else
// the first feature.
func pickPlace(features []feature) string {
	if len(features) == 0 {
		return ""
	}

	if f, ok := findByPlaceType(features, "subregion"); ok {
		return displayName(f)
	}
	if f, ok := findByPlaceType(features, "place"); ok {
		return displayName(f)
	}
	for _, f := range features {
		if f.Properties["osm:place_type"] == "city" {
			return displayName(f)
		}
	}
	if f, ok := findByPlaceType(features, "municipal_district"); ok {
		return displayName(f)
	}
	return displayName(features[0])
}

func findByPlaceType(features []feature, placeType string) (feature, bool) {
	for _, f := range features {
		for _, pt := range f.PlaceType {
			if pt == placeType {
				return f, true
			}
		}
	}
	return feature{}, false
}

func displayName(f feature) string {
	if f.Text != "" {
		return f.Text
	}
	return f.PlaceName
}
