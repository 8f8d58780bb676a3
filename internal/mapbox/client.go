package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const GeocodingBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Client talks to the Mapbox geocoding API
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a geocoding client
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: GeocodingBaseURL,
		token:   token,
	}
}

// GeocodeResult is one structured address candidate
type GeocodeResult struct {
	Address  string  `json:"address"`
	Suburb   string  `json:"suburb"`
	State    string  `json:"state"`
	Postcode string  `json:"postcode"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
}

type geocodeFeature struct {
	PlaceName string    `json:"place_name"`
	Text      string    `json:"text"`
	Center    []float64 `json:"center"` // [lng, lat]
	Context   []struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"context"`
}

type geocodeResponse struct {
	Features []geocodeFeature `json:"features"`
}

// ForwardGeocode resolves free-text address input to structured candidates.
// Results are AU-scoped street addresses, matching the listing wizard's needs.
func (c *Client) ForwardGeocode(ctx context.Context, query string, limit int) ([]GeocodeResult, error) {
	if limit < 1 {
		limit = 5
	}

	endpoint := fmt.Sprintf("%s/%s.json?access_token=%s&country=au&types=address&limit=%d",
		c.baseURL, url.PathEscape(query), url.QueryEscape(c.token), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocoding request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("geocoding API returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	results := make([]GeocodeResult, 0, len(parsed.Features))
	for _, feature := range parsed.Features {
		if len(feature.Center) != 2 {
			continue
		}

		result := GeocodeResult{
			Address: feature.PlaceName,
			Lng:     feature.Center[0],
			Lat:     feature.Center[1],
		}
		if result.Address == "" {
			result.Address = feature.Text
		}

		// Suburb/state/postcode come from feature context entries
		for _, entry := range feature.Context {
			switch {
			case strings.HasPrefix(entry.ID, "place"):
				result.Suburb = entry.Text
			case strings.HasPrefix(entry.ID, "region"):
				result.State = entry.Text
			case strings.HasPrefix(entry.ID, "postcode"):
				result.Postcode = entry.Text
			}
		}

		results = append(results, result)
	}

	return results, nil
}
