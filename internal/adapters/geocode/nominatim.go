package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"delivery-serviceability-service/internal/domain"
	"delivery-serviceability-service/internal/ports"
)

// Client queries a Nominatim-compatible free-text geocoding endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Search resolves a free-text query to the first candidate's coordinate,
// fixed to six decimal places. Empty result sets fail with ports.ErrNoMatch.
func (c *Client) Search(ctx context.Context, query string) (domain.Coordinate, error) {
	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"limit":  {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("create geocode request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Coordinate{}, fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	var decoded []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinate{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(decoded) == 0 {
		return domain.Coordinate{}, ports.ErrNoMatch
	}

	lat, err := strconv.ParseFloat(decoded[0].Lat, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse latitude %q: %w", decoded[0].Lat, err)
	}
	lng, err := strconv.ParseFloat(decoded[0].Lon, 64)
	if err != nil {
		return domain.Coordinate{}, fmt.Errorf("parse longitude %q: %w", decoded[0].Lon, err)
	}

	return domain.NewCoordinate(lat, lng), nil
}

// CountrySource geocodes a bare "<pin>, India" query against the primary
// geocoder. First link in the network part of the resolution chain.
type CountrySource struct {
	Client *Client
}

func (s *CountrySource) Name() string { return "nominatim" }

func (s *CountrySource) Resolve(ctx context.Context, pincode string) (domain.Coordinate, error) {
	return s.Client.Search(ctx, fmt.Sprintf("%s, India", pincode))
}
