package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"delivery-serviceability-service/internal/domain"
	"delivery-serviceability-service/internal/ports"
)

// DirectorySource looks up the district and state belonging to a PIN code
// in the postal directory, then re-queries the primary geocoder with the
// more specific "<pin>, <district>, <state>, India" string. Catches codes
// the bare country query cannot place.
type DirectorySource struct {
	baseURL    string
	httpClient *http.Client
	geocoder   *Client
	logger     *slog.Logger
}

func NewDirectorySource(baseURL string, timeout time.Duration, geocoder *Client, logger *slog.Logger) *DirectorySource {
	return &DirectorySource{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		geocoder:   geocoder,
		logger:     logger,
	}
}

func (s *DirectorySource) Name() string { return "postal-directory" }

func (s *DirectorySource) Resolve(ctx context.Context, pincode string) (domain.Coordinate, error) {
	district, state, err := s.lookup(ctx, pincode)
	if err != nil {
		return domain.Coordinate{}, err
	}

	query := fmt.Sprintf("%s, %s, %s, India", pincode, district, state)
	return s.geocoder.Search(ctx, query)
}

func (s *DirectorySource) lookup(ctx context.Context, pincode string) (district, state string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/pincode/"+pincode, nil)
	if err != nil {
		return "", "", fmt.Errorf("create directory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("directory request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("directory: unexpected status %d", resp.StatusCode)
	}

	var decoded []struct {
		Status     string `json:"Status"`
		PostOffice []struct {
			District string `json:"District"`
			State    string `json:"State"`
		} `json:"PostOffice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", "", fmt.Errorf("decode directory response: %w", err)
	}

	if len(decoded) == 0 || len(decoded[0].PostOffice) == 0 {
		return "", "", ports.ErrNoMatch
	}

	po := decoded[0].PostOffice[0]
	if po.District == "" || po.State == "" {
		return "", "", ports.ErrNoMatch
	}

	return po.District, po.State, nil
}
