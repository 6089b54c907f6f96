package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"delivery-serviceability-service/internal/domain"
)

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream courier aggregator.
	ShiprocketBaseURL  string
	ShiprocketEmail    string
	ShiprocketPassword string
	UpstreamTimeout    time.Duration

	// Warehouse pickup point sent with every serviceability query.
	PickupPostcode string
	PickupPoint    domain.Coordinate

	// Default shipment attributes when the caller omits them.
	DefaultWeightKg float64

	// Optional postal-code allow-list; empty means no restriction.
	AllowedPincodes []string

	// Courier-name fragments that qualify a quote as fast/hyperlocal.
	ProviderFragments []string

	// Geocoding providers.
	GeocodeBaseURL         string
	PostalDirectoryBaseURL string
	GeocodeTimeout         time.Duration
	FallbackPoint          domain.Coordinate
}

// Load reads configuration from environment variables, applying defaults
// where unset. Upstream credentials are the only required settings.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:  envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		ShiprocketBaseURL:  envOrDefault("SHIPROCKET_BASE_URL", "https://apiv2.shiprocket.in"),
		ShiprocketEmail:    os.Getenv("SHIPROCKET_EMAIL"),
		ShiprocketPassword: os.Getenv("SHIPROCKET_PASSWORD"),

		PickupPostcode: envOrDefault("PICKUP_POSTCODE", "110077"),

		GeocodeBaseURL:         envOrDefault("GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"),
		PostalDirectoryBaseURL: envOrDefault("POSTAL_DIRECTORY_BASE_URL", "https://api.postalpincode.in"),
	}

	if cfg.ShiprocketEmail == "" || cfg.ShiprocketPassword == "" {
		return nil, errors.New("SHIPROCKET_EMAIL and SHIPROCKET_PASSWORD are required")
	}
	if !pincodePattern.MatchString(cfg.PickupPostcode) {
		return nil, fmt.Errorf("PICKUP_POSTCODE %q is not a 6-digit PIN code", cfg.PickupPostcode)
	}

	var err error
	if cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.UpstreamTimeout, err = envDuration("UPSTREAM_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.GeocodeTimeout, err = envDuration("GEOCODE_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	if cfg.DefaultWeightKg, err = envFloat("DEFAULT_WEIGHT_KG", 0.5); err != nil {
		return nil, err
	}

	if cfg.PickupPoint, err = envCoordinate("PICKUP_LAT", "PICKUP_LNG", 28.4595, 77.0266); err != nil {
		return nil, err
	}
	// Delhi city centre; used when every geocoding source comes up empty.
	if cfg.FallbackPoint, err = envCoordinate("FALLBACK_LAT", "FALLBACK_LNG", 28.6139, 77.2090); err != nil {
		return nil, err
	}

	cfg.AllowedPincodes = envList("ALLOWED_PINCODES")
	for _, p := range cfg.AllowedPincodes {
		if !pincodePattern.MatchString(p) {
			return nil, fmt.Errorf("ALLOWED_PINCODES entry %q is not a 6-digit PIN code", p)
		}
	}

	cfg.ProviderFragments = envList("HYPERLOCAL_PROVIDERS")
	if len(cfg.ProviderFragments) == 0 {
		cfg.ProviderFragments = domain.DefaultProviderFragments
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string) []string {
	raw := os.Getenv(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return f, nil
}

func envCoordinate(latKey, lngKey string, latDefault, lngDefault float64) (domain.Coordinate, error) {
	lat, err := envFloat(latKey, latDefault)
	if err != nil {
		return domain.Coordinate{}, err
	}

	lng, err := envFloat(lngKey, lngDefault)
	if err != nil {
		return domain.Coordinate{}, err
	}
	return domain.NewCoordinate(lat, lng), nil
}
