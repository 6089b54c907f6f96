package shiprocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"delivery-serviceability-service/internal/platform/obs"
	"delivery-serviceability-service/internal/ports"
)

const (
	loginPath          = "/v1/external/auth/login"
	serviceabilityPath = "/v1/external/courier/serviceability/"
	quickOrderPath     = "/v1/external/orders/create/quick-ship"
	trackingPath       = "/v1/external/courier/track/shipment/"
)

// Credentials is the fixed identity used for the upstream login exchange.
type Credentials struct {
	Email    string
	Password string
}

// Client talks to the Shiprocket external API. Each call is a single
// best-effort attempt; transport failures on the serviceability endpoint
// degrade to a nil payload rather than an error.
//
// The client is safe for concurrent use.
type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *obs.Metrics
}

func NewClient(baseURL string, creds Credentials, timeout time.Duration, logger *slog.Logger, metrics *obs.Metrics) (*Client, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, errors.New("shiprocket credentials are empty")
	}

	return &Client{
		baseURL:    baseURL,
		creds:      creds,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		metrics:    metrics,
	}, nil
}

// Login performs the credential exchange and returns the bearer token.
func (c *Client) Login(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"email":    c.creds.Email,
		"password": c.creds.Password,
	})
	if err != nil {
		return "", fmt.Errorf("marshal login body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(body), "")
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveUpstream("login", time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("login request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("login: unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(b))
	}

	var decoded struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if decoded.Token == "" {
		return "", errors.New("login response carried no token")
	}

	return decoded.Token, nil
}

// Quotes fetches the raw serviceability payload for one shipment.
//
// A 401 comes back as ports.ErrUnauthorized so the caller can invalidate
// the cached token. Every other failure is logged and returns (nil, nil):
// the destination reads as not serviceable, which is the right default for
// a user-facing delivery check.
func (c *Client) Quotes(ctx context.Context, p ports.QuoteParams, token string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+serviceabilityPath, nil, token)
	if err != nil {
		return nil, err
	}

	cod := "0"
	if p.COD {
		cod = "1"
	}

	q := req.URL.Query()
	q.Set("pickup_postcode", p.PickupPostcode)
	q.Set("delivery_postcode", p.DeliveryPostcode)
	q.Set("weight", strconv.FormatFloat(p.WeightKg, 'f', -1, 64))
	q.Set("cod", cod)
	q.Set("is_new_hyperlocal", "1")
	q.Set("lat_from", p.Pickup.Lat)
	q.Set("long_from", p.Pickup.Lng)
	q.Set("lat_to", p.Delivery.Lat)
	q.Set("long_to", p.Delivery.Lng)
	req.URL.RawQuery = q.Encode()

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveUpstream("serviceability", time.Since(start).Seconds())
	if err != nil {
		c.logger.Warn("serviceability request failed",
			"req_id", obs.RequestID(ctx), "pincode", p.DeliveryPostcode, "error", err)
		return nil, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ports.ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		c.logger.Warn("serviceability returned error status",
			"req_id", obs.RequestID(ctx), "pincode", p.DeliveryPostcode,
			"status", resp.StatusCode, "body", string(bytes.TrimSpace(b)))
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("serviceability body read failed",
			"req_id", obs.RequestID(ctx), "pincode", p.DeliveryPostcode, "error", err)
		return nil, nil
	}

	return raw, nil
}

// CreateQuickOrder forwards a prepared quick-ship payload and relays the
// upstream response.
func (c *Client) CreateQuickOrder(ctx context.Context, payload map[string]any, token string) (map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal order payload: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+quickOrderPath, bytes.NewReader(body), token)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveUpstream("order", time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ports.ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("create order: unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(b))
	}

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}

	return decoded, nil
}

// TrackShipment relays the upstream tracking payload for a shipment.
func (c *Client) TrackShipment(ctx context.Context, shipmentID, token string) (json.RawMessage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+trackingPath+url.PathEscape(shipmentID), nil, token)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObserveUpstream("tracking", time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("tracking request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ports.ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("tracking: unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(b))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tracking response: %w", err)
	}

	return raw, nil
}

func (c *Client) newRequest(ctx context.Context, method, u string, body io.Reader, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
