package ports

import (
	"context"
	"delivery-serviceability-service/internal/domain"
	"encoding/json"
	"errors"
)

// ErrUnauthorized signals that the upstream rejected the bearer credential.
// Callers must invalidate the cached credential before surfacing failure.
var ErrUnauthorized = errors.New("upstream rejected credential")

// ErrAuthentication wraps failures of the upstream login exchange itself.
var ErrAuthentication = errors.New("upstream authentication failed")

// QuoteParams describes one serviceability query. Both postal codes and
// coordinate pairs are sent; the upstream accepts either and supplying both
// maximizes the hit rate across API versions.
type QuoteParams struct {
	PickupPostcode   string
	DeliveryPostcode string
	Pickup           domain.Coordinate
	Delivery         domain.Coordinate
	WeightKg         float64
	COD              bool
}

// Port: a boundary for fetching raw courier quotes from the upstream
// aggregator.
type CourierGateway interface {
	// Quotes returns the raw serviceability payload. A nil payload with a
	// nil error means the upstream call failed softly and the destination
	// should be treated as not serviceable.
	Quotes(ctx context.Context, p QuoteParams, token string) ([]byte, error)
}

// Port: order pass-through operations on the upstream aggregator.
type OrderGateway interface {
	// CreateQuickOrder forwards a prepared quick-ship payload.
	CreateQuickOrder(ctx context.Context, payload map[string]any, token string) (map[string]any, error)

	// TrackShipment relays the upstream tracking payload.
	TrackShipment(ctx context.Context, shipmentID, token string) (json.RawMessage, error)
}

// Port: session-credential lifecycle for the upstream API.
type TokenSource interface {
	// Acquire returns a valid bearer token, logging in when the cached one
	// is missing or expired.
	Acquire(ctx context.Context) (string, error)

	// Invalidate drops the cached token so the next Acquire re-authenticates.
	Invalidate()
}
