package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"delivery-serviceability-service/internal/domain"
	"delivery-serviceability-service/internal/platform/obs"
	"delivery-serviceability-service/internal/ports"
)

// ErrInvalidPincode rejects a malformed postal code before any network
// call is made.
var ErrInvalidPincode = errors.New("invalid pincode format")

var pincodePattern = regexp.MustCompile(`^\d{6}$`)

// CheckRequest is one incoming serviceability check.
type CheckRequest struct {
	Pincode string

	// Optional explicit delivery coordinate; when both parts are present
	// they bypass geocoding entirely.
	Lat string
	Lng string

	// Zero means "apply the configured default".
	WeightKg float64
	COD      bool
}

// CheckResult is the sole externally visible output of the pipeline:
// either a fully populated success or a failure with a message, never a
// partial mix.
type CheckResult struct {
	Success bool
	Message string

	DeliveryTime   string
	DeliveryCharge float64
	CourierName    string
	CourierID      string
	ETA            string
	ETDHours       float64
	Hyperlocal     bool
	ServiceTier    string
	TotalCouriers  int
	QuickCouriers  int
}

func failure(msg string) CheckResult {
	return CheckResult{Success: false, Message: msg}
}

// CoordinateResolver resolves a postal code to a coordinate plus the name
// of the source that produced it. Implementations never fail.
type CoordinateResolver interface {
	Resolve(ctx context.Context, pincode string) (domain.Coordinate, string)
}

// NormalizeFunc turns one raw upstream payload into normalized quotes.
type NormalizeFunc func(raw []byte) []domain.CourierQuote

// CheckerConfig carries the fixed shipment context for every check.
type CheckerConfig struct {
	PickupPostcode    string
	Pickup            domain.Coordinate
	DefaultWeightKg   float64
	AllowedPincodes   []string // empty means unrestricted
	ProviderFragments []string
}

// Checker runs the serviceability pipeline: validate, acquire credential,
// resolve delivery coordinate, query upstream, normalize, select.
type Checker struct {
	cfg       CheckerConfig
	tokens    ports.TokenSource
	resolver  CoordinateResolver
	gateway   ports.CourierGateway
	normalize NormalizeFunc
	allowed   map[string]struct{}
	logger    *slog.Logger
	metrics   *obs.Metrics
}

func NewChecker(
	cfg CheckerConfig,
	tokens ports.TokenSource,
	resolver CoordinateResolver,
	gateway ports.CourierGateway,
	normalize NormalizeFunc,
	logger *slog.Logger,
	metrics *obs.Metrics,
) *Checker {
	var allowed map[string]struct{}
	if len(cfg.AllowedPincodes) > 0 {
		allowed = make(map[string]struct{}, len(cfg.AllowedPincodes))
		for _, p := range cfg.AllowedPincodes {
			allowed[p] = struct{}{}
		}
	}

	return &Checker{
		cfg:       cfg,
		tokens:    tokens,
		resolver:  resolver,
		gateway:   gateway,
		normalize: normalize,
		allowed:   allowed,
		logger:    logger,
		metrics:   metrics,
	}
}

// Check answers "can this order be delivered there, and how fast?".
//
// Returned errors are limited to validation (ErrInvalidPincode) and
// credential failures; every other problem comes back as a soft
// failure result, which is the correct default for a user-facing
// delivery check.
func (c *Checker) Check(ctx context.Context, req CheckRequest) (_ CheckResult, err error) {
	defer obs.Time(ctx, c.logger, "serviceability.check")(&err)

	if !pincodePattern.MatchString(req.Pincode) {
		c.metrics.CountCheck("invalid_pincode")
		return CheckResult{}, fmt.Errorf("%w: %q", ErrInvalidPincode, req.Pincode)
	}

	if c.allowed != nil {
		if _, ok := c.allowed[req.Pincode]; !ok {
			c.metrics.CountCheck("restricted")
			return failure("We don't deliver to this pincode yet"), nil
		}
	}

	token, err := c.tokens.Acquire(ctx)
	if err != nil {
		c.metrics.CountCheck("unauthorized")
		return CheckResult{}, fmt.Errorf("acquire upstream credential: %w", err)
	}

	delivery := domain.Coordinate{Lat: req.Lat, Lng: req.Lng}
	if delivery.IsZero() {
		delivery, _ = c.resolver.Resolve(ctx, req.Pincode)
	}

	weight := req.WeightKg
	if weight <= 0 {
		weight = c.cfg.DefaultWeightKg
	}

	raw, err := c.gateway.Quotes(ctx, ports.QuoteParams{
		PickupPostcode:   c.cfg.PickupPostcode,
		DeliveryPostcode: req.Pincode,
		Pickup:           c.cfg.Pickup,
		Delivery:         delivery,
		WeightKg:         weight,
		COD:              req.COD,
	}, token)
	if err != nil {
		if errors.Is(err, ports.ErrUnauthorized) {
			// Drop the stale credential so the next request re-authenticates.
			c.tokens.Invalidate()
			c.metrics.CountCheck("unauthorized")
			return CheckResult{}, fmt.Errorf("serviceability query: %w", err)
		}
		c.logger.Warn("serviceability query failed",
			"req_id", obs.RequestID(ctx), "pincode", req.Pincode, "error", err)
		raw = nil
	}
	if raw == nil {
		c.metrics.CountCheck("not_serviceable")
		return failure("Delivery not available for this pincode"), nil
	}

	quotes := c.normalize(raw)
	sel, ok := domain.SelectCourier(quotes, c.cfg.ProviderFragments)
	if !ok {
		c.metrics.CountCheck("not_serviceable")
		return failure("No courier available for delivery to this pincode"), nil
	}

	c.metrics.CountCheck("serviceable")
	c.logger.Info("courier selected",
		"req_id", obs.RequestID(ctx), "pincode", req.Pincode,
		"courier", sel.Quote.Name, "etd_hours", sel.ETDHours, "tier", sel.ServiceTier)

	return CheckResult{
		Success:        true,
		DeliveryTime:   sel.DeliveryTime,
		DeliveryCharge: sel.Price,
		CourierName:    sel.Quote.Name,
		CourierID:      sel.Quote.CourierID,
		ETA:            sel.ETAText,
		ETDHours:       sel.ETDHours,
		Hyperlocal:     sel.Hyperlocal,
		ServiceTier:    sel.ServiceTier,
		TotalCouriers:  sel.TotalCouriers,
		QuickCouriers:  sel.QuickCouriers,
	}, nil
}
